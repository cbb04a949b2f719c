// Package domain 投资组合聚合：标的资产、期权持仓与按现值汇总
package domain

import (
	"time"

	riskdomain "github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

// 与风险曲面共用的错误定义
var (
	ErrInvalidInput       = riskdomain.ErrInvalidInput
	ErrStorageUnavailable = riskdomain.ErrStorageUnavailable
)

// Asset 标的资产
type Asset struct {
	ID        uint     `gorm:"column:id;primaryKey" json:"id"`
	AssetName string   `gorm:"column:asset_name;type:varchar(20);not null" json:"asset_name"`
	Ticker    string   `gorm:"column:ticker;type:varchar(10);not null" json:"ticker"`
	Options   []Option `gorm:"foreignKey:AssetID" json:"-"`
}

// Option 期权持仓，Greeks 与现值由外部录入
type Option struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	AssetID      uint      `gorm:"column:asset_id;index;not null" json:"asset_id"`
	CurrentDate  time.Time `gorm:"column:current_date;not null" json:"current_date"`
	ExpiryDate   time.Time `gorm:"column:expiry_date;not null" json:"expiry_date"`
	Multiplier   int       `gorm:"column:multiplier;not null" json:"multiplier"`
	DayCount     float64   `gorm:"column:day_count;not null" json:"day_count"`
	Delta        float64   `gorm:"column:delta;not null" json:"delta"`
	Gamma        float64   `gorm:"column:gamma;not null" json:"gamma"`
	Theta        float64   `gorm:"column:theta;not null" json:"theta"`
	Vega         float64   `gorm:"column:vega;not null" json:"vega"`
	PresentValue float64   `gorm:"column:present_value;not null" json:"present_value"`
}

func (Asset) TableName() string  { return "Assets" }
func (Option) TableName() string { return "Options" }

// AssetPortfolioSummary 某资产下全部期权现值之和
type AssetPortfolioSummary struct {
	AssetID           uint    `json:"asset_id"`
	AssetName         string  `json:"asset_name"`
	Ticker            string  `json:"ticker"`
	TotalPresentValue float64 `json:"total_present_value"`
}
