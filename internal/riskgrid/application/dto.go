package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateSurfaceCommand 曲面批处理命令
type GenerateSurfaceCommand struct {
	ExpiryDate time.Time
	// 零值表示今天
	StartDate time.Time
	SpotMin   int
	SpotMax   int

	Strike        float64
	Volatility    float64
	RiskFreeRate  float64
	DividendYield float64
	OptionType    string
	Multiplier    float64
	Convention    string
}

// SurfaceRunDTO 批处理结果
type SurfaceRunDTO struct {
	RunID    string        `json:"run_id"`
	Points   int           `json:"points"`
	Records  int           `json:"records"`
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
}

// DateMarkDTO 日期刻度
type DateMarkDTO struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// DatesDTO 数据集日期概览
type DatesDTO struct {
	MinDate string        `json:"min_date,omitempty"`
	MaxDate string        `json:"max_date,omitempty"`
	Dates   []string      `json:"dates"`
	Metrics []string      `json:"metrics"`
	Marks   []DateMarkDTO `json:"marks"`
}

// SeriesPointDTO 风险序列中的一个点
type SeriesPointDTO struct {
	Spot  int     `json:"spot"`
	Value float64 `json:"value"`
}

// WideTableQuery 宽表查询，Start 与 End 相同时为单日
type WideTableQuery struct {
	Start time.Time
	End   time.Time
	Gap   int
}

// ColumnDTO 宽表列
type ColumnDTO struct {
	Name string `json:"name"`
	// identifier 或 spot
	Kind string `json:"kind"`
	Spot int    `json:"spot,omitempty"`
}

// CellDTO 宽表单元格，Value 为空表示缺失
type CellDTO struct {
	Spot     int      `json:"spot"`
	Display  string   `json:"display"`
	Value    *float64 `json:"value"`
	Negative bool     `json:"negative"`
}

// WideRowDTO 宽表行
type WideRowDTO struct {
	Date     string    `json:"date"`
	PlotType string    `json:"plot_type"`
	Cells    []CellDTO `json:"cells"`
}

// WideTableDTO 宽表
type WideTableDTO struct {
	Caption    string       `json:"caption"`
	Gap        int          `json:"gap"`
	Columns    []ColumnDTO  `json:"columns"`
	Rows       []WideRowDTO `json:"rows"`
	Collisions int          `json:"collisions"`
}

// SpotChangeDTO 两个快照之间的变化，起始缺失时 Start 与 Change 为 null
type SpotChangeDTO struct {
	Spot    int      `json:"spot"`
	Metric  string   `json:"plot_type"`
	End     float64  `json:"end"`
	Start   *float64 `json:"start"`
	Change  *float64 `json:"change"`
	Display string   `json:"display"`
}

// PriceOptionCommand 单个期权定价请求，Volatility 非正时由 Price 反推
type PriceOptionCommand struct {
	OptionType    string  `json:"type" binding:"required"`
	Spot          float64 `json:"spot" binding:"required"`
	Strike        float64 `json:"strike" binding:"required"`
	RiskFreeRate  float64 `json:"risk_free_rate"`
	DividendYield float64 `json:"div_yield"`
	Volatility    float64 `json:"sigma"`
	Price         float64 `json:"price"`
	// YYYYMMDD 或 YYYY-MM-DD
	EvalDate   string `json:"eval_date" binding:"required"`
	ExpDate    string `json:"exp_date" binding:"required"`
	Convention string `json:"convention"`
}

// OptionQuoteDTO 定价结果
type OptionQuoteDTO struct {
	OptionType   string          `json:"type"`
	TimeToExpiry decimal.Decimal `json:"time_to_expiry"`
	Volatility   decimal.Decimal `json:"sigma"`
	Implied      bool            `json:"implied"`
	Price        decimal.Decimal `json:"price"`
	Delta        decimal.Decimal `json:"delta"`
	Gamma        decimal.Decimal `json:"gamma"`
	Theta        decimal.Decimal `json:"theta"`
	Vega         decimal.Decimal `json:"vega"`
	Convention   string          `json:"convention"`
}
