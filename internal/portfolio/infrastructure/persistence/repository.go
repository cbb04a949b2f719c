package persistence

import (
	"context"
	"fmt"

	"github.com/wyfcoding/optionrisk/internal/portfolio/domain"
	"github.com/wyfcoding/optionrisk/pkg/db"
	"gorm.io/gorm"
)

// PortfolioRepository 基于 GORM 的组合仓储
type PortfolioRepository struct {
	db *gorm.DB
}

var _ domain.PortfolioRepository = (*PortfolioRepository)(nil)

// NewPortfolioRepository 创建组合仓储
func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Open 打开关系库；sqlite 文件必须已存在
func Open(cfg db.Config) (*db.DB, error) {
	cfg.MustExist = true
	conn, err := db.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return conn, nil
}

// AutoMigrate 建表，仅用于测试与本地初始化
func (r *PortfolioRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Asset{}, &domain.Option{})
}

// TopAssetsByPresentValue Assets 内连接 Options，按资产分组求现值和
func (r *PortfolioRepository) TopAssetsByPresentValue(ctx context.Context, n int) ([]domain.AssetPortfolioSummary, error) {
	q := r.db.Statement.Quote
	total := fmt.Sprintf("SUM(%s)", q("Options.present_value"))

	var rows []domain.AssetPortfolioSummary
	err := r.db.WithContext(ctx).
		Table(domain.Asset{}.TableName()).
		Select(fmt.Sprintf("%s AS asset_id, %s AS asset_name, %s AS ticker, %s AS total_present_value",
			q("Assets.id"), q("Assets.asset_name"), q("Assets.ticker"), total)).
		Joins(fmt.Sprintf("JOIN %s ON %s = %s", q("Options"), q("Options.asset_id"), q("Assets.id"))).
		Group(fmt.Sprintf("%s, %s, %s", q("Assets.id"), q("Assets.asset_name"), q("Assets.ticker"))).
		Order(fmt.Sprintf("%s DESC, %s ASC", total, q("Assets.id"))).
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return rows, nil
}
