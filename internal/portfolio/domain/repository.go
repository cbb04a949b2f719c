package domain

import "context"

// PortfolioRepository 组合只读仓储
type PortfolioRepository interface {
	// TopAssetsByPresentValue 按现值和降序、资产 ID 升序返回前 n 个资产
	TopAssetsByPresentValue(ctx context.Context, n int) ([]AssetPortfolioSummary, error)
}
