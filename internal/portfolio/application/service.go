package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/wyfcoding/optionrisk/internal/portfolio/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
)

// PortfolioQueryService 组合查询服务
type PortfolioQueryService struct {
	repo domain.PortfolioRepository
}

// NewPortfolioQueryService 创建组合查询服务
func NewPortfolioQueryService(repo domain.PortfolioRepository) *PortfolioQueryService {
	return &PortfolioQueryService{repo: repo}
}

// TopAssets 返回现值之和最大的 n 个资产，同值按资产 ID 升序
func (s *PortfolioQueryService) TopAssets(ctx context.Context, n int) ([]domain.AssetPortfolioSummary, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be at least 1, got %d", domain.ErrInvalidInput, n)
	}

	rows, err := s.repo.TopAssetsByPresentValue(ctx, n)
	if err != nil {
		logger.Error(ctx, "failed to query top assets", "n", n, "error", err)
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPresentValue != rows[j].TotalPresentValue {
			return rows[i].TotalPresentValue > rows[j].TotalPresentValue
		}
		return rows[i].AssetID < rows[j].AssetID
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}
