package application

import (
	"context"
	"time"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

// RiskGridService 风险曲面门面，对外统一暴露命令与查询
type RiskGridService struct {
	Command *SurfaceCommandService
	Query   *RiskQueryService
	Pricing *PricingQueryService
}

// NewRiskGridService 组装门面，各子服务可为 nil（例如 serve 不需要批处理）
func NewRiskGridService(command *SurfaceCommandService, query *RiskQueryService, pricing *PricingQueryService) *RiskGridService {
	return &RiskGridService{
		Command: command,
		Query:   query,
		Pricing: pricing,
	}
}

// --- Command (Writes) ---

func (s *RiskGridService) GenerateSurface(ctx context.Context, cmd GenerateSurfaceCommand) (*SurfaceRunDTO, error) {
	return s.Command.GenerateSurface(ctx, cmd)
}

// --- Query (Reads) ---

func (s *RiskGridService) GetDates(ctx context.Context) (*DatesDTO, error) {
	return s.Query.GetDates(ctx)
}

func (s *RiskGridService) GetRiskSeries(ctx context.Context, date time.Time, metric domain.Metric) ([]SeriesPointDTO, error) {
	return s.Query.GetRiskSeries(ctx, date, metric)
}

func (s *RiskGridService) GetWideTable(ctx context.Context, q WideTableQuery) (*WideTableDTO, error) {
	return s.Query.GetWideTable(ctx, q)
}

func (s *RiskGridService) GetSnapshotDiff(ctx context.Context, start, end time.Time, metric domain.Metric) ([]SpotChangeDTO, error) {
	return s.Query.GetSnapshotDiff(ctx, start, end, metric)
}

func (s *RiskGridService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*OptionQuoteDTO, error) {
	return s.Pricing.PriceOption(ctx, cmd)
}
