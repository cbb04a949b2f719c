package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/metrics"
)

// SurfaceCommandService 风险曲面批处理：生成网格、计算 Greeks、写出平面文件并发布事件
type SurfaceCommandService struct {
	sink      domain.RecordSink
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	path      string
	now       func() time.Time
}

// NewSurfaceCommandService 创建批处理服务，publisher 与 m 可为 nil
func NewSurfaceCommandService(sink domain.RecordSink, publisher domain.EventPublisher, m *metrics.Metrics, path string) *SurfaceCommandService {
	return &SurfaceCommandService{
		sink:      sink,
		publisher: publisher,
		metrics:   m,
		path:      path,
		now:       time.Now,
	}
}

// WithClock 替换时钟，用于确定“今天”
func (s *SurfaceCommandService) WithClock(now func() time.Time) *SurfaceCommandService {
	s.now = now
	return s
}

// GenerateSurface 执行一次批处理。事件发布失败只记录日志，不影响已写出的文件。
func (s *SurfaceCommandService) GenerateSurface(ctx context.Context, cmd GenerateSurfaceCommand) (*SurfaceRunDTO, error) {
	runID := uuid.New().String()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)
	began := time.Now()
	finished := logger.LogDuration(ctx, "surface generated", "path", s.path)
	start := s.now()

	contract, err := cmd.contract()
	if err != nil {
		return nil, err
	}
	spec := domain.GridSpec{
		ExpiryDate: cmd.ExpiryDate,
		StartDate:  cmd.StartDate,
		SpotMin:    cmd.SpotMin,
		SpotMax:    cmd.SpotMax,
	}

	points, err := domain.GenerateGridAt(spec, contract, start)
	if err != nil {
		logger.Error(ctx, "failed to generate grid", "error", err)
		return nil, err
	}
	if len(points) == 0 {
		logger.Warn(ctx, "grid is empty, expiry is not after start date",
			"expiry_date", cmd.ExpiryDate.Format(domain.DateLayout))
	}

	records, err := domain.ComputeSurface(points, contract)
	if err != nil {
		logger.Error(ctx, "failed to compute surface", "points", len(points), "error", err)
		return nil, err
	}

	if err := s.sink.Write(ctx, records); err != nil {
		logger.Error(ctx, "failed to write surface", "path", s.path, "error", err)
		return nil, err
	}

	elapsed := time.Since(began)
	if s.metrics != nil {
		s.metrics.ObserveBatch(len(points), len(records), elapsed)
	}
	finished("points", len(points), "records", len(records))

	if s.publisher != nil {
		startDate := cmd.StartDate
		if startDate.IsZero() {
			startDate = start
		}
		event := domain.SurfaceGeneratedEvent{
			RunID:       runID,
			ExpiryDate:  cmd.ExpiryDate.Format(domain.DateLayout),
			StartDate:   startDate.Format(domain.DateLayout),
			SpotMin:     cmd.SpotMin,
			SpotMax:     cmd.SpotMax,
			OptionType:  contract.OptionType,
			Strike:      contract.Strike,
			Points:      len(points),
			Records:     len(records),
			Path:        s.path,
			GeneratedAt: s.now().UnixMilli(),
			OccurredOn:  s.now(),
		}
		if err := s.publisher.PublishSurfaceGenerated(ctx, event); err != nil {
			logger.Warn(ctx, "failed to publish surface generated event", "error", err)
		}
	}

	return &SurfaceRunDTO{
		RunID:    runID,
		Points:   len(points),
		Records:  len(records),
		Path:     s.path,
		Duration: elapsed,
	}, nil
}

func (cmd GenerateSurfaceCommand) contract() (domain.ContractSpec, error) {
	optType, err := domain.ParseOptionType(cmd.OptionType)
	if err != nil {
		return domain.ContractSpec{}, err
	}
	convention, err := domain.ParseConvention(cmd.Convention)
	if err != nil {
		return domain.ContractSpec{}, err
	}
	if cmd.Strike <= 0 || cmd.Volatility <= 0 {
		return domain.ContractSpec{}, fmt.Errorf("%w: strike and volatility must be positive, got K=%v sigma=%v",
			domain.ErrDomain, cmd.Strike, cmd.Volatility)
	}
	return domain.ContractSpec{
		Strike:        cmd.Strike,
		Volatility:    cmd.Volatility,
		RiskFreeRate:  cmd.RiskFreeRate,
		DividendYield: cmd.DividendYield,
		OptionType:    optType,
		Multiplier:    cmd.Multiplier,
		Convention:    convention,
	}, nil
}
