package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/metrics"
)

const wideTableCachePrefix = "riskgrid:table:"

// RiskQueryService 风险曲面查询，持有只读数据集
type RiskQueryService struct {
	dataset *domain.Dataset
	cache   domain.WideTableCache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRiskQueryService 创建查询服务，cache 与 m 可为 nil
func NewRiskQueryService(dataset *domain.Dataset, cache domain.WideTableCache, ttl time.Duration, m *metrics.Metrics) *RiskQueryService {
	return &RiskQueryService{
		dataset: dataset,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
	}
}

// GetDates 数据集日期范围、可选指标与日期刻度
func (s *RiskQueryService) GetDates(ctx context.Context) (*DatesDTO, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	dto := &DatesDTO{
		Dates:   []string{},
		Metrics: []string{},
		Marks:   []DateMarkDTO{},
	}
	for _, d := range s.dataset.Dates() {
		dto.Dates = append(dto.Dates, d.Format(domain.DateLayout))
	}
	for _, m := range s.dataset.Metrics() {
		dto.Metrics = append(dto.Metrics, string(m))
	}
	minDate, maxDate, ok := s.dataset.DateRange()
	if !ok {
		return dto, nil
	}
	dto.MinDate = minDate.Format(domain.DateLayout)
	dto.MaxDate = maxDate.Format(domain.DateLayout)
	for _, mark := range domain.DateMarks(minDate, maxDate) {
		dto.Marks = append(dto.Marks, DateMarkDTO{Date: mark.Date.Format(domain.DateLayout), Label: mark.Label})
	}
	return dto, nil
}

// GetRiskSeries 某日某指标按现价排序的序列
func (s *RiskQueryService) GetRiskSeries(ctx context.Context, date time.Time, metric domain.Metric) ([]SeriesPointDTO, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, metric)
	}
	series, err := s.dataset.Series(date, metric)
	if err != nil {
		return nil, err
	}
	out := make([]SeriesPointDTO, 0, len(series))
	for _, p := range series {
		out = append(out, SeriesPointDTO{Spot: p.Spot, Value: p.Value})
	}
	return out, nil
}

// GetWideTable 起止两个快照（或单日）的宽表，命中缓存时直接返回
func (s *RiskQueryService) GetWideTable(ctx context.Context, q WideTableQuery) (*WideTableDTO, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := domain.ValidateGap(q.Gap); err != nil {
		return nil, err
	}
	if q.End.IsZero() {
		q.End = q.Start
	}
	if q.End.Before(q.Start) {
		return nil, fmt.Errorf("%w: end %s before start %s", domain.ErrInvalidRange,
			q.End.Format(domain.DateLayout), q.Start.Format(domain.DateLayout))
	}

	key := s.cacheKey(q)
	if s.cache != nil {
		var cached WideTableDTO
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			s.observeCache("error")
			logger.Warn(ctx, "wide table cache read failed", "key", key, "error", err)
		case found:
			s.observeCache("hit")
			return &cached, nil
		default:
			s.observeCache("miss")
		}
	}

	records, err := s.dataset.Snapshots(q.Start, q.End)
	if err != nil {
		return nil, err
	}
	table, err := domain.BuildWideTable(records, q.Gap)
	if err != nil {
		return nil, err
	}
	if table.Collisions > 0 {
		logger.Warn(ctx, "duplicate risk records summed", "collisions", table.Collisions)
	}

	dto := toWideTableDTO(table, domain.RangeCaption(q.Start, q.End))
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dto, s.ttl); err != nil {
			logger.Warn(ctx, "wide table cache write failed", "key", key, "error", err)
		}
	}
	return dto, nil
}

// GetSnapshotDiff 两个快照间某指标按现价的变化
func (s *RiskQueryService) GetSnapshotDiff(ctx context.Context, start, end time.Time, metric domain.Metric) ([]SpotChangeDTO, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, metric)
	}
	startRecs, err := s.dataset.MetricRecordsOn(start, metric)
	if err != nil {
		return nil, err
	}
	endRecs, err := s.dataset.MetricRecordsOn(end, metric)
	if err != nil {
		return nil, err
	}

	changes := domain.DiffSnapshots(startRecs, endRecs)
	out := make([]SpotChangeDTO, 0, len(changes))
	for _, c := range changes {
		dto := SpotChangeDTO{
			Spot:    c.Spot,
			Metric:  string(c.Metric),
			End:     c.End,
			Start:   c.Start,
			Change:  c.Change,
			Display: domain.NotAvailable,
		}
		if c.Defined() {
			dto.Display = domain.FormatValue(*c.Change)
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *RiskQueryService) cacheKey(q WideTableQuery) string {
	return fmt.Sprintf("%s%s:%s:%s:%d", wideTableCachePrefix, s.dataset.Fingerprint(),
		q.Start.Format(domain.DateLayout), q.End.Format(domain.DateLayout), q.Gap)
}

func (s *RiskQueryService) observeCache(result string) {
	if s.metrics != nil {
		s.metrics.ObserveCache(result)
	}
}

func toWideTableDTO(t *domain.WideTable, caption string) *WideTableDTO {
	dto := &WideTableDTO{
		Caption:    caption,
		Gap:        t.Gap,
		Columns:    make([]ColumnDTO, 0, len(t.Columns)),
		Rows:       make([]WideRowDTO, 0, len(t.Rows)),
		Collisions: t.Collisions,
	}
	for _, c := range t.Columns {
		if c.IsSpot() {
			dto.Columns = append(dto.Columns, ColumnDTO{Name: c.Name, Kind: "spot", Spot: c.Spot})
		} else {
			dto.Columns = append(dto.Columns, ColumnDTO{Name: c.Name, Kind: "identifier"})
		}
	}

	spots := t.SpotColumns()
	for _, r := range t.Rows {
		row := WideRowDTO{
			Date:     r.Date.Format(domain.DateLayout),
			PlotType: string(r.Metric),
			Cells:    make([]CellDTO, 0, len(spots)),
		}
		for _, spot := range spots {
			cell := r.Cell(spot)
			c := CellDTO{Spot: spot, Display: domain.FormatCell(cell)}
			if cell.Valid {
				v := cell.Value
				c.Value = &v
				c.Negative = domain.IsNegative(v)
			}
			row.Cells = append(row.Cells, c)
		}
		dto.Rows = append(dto.Rows, row)
	}
	return dto
}
