package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	MinGap = 1
	MaxGap = 10
)

// ColumnKind 宽表列类型
type ColumnKind int

const (
	// ColumnIdentifier 标识列：date / plot_type
	ColumnIdentifier ColumnKind = iota
	// ColumnSpotValue 现价列，列名为现价本身
	ColumnSpotValue
)

// 标识列名
const (
	ColumnDate     = "date"
	ColumnPlotType = "plot_type"
)

// Column 宽表列，构造时即确定类型
type Column struct {
	Kind ColumnKind
	Name string
	Spot int
}

// IdentifierColumn 构造标识列
func IdentifierColumn(name string) Column {
	return Column{Kind: ColumnIdentifier, Name: name}
}

// SpotColumn 构造现价列
func SpotColumn(spot int) Column {
	return Column{Kind: ColumnSpotValue, Name: strconv.Itoa(spot), Spot: spot}
}

// IsSpot 是否为现价列
func (c Column) IsSpot() bool { return c.Kind == ColumnSpotValue }

// Cell 宽表单元格，Valid 为 false 表示缺失
type Cell struct {
	Value float64
	Valid bool
}

// WideRow 以 (date, metric) 为键的一行
type WideRow struct {
	Date   time.Time
	Metric Metric
	Cells  map[int]Cell
}

// Cell 取某现价列的单元格，不存在时返回缺失单元格
func (r WideRow) Cell(spot int) Cell {
	return r.Cells[spot]
}

// WideTable 宽表
type WideTable struct {
	Columns []Column
	Rows    []WideRow
	Gap     int
	// 重复 (date, spot, metric) 被求和的次数
	Collisions int
}

// SpotColumns 现价列，升序
func (t *WideTable) SpotColumns() []int {
	spots := make([]int, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.IsSpot() {
			spots = append(spots, c.Spot)
		}
	}
	return spots
}

// Render 按列顺序渲染一行，数值用 FormatValue，缺失为 NotAvailable
func (t *WideTable) Render(r WideRow) []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		switch {
		case c.Kind == ColumnIdentifier && c.Name == ColumnDate:
			out = append(out, r.Date.Format(DateLayout))
		case c.Kind == ColumnIdentifier:
			out = append(out, string(r.Metric))
		default:
			out = append(out, FormatCell(r.Cell(c.Spot)))
		}
	}
	return out
}

// ValidateGap 校验 gap 取值范围
func ValidateGap(gap int) error {
	if gap < MinGap || gap > MaxGap {
		return fmt.Errorf("%w: gap must be in [%d,%d], got %d", ErrInvalidGap, MinGap, MaxGap, gap)
	}
	return nil
}

type rowKey struct {
	date   time.Time
	metric Metric
}

// BuildWideTable 长表转宽表：按 (date, metric) 分组，现价展开为列，
// 仅保留 spot % gap == 0 的现价列。重复键求和并计入 Collisions。
// 行按日期升序、指标名升序排列。
func BuildWideTable(records []RiskRecord, gap int) (*WideTable, error) {
	if err := ValidateGap(gap); err != nil {
		return nil, err
	}

	observed := make(map[int]struct{})
	for _, rec := range records {
		observed[rec.Spot] = struct{}{}
	}
	kept := make([]int, 0, len(observed))
	for spot := range observed {
		if spot%gap == 0 {
			kept = append(kept, spot)
		}
	}
	sort.Ints(kept)
	keep := make(map[int]struct{}, len(kept))
	for _, s := range kept {
		keep[s] = struct{}{}
	}

	table := &WideTable{
		Columns: make([]Column, 0, len(kept)+2),
		Gap:     gap,
	}
	table.Columns = append(table.Columns, IdentifierColumn(ColumnDate), IdentifierColumn(ColumnPlotType))
	for _, s := range kept {
		table.Columns = append(table.Columns, SpotColumn(s))
	}

	type seenKey struct {
		row  rowKey
		spot int
	}
	seen := make(map[seenKey]struct{}, len(records))
	rows := make(map[rowKey]*WideRow)
	for _, rec := range records {
		key := rowKey{date: truncateDay(rec.Date), metric: rec.Metric}
		sk := seenKey{row: key, spot: rec.Spot}
		if _, dup := seen[sk]; dup {
			table.Collisions++
		} else {
			seen[sk] = struct{}{}
		}

		row, ok := rows[key]
		if !ok {
			row = &WideRow{Date: key.date, Metric: key.metric, Cells: make(map[int]Cell, len(kept))}
			rows[key] = row
		}
		if _, ok := keep[rec.Spot]; !ok {
			continue
		}
		cell := row.Cells[rec.Spot]
		cell.Value += rec.Value
		cell.Valid = true
		row.Cells[rec.Spot] = cell
	}

	table.Rows = make([]WideRow, 0, len(rows))
	for _, row := range rows {
		table.Rows = append(table.Rows, *row)
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Metric < b.Metric
	})
	return table, nil
}
