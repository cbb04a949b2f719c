package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotAvailable 缺失单元格的显示值
const NotAvailable = "N/A"

// IsNegative 负值判定，格式化括号与高亮共用
func IsNegative(v float64) bool {
	return v < 0
}

// FormatValue 保留两位小数，负数以括号包裹，例如 -1.234 -> (1.23)
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	s := decimal.NewFromFloat(math.Abs(v)).StringFixed(2)
	if IsNegative(v) {
		return "(" + s + ")"
	}
	return s
}

// FormatCell 格式化单元格
func FormatCell(c Cell) string {
	if !c.Valid {
		return NotAvailable
	}
	return FormatValue(c.Value)
}
