package domain

import (
	"fmt"
	"time"
)

// Validate 校验现价区间
func (s GridSpec) Validate() error {
	if s.SpotMin <= 0 || s.SpotMax <= 0 {
		return fmt.Errorf("%w: spot bounds must be positive, got [%d,%d]", ErrInvalidRange, s.SpotMin, s.SpotMax)
	}
	if s.SpotMin > s.SpotMax {
		return fmt.Errorf("%w: spot_min %d > spot_max %d", ErrInvalidRange, s.SpotMin, s.SpotMax)
	}
	return nil
}

// GenerateGrid 以当天为缺省起始日生成网格
func GenerateGrid(spec GridSpec, contract ContractSpec) ([]RiskPoint, error) {
	return GenerateGridAt(spec, contract, time.Now())
}

// GenerateGridAt 生成 (剩余天数 × 现价) 网格。
// 天数偏移 t 取 1..days-1，不含起始日与到期日；外层 t 升序，内层现价升序。
// 到期日不晚于起始日时返回空网格。
func GenerateGridAt(spec GridSpec, contract ContractSpec, today time.Time) ([]RiskPoint, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	expiry := truncateDay(spec.ExpiryDate)
	start := spec.StartDate
	if start.IsZero() {
		start = today
	}
	start = truncateDay(start)

	days := DaysBetween(start, expiry)
	if days <= 1 {
		return []RiskPoint{}, nil
	}

	spots := spec.SpotMax - spec.SpotMin + 1
	points := make([]RiskPoint, 0, (days-1)*spots)
	for t := 1; t < days; t++ {
		evalDate := expiry.AddDate(0, 0, -t)
		tau := float64(t) / DaysPerYear
		for spot := spec.SpotMin; spot <= spec.SpotMax; spot++ {
			points = append(points, RiskPoint{
				EvaluationDate: evalDate,
				ExpiryDate:     expiry,
				TimeToExpiry:   tau,
				Spot:           spot,
				Strike:         contract.Strike,
				Volatility:     contract.Volatility,
				RiskFreeRate:   contract.RiskFreeRate,
				DividendYield:  contract.DividendYield,
				OptionType:     contract.OptionType,
			})
		}
	}
	return points, nil
}

// DaysBetween 两个日期之间的自然日数（to - from），按 UTC 日期计算
func DaysBetween(from, to time.Time) int {
	return int(truncateDay(to).Sub(truncateDay(from)).Hours() / 24)
}
