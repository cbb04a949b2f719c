package domain

import "fmt"

// ComputeSurface 逐点计算 Greeks，按报价口径换算后乘合约乘数，
// 每个网格点输出 5 条记录，顺序为 delta, gamma, theta, vega, value。
// 任一网格点出现域外输入即整体失败，不输出部分结果。
func ComputeSurface(points []RiskPoint, contract ContractSpec) ([]RiskRecord, error) {
	multiplier := contract.Multiplier
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}

	records := make([]RiskRecord, 0, len(points)*len(Metrics))
	for _, p := range points {
		g, err := Evaluate(p)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s spot=%d: %w", p.EvaluationDate.Format(DateLayout), p.Spot, err)
		}
		g = g.Quote(contract.Convention).Scale(multiplier)
		for _, m := range Metrics {
			records = append(records, RiskRecord{
				Date:   p.EvaluationDate,
				Spot:   p.Spot,
				Metric: m,
				Value:  g.Get(m),
			})
		}
	}
	return records, nil
}
