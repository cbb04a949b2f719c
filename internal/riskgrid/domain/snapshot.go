package domain

import "sort"

// SpotChange 两个快照间同一 (spot, metric) 的变化。
// 起始快照缺失该现价时 Start 与 Change 为 nil，不按 0 计算。
type SpotChange struct {
	Spot   int
	Metric Metric
	End    float64
	Start  *float64
	Change *float64
}

// Defined 变化值是否有定义
func (c SpotChange) Defined() bool { return c.Change != nil }

type spotMetric struct {
	spot   int
	metric Metric
}

func sumBySpotMetric(records []RiskRecord) map[spotMetric]float64 {
	out := make(map[spotMetric]float64, len(records))
	for _, r := range records {
		out[spotMetric{spot: r.Spot, metric: r.Metric}] += r.Value
	}
	return out
}

// DiffSnapshots 以结束快照为左表按 (spot, metric) 连接起始快照，Change = end - start。
// 结果按指标名、现价升序排列。
func DiffSnapshots(start, end []RiskRecord) []SpotChange {
	startVals := sumBySpotMetric(start)
	endVals := sumBySpotMetric(end)

	changes := make([]SpotChange, 0, len(endVals))
	for key, endVal := range endVals {
		c := SpotChange{Spot: key.spot, Metric: key.metric, End: endVal}
		if startVal, ok := startVals[key]; ok {
			sv := startVal
			diff := endVal - startVal
			c.Start = &sv
			c.Change = &diff
		}
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Metric != changes[j].Metric {
			return changes[i].Metric < changes[j].Metric
		}
		return changes[i].Spot < changes[j].Spot
	})
	return changes
}
