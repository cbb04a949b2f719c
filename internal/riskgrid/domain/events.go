package domain

import "time"

// SurfaceGeneratedEventType 曲面生成完成事件类型
const SurfaceGeneratedEventType = "SurfaceGenerated"

// SurfaceGeneratedEvent 批处理写出曲面后发布
type SurfaceGeneratedEvent struct {
	RunID       string     `json:"run_id"`
	ExpiryDate  string     `json:"expiry_date"`
	StartDate   string     `json:"start_date"`
	SpotMin     int        `json:"spot_min"`
	SpotMax     int        `json:"spot_max"`
	OptionType  OptionType `json:"option_type"`
	Strike      float64    `json:"strike"`
	Points      int        `json:"points"`
	Records     int        `json:"records"`
	Path        string     `json:"path"`
	GeneratedAt int64      `json:"generated_at"`
	OccurredOn  time.Time  `json:"occurred_on"`
}
