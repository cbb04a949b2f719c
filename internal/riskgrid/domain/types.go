// Package domain 风险曲面领域模型：网格、Black-Scholes Greeks、长表转宽表与快照差分
package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout 平面文件与查询参数中的日期格式
const DateLayout = "2006-01-02"

// DaysPerYear ACT/365 计日
const DaysPerYear = 365.0

// DefaultMultiplier 默认合约乘数
const DefaultMultiplier = 1000.0

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

// ParseOptionType 解析期权类型，接受 call/put 及 c/p 缩写（大小写不敏感）
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return OptionTypeCall, nil
	case "put", "p":
		return OptionTypePut, nil
	default:
		return "", fmt.Errorf("%w: unknown option type %q", ErrInvalidInput, s)
	}
}

// Metric 风险指标
type Metric string

const (
	MetricDelta Metric = "delta"
	MetricGamma Metric = "gamma"
	MetricTheta Metric = "theta"
	MetricVega  Metric = "vega"
	MetricValue Metric = "value"
)

// Metrics 每个网格点输出的指标，顺序即写出顺序
var Metrics = []Metric{MetricDelta, MetricGamma, MetricTheta, MetricVega, MetricValue}

// ParseMetric 解析指标名
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, s)
	}
	return m, nil
}

// Valid 是否为已知指标
func (m Metric) Valid() bool {
	switch m {
	case MetricDelta, MetricGamma, MetricTheta, MetricVega, MetricValue:
		return true
	}
	return false
}

// Convention theta/vega 的报价口径
type Convention string

const (
	// ConventionMarket theta 按自然日、vega 按 1 个波动率点
	ConventionMarket Convention = "market"
	// ConventionAnalytic 原始偏导数：theta 按年、vega 按单位波动率
	ConventionAnalytic Convention = "analytic"
)

// ParseConvention 解析报价口径，空串为 analytic
func ParseConvention(s string) (Convention, error) {
	switch Convention(strings.ToLower(strings.TrimSpace(s))) {
	case "", ConventionAnalytic:
		return ConventionAnalytic, nil
	case ConventionMarket:
		return ConventionMarket, nil
	default:
		return "", fmt.Errorf("%w: unknown convention %q", ErrInvalidInput, s)
	}
}

// ContractSpec 单次批处理内固定的合约参数
type ContractSpec struct {
	Strike        float64
	Volatility    float64
	RiskFreeRate  float64
	DividendYield float64
	OptionType    OptionType
	Multiplier    float64
	Convention    Convention
}

// GridSpec 网格参数，StartDate 为零值时取当天
type GridSpec struct {
	ExpiryDate time.Time
	StartDate  time.Time
	SpotMin    int
	SpotMax    int
}

// RiskPoint 一个网格单元
type RiskPoint struct {
	EvaluationDate time.Time
	ExpiryDate     time.Time
	// 年化剩余期限（ACT/365），恒大于 0
	TimeToExpiry  float64
	Spot          int
	Strike        float64
	Volatility    float64
	RiskFreeRate  float64
	DividendYield float64
	OptionType    OptionType
}

// RiskRecord 长表中的一行
type RiskRecord struct {
	Date   time.Time
	Spot   int
	Metric Metric
	Value  float64
}

// Greeks Black-Scholes 价格与敏感度
type Greeks struct {
	Value float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

// Get 取指定指标
func (g Greeks) Get(m Metric) float64 {
	switch m {
	case MetricDelta:
		return g.Delta
	case MetricGamma:
		return g.Gamma
	case MetricTheta:
		return g.Theta
	case MetricVega:
		return g.Vega
	default:
		return g.Value
	}
}

// Scale 全部乘以 factor
func (g Greeks) Scale(factor float64) Greeks {
	return Greeks{
		Value: g.Value * factor,
		Delta: g.Delta * factor,
		Gamma: g.Gamma * factor,
		Theta: g.Theta * factor,
		Vega:  g.Vega * factor,
	}
}

// Quote 按报价口径换算 theta 与 vega，仅 market 口径做换算
func (g Greeks) Quote(c Convention) Greeks {
	if c != ConventionMarket {
		return g
	}
	g.Theta /= DaysPerYear
	g.Vega /= 100
	return g
}

// truncateDay 截断到 UTC 日期
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
