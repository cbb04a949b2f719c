package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	impliedVolMaxIterations = 100
	impliedVolTolerance     = 1e-10
)

// PricingInput 单个欧式期权的定价输入
type PricingInput struct {
	OptionType    OptionType
	Spot          float64
	Strike        float64
	TimeToExpiry  float64 // 年
	Volatility    float64
	RiskFreeRate  float64
	DividendYield float64
}

// PricingInput 网格点转定价输入
func (p RiskPoint) PricingInput() PricingInput {
	return PricingInput{
		OptionType:    p.OptionType,
		Spot:          float64(p.Spot),
		Strike:        p.Strike,
		TimeToExpiry:  p.TimeToExpiry,
		Volatility:    p.Volatility,
		RiskFreeRate:  p.RiskFreeRate,
		DividendYield: p.DividendYield,
	}
}

// Evaluate 计算网格点的价格与 Greeks（原始偏导数，未乘合约乘数）
func Evaluate(p RiskPoint) (Greeks, error) {
	return BlackScholes(p.PricingInput())
}

func (in PricingInput) validate() error {
	if in.TimeToExpiry <= 0 || math.IsNaN(in.TimeToExpiry) {
		return fmt.Errorf("%w: time to expiry must be positive, got %v", ErrDomain, in.TimeToExpiry)
	}
	if in.Volatility <= 0 || math.IsNaN(in.Volatility) {
		return fmt.Errorf("%w: volatility must be positive, got %v", ErrDomain, in.Volatility)
	}
	if in.Spot <= 0 || in.Strike <= 0 {
		return fmt.Errorf("%w: spot and strike must be positive, got S=%v K=%v", ErrDomain, in.Spot, in.Strike)
	}
	if in.OptionType != OptionTypeCall && in.OptionType != OptionTypePut {
		return fmt.Errorf("%w: unknown option type %q", ErrDomain, in.OptionType)
	}
	return nil
}

// BlackScholes 带连续股息率的 Black-Scholes 闭式解。
// theta 为 -∂V/∂τ（按年），vega 为 ∂V/∂σ（单位波动率）。
func BlackScholes(in PricingInput) (Greeks, error) {
	if err := in.validate(); err != nil {
		return Greeks{}, err
	}

	s, k, t, v, r, q := in.Spot, in.Strike, in.TimeToExpiry, in.Volatility, in.RiskFreeRate, in.DividendYield
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*v*v)*t) / (v * sqrtT)
	d2 := d1 - v*sqrtT

	expQT := math.Exp(-q * t)
	expRT := math.Exp(-r * t)
	pdfD1 := distuv.UnitNormal.Prob(d1)

	g := Greeks{
		Gamma: expQT * pdfD1 / (s * v * sqrtT),
		Vega:  s * expQT * pdfD1 * sqrtT,
	}
	decay := -s * expQT * pdfD1 * v / (2 * sqrtT)

	if in.OptionType == OptionTypeCall {
		nD1 := distuv.UnitNormal.CDF(d1)
		nD2 := distuv.UnitNormal.CDF(d2)
		g.Value = s*expQT*nD1 - k*expRT*nD2
		g.Delta = expQT * nD1
		g.Theta = decay - r*k*expRT*nD2 + q*s*expQT*nD1
	} else {
		nMinusD1 := distuv.UnitNormal.CDF(-d1)
		nMinusD2 := distuv.UnitNormal.CDF(-d2)
		g.Value = k*expRT*nMinusD2 - s*expQT*nMinusD1
		g.Delta = -expQT * nMinusD1
		g.Theta = decay + r*k*expRT*nMinusD2 - q*s*expQT*nMinusD1
	}
	return g, nil
}

// ImpliedVolatility 以 vega 为导数的牛顿迭代求隐含波动率
func ImpliedVolatility(in PricingInput, price float64) (float64, error) {
	probe := in
	probe.Volatility = 1
	if err := probe.validate(); err != nil {
		return 0, err
	}

	lower, upper := priceBounds(in)
	if price <= lower || price >= upper {
		return 0, fmt.Errorf("%w: price %v outside no-arbitrage bounds (%v, %v)", ErrDomain, price, lower, upper)
	}

	sigma := math.Sqrt(2*math.Pi/in.TimeToExpiry) * price / in.Spot
	for i := 0; i < impliedVolMaxIterations; i++ {
		probe.Volatility = sigma
		g, err := BlackScholes(probe)
		if err != nil {
			return 0, err
		}
		diff := g.Value - price
		if math.Abs(diff) < impliedVolTolerance {
			return sigma, nil
		}
		if g.Vega == 0 {
			return 0, fmt.Errorf("%w: vega vanished at sigma=%v", ErrDomain, sigma)
		}
		next := sigma - diff/g.Vega
		if next <= 0 || math.IsNaN(next) {
			next = sigma / 2
		}
		sigma = next
	}
	return 0, fmt.Errorf("%w: implied volatility did not converge after %d iterations", ErrDomain, impliedVolMaxIterations)
}

// priceBounds 无套利价格区间
func priceBounds(in PricingInput) (float64, float64) {
	fwdSpot := in.Spot * math.Exp(-in.DividendYield*in.TimeToExpiry)
	pvStrike := in.Strike * math.Exp(-in.RiskFreeRate*in.TimeToExpiry)
	if in.OptionType == OptionTypeCall {
		return math.Max(fwdSpot-pvStrike, 0), fwdSpot
	}
	return math.Max(pvStrike-fwdSpot, 0), pvStrike
}
