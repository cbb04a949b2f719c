package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

// 日期入参格式：YYYYMMDD 或 YYYY-MM-DD
var pricingDateLayouts = []string{"20060102", domain.DateLayout}

// PricingQueryService 单个期权即时定价，无状态
type PricingQueryService struct{}

// NewPricingQueryService 构造函数
func NewPricingQueryService() *PricingQueryService {
	return &PricingQueryService{}
}

// PriceOption 计算价格与 Greeks；Volatility 非正且给出 Price 时先反推隐含波动率
func (s *PricingQueryService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*OptionQuoteDTO, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	optType, err := domain.ParseOptionType(cmd.OptionType)
	if err != nil {
		return nil, err
	}
	convention, err := domain.ParseConvention(cmd.Convention)
	if err != nil {
		return nil, err
	}
	evalDate, err := parsePricingDate(cmd.EvalDate)
	if err != nil {
		return nil, err
	}
	expDate, err := parsePricingDate(cmd.ExpDate)
	if err != nil {
		return nil, err
	}

	in := domain.PricingInput{
		OptionType:    optType,
		Spot:          cmd.Spot,
		Strike:        cmd.Strike,
		TimeToExpiry:  float64(domain.DaysBetween(evalDate, expDate)) / domain.DaysPerYear,
		Volatility:    cmd.Volatility,
		RiskFreeRate:  cmd.RiskFreeRate,
		DividendYield: cmd.DividendYield,
	}

	implied := false
	if in.Volatility <= 0 {
		if cmd.Price <= 0 {
			return nil, fmt.Errorf("%w: either sigma or a positive price is required", domain.ErrInvalidInput)
		}
		sigma, err := domain.ImpliedVolatility(in, cmd.Price)
		if err != nil {
			return nil, err
		}
		in.Volatility = sigma
		implied = true
	}

	g, err := domain.BlackScholes(in)
	if err != nil {
		return nil, err
	}
	g = g.Quote(convention)

	return &OptionQuoteDTO{
		OptionType:   string(optType),
		TimeToExpiry: decimal.NewFromFloat(in.TimeToExpiry).Round(8),
		Volatility:   decimal.NewFromFloat(in.Volatility).Round(8),
		Implied:      implied,
		Price:        decimal.NewFromFloat(g.Value).Round(8),
		Delta:        decimal.NewFromFloat(g.Delta).Round(8),
		Gamma:        decimal.NewFromFloat(g.Gamma).Round(8),
		Theta:        decimal.NewFromFloat(g.Theta).Round(8),
		Vega:         decimal.NewFromFloat(g.Vega).Round(8),
		Convention:   string(convention),
	}, nil
}

func parsePricingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range pricingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYYMMDD or YYYY-MM-DD", domain.ErrInvalidInput, s)
}
