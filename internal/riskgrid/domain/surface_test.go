package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortGrid(t *testing.T) []RiskPoint {
	t.Helper()
	points, err := GenerateGrid(GridSpec{
		ExpiryDate: date("2020-09-18"),
		StartDate:  date("2020-09-10"),
		SpotMin:    200,
		SpotMax:    201,
	}, testContract())
	require.NoError(t, err)
	return points
}

func TestComputeSurface_RecordCountAndOrder(t *testing.T) {
	records, err := ComputeSurface(shortGrid(t), testContract())
	require.NoError(t, err)
	require.Len(t, records, 70)

	for i, m := range Metrics {
		assert.Equal(t, m, records[i].Metric)
		assert.Equal(t, 200, records[i].Spot)
		assert.Equal(t, date("2020-09-17"), records[i].Date)
	}

	type key struct {
		date   string
		spot   int
		metric Metric
	}
	seen := make(map[key]bool, len(records))
	for _, r := range records {
		k := key{r.Date.Format(DateLayout), r.Spot, r.Metric}
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
	}
}

func TestComputeSurface_MultiplierAndConvention(t *testing.T) {
	point := RiskPoint{
		EvaluationDate: date("2020-08-19"),
		TimeToExpiry:   30.0 / 365,
		Spot:           280,
		Strike:         280,
		Volatility:     0.3,
		RiskFreeRate:   0.05,
		OptionType:     OptionTypeCall,
	}
	raw, err := Evaluate(point)
	require.NoError(t, err)

	contract := testContract()
	contract.Convention = ConventionAnalytic
	analytic, err := ComputeSurface([]RiskPoint{point}, contract)
	require.NoError(t, err)
	assert.InDelta(t, raw.Delta*1000, analytic[0].Value, 1e-9)
	assert.InDelta(t, raw.Theta*1000, analytic[2].Value, 1e-9)
	assert.InDelta(t, raw.Vega*1000, analytic[3].Value, 1e-9)

	contract.Convention = ConventionMarket
	market, err := ComputeSurface([]RiskPoint{point}, contract)
	require.NoError(t, err)
	assert.InDelta(t, raw.Theta*1000/365, market[2].Value, 1e-9)
	assert.InDelta(t, raw.Vega*1000/100, market[3].Value, 1e-9)
	assert.InDelta(t, raw.Value*1000, market[4].Value, 1e-9)

	contract.Multiplier = 0
	defaulted, err := ComputeSurface([]RiskPoint{point}, contract)
	require.NoError(t, err)
	assert.Equal(t, market, defaulted)
}

func TestComputeSurface_DefaultsEmitRawDerivatives(t *testing.T) {
	point := RiskPoint{
		EvaluationDate: date("2020-08-19"),
		TimeToExpiry:   30.0 / 365,
		Spot:           280,
		Strike:         280,
		Volatility:     0.3,
		RiskFreeRate:   0.05,
		OptionType:     OptionTypeCall,
	}
	records, err := ComputeSurface([]RiskPoint{point}, ContractSpec{Strike: 280, Volatility: 0.3, RiskFreeRate: 0.05, OptionType: OptionTypeCall})
	require.NoError(t, err)

	value := func(p RiskPoint) float64 {
		g, err := Evaluate(p)
		require.NoError(t, err)
		return g.Value
	}
	const h = 1e-5
	up, down := point, point
	up.TimeToExpiry += h
	down.TimeToExpiry -= h
	theta := -(value(up) - value(down)) / (2 * h) * DefaultMultiplier

	up, down = point, point
	up.Volatility += h
	down.Volatility -= h
	vega := (value(up) - value(down)) / (2 * h) * DefaultMultiplier

	assert.InEpsilon(t, theta, records[2].Value, 1e-5)
	assert.InEpsilon(t, vega, records[3].Value, 1e-5)

	c, err := ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, ConventionAnalytic, c)
}

func TestComputeSurface_DomainErrorAbortsBatch(t *testing.T) {
	points := shortGrid(t)
	points[5].Volatility = 0

	records, err := ComputeSurface(points, testContract())
	assert.ErrorIs(t, err, ErrDomain)
	assert.Nil(t, records)
}
