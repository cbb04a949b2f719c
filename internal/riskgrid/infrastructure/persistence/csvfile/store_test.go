package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

func surface(t *testing.T) []domain.RiskRecord {
	t.Helper()
	contract := domain.ContractSpec{
		Strike:       280,
		Volatility:   0.3,
		RiskFreeRate: 0.05,
		OptionType:   domain.OptionTypeCall,
		Multiplier:   1000,
	}
	points, err := domain.GenerateGrid(domain.GridSpec{
		ExpiryDate: time.Date(2020, 9, 18, 0, 0, 0, 0, time.UTC),
		StartDate:  time.Date(2020, 9, 10, 0, 0, 0, 0, time.UTC),
		SpotMin:    270,
		SpotMax:    290,
	}, contract)
	require.NoError(t, err)
	records, err := domain.ComputeSurface(points, contract)
	require.NoError(t, err)
	return records
}

func TestStore_RoundTrip(t *testing.T) {
	records := surface(t)
	store := NewStore(filepath.Join(t.TempDir(), "nested", "spx_test.csv"))

	require.NoError(t, store.Write(context.Background(), records))
	got, err := store.Read(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, records, got)
}

func TestStore_RegenerateIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	first := NewStore(filepath.Join(dir, "a.csv"))
	second := NewStore(filepath.Join(dir, "b.csv"))

	require.NoError(t, first.Write(context.Background(), surface(t)))
	require.NoError(t, second.Write(context.Background(), surface(t)))

	a, err := os.ReadFile(first.Path())
	require.NoError(t, err)
	b, err := os.ReadFile(second.Path())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_Layout(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, []domain.RiskRecord{
		{Date: time.Date(2020, 9, 17, 0, 0, 0, 0, time.UTC), Spot: 200, Metric: domain.MetricDelta, Value: 0.125},
		{Date: time.Date(2020, 9, 17, 0, 0, 0, 0, time.UTC), Spot: 200, Metric: domain.MetricTheta, Value: -3.5},
	})
	require.NoError(t, err)
	assert.Equal(t, ",date,spot,plot_type,value\n0,2020-09-17,200,delta,0.125\n1,2020-09-17,200,theta,-3.5\n", buf.String())
}

func TestDecode_AcceptsNamedIndexAndSkipsSynthetic(t *testing.T) {
	input := strings.Join([]string{
		"row_index,date,spot,plot_type,value",
		"0,2020-09-17,200,spot,200",
		"1,2020-09-17,200,t,0.0027",
		"2,2020-09-17,200,vega,1.5e-03",
	}, "\n")
	records, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.MetricVega, records[0].Metric)
	assert.Equal(t, 0.0015, records[0].Value)
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"bad header":     "idx,when,spot,plot_type,value\n",
		"bad date":       ",date,spot,plot_type,value\n0,17/09/2020,200,delta,1\n",
		"bad spot":       ",date,spot,plot_type,value\n0,2020-09-17,abc,delta,1\n",
		"unknown metric": ",date,spot,plot_type,value\n0,2020-09-17,200,rho,1\n",
		"bad value":      ",date,spot,plot_type,value\n0,2020-09-17,200,delta,x\n",
		"short row":      ",date,spot,plot_type,value\n0,2020-09-17,200\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		})
	}
}

func TestStore_MissingFile(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "absent.csv")).LoadDataset(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestStore_LoadDataset(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "spx.csv"))
	require.NoError(t, store.Write(context.Background(), surface(t)))

	ds, err := store.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7*21*5, ds.Len())
	assert.Equal(t, domain.NewDataset(surface(t)).Fingerprint(), ds.Fingerprint())
}
