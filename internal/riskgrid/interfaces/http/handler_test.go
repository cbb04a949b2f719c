package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/application"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	contract := domain.ContractSpec{
		Strike:       280,
		Volatility:   0.3,
		RiskFreeRate: 0.05,
		OptionType:   domain.OptionTypeCall,
		Multiplier:   domain.DefaultMultiplier,
		Convention:   domain.ConventionMarket,
	}
	points, err := domain.GenerateGridAt(domain.GridSpec{
		ExpiryDate: day("2020-09-18"),
		StartDate:  day("2020-09-10"),
		SpotMin:    270,
		SpotMax:    290,
	}, contract, day("2020-09-10"))
	require.NoError(t, err)
	records, err := domain.ComputeSurface(points, contract)
	require.NoError(t, err)

	svc := application.NewRiskGridService(nil,
		application.NewRiskQueryService(domain.NewDataset(records), nil, 0, nil),
		application.NewPricingQueryService())

	r := gin.New()
	NewRiskGridHandler(svc).RegisterRoutes(&r.RouterGroup)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetDates(t *testing.T) {
	w := get(setupRouter(t), "/api/v1/risk/dates")
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var dto application.DatesDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, "2020-09-11", dto.MinDate)
	assert.Equal(t, "2020-09-17", dto.MaxDate)
}

func TestGetSeries(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/api/v1/risk/series?date=2020-09-14&metric=delta")
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var body struct {
		PlotType string                       `json:"plot_type"`
		Points   []application.SeriesPointDTO `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "delta", body.PlotType)
	assert.Len(t, body.Points, 21)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/risk/series").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/risk/series?date=14-09-2020").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/risk/series?date=2020-09-14&metric=rho").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/risk/series?date=2021-01-01").Code)
}

func TestGetTable(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/api/v1/risk/table?start=2020-09-11&end=2020-09-12&gap=5")
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var dto application.WideTableDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, 5, dto.Gap)
	// date, plot_type, 270, 275, 280, 285, 290
	assert.Len(t, dto.Columns, 7)
	assert.Len(t, dto.Rows, 10)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/risk/table?start=2020-09-11&gap=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/risk/table?start=2020-09-11&gap=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/risk/table?start=2020-09-12&end=2020-09-11").Code)
}

func TestGetTable_DefaultsToSingleDay(t *testing.T) {
	w := get(setupRouter(t), "/api/v1/risk/table?start=2020-09-11")
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var dto application.WideTableDTO
	require.NoError(t, json.Unmarshal(env.Data, &dto))
	assert.Equal(t, defaultGap, dto.Gap)
	assert.Len(t, dto.Rows, len(domain.Metrics))
}

func TestGetDiff(t *testing.T) {
	w := get(setupRouter(t), "/api/v1/risk/diff?start=2020-09-11&end=2020-09-17&metric=value")
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var body struct {
		Changes []application.SpotChangeDTO `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Changes, 21)
	for _, c := range body.Changes {
		require.NotNil(t, c.Change)
		// 时间衰减使看涨期权价值下降
		assert.Less(t, *c.Change, 0.0)
	}
}

func TestGetChart(t *testing.T) {
	w := get(setupRouter(t), "/api/v1/risk/chart?start=2020-09-11&end=2020-09-17&metric=value")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestGetChart_NotEnoughSpots(t *testing.T) {
	_, err := renderChart(domain.MetricValue, day("2020-09-11"), day("2020-09-12"), []application.SpotChangeDTO{{Spot: 1}})
	assert.Error(t, err)
}

func TestPriceOption(t *testing.T) {
	r := setupRouter(t)

	body := `{"type":"call","spot":100,"strike":100,"risk_free_rate":0.05,"sigma":0.2,"eval_date":"20200101","exp_date":"20201231"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/option", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var quote struct {
		Type       string `json:"type"`
		Convention string `json:"convention"`
		Implied    bool   `json:"implied"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "call", quote.Type)
	assert.Equal(t, "analytic", quote.Convention)
	assert.False(t, quote.Implied)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/pricing/option", bytes.NewBufferString(`{"type":"call"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrInvalidRange))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.Join(domain.ErrInvalidGap, errors.New("x"))))
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrDomain))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrDateNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(domain.ErrStorageUnavailable))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}
