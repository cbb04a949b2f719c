package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/application"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/response"
)

const (
	defaultGap    = 10
	defaultMetric = domain.MetricValue
)

// RiskGridHandler HTTP 处理器
// 负责风险曲面查询与单期权定价
type RiskGridHandler struct {
	app *application.RiskGridService
}

// NewRiskGridHandler 创建 HTTP 处理器实例
func NewRiskGridHandler(app *application.RiskGridService) *RiskGridHandler {
	return &RiskGridHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *RiskGridHandler) RegisterRoutes(router *gin.RouterGroup) {
	risk := router.Group("/api/v1/risk")
	{
		risk.GET("/dates", h.GetDates)
		risk.GET("/series", h.GetSeries)
		risk.GET("/table", h.GetTable)
		risk.GET("/diff", h.GetDiff)
		risk.GET("/chart", h.GetChart)
	}
	pricing := router.Group("/api/v1/pricing")
	{
		pricing.POST("/option", h.PriceOption)
	}
}

// GetDates 数据集日期范围与刻度
func (h *RiskGridHandler) GetDates(c *gin.Context) {
	dto, err := h.app.GetDates(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, dto)
}

// GetSeries 某日某指标按现价的序列
func (h *RiskGridHandler) GetSeries(c *gin.Context) {
	date, err := parseDate(c, "date", true)
	if err != nil {
		WriteError(c, err)
		return
	}
	metric, err := parseMetric(c)
	if err != nil {
		WriteError(c, err)
		return
	}

	series, err := h.app.GetRiskSeries(c.Request.Context(), date, metric)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, gin.H{
		"date":      date.Format(domain.DateLayout),
		"plot_type": metric,
		"points":    series,
	})
}

// GetTable 宽表；未给 end 时为单日
func (h *RiskGridHandler) GetTable(c *gin.Context) {
	start, err := parseDate(c, "start", true)
	if err != nil {
		WriteError(c, err)
		return
	}
	end, err := parseDate(c, "end", false)
	if err != nil {
		WriteError(c, err)
		return
	}
	gap := defaultGap
	if raw := c.Query("gap"); raw != "" {
		gap, err = strconv.Atoi(raw)
		if err != nil {
			WriteError(c, errors.Join(domain.ErrInvalidGap, err))
			return
		}
	}

	dto, err := h.app.GetWideTable(c.Request.Context(), application.WideTableQuery{Start: start, End: end, Gap: gap})
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, dto)
}

// GetDiff 两个快照间指标变化
func (h *RiskGridHandler) GetDiff(c *gin.Context) {
	start, end, metric, ok := h.diffParams(c)
	if !ok {
		return
	}
	changes, err := h.app.GetSnapshotDiff(c.Request.Context(), start, end, metric)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, gin.H{
		"start":     start.Format(domain.DateLayout),
		"end":       end.Format(domain.DateLayout),
		"plot_type": metric,
		"changes":   changes,
	})
}

// GetChart 起止快照及变化的 PNG 图
func (h *RiskGridHandler) GetChart(c *gin.Context) {
	start, end, metric, ok := h.diffParams(c)
	if !ok {
		return
	}
	changes, err := h.app.GetSnapshotDiff(c.Request.Context(), start, end, metric)
	if err != nil {
		WriteError(c, err)
		return
	}

	png, err := renderChart(metric, start, end, changes)
	if err != nil {
		logger.Warn(c.Request.Context(), "failed to render chart", "error", err)
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, "chart cannot be rendered", err.Error())
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// PriceOption 单期权定价
func (h *RiskGridHandler) PriceOption(c *gin.Context) {
	var req application.PriceOptionCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	quote, err := h.app.PriceOption(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	response.Success(c, quote)
}

func (h *RiskGridHandler) diffParams(c *gin.Context) (time.Time, time.Time, domain.Metric, bool) {
	start, err := parseDate(c, "start", true)
	if err != nil {
		WriteError(c, err)
		return time.Time{}, time.Time{}, "", false
	}
	end, err := parseDate(c, "end", true)
	if err != nil {
		WriteError(c, err)
		return time.Time{}, time.Time{}, "", false
	}
	metric, err := parseMetric(c)
	if err != nil {
		WriteError(c, err)
		return time.Time{}, time.Time{}, "", false
	}
	return start, end, metric, true
}

func parseDate(c *gin.Context, name string, required bool) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			return time.Time{}, errors.Join(domain.ErrInvalidInput, errors.New(name+" is required"))
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, errors.Join(domain.ErrInvalidInput, errors.New(name+" must be YYYY-MM-DD"))
	}
	return t, nil
}

func parseMetric(c *gin.Context) (domain.Metric, error) {
	raw := c.Query("metric")
	if raw == "" {
		return defaultMetric, nil
	}
	return domain.ParseMetric(raw)
}

// StatusFor 领域错误到 HTTP 状态码的映射
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidGap),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDomain):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDateNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError 按领域错误写出响应；5xx 记录日志
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	response.ErrorWithStatus(c, status, err.Error(), "")
}
