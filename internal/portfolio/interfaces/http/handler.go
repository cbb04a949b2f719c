package http

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionrisk/internal/portfolio/application"
	"github.com/wyfcoding/optionrisk/internal/portfolio/domain"
	riskhttp "github.com/wyfcoding/optionrisk/internal/riskgrid/interfaces/http"
	"github.com/wyfcoding/optionrisk/pkg/response"
)

const defaultTopN = 5

// PortfolioHandler 组合 HTTP 处理器
type PortfolioHandler struct {
	app *application.PortfolioQueryService
}

// NewPortfolioHandler 创建组合 HTTP 处理器
func NewPortfolioHandler(app *application.PortfolioQueryService) *PortfolioHandler {
	return &PortfolioHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *PortfolioHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/portfolio")
	{
		api.GET("/top-assets", h.TopAssets)
	}
}

// TopAssets 现值最大的前 n 个资产
func (h *PortfolioHandler) TopAssets(c *gin.Context) {
	n := defaultTopN
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			riskhttp.WriteError(c, errors.Join(domain.ErrInvalidInput, err))
			return
		}
		n = v
	}

	assets, err := h.app.TopAssets(c.Request.Context(), n)
	if err != nil {
		riskhttp.WriteError(c, err)
		return
	}
	response.Success(c, gin.H{"n": n, "assets": assets})
}
