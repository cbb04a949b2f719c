package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionrisk/pkg/config"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/ratelimit"
	"github.com/wyfcoding/optionrisk/pkg/response"
)

const rateLimitKeyPrefix = "riskgrid:ratelimit:"

// RateLimitMiddleware 按客户端 IP 限流，超限返回 429。
// 限流器本身出错时放行请求，只记录告警。
func RateLimitMiddleware(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limit := ratelimit.Limit{Rate: cfg.QPS, Period: time.Second, Burst: cfg.Burst}
	burst := strconv.Itoa(limit.Burst)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		res, err := limiter.Allow(ctx, rateLimitKeyPrefix+c.ClientIP(), limit)
		if err != nil {
			logger.Warn(ctx, "rate limiter unavailable", "client_ip", c.ClientIP(), "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", burst)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed {
			c.Next()
			return
		}

		// 向上取整到秒
		retry := int64((res.RetryAfter + time.Second - 1) / time.Second)
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.FormatInt(retry, 10))
		response.ErrorWithStatus(c, http.StatusTooManyRequests, "too many requests",
			"retry after "+strconv.FormatInt(retry, 10)+"s")
	}
}
