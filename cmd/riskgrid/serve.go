package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	portfolioapp "github.com/wyfcoding/optionrisk/internal/portfolio/application"
	"github.com/wyfcoding/optionrisk/internal/portfolio/infrastructure/persistence"
	portfoliohttp "github.com/wyfcoding/optionrisk/internal/portfolio/interfaces/http"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/application"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/infrastructure/persistence/csvfile"
	rediscache "github.com/wyfcoding/optionrisk/internal/riskgrid/infrastructure/persistence/redis"
	riskgrpc "github.com/wyfcoding/optionrisk/internal/riskgrid/interfaces/grpc"
	riskhttp "github.com/wyfcoding/optionrisk/internal/riskgrid/interfaces/http"
	"github.com/wyfcoding/optionrisk/pkg/cache"
	"github.com/wyfcoding/optionrisk/pkg/config"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/metrics"
	"github.com/wyfcoding/optionrisk/pkg/middleware"
	"github.com/wyfcoding/optionrisk/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the risk surface and portfolio query API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	m := metrics.New()

	dataset, err := csvfile.NewStore(cfg.Output.Path).LoadDataset(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "dataset loaded", "path", cfg.Output.Path, "records", dataset.Len(), "fingerprint", dataset.Fingerprint())

	var (
		tableCache domain.WideTableCache
		limiter    ratelimit.RateLimiter = ratelimit.NewLocalRateLimiter()
	)
	if cfg.Redis.Enabled() {
		rc, err := cache.New(cacheConfig(cfg.Redis))
		if err != nil {
			return err
		}
		defer rc.Close()
		tableCache = rediscache.NewWideTableCache(rc)
		limiter = ratelimit.NewRedisRateLimiter(rc.Client())
	}

	riskSvc := application.NewRiskGridService(nil,
		application.NewRiskQueryService(dataset, tableCache, cfg.Cache.TTL(), m),
		application.NewPricingQueryService())

	engine := newEngine(cfg, m, limiter)
	riskhttp.NewRiskGridHandler(riskSvc).RegisterRoutes(&engine.RouterGroup)

	// 组合查询依赖外部录入的关系库，库不可用时只关闭该路由
	if conn, err := persistence.Open(dbConfig(cfg.Database)); err != nil {
		logger.Warn(ctx, "portfolio store unavailable, top-assets disabled", "error", err)
	} else {
		defer conn.Close()
		portfolioSvc := portfolioapp.NewPortfolioQueryService(persistence.NewPortfolioRepository(conn.DB))
		portfoliohttp.NewPortfolioHandler(portfolioSvc).RegisterRoutes(&engine.RouterGroup)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	var (
		grpcSrv *riskgrpc.Server
		grpcLis net.Listener
	)
	if cfg.GRPC.Enabled {
		if grpcLis, err = net.Listen("tcp", cfg.GRPC.Addr()); err != nil {
			return err
		}
		grpcSrv = riskgrpc.NewServer()
		grpcSrv.SetDataset(dataset)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error { return grpcSrv.Serve(grpcLis) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down", "service", cfg.ServiceName)
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "server exited with error", "error", err)
		return err
	}
	return nil
}

func newEngine(cfg *config.Config, m *metrics.Metrics, limiter ratelimit.RateLimiter) *gin.Engine {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.RateLimitMiddleware(limiter, cfg.RateLimit),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	return engine
}
