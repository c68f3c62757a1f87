package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mcatprep/plan-api/api/swagger"
	"github.com/mcatprep/plan-api/internal/catalog"
	"github.com/mcatprep/plan-api/internal/handler"
	appMiddleware "github.com/mcatprep/plan-api/internal/middleware"
	"github.com/mcatprep/plan-api/internal/scheduler"
	"github.com/mcatprep/plan-api/internal/service"
	"github.com/mcatprep/plan-api/pkg/cache"
	"github.com/mcatprep/plan-api/pkg/config"
	"github.com/mcatprep/plan-api/pkg/database"
	"github.com/mcatprep/plan-api/pkg/logger"
	corsmiddleware "github.com/mcatprep/plan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mcatprep/plan-api/pkg/middleware/requestid"
)

// @title MCAT Plan API
// @version 0.1.0
// @description Day-by-day MCAT study plan generation
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	source, err := buildCatalogSource(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init catalog source", "error", err)
	}
	loader := catalog.NewLoader(source, logr)

	flPlacer := scheduler.NewFLPlacer(cfg.Scheduler.TotalFLExams, cfg.Scheduler.MinDaysBeforeTest, logr)
	orchestrator := scheduler.NewOrchestrator(loader, flPlacer,
		cfg.Scheduler.WrittenReviewMins, cfg.Scheduler.ResourceBudgetMins, logr)

	metrics := service.NewMetricsService()

	redisClient := connectPlanCache(cfg, logr)
	planSvc := service.NewPlanService(orchestrator, redisClient, cfg.PlanCache, metrics, logr)

	warmCatalog(loader, metrics, logr)

	planHandler := handler.NewPlanHandler(planSvc, cfg.Scheduler.DefaultFLWeekday, cfg.Export.Enabled)
	healthHandler := handler.NewHealthHandler(func(ctx context.Context) error {
		_, err := loader.Load(ctx)
		return err
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appMiddleware.Metrics(metrics))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.GET("/full-plan", planHandler.GetFullPlan)
	api.GET("/full-plan/export", planHandler.ExportPlan)
	api.GET("/stats", planHandler.GetStats)
	api.POST("/catalog/reload", planHandler.ReloadCatalog)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "catalog_source", cfg.Catalog.Source)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildCatalogSource(cfg *config.Config, logr *zap.Logger) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case "postgres":
		db, err := database.NewPostgres(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		return catalog.NewPostgresSource(db, cfg.Catalog.Table, logr), nil
	default:
		return catalog.NewFileSource(cfg.Catalog.FilePath, logr), nil
	}
}

// connectPlanCache returns nil when the cache is disabled or redis is
// unreachable; the service runs without a response cache either way.
func connectPlanCache(cfg *config.Config, logr *zap.Logger) *redis.Client {
	if !cfg.PlanCache.Enabled {
		return nil
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("plan cache disabled, redis unreachable", "error", err)
		return nil
	}
	return client
}

// warmCatalog loads the catalog eagerly so the first request pays no
// cold-start cost; a failure here is logged and retried lazily.
func warmCatalog(loader *catalog.Loader, metrics *service.MetricsService, logr *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topics, err := loader.Load(ctx)
	if err != nil {
		logr.Sugar().Warnw("initial catalog load failed", "error", err)
		return
	}
	metrics.SetCatalogSize(len(topics))
}
