package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/technician-sla-api/api/swagger"
	"github.com/noah-isme/technician-sla-api/internal/handler"
	"github.com/noah-isme/technician-sla-api/internal/middleware"
	"github.com/noah-isme/technician-sla-api/internal/models"
	"github.com/noah-isme/technician-sla-api/internal/repository"
	"github.com/noah-isme/technician-sla-api/internal/service"
	"github.com/noah-isme/technician-sla-api/pkg/cache"
	"github.com/noah-isme/technician-sla-api/pkg/config"
	"github.com/noah-isme/technician-sla-api/pkg/database"
	"github.com/noah-isme/technician-sla-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/technician-sla-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/technician-sla-api/pkg/middleware/requestid"
)

// @title Technician SLA API
// @version 1.0.0
// @description Registration SLA aggregation service for the technician certification workflow
// @BasePath /api/v1
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

	metricsSvc := service.NewMetricsService()

	// The dashboard stays up without its database; every read falls back to
	// the snapshot and then to an empty table.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn(fmt.Sprintf("postgres unavailable, serving from snapshot: %v", err))
		db = nil
	}

	snapshotRepo := repository.NewSnapshotRepository(cfg.Source.SnapshotPath)
	var source *service.RecordSource
	if db != nil {
		source = service.NewRecordSource(repository.NewRecordRepository(db, cfg.Source.Table), snapshotRepo, metricsSvc, logr)
	} else {
		source = service.NewRecordSource(nil, snapshotRepo, metricsSvc, logr)
	}

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn(fmt.Sprintf("redis unavailable, response cache disabled: %v", err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	catalog := models.CatalogForVersion(cfg.Source.SchemaVersion)
	classifier := service.NewClassifier(catalog)

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Source:     source,
		Catalog:    catalog,
		Classifier: classifier,
		MonthOrder: cfg.Source.MonthOrder,
		Cache:      cacheSvc,
		CacheTTL:   cfg.Dashboard.CacheTTL,
		Logger:     logr,
	})
	technicianSvc := service.NewTechnicianService(service.TechnicianServiceParams{
		Source:     source,
		Catalog:    catalog,
		Classifier: classifier,
		Logger:     logr,
	})
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Technicians: technicianSvc,
		Dashboard:   dashboardSvc,
		Enabled:     cfg.Export.Enabled,
		Logger:      logr,
	})

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	technicianHandler := handler.NewTechnicianHandler(technicianSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/summary", dashboardHandler.Summary)
		api.GET("/areas", dashboardHandler.Areas)
		api.GET("/areas/steps", dashboardHandler.AreaSteps)
		api.GET("/provinces", dashboardHandler.Provinces)
		api.GET("/provinces/map", dashboardHandler.ProvincesMap)
		api.GET("/monthly", dashboardHandler.Monthly)
		api.GET("/trainers", dashboardHandler.Trainers)
		api.GET("/depots", dashboardHandler.Depots)
		api.GET("/status-detail", dashboardHandler.StatusDetail)
		api.GET("/filters", dashboardHandler.Filters)

		api.GET("/sla/steps", dashboardHandler.SLASteps)
		api.GET("/sla/distribution", dashboardHandler.SLADistribution)
		api.GET("/sla/bottleneck", dashboardHandler.SLABottleneck)

		api.GET("/technicians", technicianHandler.List)
		api.GET("/technicians/pending", technicianHandler.Pending)

		api.GET("/exports/technicians.csv", exportHandler.TechniciansCSV)
		api.GET("/exports/technicians.xlsx", exportHandler.TechniciansXLSX)
		api.GET("/exports/summary.pdf", exportHandler.SummaryPDF)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "schema", cfg.Source.SchemaVersion)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
