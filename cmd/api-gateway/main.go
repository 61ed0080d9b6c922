package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/roombook-api/api/swagger"
	"github.com/noah-isme/roombook-api/internal/handler"
	"github.com/noah-isme/roombook-api/internal/middleware"
	"github.com/noah-isme/roombook-api/internal/repository"
	"github.com/noah-isme/roombook-api/internal/service"
	"github.com/noah-isme/roombook-api/internal/timeline"
	"github.com/noah-isme/roombook-api/pkg/cache"
	"github.com/noah-isme/roombook-api/pkg/config"
	"github.com/noah-isme/roombook-api/pkg/database"
	"github.com/noah-isme/roombook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/roombook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/roombook-api/pkg/middleware/requestid"
)

// @title Roombook API
// @version 0.1.0
// @description Resource booking, availability and timeline layout service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, shared cache disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	eventRepo := repository.NewEventRepository(db)
	resourceRepo := repository.NewResourceRepository(db)

	clock := timeline.NewClock(logr)
	availabilityEngine := timeline.NewAvailabilityEngine(cfg.Timeline.Timezone, logr)
	layoutEngine := timeline.NewLayoutEngine(timeline.NewPositionCalculator(clock, cfg.Timeline.SlotHeight, logr))

	availabilitySvc := service.NewAvailabilityService(
		eventRepo,
		resourceRepo,
		availabilityEngine,
		service.NewAvailabilityCache(availabilityEngine.Location()),
		cacheSvc,
		metricsSvc,
		logr,
	)
	eventSvc := service.NewEventService(eventRepo, availabilityEngine, availabilitySvc, nil, logr)
	resourceSvc := service.NewResourceService(resourceRepo, nil, logr)
	layoutSvc := service.NewLayoutService(eventRepo, layoutEngine, clock, cfg.Timeline, metricsSvc, logr)
	exportSvc := service.NewExportService(eventRepo, resourceRepo, clock, cfg.Timeline.Timezone, logr)
	authSvc := service.NewAuthService(cfg.JWT, cfg.Auth, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	resourceHandler := handler.NewResourceHandler(resourceSvc, exportSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	layoutHandler := handler.NewLayoutHandler(layoutSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/availability", availabilityHandler.Check)
		api.GET("/layout", layoutHandler.Day)

		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.Get)

		api.GET("/resources", resourceHandler.List)
		api.GET("/resources/:id", resourceHandler.Get)
		api.GET("/resources/:id/schedule", resourceHandler.Schedule)
		api.GET("/resource-groups", resourceHandler.Groups)

		protected := api.Group("")
		protected.Use(middleware.JWT(authSvc))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.POST("/events", eventHandler.Create)
			protected.PUT("/events/:id", eventHandler.Update)
			protected.DELETE("/events/:id", eventHandler.Delete)

			protected.POST("/resources", resourceHandler.Create)
			protected.PUT("/resources/:id", resourceHandler.Update)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
