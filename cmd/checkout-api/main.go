package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aim-high/checkout-api/api/swagger"
	"github.com/aim-high/checkout-api/internal/handler"
	"github.com/aim-high/checkout-api/internal/middleware"
	"github.com/aim-high/checkout-api/internal/repository"
	"github.com/aim-high/checkout-api/internal/service"
	"github.com/aim-high/checkout-api/pkg/cache"
	"github.com/aim-high/checkout-api/pkg/config"
	"github.com/aim-high/checkout-api/pkg/database"
	"github.com/aim-high/checkout-api/pkg/logger"
	corsmiddleware "github.com/aim-high/checkout-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aim-high/checkout-api/pkg/middleware/requestid"
)

// @title Checkout API
// @version 0.1.0
// @description Shared inventory reservations and movement planning for school sites
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var planCache *service.RedisPlanCache
	if cfg.Schedule.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			planCache = service.NewRedisPlanCache(redisClient)
		}
	}

	validate := validator.New()

	siteRepo := repository.NewSiteRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	weekRepo := repository.NewWeekRepository(db)
	skuRepo := repository.NewSKURepository(db)
	siteSKURepo := repository.NewSiteSKURepository(db)
	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	siteService := service.NewSiteService(siteRepo, validate, logr)
	calendarService := service.NewCalendarService(periodRepo, weekRepo, classroomRepo, validate, logr, service.CalendarServiceConfig{
		MaxHolidays: cfg.Weeks.MaxHolidays,
	})
	catalogService := service.NewCatalogService(skuRepo, siteSKURepo, validate, logr, service.CatalogServiceConfig{
		DefaultStorageLocation: cfg.Schedule.DefaultStorageLocation,
	})
	availabilityService := service.NewAvailabilityService(siteSKURepo, reservationRepo, calendarService, validate, logr)
	scheduleService := service.NewScheduleService(calendarService, siteSKURepo, reservationRepo, planCache, metricsService, logr, service.ScheduleServiceConfig{
		CacheEnabled: cfg.Schedule.CacheEnabled && planCache != nil,
		CacheTTL:     cfg.Schedule.CacheTTL,
		WarmWorkers:  cfg.Schedule.WarmWorkers,
	})
	reservationService := service.NewReservationService(reservationRepo, teamRepo, siteSKURepo, userRepo, scheduleService, validate, logr)

	scheduleService.Start(context.Background())
	defer scheduleService.Stop()

	authHandler := handler.NewAuthHandler(authService)
	siteHandler := handler.NewSiteHandler(siteService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, cfg.Exports.Enabled)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

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

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authService))
	{
		authed.GET("/sites", siteHandler.List)
		authed.GET("/sites/:siteId", siteHandler.Get)
		authed.GET("/sites/:siteId/periods", calendarHandler.ListPeriods)
		authed.GET("/sites/:siteId/weeks", calendarHandler.ListWeeks)
		authed.GET("/sites/:siteId/classrooms", calendarHandler.ListClassrooms)
		authed.GET("/sites/:siteId/skus", catalogHandler.ListSiteSKUs)
		authed.GET("/catalog/types", catalogHandler.ListTypes)
		authed.GET("/catalog/skus", catalogHandler.ListSKUs)

		authed.GET("/availability", availabilityHandler.Free)
		authed.POST("/availability/pick", availabilityHandler.Pick)
		authed.GET("/sites/:siteId/availability", availabilityHandler.Site)

		authed.GET("/reservations", reservationHandler.List)
		authed.POST("/reservations", reservationHandler.Create)
		authed.DELETE("/reservations/:id", reservationHandler.Delete)

		authed.GET("/sites/:siteId/schedule/:date", scheduleHandler.Day)
		authed.GET("/sites/:siteId/schedule/:date/movements", scheduleHandler.Movements)
		authed.GET("/sites/:siteId/schedule/:date/movements.csv", scheduleHandler.ExportCSV)
		authed.GET("/sites/:siteId/schedule/:date/movements.pdf", scheduleHandler.ExportPDF)
	}

	staff := authed.Group("", middleware.RequireStaff())
	{
		staff.POST("/sites", siteHandler.Create)
		staff.POST("/sites/:siteId/periods", calendarHandler.CreatePeriod)
		staff.POST("/sites/:siteId/weeks", calendarHandler.CreateWeek)
		staff.DELETE("/sites/:siteId/weeks/:id", calendarHandler.DeleteWeek)
		staff.POST("/sites/:siteId/classrooms", calendarHandler.CreateClassroom)
		staff.POST("/sites/:siteId/skus", catalogHandler.CreateSiteSKU)
		staff.PUT("/sites/:siteId/skus/:id", catalogHandler.UpdateSiteSKU)
		staff.POST("/catalog/types", catalogHandler.CreateType)
		staff.POST("/catalog/skus", catalogHandler.CreateSKU)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
