package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Orel-y/U-Schedule/api/swagger"
	"github.com/Orel-y/U-Schedule/internal/handler"
	"github.com/Orel-y/U-Schedule/internal/middleware"
	"github.com/Orel-y/U-Schedule/internal/models"
	"github.com/Orel-y/U-Schedule/internal/repository"
	"github.com/Orel-y/U-Schedule/internal/service"
	"github.com/Orel-y/U-Schedule/pkg/cache"
	"github.com/Orel-y/U-Schedule/pkg/config"
	"github.com/Orel-y/U-Schedule/pkg/database"
	"github.com/Orel-y/U-Schedule/pkg/logger"
	corsmiddleware "github.com/Orel-y/U-Schedule/pkg/middleware/cors"
	reqidmiddleware "github.com/Orel-y/U-Schedule/pkg/middleware/requestid"
)

// @title U-Schedule API
// @version 1.0.0
// @description Course timetabling assistant: drafting, cross-program sharing and homebase matching
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	offeringRepo := repository.NewCourseOfferingRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	draftRepo := repository.NewDraftScheduleRepository(db)
	shareRepo := repository.NewShareRequestRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})

	catalogSvc := service.NewCatalogService(programRepo, batchRepo, sectionRepo, instructorRepo, offeringRepo, cacheRepo, cfg.Catalog.CacheTTL, logr)
	scheduleSvc := service.NewScheduleService(catalogSvc, draftRepo, validate, logr)
	shareSvc := service.NewShareService(shareRepo, draftRepo, scheduleSvc, programRepo, catalogSvc, validate, logr)
	homebaseSvc := service.NewHomebaseService(sectionRepo, roomRepo, logr)
	exportSvc := service.NewExportService(nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, exportSvc, catalogSvc, metricsSvc)
	shareHandler := handler.NewShareHandler(shareSvc, metricsSvc)
	homebaseHandler := handler.NewHomebaseHandler(homebaseSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db.Ping)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.GET("/auth/profile", authHandler.Profile)

	catalog := authed.Group("/catalog")
	catalog.GET("/campuses", catalogHandler.Campuses)
	catalog.GET("/programs", catalogHandler.Programs)
	catalog.GET("/programs/:programId/entry-years", catalogHandler.EntryYears)
	catalog.GET("/programs/:programId/batch", catalogHandler.ResolveBatch)
	catalog.GET("/programs/:programId/sections", catalogHandler.Sections)
	catalog.GET("/programs/:programId/instructors", catalogHandler.Instructors)
	catalog.GET("/lab-assistants", catalogHandler.LabAssistants)

	// Read-only views are open to every authenticated role; mutations stay
	// behind the department-head gate below.
	authed.GET("/sections/:sectionId/schedule", scheduleHandler.View)
	if cfg.Export.Enabled {
		authed.GET("/sections/:sectionId/schedule/export", scheduleHandler.Export)
	}
	if cfg.Share.Enabled {
		authed.GET("/shares/incoming", shareHandler.Incoming)
		authed.GET("/shares/outgoing", shareHandler.Outgoing)
		authed.GET("/shares/:shareId/schedule", shareHandler.External)
		authed.GET("/drafts", shareHandler.Drafts)
		authed.GET("/drafts/:draftId/merged", shareHandler.Merged)
	}
	if cfg.Homebase.Enabled {
		authed.GET("/homebase/assignments", homebaseHandler.Assignments)
	}

	head := authed.Group("")
	head.Use(middleware.RequireRoles(models.RoleHead))

	head.POST("/schedule/sessions", scheduleHandler.Open)
	head.PUT("/sections/:sectionId/schedule/instructor", scheduleHandler.AssignInstructor)
	head.POST("/sections/:sectionId/schedule/slots", scheduleHandler.Drop)
	head.DELETE("/sections/:sectionId/schedule/assignments/:assignmentId", scheduleHandler.Remove)
	head.POST("/sections/:sectionId/schedule/draft", scheduleHandler.SaveDraft)
	head.DELETE("/sections/:sectionId/schedule", scheduleHandler.CloseSession)

	if cfg.Share.Enabled {
		head.POST("/shares", shareHandler.Share)
		head.POST("/shares/:shareId/accept", shareHandler.Accept)
		head.POST("/shares/:shareId/schedule/slots", shareHandler.ExternalDrop)
		head.DELETE("/shares/:shareId/schedule/assignments/:assignmentId", shareHandler.ExternalRemove)
		head.PUT("/shares/:shareId/assignments", shareHandler.UpdateAssignments)
		head.POST("/shares/:shareId/submit", shareHandler.Submit)
	}

	if cfg.Homebase.Enabled {
		head.POST("/homebase/match", homebaseHandler.Match)
		head.POST("/homebase/reset", homebaseHandler.Reset)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
