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

	_ "github.com/traineo/agenda-api/api/swagger"
	"github.com/traineo/agenda-api/internal/handler"
	"github.com/traineo/agenda-api/internal/middleware"
	"github.com/traineo/agenda-api/internal/models"
	"github.com/traineo/agenda-api/internal/repository"
	"github.com/traineo/agenda-api/internal/service"
	"github.com/traineo/agenda-api/pkg/cache"
	"github.com/traineo/agenda-api/pkg/config"
	"github.com/traineo/agenda-api/pkg/database"
	"github.com/traineo/agenda-api/pkg/jobs"
	"github.com/traineo/agenda-api/pkg/logger"
	corsmiddleware "github.com/traineo/agenda-api/pkg/middleware/cors"
	reqidmiddleware "github.com/traineo/agenda-api/pkg/middleware/requestid"
)

// @title Traineo Agenda API
// @version 0.1.0
// @description Training-plan and curriculum scheduling service
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
	defer db.Close()

	var jobStore repository.JobStore = repository.NewMemoryJobStore()
	if cfg.Imports.JobStore == "redis" {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		jobStore = repository.NewRedisJobStore(redisClient, cfg.Imports.JobTTL)
	}

	projects := repository.NewProjectRepository(db)
	plans := repository.NewTrainingPlanRepository(db)
	courses := repository.NewCourseRepository(db)
	curricula := repository.NewCurriculumRepository(db)
	events := repository.NewEventRepository(db)

	validate := validator.New()
	metrics := service.NewMetricsService()

	defaultHours := models.WorkingHours{
		StartOfDay:  cfg.Scheduler.StartOfDay,
		EndOfDay:    cfg.Scheduler.EndOfDay,
		WorkingDays: cfg.Scheduler.WorkingDays,
		Timezone:    cfg.Scheduler.Timezone,
	}

	imports := service.NewAgendaImportService(
		projects, plans, courses, events, jobStore, nil, metrics, validate, logr,
		service.AgendaImportConfig{DefaultWorkingHours: defaultHours},
	)
	queue := jobs.NewQueue("agenda-imports", imports.HandleTask, jobs.QueueConfig{
		Workers:    cfg.Imports.WorkerConcurrency,
		BufferSize: cfg.Imports.QueueBuffer,
		Logger:     logr,
	})
	imports.AttachQueue(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	scheduler := service.NewCurriculumScheduleService(
		projects, curricula, events, metrics, validate, logr,
		service.CurriculumScheduleConfig{
			DefaultWorkingHours: defaultHours,
			LunchStart:          cfg.Scheduler.LunchStart,
			LunchDuration:       cfg.Scheduler.LunchDuration,
		},
	)
	exports := service.NewExportService(projects, events, logr)

	importHandler := handler.NewAgendaImportHandler(imports)
	scheduleHandler := handler.NewCurriculumScheduleHandler(scheduler)
	exportHandler := handler.NewExportHandler(exports)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/projects/:id/agenda/import", importHandler.Kickoff)
	api.GET("/agenda/imports/:jobId", importHandler.Status)
	api.POST("/projects/:id/curriculum-schedule", scheduleHandler.Schedule)
	if cfg.Exports.Enabled {
		api.GET("/projects/:id/agenda/export", exportHandler.Agenda)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
