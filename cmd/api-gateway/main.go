package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/faculty-workload-api/api/swagger"
	"github.com/noah-isme/faculty-workload-api/internal/handler"
	internalmiddleware "github.com/noah-isme/faculty-workload-api/internal/middleware"
	"github.com/noah-isme/faculty-workload-api/internal/models"
	"github.com/noah-isme/faculty-workload-api/internal/repository"
	"github.com/noah-isme/faculty-workload-api/internal/service"
	"github.com/noah-isme/faculty-workload-api/pkg/cache"
	"github.com/noah-isme/faculty-workload-api/pkg/config"
	"github.com/noah-isme/faculty-workload-api/pkg/database"
	"github.com/noah-isme/faculty-workload-api/pkg/jobs"
	"github.com/noah-isme/faculty-workload-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/faculty-workload-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/faculty-workload-api/pkg/middleware/requestid"
)

// @title Faculty Workload API
// @version 1.0.0
// @description Timetable constraint checks, faculty hour ledger and automatic reassignment of workload requests.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const reconcileSweepTimeout = 10 * time.Minute

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Workload.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, workload cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Workload.CacheTTL, logr, true)
	}
	workloadCache := service.NewWorkloadCache(cacheSvc, cfg.Workload.CacheTTL, logr)

	validate := validator.New()

	facultyRepo := repository.NewFacultyRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	requestRepo := repository.NewWorkloadRequestRepository(db)
	ledgerRepo := repository.NewHourLedgerRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	uow := repository.NewUnitOfWork(db, facultyRepo, timetableRepo, requestRepo, ledgerRepo)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	timetableSvc := service.NewTimetableService(uow, timetableRepo, workloadCache, metricsSvc, validate, logr)
	reassignSvc := service.NewReassignmentService(uow, workloadCache, metricsSvc, logr, cfg.Scheduling.ReassignPolicy)
	facultySvc := service.NewFacultyService(facultyRepo, timetableRepo, departmentRepo, workloadCache, logr)
	requestSvc := service.NewWorkloadRequestService(requestRepo, uow, facultySvc, validate, logr)
	exportSvc := service.NewExportService(facultySvc, logr, nil, nil)
	reconcileSvc := service.NewReconciliationService(uow, facultyRepo, workloadCache, metricsSvc, logr)

	var (
		reconcileQueue *jobs.Queue
		scheduler      *jobs.Scheduler
	)
	if cfg.Reconciler.Enabled {
		worker := service.NewReconcileWorker(reconcileSvc, cfg.Reconciler.AutoRepair)
		reconcileQueue = jobs.NewQueue("reconcile", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reconciler.Workers,
			BufferSize: 128,
			MaxRetries: cfg.Reconciler.Retries,
			RetryDelay: 5 * time.Second,
			Logger:     logr,
		})
		reconcileQueue.Start(ctx)

		sweeper := service.NewReconcileSweeper(facultyRepo, reconcileQueue, logr)
		scheduler = jobs.NewScheduler(logr)
		if err := scheduler.Register("reconcile", cfg.Reconciler.Schedule, reconcileSweepTimeout, sweeper.Sweep); err != nil {
			logr.Fatal("invalid reconcile schedule", zap.String("schedule", cfg.Reconciler.Schedule), zap.Error(err))
		}
		scheduler.Start()
		logr.Info("reconciler enabled",
			zap.String("schedule", cfg.Reconciler.Schedule),
			zap.Int("workers", cfg.Reconciler.Workers),
			zap.Bool("auto_repair", cfg.Reconciler.AutoRepair))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	requestHandler := handler.NewWorkloadRequestHandler(requestSvc, reassignSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc, exportSvc, reconcileSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))
	secured.GET("/auth/me", authHandler.Me)

	staff := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleAcademics)
	facultyOnly := internalmiddleware.RequireRoles(models.RoleFaculty)

	timetable := secured.Group("/timetable")
	timetable.GET("", timetableHandler.List)
	timetable.POST("", staff, internalmiddleware.Audit(logr, "timetable.commit", "timetable_slot"), timetableHandler.Commit)
	timetable.PUT("/:id", staff, internalmiddleware.Audit(logr, "timetable.edit", "timetable_slot"), timetableHandler.Edit)
	timetable.DELETE("/:id", staff, internalmiddleware.Audit(logr, "timetable.delete", "timetable_slot"), timetableHandler.Delete)

	requests := secured.Group("/workload-requests", staff)
	requests.GET("", requestHandler.List)
	requests.GET("/:id", requestHandler.Get)
	requests.PUT("/:id", internalmiddleware.Audit(logr, "workload_request.update", "workload_request"), requestHandler.Update)
	requests.DELETE("/:id", internalmiddleware.Audit(logr, "workload_request.delete", "workload_request"), requestHandler.Delete)
	requests.POST("/:id/reassign", internalmiddleware.Audit(logr, "workload_request.reassign", "workload_request"), requestHandler.Reassign)

	me := secured.Group("/faculty/me", facultyOnly)
	me.GET("", facultyHandler.Me)
	me.GET("/timetable", facultyHandler.MyTimetable)
	me.POST("/workload-requests", internalmiddleware.Audit(logr, "workload_request.raise", "workload_request"), requestHandler.Raise)
	me.GET("/workload-requests", requestHandler.ListMine)

	academics := secured.Group("/academics")
	academics.GET("/departments/:id/workload", staff, facultyHandler.DepartmentWorkload)
	academics.GET("/faculty/:id", staff, facultyHandler.Details)
	academics.GET("/faculty/:id/timetable/export", staff, facultyHandler.Export)
	academics.POST("/faculty/:id/reconcile",
		internalmiddleware.RequireRoles(models.RoleAdmin),
		internalmiddleware.Audit(logr, "faculty.reconcile", "faculty"),
		facultyHandler.Reconcile)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "reassign_policy", cfg.Scheduling.ReassignPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	if reconcileQueue != nil {
		reconcileQueue.Stop()
	}
	logr.Info("server stopped")
}
