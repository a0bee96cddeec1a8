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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gpa-tracker-api/api/swagger"
	"github.com/noah-isme/gpa-tracker-api/internal/handler"
	"github.com/noah-isme/gpa-tracker-api/internal/middleware"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/repository"
	"github.com/noah-isme/gpa-tracker-api/internal/service"
	"github.com/noah-isme/gpa-tracker-api/migrations"
	"github.com/noah-isme/gpa-tracker-api/pkg/cache"
	"github.com/noah-isme/gpa-tracker-api/pkg/config"
	"github.com/noah-isme/gpa-tracker-api/pkg/database"
	"github.com/noah-isme/gpa-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gpa-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gpa-tracker-api/pkg/middleware/requestid"
)

// @title GPA Tracker API
// @version 1.0.0
// @description Official GPA record, attendance planning and what-if GPA prediction.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const sessionSweepInterval = time.Minute

type handlers struct {
	auth       *handler.AuthHandler
	semesters  *handler.SemesterHandler
	attendance *handler.AttendanceHandler
	catalog    *handler.CatalogHandler
	predictor  *handler.PredictorHandler
	exports    *handler.ExportHandler
	metrics    *handler.MetricsHandler
}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db, migrations.Files)
	if err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}
	logr.Info("migrations applied", zap.Strings("files", applied))

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()
	validate := service.NewValidator()

	userRepo := repository.NewUserRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "gpa-tracker-api",
	})
	semesterSvc := service.NewSemesterService(semesterRepo, courseRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, validate, logr, cfg.Attendance.DefaultTarget)
	catalogSvc := service.NewCatalogService(loadCatalog(cfg.Catalog.File, logr), logr)
	predictorSvc := service.NewPredictorService(semesterSvc, repository.NewPredictorStore(semesterRepo, courseRepo), metricsSvc, logr, cfg.Predictor.SessionTTL)
	exportSvc := service.NewExportService(semesterSvc, attendanceSvc, logr)

	go predictorSvc.Run(ctx, sessionSweepInterval)

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["cache"] = cacheRepo.Ping
	}

	h := handlers{
		auth:       handler.NewAuthHandler(authSvc),
		semesters:  handler.NewSemesterHandler(semesterSvc),
		attendance: handler.NewAttendanceHandler(attendanceSvc),
		catalog:    handler.NewCatalogHandler(catalogSvc),
		predictor:  handler.NewPredictorHandler(predictorSvc),
		exports:    handler.NewExportHandler(exportSvc),
		metrics:    handler.NewMetricsHandler(metricsSvc, checks),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	registerRoutes(r, cfg, h, middleware.JWT(authSvc))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h handlers, auth gin.HandlerFunc) {
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/refresh", h.auth.Refresh)
	authGroup.POST("/logout", auth, h.auth.Logout)
	authGroup.GET("/me", auth, h.auth.Me)

	secured := api.Group("")
	secured.Use(auth)

	secured.GET("/semesters", h.semesters.List)
	secured.POST("/semesters", h.semesters.Create)
	secured.PUT("/semesters/:id", h.semesters.Update)
	secured.DELETE("/semesters/:id", h.semesters.Delete)
	secured.POST("/semesters/:id/courses", h.semesters.AddCourse)
	secured.PUT("/courses/:id", h.semesters.UpdateCourse)
	secured.DELETE("/courses/:id", h.semesters.DeleteCourse)

	secured.GET("/gpa/summary", h.semesters.Summary)
	secured.GET("/gpa/trend", h.semesters.Trend)
	secured.GET("/gpa/semesters/:id/breakdown", h.semesters.Breakdown)

	secured.GET("/attendance", h.attendance.Get)
	secured.PUT("/attendance", h.attendance.Save)
	secured.GET("/attendance/report", h.attendance.Report)
	secured.POST("/attendance/evaluate", h.attendance.Evaluate)

	secured.GET("/catalog/search", h.catalog.Search)

	secured.POST("/predictor/session", h.predictor.Start)
	secured.GET("/predictor", h.predictor.View)
	secured.POST("/predictor/semesters", h.predictor.AddSemester)
	secured.PATCH("/predictor/semesters/:id", h.predictor.EditSemester)
	secured.DELETE("/predictor/semesters/:id", h.predictor.DeleteSemester)
	secured.POST("/predictor/semesters/:id/courses", h.predictor.AddCourse)
	secured.PATCH("/predictor/semesters/:id/courses/:courseId", h.predictor.EditCourse)
	secured.DELETE("/predictor/semesters/:id/courses/:courseId", h.predictor.DeleteCourse)
	secured.POST("/predictor/reset", h.predictor.Reset)
	secured.GET("/predictor/plan", h.predictor.Plan)
	secured.POST("/predictor/apply", h.predictor.Apply)

	secured.GET("/exports/transcript", h.exports.Transcript)
	secured.GET("/exports/attendance", h.exports.Attendance)
}

// loadCatalog returns the configured XLSX catalog, or nil to use the built-in one.
func loadCatalog(path string, logr *zap.Logger) []models.CatalogItem {
	if path == "" {
		return nil
	}
	items, err := service.LoadCatalogFile(path)
	if err != nil {
		logr.Warn("catalog file unusable, using built-in catalog", zap.String("path", path), zap.Error(err))
		return nil
	}
	logr.Info("catalog loaded", zap.String("path", path), zap.Int("items", len(items)))
	return items
}
