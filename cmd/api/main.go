package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/handlers"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/db"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/profiling"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
	"github.com/mentorlink/mentorlink-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerMentorRoutes registers the mentor-facing API surface. Everything
// here requires a mentor session; the per-record routes additionally run
// the ownership policies.
func registerMentorRoutes(
	router *gin.Engine,
	cfg *config.Config,
	tokenManager *jwt.TokenManager,
	authRateLimiter, generalRateLimiter *middleware.RateLimiter,
	menteeRepo repository.MenteeRepositoryInterface,
	mentorAuthHandler *handlers.MentorAuthHandler,
	menteeHandler *handlers.MenteeHandler,
	taskHandler *handlers.TaskHandler,
	scheduleHandler *handlers.ScheduleHandler,
	uploadHandler *handlers.UploadHandler,
) {
	sessionMW := middleware.MentorSessionMiddleware(tokenManager, cfg.MentorSession.CookieDomain, cfg.MentorSession.CookieSecure)

	auth := router.Group("/api/v1/auth/mentor")
	auth.POST("/register", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), mentorAuthHandler.Register)
	auth.POST("/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), mentorAuthHandler.Login)
	auth.POST("/logout", mentorAuthHandler.Logout)
	auth.GET("/session", sessionMW, mentorAuthHandler.GetSession)

	v1 := router.Group("/api/v1")
	v1.Use(generalRateLimiter.Middleware(), sessionMW)

	v1.GET("/mentees", menteeHandler.ListMentees)
	v1.POST("/mentees", middleware.BodySizeLimitMiddleware(10*1024), menteeHandler.RegisterMentee)
	v1.POST("/navigators", middleware.BodySizeLimitMiddleware(10*1024), menteeHandler.CreateNavigator)

	owned := v1.Group("/mentees/:id")
	owned.Use(middleware.MentorOwnsMentee(menteeRepo))
	owned.GET("/tasks", taskHandler.ListMenteeTasks)
	owned.POST("/tasks", middleware.BodySizeLimitMiddleware(10*1024), taskHandler.CreateTask)
	owned.POST("/uploads", middleware.BodySizeLimitMiddleware(210*1024*1024), uploadHandler.UploadVideo)

	v1.GET("/slots", scheduleHandler.ListMeetings)
	v1.POST("/slots", middleware.BodySizeLimitMiddleware(10*1024), scheduleHandler.PublishSlot)
}

// registerMenteeRoutes registers the mentee-facing surface guarded by the
// capability token, plus the token entry and logout endpoints.
func registerMenteeRoutes(
	router *gin.Engine,
	cfg *config.Config,
	menteeGuard *middleware.MenteeTokenGuard,
	taskStatusGuard *middleware.TaskStatusGuard,
	tokenRateLimiter, generalRateLimiter *middleware.RateLimiter,
	menteeAuthHandler *handlers.MenteeAuthHandler,
	taskHandler *handlers.TaskHandler,
	scheduleHandler *handlers.ScheduleHandler,
) {
	originCheck := middleware.OriginCheckMiddleware(cfg.Server.AllowedOrigins)

	// Tight rate limit on token submission: the token is the sole mentee
	// credential, so online guessing has to be expensive.
	router.POST("/auth/mentee", tokenRateLimiter.Middleware(), originCheck, middleware.BodySizeLimitMiddleware(4*1024), menteeAuthHandler.SubmitToken)
	router.GET("/auth/mentee/logout", generalRateLimiter.Middleware(), menteeAuthHandler.Logout)

	mentee := router.Group("/mentee")
	mentee.Use(generalRateLimiter.Middleware(), menteeGuard.Middleware())
	mentee.GET("/available-dates", scheduleHandler.AvailableDates)
	mentee.GET("/slots", scheduleHandler.OpenSlots)
	mentee.POST("/meetings", originCheck, middleware.BodySizeLimitMiddleware(10*1024), scheduleHandler.BookMeeting)
	mentee.GET("/tasks", taskHandler.MyTasks)

	// The status toggle is invoked from a non-browser-form context and is
	// deliberately exempt from the origin check. Its combined guard still
	// requires both a mentor session and a valid mentee token.
	router.POST("/tasks/:id/status", generalRateLimiter.Middleware(), taskStatusGuard.Middleware(), taskHandler.ToggleStatus)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorLink API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.CollectorEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	if cfg.Profiling.Enabled {
		stopProfiler, err := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Server.AppEnv,
		)
		if err != nil {
			logger.Error("Failed to initialize profiler", zap.Error(err))
		} else {
			defer stopProfiler()
		}
	}

	metrics.RecordInfrastructureMetrics()

	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// Object storage is optional: without credentials the upload endpoint
	// reports an internal error instead of the whole app refusing to start.
	var videoStore storage.VideoStore
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		videoStore, err = storage.NewStorageClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize storage client", zap.Error(err))
		}
	} else {
		logger.Warn("Object storage not configured, video uploads disabled")
	}

	// Repositories
	menteeRepo := repository.NewMenteeRepository(pool)
	navigatorRepo := repository.NewNavigatorRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	uploadRepo := repository.NewUploadRepository(pool)
	mentorRepo := repository.NewMentorRepository(pool)

	summaryCache := cache.NewStageSummaryCache()

	// Services
	tokenService := services.NewMenteeTokenService(menteeRepo)
	menteeService := services.NewMenteeService(menteeRepo, navigatorRepo, tokenService, summaryCache)
	mentorAuthService := services.NewMentorAuthService(mentorRepo, cfg)
	taskService := services.NewTaskService(taskRepo, uploadRepo)
	scheduleService := services.NewScheduleService(scheduleRepo)
	uploadService := services.NewUploadService(uploadRepo, videoStore)

	// Handlers
	mentorAuthHandler := handlers.NewMentorAuthHandler(mentorAuthService)
	menteeAuthHandler := handlers.NewMenteeAuthHandler(tokenService, cfg.MenteeAuth)
	menteeHandler := handlers.NewMenteeHandler(menteeService)
	taskHandler := handlers.NewTaskHandler(taskService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	healthHandler := handlers.NewHealthHandler(poolReady(pool))

	// Policy guards
	tokenManager := mentorAuthService.GetTokenManager()
	menteeGuard := middleware.NewMenteeTokenGuard(
		tokenService,
		cfg.MenteeAuth.CookieTTLSeconds,
		cfg.MenteeAuth.TokenEntryPath,
		cfg.MenteeAuth.CookieDomain,
		cfg.MenteeAuth.CookieSecure,
	)
	taskStatusGuard := middleware.NewTaskStatusGuard(
		tokenManager,
		menteeGuard,
		taskRepo,
		cfg.MenteeAuth.LoginPath,
		cfg.MentorSession.CookieDomain,
		cfg.MentorSession.CookieSecure,
	)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // session and capability cookies
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(100, 200)
	authRateLimiter := middleware.NewRateLimiter(0.0334, 5)  // ~2 req/min, burst of 5
	tokenRateLimiter := middleware.NewRateLimiter(0.0334, 5) // ~2 req/min, burst of 5

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	registerMentorRoutes(router, cfg, tokenManager, authRateLimiter, generalRateLimiter,
		menteeRepo, mentorAuthHandler, menteeHandler, taskHandler, scheduleHandler, uploadHandler)
	registerMenteeRoutes(router, cfg, menteeGuard, taskStatusGuard, tokenRateLimiter, generalRateLimiter,
		menteeAuthHandler, taskHandler, scheduleHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// poolReady reports database reachability for the health endpoint
func poolReady(pool *pgxpool.Pool) func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx) == nil
	}
}
