package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cineshow/api/routes"
	"cineshow/internal/jobs"
	"cineshow/internal/notifications"
	"cineshow/internal/shared/config"
	"cineshow/internal/shared/database"
	"cineshow/pkg/logger"
	"cineshow/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// HTTP wiring builds the domain services the background pieces reuse.
	appRouter := routes.NewRouter(cfg, db)
	engine := setupEngine(cfg, rateLimiter)
	appRouter.SetupRoutes(engine)

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	defer backgroundCancel()

	// Deferred seat releases go through Redis so they survive restarts.
	releaseScheduler := jobs.NewReleaseScheduler(cfg.Redis)
	defer releaseScheduler.Close()
	appRouter.BookingService.SetScheduler(releaseScheduler)

	// Email delivery. Without SMTP credentials mail is logged, not sent.
	var sender notifications.Sender
	if smtpSender, err := notifications.NewSMTPSender(cfg.Email); err != nil {
		appLogger.Info("SMTP not configured, emails will be logged only", slog.Any("reason", err))
		sender = notifications.NewLogSender()
	} else {
		sender = smtpSender
	}
	dispatcher := notifications.NewDispatcher(sender)

	// Notification publishing and consumption. The API stays up without the
	// broker; confirmations and announcements are just not sent.
	producer, err := notifications.NewKafkaProducer(cfg.Kafka)
	if err != nil {
		appLogger.Error("Failed to initialize notification producer, continuing without notifications", slog.Any("error", err))
	} else {
		defer producer.Close()

		notificationService := notifications.NewService(producer, appRouter.UserService, appRouter.ShowService, appRouter.MovieService)
		appRouter.ShowService.SetNotifier(notificationService)
		appRouter.BookingService.SetNotifier(notificationService)

		consumer, err := notifications.NewKafkaConsumer(cfg.Kafka, dispatcher)
		if err != nil {
			appLogger.Error("Failed to initialize notification consumer", slog.Any("error", err))
		} else {
			if err := consumer.Start(backgroundCtx, cfg.Booking.WorkerConcurrency); err != nil {
				appLogger.Error("Failed to start notification consumer", slog.Any("error", err))
			}
			defer func() {
				if err := consumer.Stop(); err != nil {
					appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
				}
			}()
		}
	}

	// Background worker: deferred releases and the reminder sweep.
	worker := jobs.NewWorker(cfg, appRouter.BookingService, appRouter.ShowService,
		appRouter.MovieService, appRouter.UserService, appRouter.SeatMap, dispatcher)
	if err := worker.Start(); err != nil {
		appLogger.Error("Failed to start background worker", slog.Any("error", err))
		os.Exit(1)
	}
	defer worker.Shutdown()

	// Heal releases that were due while the process was down.
	go func() {
		ctx, cancel := context.WithTimeout(backgroundCtx, 2*time.Minute)
		defer cancel()
		released, err := appRouter.BookingService.ReconcilePending(ctx)
		if err != nil {
			appLogger.Error("Booking reconciliation failed", slog.Any("error", err))
			return
		}
		if released > 0 {
			appLogger.Info("Reconciled expired bookings", slog.Int("released", released))
		}
	}()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
