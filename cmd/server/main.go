package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hungerhelp/hungerhelp/internal/audit"
	"github.com/hungerhelp/hungerhelp/internal/config"
	"github.com/hungerhelp/hungerhelp/internal/database"
	"github.com/hungerhelp/hungerhelp/internal/handler"
	"github.com/hungerhelp/hungerhelp/internal/locator"
	"github.com/hungerhelp/hungerhelp/internal/metrics"
	"github.com/hungerhelp/hungerhelp/internal/middleware"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/notify"
	"github.com/hungerhelp/hungerhelp/internal/repository"
	"github.com/hungerhelp/hungerhelp/internal/security"
	"github.com/hungerhelp/hungerhelp/internal/service"
	"github.com/hungerhelp/hungerhelp/internal/session"
	"github.com/hungerhelp/hungerhelp/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Structured operational logging to stdout
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Security audit sink, opened once for the process lifetime
	sink, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit log: %v", err)
	}
	defer sink.Close()

	// Apply schema migrations before taking traffic
	if err := database.RunMigrations(cfg.DbURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.DbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Image storage backend
	var images storage.ImageStore
	var localImages *storage.LocalStore
	switch cfg.ImageStore {
	case "s3":
		images, err = storage.NewS3Store(context.Background(), cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to initialize S3 store: %v", err)
		}
	default:
		localImages, err = storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize local image store: %v", err)
		}
		images = localImages
	}

	// Login challenge verifier; disabled unless a secret is configured
	var verifier security.ChallengeVerifier = security.NoopVerifier{}
	if cfg.RecaptchaSecret != "" {
		verifier = security.NewRecaptchaVerifier(cfg.RecaptchaSecret)
	}

	// Initialize repositories, services, and handlers
	collector := metrics.NewCollector()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	sessions := session.NewManager(cfg.SessionSecret, 24*time.Hour, strings.HasPrefix(cfg.BaseURL, "https://"))

	var notifier service.Notifier
	if cfg.SendGridKey != "" {
		sender := notify.NewSendGridSender(cfg.SendGridKey, cfg.NotifyFrom)
		notifier = notify.NewMailer(sender, userRepo, 2, cfg.BaseURL)
	}

	authService := service.NewAuthService(userRepo, verifier, sink, collector)
	postService := service.NewPostService(postRepo, images, notifier, collector)
	locatorService := locator.New(cfg.MapsKey)

	// Seed admin account, ensured once at bootstrap
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to ensure admin account: %v", err)
	}

	authHandler := handler.NewAuthHandler(authService, sessions)
	blogHandler := handler.NewBlogHandler(postService)
	adminHandler := handler.NewAdminHandler(authService, sink)
	locatorHandler := handler.NewLocatorHandler(locatorService)

	// Create router with middleware
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Session(sessions))
	r.Use(middleware.RequestLogger(slog.Default()))
	r.Use(collector.Middleware)
	r.Use(middleware.RateLimiter())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	// Public routes
	r.Get("/aboutus", handler.About)
	r.Get("/blog_home", blogHandler.Home)
	r.Get("/order_recipes/{order}", blogHandler.Order)
	r.Get("/recipe/{id}", blogHandler.Get)
	r.Post("/locator", locatorHandler.Search)
	if localImages != nil {
		r.Mount("/images", localImages.Handler())
	}

	// Auth routes with strict rate limiting
	r.Group(func(r chi.Router) {
		r.Use(middleware.StrictRateLimiter())
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/reset", authHandler.Reset)
	})

	// Routes for any authenticated member
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(), middleware.RequireRoles(model.RoleUser, model.RoleAdmin))
		r.Get("/logout", authHandler.Logout)
		r.Get("/profile", authHandler.Profile)
		r.Post("/blog", blogHandler.Create)
		r.Post("/edit_recipe/{id}", blogHandler.Edit)
		r.Post("/delete_recipe/{id}", blogHandler.Delete)
	})

	// Admin-only routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(), middleware.RequireRoles(model.RoleAdmin))
		r.Get("/admin", adminHandler.Home)
		r.Get("/admin/users", adminHandler.Users)
		r.Get("/admin/logs", adminHandler.Logs)
	})

	// Create server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("server exited")
}
