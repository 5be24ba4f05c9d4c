package entrypoint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database"
	"github.com/mrlokans/til/internal/database/acronyms"
	"github.com/mrlokans/til/internal/database/categories"
	"github.com/mrlokans/til/internal/database/users"
	http_controllers "github.com/mrlokans/til/internal/http"
	"github.com/mrlokans/til/internal/scheduler"
	"github.com/mrlokans/til/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server stops accepting requests.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// AdminSeed builds the account the AdminUser migration creates.
func AdminSeed(cfg *config.Config) (database.AdminSeed, error) {
	hash, err := auth.HashPassword(cfg.Admin.Password, cfg.Auth.BcryptCost)
	if err != nil {
		return database.AdminSeed{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return database.AdminSeed{
		Name:         cfg.Admin.Name,
		Username:     cfg.Admin.Username,
		PasswordHash: hash,
	}, nil
}

// OpenDatabase connects to the configured database and applies pending migrations.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	seed, err := AdminSeed(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Migrate(seed); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// CSRFKey derives the 32-byte gorilla/csrf key from AUTH_SESSION_SECRET.
// A 64-character hex secret is used as is; anything else is hashed. An empty
// secret yields a random key, so forms do not survive a restart.
func CSRFKey(secret string) ([]byte, error) {
	if secret == "" {
		generated, err := auth.GenerateSessionSecret()
		if err != nil {
			return nil, err
		}
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		secret = generated
	}
	if key, err := hex.DecodeString(secret); err == nil && len(key) == 32 {
		return key, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting TIL v%s", version)

	db, err := OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	acronymRepo := acronyms.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.CategoryCleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupOrphanCategoriesQueue(categoryRepo))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Cleanup.Enabled {
			cleanupScheduler = scheduler.NewCategoryCleanupScheduler(taskClient, cfg.Cleanup.Schedule)
			if err := cleanupScheduler.Start(taskCtx); err != nil {
				log.Fatalf("Failed to start category cleanup scheduler: %v", err)
			}
		}
	} else if cfg.Cleanup.Enabled {
		log.Printf("WARNING: CATEGORY_CLEANUP_ENABLED is set but the task queue is disabled")
	}

	authService := auth.NewService(db.DB, cfg.Auth)
	var sessionManager *auth.SessionManager
	var loginLimiter *auth.LoginLimiter
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, db.Driver, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		csrfSecret, err = CSRFKey(cfg.Auth.SessionSecret)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}

		loginLimiter = auth.NewLoginLimiter(cfg.Auth)
		defer loginLimiter.Stop()

		if has, err := authService.HasUsers(); err == nil && !has {
			log.Printf("WARNING: no users exist; create one with 'til create-user' to log in")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		AcronymStore:   acronymRepo,
		UserStore:      userRepo,
		CategoryStore:  categoryRepo,
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(authService, sessionManager, cfg.Auth),
		SessionManager: sessionManager,
		LoginLimiter:   loginLimiter,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		AuthConfig:     cfg.Auth,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}
	// A nil *tasks.Client must not become a non-nil interface.
	if taskClient != nil {
		routerCfg.CleanupQueue = taskClient
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = http_controllers.NewMetrics()
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
