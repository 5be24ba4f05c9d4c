package http

import (
	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	AcronymStore  AcronymStore
	UserStore     UserStore
	CategoryStore CategoryStore

	// Authentication. AuthService and AuthMiddleware are always set;
	// SessionManager, LoginLimiter and CSRFSecret only in local mode.
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	LoginLimiter   *auth.LoginLimiter
	CSRFSecret     []byte
	SecureCookies  bool
	AuthConfig     config.Auth

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Task queue (optional)
	CleanupQueue CleanupQueue

	// Prometheus metrics (optional)
	Metrics *Metrics

	Version string
}
