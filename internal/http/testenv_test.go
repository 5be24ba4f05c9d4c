package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database"
	"github.com/mrlokans/til/internal/database/acronyms"
	"github.com/mrlokans/til/internal/database/categories"
	"github.com/mrlokans/til/internal/database/users"
	"github.com/mrlokans/til/internal/entities"
)

const (
	adminUsername = "admin"
	adminPassword = "password"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router     *gin.Engine
	db         *database.Database
	admin      entities.User
	auth       *auth.Service
	acronyms   *acronyms.Repository
	categories *categories.Repository
	users      *users.Repository
}

// fakeQueue records cleanup requests instead of running them.
type fakeQueue struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (q *fakeQueue) EnqueueCategoryCleanup() (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	return "task-42", q.err
}

func (q *fakeQueue) TaskStatus(_ context.Context, taskID string) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if taskID != "task-42" {
		return "not_found", nil
	}
	return "success", nil
}

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "http.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hash, err := auth.HashPassword(adminPassword, bcrypt.MinCost)
	require.NoError(t, err)
	_, err = db.Migrate(database.AdminSeed{Name: "Admin", Username: adminUsername, PasswordHash: hash})
	require.NoError(t, err)
	return db
}

// newTestEnv builds the full router over a fresh sqlite database. Local mode
// adds sessions but no CSRF, so tests can post forms directly; opts can
// adjust the config before the router is built.
func newTestEnv(t *testing.T, mode config.AuthMode, opts ...func(*RouterConfig)) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	authCfg := config.Auth{
		Mode:            mode,
		BcryptCost:      bcrypt.MinCost,
		SessionLifetime: time.Hour,
		TokenExpiry:     time.Hour,
	}
	svc := auth.NewService(db.DB, authCfg)

	var sm *auth.SessionManager
	var limiter *auth.LoginLimiter
	if mode == config.AuthModeLocal {
		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		sm, err = auth.NewSessionManager(sqlDB, config.DriverSQLite, authCfg)
		require.NoError(t, err)
		limiter = auth.NewLoginLimiter(authCfg)
		t.Cleanup(limiter.Stop)
	}

	env := &testEnv{
		db:         db,
		auth:       svc,
		acronyms:   acronyms.NewRepository(db.DB),
		categories: categories.NewRepository(db.DB),
		users:      users.NewRepository(db.DB),
	}

	cfg := RouterConfig{
		Database:       db,
		AcronymStore:   env.acronyms,
		UserStore:      env.users,
		CategoryStore:  env.categories,
		AuthService:    svc,
		AuthMiddleware: auth.NewMiddleware(svc, sm, authCfg),
		SessionManager: sm,
		LoginLimiter:   limiter,
		AuthConfig:     authCfg,
		TemplatesPath:  "../../templates",
		StaticPath:     "../../static",
		Version:        "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	env.router = NewRouter(cfg)

	admin, err := env.users.GetByUsername(adminUsername)
	require.NoError(t, err)
	env.admin = *admin
	return env
}

func (e *testEnv) request(method, path string, body io.Reader, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for _, fn := range setup {
		fn(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	return e.request(http.MethodGet, path, nil, setup...)
}

func (e *testEnv) sendJSON(method, path, body string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	setup = append([]func(*http.Request){func(r *http.Request) {
		r.Header.Set("Content-Type", "application/json")
	}}, setup...)
	return e.request(method, path, strings.NewReader(body), setup...)
}

func (e *testEnv) postForm(path, form string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	setup = append([]func(*http.Request){func(r *http.Request) {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}}, setup...)
	return e.request(http.MethodPost, path, strings.NewReader(form), setup...)
}

func asAdmin(r *http.Request) {
	r.SetBasicAuth(adminUsername, adminPassword)
}

func (e *testEnv) createAcronym(t *testing.T, short, long string) *entities.Acronym {
	t.Helper()
	acronym := &entities.Acronym{Short: short, Long: long, UserID: e.admin.ID}
	require.NoError(t, e.acronyms.Create(acronym))
	return acronym
}

func (e *testEnv) createUser(t *testing.T, name, username string, twitter *string) *entities.User {
	t.Helper()
	user, err := e.auth.CreateUser(auth.NewUser{Name: name, Username: username, Password: "secret-password", TwitterURL: twitter})
	require.NoError(t, err)
	return user
}
