package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/til/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// whoami echoes what the middleware stored in the context.
func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":   GetUserID(c).String(),
		"username":  GetUsername(c),
		"auth_type": string(GetAuthType(c)),
		"token_id":  GetTokenID(c).String(),
	})
}

func setupMiddlewareRouter(t *testing.T, mode config.AuthMode) (*gin.Engine, *Service) {
	t.Helper()
	cfg := testAuthConfig(mode)
	svc := NewService(setupTestDB(t), cfg)
	m := NewMiddleware(svc, nil, cfg)

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/api/whoami", whoami)
	router.POST("/api/protected", m.RequireAuth(), whoami)
	router.POST("/acronyms/create", m.RequireAuth(), whoami)
	return router, svc
}

func TestMiddleware_Anonymous(t *testing.T) {
	router, _ := setupMiddlewareRouter(t, config.AuthModeLocal)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"auth_type":"none"`)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())
}

func TestMiddleware_BasicAuth(t *testing.T) {
	router, _ := setupMiddlewareRouter(t, config.AuthModeLocal)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.SetBasicAuth("admin", "password")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"auth_type":"basic"`)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
}

func TestMiddleware_BasicAuth_WrongPasswordIsAnonymous(t *testing.T) {
	router, _ := setupMiddlewareRouter(t, config.AuthModeLocal)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.SetBasicAuth("admin", "not-the-password")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"auth_type":"none"`)
}

func TestMiddleware_BearerAuth(t *testing.T) {
	router, svc := setupMiddlewareRouter(t, config.AuthModeLocal)
	admin, err := svc.Authenticate("admin", "password")
	require.NoError(t, err)
	token, plaintext, err := svc.GenerateToken(admin.ID)
	require.NoError(t, err)

	for _, scheme := range []string{"Bearer ", "bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.Header.Set("Authorization", scheme+plaintext)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"auth_type":"bearer"`)
		assert.Contains(t, w.Body.String(), token.ID.String())
		assert.Contains(t, w.Body.String(), admin.ID.String())
	}
}

func TestMiddleware_BearerAuth_Invalid(t *testing.T) {
	router, _ := setupMiddlewareRouter(t, config.AuthModeLocal)

	for _, header := range []string{"Bearer nope", "Bearer", "Token abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, header)
		assert.Contains(t, w.Body.String(), `"auth_type":"none"`, header)
	}
}

func TestMiddleware_RequireAuth_LocalMode(t *testing.T) {
	router, _ := setupMiddlewareRouter(t, config.AuthModeLocal)

	t.Run("api returns 401 with challenge", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, basicRealm, w.Header().Get("WWW-Authenticate"))
		assert.Contains(t, w.Body.String(), "authentication required")
	})

	t.Run("website redirects to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/acronyms/create", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Facronyms%2Fcreate", w.Header().Get("Location"))
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/protected", nil)
		req.SetBasicAuth("admin", "password")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMiddleware_RequireAuth_NoneMode(t *testing.T) {
	router, _ := setupMiddlewareRouter(t, config.AuthModeNone)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/protected", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContextHelpers_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, uuid.Nil, GetUserID(c))
	assert.Equal(t, uuid.Nil, GetTokenID(c))
	assert.Empty(t, GetUsername(c))
	assert.Empty(t, GetName(c))
	assert.Equal(t, AuthTypeNone, GetAuthType(c))
	assert.False(t, IsAuthenticated(c))
}

func TestIsAPIRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   bool
	}{
		{name: "api prefix", path: "/api/acronyms", want: true},
		{name: "json accept", path: "/acronyms/1", header: map[string]string{"Accept": "application/json"}, want: true},
		{name: "authorization header", path: "/acronyms/1", header: map[string]string{"Authorization": "Basic x"}, want: true},
		{name: "browser", path: "/acronyms/1", header: map[string]string{"Accept": "text/html"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, isAPIRequest(c))
		})
	}
}
