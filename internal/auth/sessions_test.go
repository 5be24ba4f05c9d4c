package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/entities"
)

func setupSessionManager(t *testing.T) (*SessionManager, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	sm, err := NewSessionManager(sqlDB, config.DriverSQLite, testAuthConfig(config.AuthModeLocal))
	require.NoError(t, err)
	return sm, db
}

func TestNewSessionManager_SQLiteStore(t *testing.T) {
	sm, db := setupSessionManager(t)

	assert.True(t, db.Migrator().HasTable("sessions"))
	assert.Equal(t, "til-session", sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
}

func TestNewSessionManager_MemoryStoreForOtherDrivers(t *testing.T) {
	cfg := testAuthConfig(config.AuthModeLocal)
	cfg.SecureCookies = true

	sm, err := NewSessionManager(nil, config.DriverPostgres, cfg)
	require.NoError(t, err)

	_, ok := sm.Store.(*memstore.MemStore)
	assert.True(t, ok)
	assert.True(t, sm.Cookie.Secure)
}

func TestSessionManager_RoundTrip(t *testing.T) {
	sm, db := setupSessionManager(t)
	var admin entities.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.POST("/login", func(c *gin.Context) {
		require.NoError(t, sm.CreateSession(c.Request, &admin))
		c.Redirect(http.StatusFound, "/")
	})
	router.POST("/logout", func(c *gin.Context) {
		require.NoError(t, sm.DestroySession(c.Request))
		c.Status(http.StatusNoContent)
	})
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s|%t", sm.GetUserID(c.Request), sm.GetUsername(c.Request), sm.IsAuthenticated(c.Request))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "til-session", cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, admin.ID.String()+"|admin|true", w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "|false")
}
