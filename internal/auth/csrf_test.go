package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFSecret = []byte("01234567890123456789012345678901")

func setupCSRFRouter() *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, GetCSRFToken(c)) })
	router.POST("/form", func(c *gin.Context) { c.String(http.StatusOK, "saved") })
	return router
}

func TestCSRFMiddleware_GETSetsToken(t *testing.T) {
	router := setupCSRFRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	router := setupCSRFRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/form", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "saved")
}

func TestCSRFMiddleware_AcceptsPOSTWithToken(t *testing.T) {
	router := setupCSRFRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	cookies := w.Result().Cookies()

	form := url.Values{CSRFFieldName: {token}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "saved", w.Body.String())
}

func TestCSRFErrorHandler_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/form", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	csrfErrorHandler(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"CSRF token invalid or missing"}`, w.Body.String())
}

func TestGetCSRFToken_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetCSRFToken(c))
}
