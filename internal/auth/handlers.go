package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sanitizeRedirectPath returns path when it is a local absolute path, "/" otherwise.
func sanitizeRedirectPath(path string) string {
	if !strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "//") ||
		strings.Contains(path, "://") ||
		strings.Contains(path, "\\") {
		return "/"
	}
	return path
}

// AuthController serves the website's login and logout.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	limiter        *LoginLimiter
}

func NewAuthController(service *Service, sessionManager *SessionManager, limiter *LoginLimiter) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		limiter:        limiter,
	}
}

// RegisterRoutes registers the login routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
}

func (ac *AuthController) renderLogin(c *gin.Context, status int, next, username, errorMsg string) {
	c.HTML(status, "login", gin.H{
		"Title":    "Log In",
		"Next":     next,
		"Username": username,
		"Error":    errorMsg,
		"Auth": gin.H{
			"Enabled":   true,
			"LoggedIn":  false,
			"CSRFToken": GetCSRFToken(c),
		},
	})
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	ac.renderLogin(c, http.StatusOK, sanitizeRedirectPath(c.Query("next")), "", c.Query("error"))
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	if ac.limiter != nil {
		if allowed, retryAfter := ac.limiter.Allow(clientIP, username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			ac.renderLogin(c, http.StatusTooManyRequests, next, username, "Too many login attempts. Please try again later.")
			return
		}
	}

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		if ac.limiter != nil {
			ac.limiter.RecordFailure(clientIP, username)
		}
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidPassword) {
			log.Printf("Login failed for %q: %v", username, err)
		}
		ac.renderLogin(c, http.StatusUnauthorized, next, username, "Invalid username or password")
		return
	}

	if ac.limiter != nil {
		ac.limiter.RecordSuccess(clientIP, username)
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for %q: %v", username, err)
		ac.renderLogin(c, http.StatusInternalServerError, next, username, "Failed to create session")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and returns to the home page.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// TokenResponse is returned by the API login endpoint.
type TokenResponse struct {
	ID     uuid.UUID `json:"id"`
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"userID"`
}

// TokenController issues and revokes API tokens.
type TokenController struct {
	service *Service
	limiter *LoginLimiter
}

func NewTokenController(service *Service, limiter *LoginLimiter) *TokenController {
	return &TokenController{service: service, limiter: limiter}
}

// Login exchanges HTTP basic credentials for a bearer token.
func (tc *TokenController) Login(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", basicRealm)
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
		return
	}

	clientIP := c.ClientIP()
	if tc.limiter != nil {
		if allowed, retryAfter := tc.limiter.Allow(clientIP, username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			return
		}
	}

	user, err := tc.service.Authenticate(username, password)
	if err != nil {
		if tc.limiter != nil {
			tc.limiter.RecordFailure(clientIP, username)
		}
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) {
			c.Header("WWW-Authenticate", basicRealm)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		log.Printf("API login failed for %q: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if tc.limiter != nil {
		tc.limiter.RecordSuccess(clientIP, username)
	}

	token, plaintext, err := tc.service.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Failed to generate token for %q: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{ID: token.ID, Token: plaintext, UserID: user.ID})
}

// Logout revokes the bearer token the request was made with.
func (tc *TokenController) Logout(c *gin.Context) {
	tokenID := GetTokenID(c)
	if tokenID == uuid.Nil {
		c.Header("WWW-Authenticate", `Bearer realm="til"`)
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
		return
	}

	if err := tc.service.RevokeToken(tokenID); err != nil && !errors.Is(err, ErrInvalidToken) {
		log.Printf("Failed to revoke token %s: %v", tokenID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
