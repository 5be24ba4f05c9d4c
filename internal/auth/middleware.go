package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyName     = "auth_name"
	ContextKeyTokenID  = "auth_token_id"
	ContextKeyAuthType = "auth_type"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeBasic   AuthType = "basic"
	AuthTypeBearer  AuthType = "bearer"
	AuthTypeSession AuthType = "session"
)

const basicRealm = `Basic realm="til"`

// Middleware identifies the caller and guards write routes.
//
// Handler never rejects a request: it records who the caller is, if anyone.
// RequireAuth rejects anonymous callers, but only in local auth mode.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
}

// NewMiddleware creates a new authentication middleware.
// sessionManager may be nil when web sessions are not in use.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
	}
}

// Handler returns a Gin middleware that authenticates the request using, in
// order, a bearer token, basic credentials, or the web session.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, user := m.tryBearerAuth(c); user != nil {
			setUserContext(c, user, AuthTypeBearer)
			c.Set(ContextKeyTokenID, token.ID)
		} else if user := m.tryBasicAuth(c); user != nil {
			setUserContext(c, user, AuthTypeBasic)
		} else if user := m.trySessionAuth(c); user != nil {
			setUserContext(c, user, AuthTypeSession)
		} else {
			c.Set(ContextKeyAuthType, AuthTypeNone)
		}
		c.Next()
	}
}

func (m *Middleware) tryBearerAuth(c *gin.Context) (*entities.Token, *entities.User) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, nil
	}

	token, user, err := m.service.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil
	}
	return token, user
}

func (m *Middleware) tryBasicAuth(c *gin.Context) *entities.User {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return nil
	}

	user, err := m.service.Authenticate(username, password)
	if err != nil {
		return nil
	}
	return user
}

func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == uuid.Nil {
		return nil
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return nil
	}
	return user
}

func setUserContext(c *gin.Context, user *entities.User, authType AuthType) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUsername, user.Username)
	c.Set(ContextKeyName, user.Name)
	c.Set(ContextKeyAuthType, authType)
}

// RequireAuth rejects anonymous requests in local auth mode. API callers get a
// 401 with a basic challenge; browsers are redirected to the login page.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Mode != config.AuthModeLocal || GetUserID(c) != uuid.Nil {
			c.Next()
			return
		}

		if isAPIRequest(c) {
			c.Header("WWW-Authenticate", basicRealm)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrAuthRequired.Error(),
			})
			return
		}

		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
	}
}

// isAPIRequest determines if this is an API request vs web browser request.
func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return c.GetHeader("Authorization") != ""
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns uuid.Nil when the request is anonymous.
func GetUserID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetName retrieves the authenticated user's display name from the context.
func GetName(c *gin.Context) string {
	return c.GetString(ContextKeyName)
}

// GetTokenID returns the ID of the bearer token used for this request, if any.
func GetTokenID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get(ContextKeyTokenID); exists {
		if tokenID, ok := id.(uuid.UUID); ok {
			return tokenID
		}
	}
	return uuid.Nil
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}

// IsAuthenticated returns true if a user was identified for this request.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != uuid.Nil
}
