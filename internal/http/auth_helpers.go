package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/config"
)

const contextKeyAuthTemplateData = "auth_template_data"

// AuthTemplateData is exposed to every page as .Auth.
type AuthTemplateData struct {
	Enabled   bool // local auth mode
	LoggedIn  bool
	UserID    uuid.UUID
	Name      string
	Username  string
	CSRFToken string // empty when CSRF protection is off
}

// AuthContextMiddleware resolves the page's AuthTemplateData once per request.
func AuthContextMiddleware(authMode config.AuthMode) gin.HandlerFunc {
	enabled := authMode == config.AuthModeLocal

	return func(c *gin.Context) {
		data := AuthTemplateData{Enabled: enabled, CSRFToken: auth.GetCSRFToken(c)}
		if id := auth.GetUserID(c); enabled && id != uuid.Nil {
			data.LoggedIn = true
			data.UserID = id
			data.Name = auth.GetName(c)
			data.Username = auth.GetUsername(c)
		}
		c.Set(contextKeyAuthTemplateData, data)
		c.Next()
	}
}

func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	data, _ := c.Get(contextKeyAuthTemplateData)
	authData, _ := data.(AuthTemplateData)
	return authData
}
