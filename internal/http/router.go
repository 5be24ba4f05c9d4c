package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/til/internal/auth"
)

// templateFuncs are available to every website template.
var templateFuncs = template.FuncMap{
	// blankSlots yields n iterations for rendering empty category inputs.
	"blankSlots": func(n int) []struct{} {
		return make([]struct{}, n)
	},
}

// LoadTemplates parses every *.html file under path into one set.
func LoadTemplates(path string) *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseGlob(path + "/*.html"))
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// Sessions load before auth so the middleware can read the logged-in user.
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	router.SetHTMLTemplate(LoadTemplates(cfg.TemplatesPath))
	router.Static("/static", cfg.StaticPath)

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	api := router.Group("/api")

	// Acronyms API
	acronyms := NewAcronymsController(cfg.AcronymStore, cfg.AuthConfig.Mode)
	api.GET("/acronyms", acronyms.GetAll)
	api.POST("/acronyms", requireAuth, acronyms.Create)
	api.GET("/acronyms/search", acronyms.Search)
	api.GET("/acronyms/first", acronyms.First)
	api.GET("/acronyms/sorted", acronyms.Sorted)
	api.GET("/acronyms/:id", acronyms.Get)
	api.PUT("/acronyms/:id", requireAuth, acronyms.Update)
	api.DELETE("/acronyms/:id", requireAuth, acronyms.Delete)
	api.GET("/acronyms/:id/user", acronyms.GetUser)
	api.GET("/acronyms/:id/categories", acronyms.GetCategories)
	api.POST("/acronyms/:id/categories/:categoryID", requireAuth, acronyms.AttachCategory)
	api.DELETE("/acronyms/:id/categories/:categoryID", requireAuth, acronyms.DetachCategory)

	// Users API
	users := NewUsersController(cfg.UserStore, cfg.AuthService)
	api.GET("/users", users.GetAll)
	api.POST("/users", requireAuth, users.Create)
	api.GET("/users/:id", users.Get)
	api.GET("/users/:id/acronyms", users.GetAcronyms)
	api.DELETE("/users/:id", requireAuth, users.Delete)
	api.GET("/v2/users/:id", users.GetV2)

	// Token login and logout
	if cfg.AuthService != nil {
		tokens := auth.NewTokenController(cfg.AuthService, cfg.LoginLimiter)
		api.POST("/users/login", tokens.Login)
		api.DELETE("/users/logout", requireAuth, tokens.Logout)
	}

	// Categories API
	categories := NewCategoriesController(cfg.CategoryStore, cfg.CleanupQueue)
	api.GET("/categories", categories.GetAll)
	api.POST("/categories", requireAuth, categories.Create)
	api.GET("/categories/:id", categories.Get)
	api.GET("/categories/:id/acronyms", categories.GetAcronyms)
	api.POST("/admin/categories/cleanup", requireAuth, categories.CleanupOrphans)
	api.GET("/admin/tasks/:taskID", requireAuth, categories.CleanupStatus)

	// Website. CSRF covers the form routes only; the API authenticates every
	// write with credentials instead of cookies.
	web := router.Group("/")
	if len(cfg.CSRFSecret) > 0 {
		web.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	web.Use(AuthContextMiddleware(cfg.AuthConfig.Mode))

	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() && cfg.SessionManager != nil {
		auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter).RegisterRoutes(web)
	}

	website := NewWebsiteController(cfg.AcronymStore, cfg.UserStore, cfg.CategoryStore, cfg.AuthConfig.Mode)
	web.GET("/", website.Index)
	web.GET("/acronyms/create", requireAuth, website.CreateAcronymPage)
	web.POST("/acronyms/create", requireAuth, website.CreateAcronym)
	web.GET("/acronyms/:id", website.Acronym)
	web.GET("/acronyms/:id/edit", requireAuth, website.EditAcronymPage)
	web.POST("/acronyms/:id/edit", requireAuth, website.EditAcronym)
	web.POST("/acronyms/:id/delete", requireAuth, website.DeleteAcronym)
	web.GET("/users", website.AllUsers)
	web.GET("/users/:id", website.User)
	web.GET("/categories", website.AllCategories)
	web.GET("/categories/:id", website.Category)

	return router
}
