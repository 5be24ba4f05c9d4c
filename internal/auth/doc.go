// Package auth provides authentication for the API and the website.
//
// It supports two modes:
//   - "none": the default. Every route is open; credentials, when sent, are
//     still recognised so token login and logout keep working.
//   - "local": API writes need HTTP basic credentials or a bearer token, and
//     the website's create, edit and delete pages need a logged-in session.
//
// # Configuration
//
//	AUTH_MODE=none|local
//	AUTH_SESSION_SECRET=<hex>     # CSRF key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_TOKEN_EXPIRY=720h        # bearer token lifetime, 0 disables expiry
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true      # HTTPS-only cookies
//
// # Usage
//
//	svc := auth.NewService(db, cfg.Auth)
//	mw := auth.NewMiddleware(svc, sessionManager, cfg.Auth)
//	router.Use(mw.Handler())
//	router.POST("/api/acronyms", mw.RequireAuth(), create)
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c) // uuid.Nil when anonymous
package auth
