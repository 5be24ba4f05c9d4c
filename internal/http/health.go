package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/til/internal/database"
)

const pingTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the TIL database answers.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

func (h *HealthController) databaseCheck(ctx context.Context) (string, bool) {
	if h.db == nil {
		return "not configured", true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return "error: " + err.Error(), false
	}
	return "ok", true
}

func (h *HealthController) Status(c *gin.Context) {
	result, ok := h.databaseCheck(c.Request.Context())

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": result},
	}
	code := http.StatusOK
	if !ok {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
