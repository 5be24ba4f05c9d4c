package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse acknowledges work handed to the task queue.
type AcceptedResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id,omitempty"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondNotFound reports "<what> not found".
func respondNotFound(c *gin.Context, what string) {
	respondError(c, http.StatusNotFound, what+" not found")
}

// respondInternalError logs err under op and hides it from the client.
func respondInternalError(c *gin.Context, err error, op string) {
	log.Printf("Failed to %s: %v", op, err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

func respondAccepted(c *gin.Context, message, taskID string) {
	c.JSON(http.StatusAccepted, AcceptedResponse{Message: message, TaskID: taskID})
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// parseIDParam reads a numeric primary key from the route. On failure it
// has already answered 400.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
