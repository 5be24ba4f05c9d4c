package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/til/internal/database/categories"
)

const taskStatusTimeout = 5 * time.Second

// CreateCategoryData is the request body for creating a category.
type CreateCategoryData struct {
	Name string `json:"name"`
}

type CategoriesController struct {
	store CategoryStore
	queue CleanupQueue
}

// NewCategoriesController creates a controller. queue may be nil when the
// task queue is disabled.
func NewCategoriesController(store CategoryStore, queue CleanupQueue) *CategoriesController {
	return &CategoriesController{store: store, queue: queue}
}

func (cc *CategoriesController) GetAll(c *gin.Context) {
	list, err := cc.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create returns the existing category when the name is already taken.
func (cc *CategoriesController) Create(c *gin.Context) {
	var data CreateCategoryData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(data.Name) == "" {
		respondBadRequest(c, "name is required")
		return
	}

	category, err := cc.store.GetOrCreate(data.Name)
	if err != nil {
		respondInternalError(c, err, "create category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoriesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := cc.store.GetByID(id)
	if err != nil {
		cc.respondStoreError(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc *CategoriesController) GetAcronyms(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	list, err := cc.store.GetAcronyms(id)
	if err != nil {
		cc.respondStoreError(c, err, "get category acronyms")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CleanupOrphans queues removal of categories no acronym uses.
func (cc *CategoriesController) CleanupOrphans(c *gin.Context) {
	if cc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	taskID, err := cc.queue.EnqueueCategoryCleanup()
	if err != nil {
		respondInternalError(c, err, "enqueue category cleanup")
		return
	}
	respondAccepted(c, "category cleanup queued", taskID)
}

// CleanupStatus reports the state of a queued cleanup task.
func (cc *CategoriesController) CleanupStatus(c *gin.Context) {
	if cc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	taskID := c.Param("taskID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), taskStatusTimeout)
	defer cancel()
	status, err := cc.queue.TaskStatus(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "load task status")
		return
	}
	if status == "not_found" {
		respondNotFound(c, "task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": status})
}

func (cc *CategoriesController) respondStoreError(c *gin.Context, err error, context string) {
	if errors.Is(err, categories.ErrNotFound) {
		respondNotFound(c, "category")
		return
	}
	respondInternalError(c, err, context)
}
