package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database/acronyms"
	"github.com/mrlokans/til/internal/entities"
)

// CreateAcronymData is the request body for creating or updating an acronym.
type CreateAcronymData struct {
	Short  string    `json:"short"`
	Long   string    `json:"long"`
	UserID uuid.UUID `json:"userID"`
}

type AcronymsController struct {
	store    AcronymStore
	authMode config.AuthMode
}

func NewAcronymsController(store AcronymStore, authMode config.AuthMode) *AcronymsController {
	return &AcronymsController{store: store, authMode: authMode}
}

// owner picks the acronym owner: the caller in local auth mode, the
// requested user otherwise.
func (ac *AcronymsController) owner(c *gin.Context, requested uuid.UUID) uuid.UUID {
	return resolveOwner(c, ac.authMode, requested)
}

func resolveOwner(c *gin.Context, mode config.AuthMode, requested uuid.UUID) uuid.UUID {
	if mode == config.AuthModeLocal {
		if id := auth.GetUserID(c); id != uuid.Nil {
			return id
		}
	}
	return requested
}

func (ac *AcronymsController) GetAll(c *gin.Context) {
	list, err := ac.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "list acronyms")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AcronymsController) Create(c *gin.Context) {
	var data CreateAcronymData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	acronym := entities.Acronym{
		Short:  data.Short,
		Long:   data.Long,
		UserID: ac.owner(c, data.UserID),
	}
	if err := ac.store.Create(&acronym); err != nil {
		ac.respondStoreError(c, err, "create acronym")
		return
	}
	c.JSON(http.StatusOK, acronym)
}

func (ac *AcronymsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	acronym, err := ac.store.GetByID(id)
	if err != nil {
		ac.respondStoreError(c, err, "get acronym")
		return
	}
	c.JSON(http.StatusOK, acronym)
}

// Update overwrites short and long. The owner changes only when userID is given.
func (ac *AcronymsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var data CreateAcronymData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	acronym, err := ac.store.GetByID(id)
	if err != nil {
		ac.respondStoreError(c, err, "get acronym")
		return
	}
	acronym.Short = data.Short
	acronym.Long = data.Long
	if owner := ac.owner(c, data.UserID); owner != uuid.Nil {
		acronym.UserID = owner
	}

	if err := ac.store.Update(acronym); err != nil {
		ac.respondStoreError(c, err, "update acronym")
		return
	}
	c.JSON(http.StatusOK, acronym)
}

func (ac *AcronymsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.Delete(id); err != nil {
		ac.respondStoreError(c, err, "delete acronym")
		return
	}
	respondNoContent(c)
}

// Search matches term exactly against short or long.
func (ac *AcronymsController) Search(c *gin.Context) {
	term, ok := c.GetQuery("term")
	if !ok {
		respondBadRequest(c, "term is required")
		return
	}
	list, err := ac.store.Search(term)
	if err != nil {
		respondInternalError(c, err, "search acronyms")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AcronymsController) First(c *gin.Context) {
	acronym, err := ac.store.First()
	if err != nil {
		ac.respondStoreError(c, err, "first acronym")
		return
	}
	c.JSON(http.StatusOK, acronym)
}

func (ac *AcronymsController) Sorted(c *gin.Context) {
	list, err := ac.store.Sorted()
	if err != nil {
		respondInternalError(c, err, "sort acronyms")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUser returns the owner as a V1 public user.
func (ac *AcronymsController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := ac.store.GetUser(id)
	if err != nil {
		ac.respondStoreError(c, err, "get acronym user")
		return
	}
	c.JSON(http.StatusOK, user.ToPublic())
}

func (ac *AcronymsController) GetCategories(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	list, err := ac.store.GetCategories(id)
	if err != nil {
		ac.respondStoreError(c, err, "get acronym categories")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AcronymsController) AttachCategory(c *gin.Context) {
	acronymID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	if err := ac.store.AttachCategory(acronymID, categoryID); err != nil {
		ac.respondStoreError(c, err, "attach category")
		return
	}
	c.Status(http.StatusCreated)
}

func (ac *AcronymsController) DetachCategory(c *gin.Context) {
	acronymID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}
	if err := ac.store.DetachCategory(acronymID, categoryID); err != nil {
		ac.respondStoreError(c, err, "detach category")
		return
	}
	respondNoContent(c)
}

func (ac *AcronymsController) respondStoreError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, acronyms.ErrNotFound):
		respondNotFound(c, "acronym")
	case errors.Is(err, acronyms.ErrCategoryNotFound):
		respondNotFound(c, "category")
	case errors.Is(err, acronyms.ErrUserNotFound):
		respondBadRequest(c, "user does not exist")
	default:
		respondInternalError(c, err, context)
	}
}
