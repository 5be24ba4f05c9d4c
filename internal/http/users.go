package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/database/users"
	"github.com/mrlokans/til/internal/entities"
)

// CreateUserData is the request body for registering a user.
type CreateUserData struct {
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	TwitterURL *string `json:"twitterURL"`
}

// UsersController serves the users API. Responses never include password
// hashes: v1 routes return UserPublic, v2 routes return UserPublicV2.
type UsersController struct {
	store   UserStore
	creator UserCreator
}

func NewUsersController(store UserStore, creator UserCreator) *UsersController {
	return &UsersController{store: store, creator: creator}
}

func (uc *UsersController) GetAll(c *gin.Context) {
	list, err := uc.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, entities.PublicUsers(list))
}

func (uc *UsersController) Create(c *gin.Context) {
	var data CreateUserData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := uc.creator.CreateUser(auth.NewUser{
		Name:       data.Name,
		Username:   data.Username,
		Password:   data.Password,
		TwitterURL: data.TwitterURL,
	})
	switch {
	case errors.Is(err, auth.ErrUserExists):
		respondError(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, auth.ErrNameRequired),
		errors.Is(err, auth.ErrUsernameRequired),
		errors.Is(err, auth.ErrUsernameInvalid),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "create user")
		return
	}
	c.JSON(http.StatusOK, user.ToPublic())
}

func (uc *UsersController) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	user, err := uc.store.GetByID(id)
	if err != nil {
		uc.respondStoreError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user.ToPublic())
}

// GetV2 returns the user with twitterURL always present.
func (uc *UsersController) GetV2(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	user, err := uc.store.GetByID(id)
	if err != nil {
		uc.respondStoreError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user.ToPublicV2())
}

func (uc *UsersController) GetAcronyms(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	list, err := uc.store.GetAcronyms(id)
	if err != nil {
		uc.respondStoreError(c, err, "get user acronyms")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (uc *UsersController) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := uc.store.Delete(id); err != nil {
		uc.respondStoreError(c, err, "delete user")
		return
	}
	respondNoContent(c)
}

func (uc *UsersController) respondStoreError(c *gin.Context, err error, context string) {
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	}
	respondInternalError(c, err, context)
}
