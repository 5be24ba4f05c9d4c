package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database/acronyms"
	"github.com/mrlokans/til/internal/database/categories"
	"github.com/mrlokans/til/internal/database/users"
	"github.com/mrlokans/til/internal/entities"
)

// WebsiteController renders the server-side HTML pages.
type WebsiteController struct {
	acronyms   AcronymStore
	users      UserStore
	categories CategoryStore
	authMode   config.AuthMode
}

func NewWebsiteController(acronymStore AcronymStore, userStore UserStore, categoryStore CategoryStore, authMode config.AuthMode) *WebsiteController {
	return &WebsiteController{
		acronyms:   acronymStore,
		users:      userStore,
		categories: categoryStore,
		authMode:   authMode,
	}
}

func (wc *WebsiteController) Index(c *gin.Context) {
	list, err := wc.acronyms.GetAll()
	if err != nil {
		wc.renderError(c, err, "index")
		return
	}
	c.HTML(http.StatusOK, "index", IndexContext{
		Title:    "Home page",
		Acronyms: list,
		Auth:     GetAuthTemplateData(c),
	})
}

func (wc *WebsiteController) Acronym(c *gin.Context) {
	id, ok := wc.parseID(c)
	if !ok {
		return
	}
	acronym, err := wc.acronyms.GetByID(id)
	if err != nil {
		wc.renderError(c, err, "acronym page")
		return
	}
	user, err := wc.acronyms.GetUser(id)
	if err != nil {
		wc.renderError(c, err, "acronym page")
		return
	}
	list, err := wc.acronyms.GetCategories(id)
	if err != nil {
		wc.renderError(c, err, "acronym page")
		return
	}
	c.HTML(http.StatusOK, "acronym", AcronymContext{
		Title:      acronym.Short,
		Acronym:    *acronym,
		User:       *user,
		Categories: list,
		Auth:       GetAuthTemplateData(c),
	})
}

func (wc *WebsiteController) User(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid user ID")
		return
	}
	user, err := wc.users.GetByID(id)
	if err != nil {
		wc.renderError(c, err, "user page")
		return
	}
	list, err := wc.users.GetAcronyms(id)
	if err != nil {
		wc.renderError(c, err, "user page")
		return
	}
	c.HTML(http.StatusOK, "user", UserContext{
		Title:    user.Name,
		User:     *user,
		Acronyms: list,
		Auth:     GetAuthTemplateData(c),
	})
}

func (wc *WebsiteController) AllUsers(c *gin.Context) {
	list, err := wc.users.GetAll()
	if err != nil {
		wc.renderError(c, err, "users page")
		return
	}
	c.HTML(http.StatusOK, "allUsers", AllUsersContext{
		Title: "All Users",
		Users: list,
		Auth:  GetAuthTemplateData(c),
	})
}

func (wc *WebsiteController) AllCategories(c *gin.Context) {
	list, err := wc.categories.GetAll()
	if err != nil {
		wc.renderError(c, err, "categories page")
		return
	}
	c.HTML(http.StatusOK, "allCategories", AllCategoriesContext{
		Title:      "All Categories",
		Categories: list,
		Auth:       GetAuthTemplateData(c),
	})
}

func (wc *WebsiteController) Category(c *gin.Context) {
	id, ok := wc.parseID(c)
	if !ok {
		return
	}
	category, err := wc.categories.GetByID(id)
	if err != nil {
		wc.renderError(c, err, "category page")
		return
	}
	list, err := wc.categories.GetAcronyms(id)
	if err != nil {
		wc.renderError(c, err, "category page")
		return
	}
	c.HTML(http.StatusOK, "category", CategoryContext{
		Title:    category.Name,
		Category: *category,
		Acronyms: list,
		Auth:     GetAuthTemplateData(c),
	})
}

func (wc *WebsiteController) CreateAcronymPage(c *gin.Context) {
	list, err := wc.users.GetAll()
	if err != nil {
		wc.renderError(c, err, "create acronym page")
		return
	}
	c.HTML(http.StatusOK, "createAcronym", CreateAcronymContext{
		Title: "Create An Acronym",
		Users: list,
		Auth:  GetAuthTemplateData(c),
	})
}

// CreateAcronym saves the form, attaches its categories by name and
// redirects to the new acronym.
func (wc *WebsiteController) CreateAcronym(c *gin.Context) {
	owner, ok := wc.formOwner(c)
	if !ok {
		return
	}
	acronym := entities.Acronym{
		Short:  c.PostForm("short"),
		Long:   c.PostForm("long"),
		UserID: owner,
	}
	if err := wc.acronyms.Create(&acronym); err != nil {
		wc.renderError(c, err, "create acronym")
		return
	}
	if acronym.ID == 0 {
		wc.renderError(c, errors.New("saved acronym has no id"), "create acronym")
		return
	}

	if err := wc.syncCategories(acronym.ID, nil, c.PostFormArray("categories[]")); err != nil {
		wc.renderError(c, err, "attach categories")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/acronyms/%d", acronym.ID))
}

func (wc *WebsiteController) EditAcronymPage(c *gin.Context) {
	id, ok := wc.parseID(c)
	if !ok {
		return
	}
	acronym, err := wc.acronyms.GetByID(id)
	if err != nil {
		wc.renderError(c, err, "edit acronym page")
		return
	}
	list, err := wc.users.GetAll()
	if err != nil {
		wc.renderError(c, err, "edit acronym page")
		return
	}
	current, err := wc.acronyms.GetCategories(id)
	if err != nil {
		wc.renderError(c, err, "edit acronym page")
		return
	}
	c.HTML(http.StatusOK, "editAcronym", EditAcronymContext{
		Title:      "Edit Acronym",
		Acronym:    *acronym,
		Users:      list,
		Categories: entities.CategoryNames(current),
		Auth:       GetAuthTemplateData(c),
	})
}

// EditAcronym overwrites the acronym, then attaches and detaches categories
// so the acronym ends up with exactly the submitted names. The acronym is
// saved before categories change; a category failure leaves it saved.
func (wc *WebsiteController) EditAcronym(c *gin.Context) {
	id, ok := wc.parseID(c)
	if !ok {
		return
	}
	acronym, err := wc.acronyms.GetByID(id)
	if err != nil {
		wc.renderError(c, err, "edit acronym")
		return
	}
	owner, ok := wc.formOwner(c)
	if !ok {
		return
	}

	acronym.Short = c.PostForm("short")
	acronym.Long = c.PostForm("long")
	acronym.UserID = owner
	if err := wc.acronyms.Update(acronym); err != nil {
		wc.renderError(c, err, "edit acronym")
		return
	}

	current, err := wc.acronyms.GetCategories(id)
	if err != nil {
		wc.renderError(c, err, "edit acronym")
		return
	}
	if err := wc.syncCategories(id, entities.CategoryNames(current), c.PostFormArray("categories[]")); err != nil {
		wc.renderError(c, err, "update categories")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/acronyms/%d", id))
}

func (wc *WebsiteController) DeleteAcronym(c *gin.Context) {
	id, ok := wc.parseID(c)
	if !ok {
		return
	}
	if err := wc.acronyms.Delete(id); err != nil {
		wc.renderError(c, err, "delete acronym")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// syncCategories attaches names in desired but not existing and detaches
// names in existing but not desired. All changes run concurrently; the
// first error is returned once every change has finished.
func (wc *WebsiteController) syncCategories(acronymID uint, existing, desired []string) error {
	toAdd, toRemove := categories.Diff(existing, desired)

	var g errgroup.Group
	for _, name := range toAdd {
		g.Go(func() error {
			return wc.acronyms.AttachCategoryByName(acronymID, name)
		})
	}
	for _, name := range toRemove {
		g.Go(func() error {
			return wc.acronyms.DetachCategoryByName(acronymID, name)
		})
	}
	return g.Wait()
}

// formOwner returns the logged-in user in local auth mode and the
// submitted userID otherwise.
func (wc *WebsiteController) formOwner(c *gin.Context) (uuid.UUID, bool) {
	if owner := resolveOwner(c, wc.authMode, uuid.Nil); owner != uuid.Nil {
		return owner, true
	}
	owner, err := uuid.Parse(c.PostForm("userID"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return owner, true
}

func (wc *WebsiteController) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func (wc *WebsiteController) renderError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, acronyms.ErrNotFound):
		c.String(http.StatusNotFound, "Acronym not found")
	case errors.Is(err, users.ErrNotFound):
		c.String(http.StatusNotFound, "User not found")
	case errors.Is(err, categories.ErrNotFound):
		c.String(http.StatusNotFound, "Category not found")
	case errors.Is(err, acronyms.ErrUserNotFound):
		c.String(http.StatusBadRequest, "User does not exist")
	default:
		log.Printf("Internal error (%s): %v", context, err)
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}
