package http

import "github.com/mrlokans/til/internal/entities"

// View contexts: one per website template. Every context carries the
// page title and the auth data the layout needs.

type IndexContext struct {
	Title    string
	Acronyms []entities.Acronym
	Auth     AuthTemplateData
}

type AcronymContext struct {
	Title      string
	Acronym    entities.Acronym
	User       entities.User
	Categories []entities.Category
	Auth       AuthTemplateData
}

type UserContext struct {
	Title    string
	User     entities.User
	Acronyms []entities.Acronym
	Auth     AuthTemplateData
}

type AllUsersContext struct {
	Title string
	Users []entities.User
	Auth  AuthTemplateData
}

type AllCategoriesContext struct {
	Title      string
	Categories []entities.Category
	Auth       AuthTemplateData
}

type CategoryContext struct {
	Title    string
	Category entities.Category
	Acronyms []entities.Acronym
	Auth     AuthTemplateData
}

type CreateAcronymContext struct {
	Title string
	Users []entities.User
	Auth  AuthTemplateData
}

// EditAcronymContext prefills the acronym form with the current values.
type EditAcronymContext struct {
	Title      string
	Acronym    entities.Acronym
	Users      []entities.User
	Categories []string
	Auth       AuthTemplateData
}
