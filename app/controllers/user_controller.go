package controllers

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/app/services"
	"github.com/shashiranjanraj/camtools/pkg/bind"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// emailParam parses the {email} route param, answering 422 on garbage.
func emailParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := chi.URLParam(r, "email")
	if _, err := mail.ParseAddress(email); err != nil {
		response.ValidationError(w, map[string]string{"email": "email must be a valid email address"})
		return "", false
	}
	return email, true
}

// Login handles PUT /user/{email}: upsert the submitted fields into the
// user record and mint a fresh token.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	fields, err := bind.Document(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, token, err := c.users.Login(r.Context(), email, fields)
	if err != nil {
		logger.WithCtx(r.Context()).Error("login", "email", email, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not sign in")
		return
	}
	response.Success(w, map[string]interface{}{"result": result, "token": token})
}

// List handles GET /user (authenticated).
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list users", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.Success(w, users)
}

// Promote handles PUT /user/admin/{email} (admin).
func (c *UserController) Promote(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	err := c.users.Promote(r.Context(), email)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "user not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("promote user", "email", email, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not promote user")
		return
	}
	response.Success(w, map[string]interface{}{"role": models.AdminRole})
}

// CheckAdmin handles GET /admin/{email}. Unknown users read as not-admin.
func (c *UserController) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	isAdmin, err := c.users.IsAdmin(r.Context(), email)
	if err != nil {
		logger.WithCtx(r.Context()).Error("admin check", "email", email, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not check role")
		return
	}
	response.Success(w, map[string]interface{}{"admin": isAdmin})
}
