package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/mail"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/pkg/bind"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

// ProfileStore is the profiles collection surface.
type ProfileStore interface {
	FindByEmail(ctx context.Context, email string) (models.Profile, error)
	Upsert(ctx context.Context, profile models.Profile) error
}

type ProfileController struct {
	profiles ProfileStore
}

func NewProfileController(profiles ProfileStore) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// Get handles GET /profile?email=E.
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		response.ValidationError(w, map[string]string{"email": "email is required"})
		return
	}

	profile, err := c.profiles.FindByEmail(r.Context(), email)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "profile not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("get profile", "email", email, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	response.Success(w, profile)
}

// Upsert handles POST /profile. Submitted fields overwrite, absent fields
// are preserved.
func (c *ProfileController) Upsert(w http.ResponseWriter, r *http.Request) {
	doc, err := bind.Document(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := models.Profile(doc)
	if _, err := mail.ParseAddress(profile.Email()); err != nil {
		response.ValidationError(w, map[string]string{"email": "email must be a valid email address"})
		return
	}

	if err := c.profiles.Upsert(r.Context(), profile); err != nil {
		logger.WithCtx(r.Context()).Error("upsert profile", "email", profile.Email(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not save profile")
		return
	}
	response.Success(w, map[string]interface{}{"acknowledged": true})
}
