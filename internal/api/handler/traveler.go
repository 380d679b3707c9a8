package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/safetrip/safetrip/internal/api/models"
	"github.com/safetrip/safetrip/internal/api/response"
	"github.com/safetrip/safetrip/internal/traveler"
)

// TravelerService registers and finds travelers.
type TravelerService interface {
	Register(ctx context.Context, in traveler.RegisterInput) (*traveler.Traveler, error)
	Lookup(ctx context.Context, email string) (*traveler.Traveler, error)
}

// TravelerHandler serves /api/travelers.
type TravelerHandler struct {
	service TravelerService
}

// NewTravelerHandler creates a new TravelerHandler.
func NewTravelerHandler(service TravelerService) *TravelerHandler {
	return &TravelerHandler{service: service}
}

// Create handles POST /api/travelers.
func (h *TravelerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TravelerCreateRequest
	fieldErrs, err := decode(r, &req)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrs)
		return
	}

	t, err := h.service.Register(r.Context(), traveler.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		HomeCountry: req.HomeCountry,
	})
	switch {
	case errors.Is(err, traveler.ErrEmailTaken):
		response.Conflict(w, r, "a traveler with this email is already registered")
		return
	case err != nil:
		response.InternalError(w, r, "failed to register traveler")
		return
	}

	response.Created(w, r, "/api/travelers?email="+url.QueryEscape(t.Email), models.OK(t))
}

// Get handles GET /api/travelers?email=.
func (h *TravelerHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		response.BadRequest(w, r, "email query parameter is required", []models.FieldError{
			{Field: "email", Message: "is required", Code: "REQUIRED"},
		})
		return
	}

	t, err := h.service.Lookup(r.Context(), email)
	switch {
	case errors.Is(err, traveler.ErrTravelerNotFound):
		response.NotFound(w, r, "traveler not found")
		return
	case err != nil:
		response.InternalError(w, r, "failed to look up traveler")
		return
	}

	response.OK(w, r, t)
}
