// AngelaMos | 2026
// handler.go

package provider

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	requireAdmin func(http.Handler) http.Handler,
) {
	r.Route("/providers", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/apply", h.Apply)
		r.Get("/active", h.ListActive)
		r.Get("/by-user/{userID}", h.GetByUser)
		r.Get("/{providerID}", h.GetProvider)
		r.Patch("/{providerID}/availability", h.SetAvailability)

		r.With(requireAdmin).Patch("/{providerID}/verify", h.Verify)
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Apply(r.Context(), req.UserID, req.Category)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("provider profile"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToProviderResponse(p))
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Verify(r.Context(), providerID, req.Status, req.IdentityNumber)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "provider")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid verification status")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.SetAvailability(r.Context(), providerID, *req.IsAvailable)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "provider")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	p, err := h.service.GetByID(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "provider")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "provider")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.ListActive(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProviderResponses(providers))
}
