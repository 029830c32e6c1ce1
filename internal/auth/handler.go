// AngelaMos | 2026
// handler.go

package auth

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
	otpLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(otpLimiter).Post("/request-otp", h.RequestOTP)
		r.Post("/verify-otp", h.VerifyOTP)
	})
}

func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.RequestOTP(r.Context(), req.Phone); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, RequestOTPResponse{Message: "OTP sent successfully"})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	token, user, err := h.service.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTokenExpired):
			core.JSONError(w, core.NewAppError(
				core.ErrTokenExpired,
				"OTP expired or never requested",
				http.StatusUnauthorized,
				"OTP_EXPIRED",
			))
		case errors.Is(err, core.ErrTokenRevoked):
			core.JSONError(w, core.NewAppError(
				core.ErrTokenRevoked,
				"too many attempts, request a new OTP",
				http.StatusUnauthorized,
				"OTP_ATTEMPTS_EXHAUSTED",
			))
		case errors.Is(err, core.ErrTokenInvalid):
			core.JSONError(w, core.NewAppError(
				core.ErrTokenInvalid,
				"incorrect OTP",
				http.StatusUnauthorized,
				"OTP_INVALID",
			))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, VerifyOTPResponse{
		AccessToken: token,
		User:        toAuthUserResponse(user),
	})
}
