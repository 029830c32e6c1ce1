// AngelaMos | 2026
// handler.go

package request

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
) {
	r.Route("/requests", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.CreateRequest)
		r.Get("/", h.ListRequests)
		r.Get("/available", h.ListAvailable)
		r.Get("/{requestID}", h.GetRequest)
		r.Patch("/{requestID}/accept", h.AcceptRequest)
		r.Patch("/{requestID}/complete", h.CompleteRequest)
		r.Post("/{requestID}/cancel", h.CancelRequest)
		r.Post("/{requestID}/rate", h.RateRequest)
		r.Get("/{requestID}/transaction", h.GetTransaction)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/user/{userID}", h.ListUserTransactions)
	})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	price, err := core.ParseAmount(req.Price)
	if err != nil {
		core.BadRequest(w, "price must be a kobo-precision value")
		return
	}

	location := Location{
		Lat:     req.Location.Lat,
		Lng:     req.Location.Lng,
		Address: req.Location.Address,
	}

	created, txn, err := h.service.Create(
		r.Context(),
		req.UserID,
		req.Category,
		req.Description,
		location,
		price,
		req.Priority,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, CreateRequestResponse{
		Request:     ToRequestResponse(created),
		Transaction: ToTransactionResponse(txn),
	})
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListAll(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRequestResponses(requests))
}

func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListAvailable(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRequestResponses(requests))
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	req, err := h.service.GetByID(r.Context(), requestID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(req))
}

func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var req AcceptRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	accepted, err := h.service.Accept(r.Context(), requestID, req.ProviderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(accepted))
}

func (h *Handler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	completed, err := h.service.Complete(r.Context(), requestID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(completed))
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	_, txn, err := h.service.Cancel(r.Context(), requestID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, CancelResponse{
		Success:      true,
		Message:      "Request cancelled and refund processed",
		RefundAmount: txn.Amount,
	})
}

func (h *Handler) RateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var req RateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.Rate(r.Context(), requestID, req.Rating, req.Review); err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, RateResponse{
		Success: true,
		Message: "Rating submitted successfully",
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	txn, err := h.service.GetTransaction(r.Context(), requestID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToTransactionResponse(txn))
}

func (h *Handler) ListUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	txns, err := h.service.ListTransactionsForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTransactionResponses(txns))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "request")
	default:
		core.InternalServerError(w, err)
	}
}
