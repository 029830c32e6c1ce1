// AngelaMos | 2026
// dto.go

package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type LocationPayload struct {
	Lat     float64 `json:"lat"     validate:"latitude"`
	Lng     float64 `json:"lng"     validate:"longitude"`
	Address string  `json:"address" validate:"required,min=3,max=255"`
}

type CreateRequestRequest struct {
	UserID      string          `json:"userId"      validate:"required,uuid4"`
	Category    string          `json:"category"    validate:"required,min=2,max=64"`
	Description string          `json:"description" validate:"required,min=3,max=2000"`
	Location    LocationPayload `json:"location"    validate:"required"`
	Price       string          `json:"price"       validate:"required"`
	Priority    string          `json:"priority"    validate:"omitempty,oneof=NORMAL URGENT EXPRESS"`
}

type AcceptRequestRequest struct {
	ProviderID string `json:"providerId" validate:"required,uuid4"`
}

type RateRequestRequest struct {
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Review *string `json:"review" validate:"omitempty,max=2000"`
}

type RequestResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ProviderID  *string         `json:"providerId,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Location    Location        `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Rating      *int            `json:"rating,omitempty"`
	Review      *string         `json:"review,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type TransactionResponse struct {
	ID         string          `json:"id"`
	RequestID  string          `json:"requestId"`
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	PaymentRef *string         `json:"paymentRef,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type CreateRequestResponse struct {
	Request     RequestResponse     `json:"request"`
	Transaction TransactionResponse `json:"transaction"`
}

type CancelResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
}

type RateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ToRequestResponse(req *ServiceRequest) RequestResponse {
	return RequestResponse{
		ID:          req.ID,
		UserID:      req.UserID,
		ProviderID:  req.ProviderID,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Status:      req.Status,
		Priority:    req.Priority,
		Rating:      req.Rating,
		Review:      req.Review,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

func ToRequestResponses(requests []ServiceRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, ToRequestResponse(&requests[i]))
	}
	return out
}

func ToTransactionResponse(txn *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         txn.ID,
		RequestID:  txn.RequestID,
		UserID:     txn.UserID,
		Amount:     txn.Amount,
		Status:     txn.Status,
		PaymentRef: txn.PaymentRef,
		CreatedAt:  txn.CreatedAt,
		UpdatedAt:  txn.UpdatedAt,
	}
}

func ToTransactionResponses(txns []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, ToTransactionResponse(&txns[i]))
	}
	return out
}
