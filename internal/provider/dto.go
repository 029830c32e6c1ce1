// AngelaMos | 2026
// dto.go

package provider

import (
	"time"
)

type ApplyRequest struct {
	UserID   string `json:"userId"   validate:"required,uuid4"`
	Category string `json:"category" validate:"required,min=2,max=64"`
}

type VerifyRequest struct {
	Status         string  `json:"status"         validate:"required,oneof=PENDING VERIFIED REJECTED"`
	IdentityNumber *string `json:"identityNumber" validate:"omitempty,min=10,max=20"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

type ProviderResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Category           string    `json:"category"`
	VerificationStatus string    `json:"verificationStatus"`
	Rating             float64   `json:"rating"`
	IsAvailable        bool      `json:"isAvailable"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func ToProviderResponse(p *ServiceProvider) ProviderResponse {
	return ProviderResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		Category:           p.Category,
		VerificationStatus: p.VerificationStatus,
		Rating:             p.Rating,
		IsAvailable:        p.IsAvailable,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func ToProviderResponses(providers []ServiceProvider) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(providers))
	for i := range providers {
		out = append(out, ToProviderResponse(&providers[i]))
	}
	return out
}
