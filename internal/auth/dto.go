// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code"  validate:"required,numeric,min=4,max=10"`
}

type RequestOTPResponse struct {
	Message string `json:"message"`
}

type AuthUserResponse struct {
	ID        string          `json:"id"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName"`
	Role      string          `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

type VerifyOTPResponse struct {
	AccessToken string           `json:"accessToken"`
	User        AuthUserResponse `json:"user"`
}

func toAuthUserResponse(u *UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}
