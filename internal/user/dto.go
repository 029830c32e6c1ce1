// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type UpdateUserRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
}

type FundWalletRequest struct {
	UserID string `json:"userId" validate:"required,uuid4"`
	Amount string `json:"amount" validate:"required"`
}

type FundWalletResponse struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
	Message string          `json:"message"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName"`
	AvatarURL *string         `json:"avatarUrl,omitempty"`
	Role      string          `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type BalanceResponse struct {
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
