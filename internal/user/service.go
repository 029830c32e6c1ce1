// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahib-ng/sahib-backend/internal/auth"
	"github.com/sahib-ng/sahib-backend/internal/core"
	"github.com/sahib-ng/sahib-backend/internal/provider"
)

type Service struct {
	repo            Repository
	startingBalance decimal.Decimal
}

func NewService(repo Repository, startingBalance decimal.Decimal) *Service {
	return &Service{
		repo:            repo,
		startingBalance: startingBalance,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	phone, email, fullName string,
) (*User, error) {
	u := &User{
		ID:       uuid.New().String(),
		Phone:    phone,
		Email:    strings.ToLower(email),
		FullName: fullName,
		Role:     RoleUser,
		Balance:  decimal.Zero,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = strings.ToLower(*req.Email)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Debit is the only path that lowers a wallet. Amounts must be positive;
// the repository guard keeps the balance non-negative.
func (s *Service) Debit(
	ctx context.Context,
	userID string,
	amount decimal.Decimal,
) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive: %w", core.ErrInvalidInput)
	}
	return s.repo.Debit(ctx, userID, core.RoundAmount(amount))
}

func (s *Service) Credit(
	ctx context.Context,
	userID string,
	amount decimal.Decimal,
) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive: %w", core.ErrInvalidInput)
	}
	return s.repo.Credit(ctx, userID, core.RoundAmount(amount))
}

func (s *Service) GetBalance(
	ctx context.Context,
	userID string,
) (decimal.Decimal, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Fund credits the wallet and returns the new balance, mirroring the mobile
// top-up flow.
func (s *Service) Fund(
	ctx context.Context,
	userID string,
	amount decimal.Decimal,
) (decimal.Decimal, error) {
	if err := s.Credit(ctx, userID, amount); err != nil {
		return decimal.Zero, err
	}

	return s.repo.GetBalance(ctx, userID)
}

func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PromoteToProvider upgrades a USER to PROVIDER when their provider profile
// is verified. Roles are never demoted here; ADMIN stays ADMIN.
func (s *Service) PromoteToProvider(ctx context.Context, userID string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if u.Role != RoleUser {
		return nil
	}

	return s.repo.UpdateRole(ctx, userID, RoleProvider)
}

func (s *Service) GetByPhone(
	ctx context.Context,
	phone string,
) (*auth.UserInfo, error) {
	u, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

// CreateFromPhone registers a user during first OTP verification: placeholder
// profile fields and the configured starting wallet balance.
func (s *Service) CreateFromPhone(
	ctx context.Context,
	phone string,
) (*auth.UserInfo, error) {
	u := &User{
		ID:       uuid.New().String(),
		Phone:    phone,
		Email:    phone + "@sahib.placeholder",
		FullName: "New Sahib User",
		Role:     RoleUser,
		Balance:  s.startingBalance,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:        u.ID,
		Phone:     u.Phone,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}

var (
	_ auth.UserProvider      = (*Service)(nil)
	_ provider.UserDirectory = (*Service)(nil)
)
