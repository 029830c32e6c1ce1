// AngelaMos | 2026
// service.go

package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

// UserDirectory is the slice of the user service the registry needs: existence
// checks before an application and the role upgrade after verification.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
	PromoteToProvider(ctx context.Context, userID string) error
}

type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// Apply registers a provider profile for a user. New applicants start as
// PENDING and available; they stay invisible to the marketplace until an
// admin verifies them.
func (s *Service) Apply(
	ctx context.Context,
	userID, category string,
) (*ServiceProvider, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("apply provider: user: %w", core.ErrNotFound)
	}

	if _, err := s.repo.GetByUser(ctx, userID); err == nil {
		return nil, fmt.Errorf(
			"apply provider: profile already exists: %w",
			core.ErrDuplicateKey,
		)
	} else if !core.IsNotFound(err) {
		return nil, err
	}

	p := &ServiceProvider{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Category:           category,
		VerificationStatus: VerificationPending,
		IsAvailable:        true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("provider application received",
		slog.String("provider_id", p.ID),
		slog.String("user_id", userID),
		slog.String("category", category),
	)

	return p, nil
}

// Verify sets the verification status and, optionally, stores a hash of the
// applicant's NIN or BVN. The raw identity number is never persisted. A
// transition to VERIFIED promotes the owning user to the PROVIDER role.
func (s *Service) Verify(
	ctx context.Context,
	providerID, status string,
	identityNumber *string,
) (*ServiceProvider, error) {
	if !ValidVerificationStatus(status) {
		return nil, fmt.Errorf(
			"verify provider: unknown status %q: %w",
			status, core.ErrInvalidInput,
		)
	}

	var identityHash *string
	if identityNumber != nil && *identityNumber != "" {
		hash, err := core.HashIdentity(*identityNumber)
		if err != nil {
			return nil, fmt.Errorf("verify provider: %w", err)
		}
		identityHash = &hash
	}

	if err := s.repo.UpdateVerification(ctx, providerID, status, identityHash); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if status == VerificationVerified {
		if err := s.users.PromoteToProvider(ctx, p.UserID); err != nil {
			return nil, fmt.Errorf("verify provider: promote user: %w", err)
		}
	}

	s.logger.Info("provider verification updated",
		slog.String("provider_id", providerID),
		slog.String("status", status),
	)

	return p, nil
}

func (s *Service) SetAvailability(
	ctx context.Context,
	providerID string,
	isAvailable bool,
) (*ServiceProvider, error) {
	if err := s.repo.UpdateAvailability(ctx, providerID, isAvailable); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, providerID)
}

func (s *Service) GetByID(
	ctx context.Context,
	providerID string,
) (*ServiceProvider, error) {
	return s.repo.GetByID(ctx, providerID)
}

func (s *Service) GetByUser(
	ctx context.Context,
	userID string,
) (*ServiceProvider, error) {
	return s.repo.GetByUser(ctx, userID)
}

// ListActive returns providers eligible for work: available and VERIFIED.
func (s *Service) ListActive(ctx context.Context) ([]ServiceProvider, error) {
	return s.repo.ListActive(ctx)
}
