// AngelaMos | 2026
// service.go

package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

type Service struct {
	repo         Repository
	strictPayout bool
	logger       *slog.Logger
}

// NewService wires the lifecycle engine. strictPayout controls completion
// when a provider's owning user cannot be resolved: true fails the whole
// transition, false completes the request without a payout.
func NewService(repo Repository, strictPayout bool, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		strictPayout: strictPayout,
		logger:       logger,
	}
}

// Create opens a request and holds the full price in escrow. The requester's
// wallet is debited up front; an insufficient balance rejects the request
// without side effects.
func (s *Service) Create(
	ctx context.Context,
	userID, category, description string,
	location Location,
	price decimal.Decimal,
	priority string,
) (*ServiceRequest, *Transaction, error) {
	if !price.IsPositive() {
		return nil, nil, core.BadRequestError("price must be positive")
	}

	if priority == "" {
		priority = PriorityNormal
	}
	if !ValidPriority(priority) {
		return nil, nil, core.BadRequestError("unknown priority")
	}

	req := &ServiceRequest{
		ID:          uuid.New().String(),
		UserID:      userID,
		Category:    category,
		Description: description,
		Location:    location,
		Price:       core.RoundAmount(price),
		Status:      StatusPending,
		Priority:    priority,
	}

	txn := &Transaction{
		ID:        uuid.New().String(),
		RequestID: req.ID,
		UserID:    userID,
		Amount:    req.Price,
		Status:    TxnHeldInEscrow,
	}

	if err := s.repo.CreateEscrowed(ctx, req, txn); err != nil {
		if errors.Is(err, core.ErrInsufficientFunds) {
			return nil, nil, core.InsufficientFundsError()
		}
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, core.NotFoundError("user")
		}
		return nil, nil, err
	}

	s.logger.Info("request created with escrow hold",
		slog.String("request_id", req.ID),
		slog.String("user_id", userID),
		slog.String("amount", req.Price.StringFixed(2)),
	)

	return req, txn, nil
}

func (s *Service) Accept(
	ctx context.Context,
	requestID, providerID string,
) (*ServiceRequest, error) {
	req, err := s.repo.AcceptPending(ctx, requestID, providerID)
	if err != nil {
		if errors.Is(err, core.ErrInvalidState) {
			return nil, core.InvalidStateError("Request already handled")
		}
		return nil, err
	}

	s.logger.Info("request accepted",
		slog.String("request_id", requestID),
		slog.String("provider_id", providerID),
	)

	return req, nil
}

func (s *Service) Complete(
	ctx context.Context,
	requestID string,
) (*ServiceRequest, error) {
	req, payoutSkipped, err := s.repo.CompleteAccepted(ctx, requestID, s.strictPayout)
	if err != nil {
		if errors.Is(err, core.ErrInvalidState) {
			return nil, core.InvalidStateError("Request must be accepted first")
		}
		return nil, err
	}

	if payoutSkipped {
		s.logger.Warn("request completed without payout, provider owner unresolvable",
			slog.String("request_id", requestID),
		)
	} else {
		s.logger.Info("request completed, escrow released",
			slog.String("request_id", requestID),
			slog.String("amount", req.Price.StringFixed(2)),
		)
	}

	return req, nil
}

// Cancel refunds the held amount to the requester. The returned transaction
// reflects the REFUNDED escrow entry.
func (s *Service) Cancel(
	ctx context.Context,
	requestID string,
) (*ServiceRequest, *Transaction, error) {
	req, txn, err := s.repo.CancelPending(ctx, requestID)
	if err != nil {
		if errors.Is(err, core.ErrInvalidState) {
			return nil, nil, core.InvalidStateError("Only pending requests can be cancelled")
		}
		return nil, nil, err
	}

	s.logger.Info("request cancelled, escrow refunded",
		slog.String("request_id", requestID),
		slog.String("amount", txn.Amount.StringFixed(2)),
	)

	return req, txn, nil
}

func (s *Service) Rate(
	ctx context.Context,
	requestID string,
	rating int,
	review *string,
) error {
	if rating < 1 || rating > 5 {
		return core.BadRequestError(
			fmt.Sprintf("rating must be between 1 and 5, got %d", rating),
		)
	}

	if err := s.repo.SetRating(ctx, requestID, rating, review); err != nil {
		if errors.Is(err, core.ErrInvalidState) {
			return core.InvalidStateError("Only completed requests can be rated")
		}
		return err
	}

	return nil
}

func (s *Service) GetByID(
	ctx context.Context,
	requestID string,
) (*ServiceRequest, error) {
	return s.repo.GetByID(ctx, requestID)
}

func (s *Service) ListAll(ctx context.Context) ([]ServiceRequest, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListAvailable(ctx context.Context) ([]ServiceRequest, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *Service) GetTransaction(
	ctx context.Context,
	requestID string,
) (*Transaction, error) {
	return s.repo.GetTransactionByRequest(ctx, requestID)
}

func (s *Service) MarketplaceStats(
	ctx context.Context,
) (*MarketplaceStats, error) {
	return s.repo.MarketplaceStats(ctx)
}

func (s *Service) ListTransactionsForUser(
	ctx context.Context,
	userID string,
) ([]Transaction, error) {
	return s.repo.ListTransactionsForUser(ctx, userID)
}
