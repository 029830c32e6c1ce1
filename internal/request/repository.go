// AngelaMos | 2026
// repository.go

package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sahib-ng/sahib-backend/internal/core"
	"github.com/sahib-ng/sahib-backend/internal/user"
)

// Repository owns every escrow state transition. Each transition method is
// atomic: the request row, the transaction row, and the wallet balances move
// together or not at all.
type Repository interface {
	CreateEscrowed(
		ctx context.Context,
		req *ServiceRequest,
		txn *Transaction,
	) error
	GetByID(ctx context.Context, id string) (*ServiceRequest, error)
	AcceptPending(
		ctx context.Context,
		requestID, providerID string,
	) (*ServiceRequest, error)
	CompleteAccepted(
		ctx context.Context,
		requestID string,
		strictPayout bool,
	) (*ServiceRequest, bool, error)
	CancelPending(
		ctx context.Context,
		requestID string,
	) (*ServiceRequest, *Transaction, error)
	SetRating(
		ctx context.Context,
		requestID string,
		rating int,
		review *string,
	) error
	ListAll(ctx context.Context) ([]ServiceRequest, error)
	ListAvailable(ctx context.Context) ([]ServiceRequest, error)
	GetTransactionByRequest(
		ctx context.Context,
		requestID string,
	) (*Transaction, error)
	ListTransactionsForUser(
		ctx context.Context,
		userID string,
	) ([]Transaction, error)
	MarketplaceStats(ctx context.Context) (*MarketplaceStats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `
	id, user_id, provider_id, category, description, location, price,
	status, priority, rating, review, created_at, updated_at`

// CreateEscrowed debits the requester and records the request plus its
// HELD_IN_ESCROW transaction in one database transaction. An insufficient
// balance rolls everything back.
func (r *repository) CreateEscrowed(
	ctx context.Context,
	req *ServiceRequest,
	txn *Transaction,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		wallets := user.NewRepository(tx)
		if err := wallets.Debit(ctx, req.UserID, req.Price); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		insertRequest := `
			INSERT INTO service_requests (
				id, user_id, category, description, location, price,
				status, priority
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, req, insertRequest,
			req.ID,
			req.UserID,
			req.Category,
			req.Description,
			req.Location,
			req.Price,
			req.Status,
			req.Priority,
		)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		insertTxn := `
			INSERT INTO transactions (id, request_id, user_id, amount, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`

		err = tx.GetContext(ctx, txn, insertTxn,
			txn.ID,
			txn.RequestID,
			txn.UserID,
			txn.Amount,
			txn.Status,
		)
		if err != nil {
			return fmt.Errorf("create escrow transaction: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	var req ServiceRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	return &req, nil
}

// AcceptPending claims an open request for a provider. The status guard in
// the UPDATE makes concurrent accepts race-safe: exactly one wins, the rest
// see an invalid state.
func (r *repository) AcceptPending(
	ctx context.Context,
	requestID, providerID string,
) (*ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET status = 'ACCEPTED', provider_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND provider_id IS NULL
		RETURNING ` + requestColumns

	var req ServiceRequest
	err := r.db.GetContext(ctx, &req, query, requestID, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		// The guard failed: distinguish a missing request from one that was
		// already claimed.
		if _, getErr := r.GetByID(ctx, requestID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("accept request: %w", core.ErrInvalidState)
	}
	if err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	return &req, nil
}

// CompleteAccepted releases escrow: the provider's owning user is credited,
// the transaction flips to RELEASED, and the request to COMPLETED. When the
// owner cannot be resolved the strictPayout flag decides between failing the
// whole transition and completing without a payout. The bool result reports
// whether the payout was skipped.
func (r *repository) CompleteAccepted(
	ctx context.Context,
	requestID string,
	strictPayout bool,
) (*ServiceRequest, bool, error) {
	var (
		req           ServiceRequest
		payoutSkipped bool
	)

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		lock := `
			SELECT ` + requestColumns + `
			FROM service_requests
			WHERE id = $1
			FOR UPDATE`

		err := tx.GetContext(ctx, &req, lock, requestID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("complete request: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("complete request: %w", err)
		}

		if req.Status != StatusAccepted {
			return fmt.Errorf("complete request: %w", core.ErrInvalidState)
		}

		ownerID, err := resolveProviderOwner(ctx, tx, req.ProviderID)
		if err != nil {
			return err
		}

		if ownerID == "" {
			if strictPayout {
				return fmt.Errorf(
					"complete request: provider owner unresolvable: %w",
					core.ErrNotFound,
				)
			}
			payoutSkipped = true
		} else {
			wallets := user.NewRepository(tx)
			if err := wallets.Credit(ctx, ownerID, req.Price); err != nil {
				return fmt.Errorf("complete request: payout: %w", err)
			}
		}

		updateReq := `
			UPDATE service_requests
			SET status = 'COMPLETED', updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		if err := tx.GetContext(ctx, &req.UpdatedAt, updateReq, requestID); err != nil {
			return fmt.Errorf("complete request: %w", err)
		}
		req.Status = StatusCompleted

		updateTxn := `
			UPDATE transactions
			SET status = 'RELEASED', updated_at = NOW()
			WHERE request_id = $1 AND status = 'HELD_IN_ESCROW'`

		if _, err := tx.ExecContext(ctx, updateTxn, requestID); err != nil {
			return fmt.Errorf("release escrow: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &req, payoutSkipped, nil
}

// CancelPending refunds the requester and marks both the request and its
// escrow transaction. Only PENDING requests can be cancelled.
func (r *repository) CancelPending(
	ctx context.Context,
	requestID string,
) (*ServiceRequest, *Transaction, error) {
	var (
		req ServiceRequest
		txn Transaction
	)

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		lock := `
			SELECT ` + requestColumns + `
			FROM service_requests
			WHERE id = $1
			FOR UPDATE`

		err := tx.GetContext(ctx, &req, lock, requestID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("cancel request: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("cancel request: %w", err)
		}

		if req.Status != StatusPending {
			return fmt.Errorf("cancel request: %w", core.ErrInvalidState)
		}

		wallets := user.NewRepository(tx)
		if err := wallets.Credit(ctx, req.UserID, req.Price); err != nil {
			return fmt.Errorf("cancel request: refund: %w", err)
		}

		updateReq := `
			UPDATE service_requests
			SET status = 'CANCELLED', updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		if err := tx.GetContext(ctx, &req.UpdatedAt, updateReq, requestID); err != nil {
			return fmt.Errorf("cancel request: %w", err)
		}
		req.Status = StatusCancelled

		updateTxn := `
			UPDATE transactions
			SET status = 'REFUNDED', updated_at = NOW()
			WHERE request_id = $1 AND status = 'HELD_IN_ESCROW'
			RETURNING id, request_id, user_id, amount, status, payment_ref,
			          created_at, updated_at`

		err = tx.GetContext(ctx, &txn, updateTxn, requestID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("refund escrow: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("refund escrow: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &req, &txn, nil
}

func (r *repository) SetRating(
	ctx context.Context,
	requestID string,
	rating int,
	review *string,
) error {
	query := `
		UPDATE service_requests
		SET rating = $2, review = COALESCE($3, review), updated_at = NOW()
		WHERE id = $1 AND status = 'COMPLETED'`

	result, err := r.db.ExecContext(ctx, query, requestID, rating, review)
	if err != nil {
		return fmt.Errorf("rate request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rate request: %w", err)
	}

	if rows == 0 {
		if _, getErr := r.GetByID(ctx, requestID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("rate request: %w", core.ErrInvalidState)
	}

	return nil
}

func (r *repository) ListAll(ctx context.Context) ([]ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		ORDER BY created_at DESC`

	requests := []ServiceRequest{}
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	return requests, nil
}

// ListAvailable returns the open marketplace: unclaimed PENDING requests,
// newest first.
func (r *repository) ListAvailable(
	ctx context.Context,
) ([]ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE status = 'PENDING' AND provider_id IS NULL
		ORDER BY created_at DESC`

	requests := []ServiceRequest{}
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list available requests: %w", err)
	}

	return requests, nil
}

func (r *repository) GetTransactionByRequest(
	ctx context.Context,
	requestID string,
) (*Transaction, error) {
	query := `
		SELECT id, request_id, user_id, amount, status, payment_ref,
		       created_at, updated_at
		FROM transactions
		WHERE request_id = $1`

	var txn Transaction
	err := r.db.GetContext(ctx, &txn, query, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get transaction: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return &txn, nil
}

func (r *repository) ListTransactionsForUser(
	ctx context.Context,
	userID string,
) ([]Transaction, error) {
	query := `
		SELECT id, request_id, user_id, amount, status, payment_ref,
		       created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	txns := []Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query, userID); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txns, nil
}

// MarketplaceStats aggregates request counts by status and escrow volume by
// transaction status.
func (r *repository) MarketplaceStats(
	ctx context.Context,
) (*MarketplaceStats, error) {
	stats := &MarketplaceStats{
		RequestCounts: map[string]int64{},
		EscrowTotals:  map[string]decimal.Decimal{},
	}

	requestRows := []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}{}

	countQuery := `
		SELECT status, COUNT(*) AS count
		FROM service_requests
		GROUP BY status`

	if err := r.db.SelectContext(ctx, &requestRows, countQuery); err != nil {
		return nil, fmt.Errorf("marketplace stats: %w", err)
	}
	for _, row := range requestRows {
		stats.RequestCounts[row.Status] = row.Count
	}

	escrowRows := []struct {
		Status string          `db:"status"`
		Total  decimal.Decimal `db:"total"`
	}{}

	totalQuery := `
		SELECT status, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		GROUP BY status`

	if err := r.db.SelectContext(ctx, &escrowRows, totalQuery); err != nil {
		return nil, fmt.Errorf("marketplace stats: %w", err)
	}
	for _, row := range escrowRows {
		stats.EscrowTotals[row.Status] = row.Total
	}

	return stats, nil
}

// resolveProviderOwner maps a request's provider to the user who gets paid.
// Returns "" when the provider id is unset or the profile no longer exists.
func resolveProviderOwner(
	ctx context.Context,
	tx *sqlx.Tx,
	providerID *string,
) (string, error) {
	if providerID == nil {
		return "", nil
	}

	var ownerID string
	query := `SELECT user_id FROM service_providers WHERE id = $1`

	err := tx.GetContext(ctx, &ownerID, query, *providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve provider owner: %w", err)
	}

	return ownerID, nil
}
