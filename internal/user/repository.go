// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, id, role string) error
	Debit(ctx context.Context, id string, amount decimal.Decimal) error
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
}

type repository struct {
	db core.DBTX
}

// NewRepository accepts either *sqlx.DB or *sqlx.Tx, so wallet mutations can
// join a larger escrow transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, phone, email, full_name, role, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Phone,
		user.Email,
		user.FullName,
		user.Role,
		user.Balance,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, phone, email, full_name, avatar_url, role, balance,
		       created_at, updated_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByPhone(
	ctx context.Context,
	phone string,
) (*User, error) {
	query := `
		SELECT id, phone, email, full_name, avatar_url, role, balance,
		       created_at, updated_at
		FROM users
		WHERE phone = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by phone: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, phone, email, full_name, avatar_url, role, balance,
		       created_at, updated_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.FullName,
		user.Email,
		user.AvatarURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdateRole(ctx context.Context, id, role string) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update role: %w", core.ErrNotFound)
	}

	return nil
}

// Debit lowers the balance in a single guarded UPDATE so two concurrent
// debits against the same wallet cannot both pass the balance check.
func (r *repository) Debit(
	ctx context.Context,
	id string,
	amount decimal.Decimal,
) error {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2`

	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("debit user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit user: %w", err)
	}

	if rows == 0 {
		// Guard failed: missing user and insufficient balance look the same
		// from the UPDATE, so probe once to report the right error.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return fmt.Errorf("debit user: %w", core.ErrNotFound)
		}
		return fmt.Errorf("debit user: %w", core.ErrInsufficientFunds)
	}

	return nil
}

func (r *repository) Credit(
	ctx context.Context,
	id string,
	amount decimal.Decimal,
) error {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("credit user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("credit user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetBalance(
	ctx context.Context,
	id string,
) (decimal.Decimal, error) {
	query := `SELECT balance FROM users WHERE id = $1`

	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("get balance: %w", core.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
