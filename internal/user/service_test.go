// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Phone == u.Phone || existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	userCopy := *u
	f.users[u.ID] = &userCopy
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	userCopy := *u
	return &userCopy, nil
}

func (f *fakeRepo) GetByPhone(_ context.Context, phone string) (*User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, fmt.Errorf("get user by phone: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	stored, ok := f.users[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	stored.FullName = u.FullName
	stored.Email = u.Email
	stored.AvatarURL = u.AvatarURL
	return nil
}

func (f *fakeRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	u.Role = role
	return nil
}

func (f *fakeRepo) Debit(
	_ context.Context,
	id string,
	amount decimal.Decimal,
) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("debit user: %w", core.ErrNotFound)
	}
	if u.Balance.LessThan(amount) {
		return fmt.Errorf("debit user: %w", core.ErrInsufficientFunds)
	}
	u.Balance = u.Balance.Sub(amount)
	return nil
}

func (f *fakeRepo) Credit(
	_ context.Context,
	id string,
	amount decimal.Decimal,
) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("credit user: %w", core.ErrNotFound)
	}
	u.Balance = u.Balance.Add(amount)
	return nil
}

func (f *fakeRepo) GetBalance(
	_ context.Context,
	id string,
) (decimal.Decimal, error) {
	u, ok := f.users[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("get balance: %w", core.ErrNotFound)
	}
	return u.Balance, nil
}

func seedUser(repo *fakeRepo, id, balance string) {
	repo.users[id] = &User{
		ID:      id,
		Phone:   "+23480000" + id,
		Email:   id + "@example.com",
		Role:    RoleUser,
		Balance: decimal.RequireFromString(balance),
	}
}

func TestDebitValidation(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, "u1", "100.00")
	svc := NewService(repo, decimal.Zero)

	tests := []struct {
		name   string
		amount string
	}{
		{name: "zero", amount: "0"},
		{name: "negative", amount: "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Debit(
				context.Background(),
				"u1",
				decimal.RequireFromString(tt.amount),
			)
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if got := repo.users["u1"].Balance.StringFixed(2); got != "100.00" {
		t.Errorf("balance = %s, want unchanged 100.00", got)
	}
}

func TestDebitInsufficient(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, "u1", "50.00")
	svc := NewService(repo, decimal.Zero)

	err := svc.Debit(context.Background(), "u1", decimal.RequireFromString("75.00"))
	if !errors.Is(err, core.ErrInsufficientFunds) {
		t.Errorf("error = %v, want ErrInsufficientFunds", err)
	}
}

func TestFundReturnsNewBalance(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, "u1", "100.00")
	svc := NewService(repo, decimal.Zero)

	balance, err := svc.Fund(
		context.Background(),
		"u1",
		decimal.RequireFromString("2500.00"),
	)
	if err != nil {
		t.Fatalf("Fund failed: %v", err)
	}
	if balance.StringFixed(2) != "2600.00" {
		t.Errorf("balance = %s, want 2600.00", balance.StringFixed(2))
	}
}

func TestPromoteToProvider(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, "u1", "0")
	seedUser(repo, "a1", "0")
	repo.users["a1"].Role = RoleAdmin
	svc := NewService(repo, decimal.Zero)

	if err := svc.PromoteToProvider(context.Background(), "u1"); err != nil {
		t.Fatalf("PromoteToProvider failed: %v", err)
	}
	if got := repo.users["u1"].Role; got != RoleProvider {
		t.Errorf("role = %s, want PROVIDER", got)
	}

	// ADMIN must never be demoted by a verification flow.
	if err := svc.PromoteToProvider(context.Background(), "a1"); err != nil {
		t.Fatalf("PromoteToProvider failed: %v", err)
	}
	if got := repo.users["a1"].Role; got != RoleAdmin {
		t.Errorf("role = %s, want ADMIN untouched", got)
	}
}

func TestCreateFromPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, decimal.RequireFromString("10000.00"))

	info, err := svc.CreateFromPhone(context.Background(), "+2348012345678")
	if err != nil {
		t.Fatalf("CreateFromPhone failed: %v", err)
	}

	if info.FullName != "New Sahib User" {
		t.Errorf("full name = %q, want placeholder", info.FullName)
	}
	if !strings.HasSuffix(info.Email, "@sahib.placeholder") {
		t.Errorf("email = %q, want placeholder domain", info.Email)
	}
	if info.Role != RoleUser {
		t.Errorf("role = %s, want USER", info.Role)
	}
	if info.Balance.StringFixed(2) != "10000.00" {
		t.Errorf("balance = %s, want starting balance 10000.00", info.Balance.StringFixed(2))
	}

	stored, err := repo.GetByPhone(context.Background(), "+2348012345678")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.ID != info.ID {
		t.Errorf("stored id = %s, want %s", stored.ID, info.ID)
	}
}

func TestExists(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, "u1", "0")
	svc := NewService(repo, decimal.Zero)

	exists, err := svc.Exists(context.Background(), "u1")
	if err != nil || !exists {
		t.Errorf("Exists(u1) = %v, %v; want true, nil", exists, err)
	}

	exists, err = svc.Exists(context.Background(), "missing")
	if err != nil || exists {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", exists, err)
	}
}

func TestUpdateProfileLowercasesEmail(t *testing.T) {
	repo := newFakeRepo()
	seedUser(repo, "u1", "0")
	svc := NewService(repo, decimal.Zero)

	email := "Mixed.Case@Example.COM"
	u, err := svc.UpdateProfile(context.Background(), "u1", UpdateUserRequest{
		Email: &email,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if u.Email != "mixed.case@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
}
