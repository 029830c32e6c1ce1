// AngelaMos | 2026
// service_test.go

package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

type fakeRepo struct {
	providers map[string]*ServiceProvider
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{providers: map[string]*ServiceProvider{}}
}

func (f *fakeRepo) Create(_ context.Context, p *ServiceProvider) error {
	pCopy := *p
	f.providers[p.ID] = &pCopy
	return nil
}

func (f *fakeRepo) GetByID(
	_ context.Context,
	id string,
) (*ServiceProvider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, fmt.Errorf("get provider: %w", core.ErrNotFound)
	}
	pCopy := *p
	return &pCopy, nil
}

func (f *fakeRepo) GetByUser(
	_ context.Context,
	userID string,
) (*ServiceProvider, error) {
	for _, p := range f.providers {
		if p.UserID == userID {
			pCopy := *p
			return &pCopy, nil
		}
	}
	return nil, fmt.Errorf("get provider by user: %w", core.ErrNotFound)
}

func (f *fakeRepo) UpdateVerification(
	_ context.Context,
	id, status string,
	identityHash *string,
) error {
	p, ok := f.providers[id]
	if !ok {
		return fmt.Errorf("update verification: %w", core.ErrNotFound)
	}
	p.VerificationStatus = status
	if identityHash != nil {
		p.IdentityHash = identityHash
	}
	return nil
}

func (f *fakeRepo) UpdateAvailability(
	_ context.Context,
	id string,
	isAvailable bool,
) error {
	p, ok := f.providers[id]
	if !ok {
		return fmt.Errorf("update availability: %w", core.ErrNotFound)
	}
	p.IsAvailable = isAvailable
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]ServiceProvider, error) {
	out := []ServiceProvider{}
	for _, p := range f.providers {
		if p.IsAvailable && p.VerificationStatus == VerificationVerified {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	users    map[string]bool
	promoted []string
}

func (f *fakeDirectory) Exists(_ context.Context, userID string) (bool, error) {
	return f.users[userID], nil
}

func (f *fakeDirectory) PromoteToProvider(
	_ context.Context,
	userID string,
) error {
	if !f.users[userID] {
		return fmt.Errorf("promote: %w", core.ErrNotFound)
	}
	f.promoted = append(f.promoted, userID)
	return nil
}

func newTestService(
	repo *fakeRepo,
	dir *fakeDirectory,
) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, dir, logger)
}

func TestApply(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true}}
	svc := newTestService(repo, dir)

	p, err := svc.Apply(context.Background(), "u1", "electrician")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if p.VerificationStatus != VerificationPending {
		t.Errorf("status = %s, want PENDING", p.VerificationStatus)
	}
	if !p.IsAvailable {
		t.Error("new applicant should start available")
	}
	if p.CanAcceptWork() {
		t.Error("unverified provider must not be eligible for work")
	}
}

func TestApplyUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeDirectory{users: map[string]bool{}})

	_, err := svc.Apply(context.Background(), "ghost", "electrician")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestApplyDuplicate(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true}}
	svc := newTestService(repo, dir)

	if _, err := svc.Apply(context.Background(), "u1", "electrician"); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	_, err := svc.Apply(context.Background(), "u1", "plumbing")
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("error = %v, want ErrDuplicateKey", err)
	}
}

func TestVerifyPromotesUser(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true}}
	svc := newTestService(repo, dir)

	applied, err := svc.Apply(context.Background(), "u1", "electrician")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	nin := "12345678901"
	verified, err := svc.Verify(
		context.Background(),
		applied.ID,
		VerificationVerified,
		&nin,
	)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if verified.VerificationStatus != VerificationVerified {
		t.Errorf("status = %s, want VERIFIED", verified.VerificationStatus)
	}
	if verified.IdentityHash == nil {
		t.Fatal("identity hash not stored")
	}
	if *verified.IdentityHash == nin {
		t.Error("raw identity number was stored instead of a hash")
	}
	if len(dir.promoted) != 1 || dir.promoted[0] != "u1" {
		t.Errorf("promoted = %v, want [u1]", dir.promoted)
	}
	if !verified.CanAcceptWork() {
		t.Error("verified available provider should be eligible for work")
	}
}

func TestVerifyRejectedDoesNotPromote(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true}}
	svc := newTestService(repo, dir)

	applied, err := svc.Apply(context.Background(), "u1", "electrician")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	rejected, err := svc.Verify(
		context.Background(),
		applied.ID,
		VerificationRejected,
		nil,
	)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if rejected.VerificationStatus != VerificationRejected {
		t.Errorf("status = %s, want REJECTED", rejected.VerificationStatus)
	}
	if len(dir.promoted) != 0 {
		t.Errorf("promoted = %v, want none", dir.promoted)
	}
}

func TestVerifyUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true}}
	svc := newTestService(repo, dir)

	applied, err := svc.Apply(context.Background(), "u1", "electrician")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	_, err = svc.Verify(context.Background(), applied.ID, "MAYBE", nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestListActiveExcludesUnverified(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true, "u2": true}}
	svc := newTestService(repo, dir)

	pending, err := svc.Apply(context.Background(), "u1", "electrician")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	applied, err := svc.Apply(context.Background(), "u2", "plumbing")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if _, err := svc.Verify(
		context.Background(),
		applied.ID,
		VerificationVerified,
		nil,
	); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}

	if len(active) != 1 {
		t.Fatalf("len(active) = %d, want 1", len(active))
	}
	if active[0].ID != applied.ID {
		t.Errorf("active provider = %s, want %s", active[0].ID, applied.ID)
	}
	if active[0].ID == pending.ID {
		t.Error("pending provider listed as active")
	}
}

func TestSetAvailability(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[string]bool{"u1": true}}
	svc := newTestService(repo, dir)

	applied, err := svc.Apply(context.Background(), "u1", "electrician")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	p, err := svc.SetAvailability(context.Background(), applied.ID, false)
	if err != nil {
		t.Fatalf("SetAvailability failed: %v", err)
	}
	if p.IsAvailable {
		t.Error("provider still available after being turned off")
	}
}
