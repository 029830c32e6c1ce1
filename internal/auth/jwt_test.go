// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sahib-ng/sahib-backend/internal/config"
	"github.com/sahib-ng/sahib-backend/internal/core"
)

func newTestManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:    privatePath,
		PublicKeyPath:     publicPath,
		AccessTokenExpire: expire,
		Issuer:            "sahib-backend",
		Audience:          "sahib-api",
	})
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	token, err := manager.CreateAccessToken("u1", "+2348012345678", "USER")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	claims, err := manager.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}

	if claims.UserID != "u1" {
		t.Errorf("user id = %q, want u1", claims.UserID)
	}
	if claims.Phone != "+2348012345678" {
		t.Errorf("phone = %q, want +2348012345678", claims.Phone)
	}
	if claims.Role != "USER" {
		t.Errorf("role = %q, want USER", claims.Role)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	_, err := manager.VerifyAccessToken(context.Background(), "not.a.token")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	manager := newTestManager(t, -time.Minute)

	token, err := manager.CreateAccessToken("u1", "+2348012345678", "USER")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	_, err = manager.VerifyAccessToken(context.Background(), token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuing := newTestManager(t, time.Hour)
	verifying := newTestManager(t, time.Hour)

	token, err := issuing.CreateAccessToken("u1", "+2348012345678", "USER")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	if _, err := verifying.VerifyAccessToken(context.Background(), token); err == nil {
		t.Error("token signed by a different key was accepted")
	}
}
