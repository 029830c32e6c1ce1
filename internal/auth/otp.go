// AngelaMos | 2026
// otp.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sahib-ng/sahib-backend/internal/config"
	"github.com/sahib-ng/sahib-backend/internal/core"
)

// OTPStore keeps one-time codes in Redis, hashed. A code survives for the
// configured TTL or until it is consumed, whichever comes first. Failed
// verifications are counted per phone; hitting the cap burns the code.
type OTPStore struct {
	redis  *core.Redis
	config config.OTPConfig
}

func NewOTPStore(r *core.Redis, cfg config.OTPConfig) *OTPStore {
	return &OTPStore{
		redis:  r,
		config: cfg,
	}
}

func otpKey(phone string) string {
	return "otp:code:" + phone
}

func otpAttemptsKey(phone string) string {
	return "otp:attempts:" + phone
}

// Issue generates a fresh code for the phone and stores its hash. Reissuing
// replaces any outstanding code and resets the attempt counter.
func (s *OTPStore) Issue(ctx context.Context, phone string) (string, error) {
	code, err := core.GenerateOTP(s.config.Digits)
	if err != nil {
		return "", fmt.Errorf("issue otp: %w", err)
	}

	pipe := s.redis.Client.TxPipeline()
	pipe.Set(ctx, otpKey(phone), core.HashToken(code), s.config.TTL)
	pipe.Del(ctx, otpAttemptsKey(phone))

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("issue otp: %w", err)
	}

	return code, nil
}

// Verify consumes the code on success. Expired or never-issued codes report
// ErrTokenExpired; a wrong code reports ErrTokenInvalid and counts against
// the attempt cap.
func (s *OTPStore) Verify(ctx context.Context, phone, code string) error {
	storedHash, err := s.redis.Client.Get(ctx, otpKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("verify otp: %w", core.ErrTokenExpired)
	}
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}

	if !core.CompareTokenHash(code, storedHash) {
		attempts, incrErr := s.redis.Client.Incr(ctx, otpAttemptsKey(phone)).Result()
		if incrErr != nil {
			return fmt.Errorf("verify otp: %w", incrErr)
		}
		s.redis.Client.Expire(ctx, otpAttemptsKey(phone), s.config.TTL)

		if attempts >= int64(s.config.MaxAttempts) {
			s.redis.Client.Del(ctx, otpKey(phone), otpAttemptsKey(phone))
			return fmt.Errorf("verify otp: attempts exhausted: %w", core.ErrTokenRevoked)
		}

		return fmt.Errorf("verify otp: %w", core.ErrTokenInvalid)
	}

	if err := s.redis.Client.Del(ctx, otpKey(phone), otpAttemptsKey(phone)).Err(); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}

	return nil
}
