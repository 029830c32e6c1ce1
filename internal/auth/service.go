// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

// UserInfo is the projection of a user the auth flow needs.
type UserInfo struct {
	ID        string
	Phone     string
	Email     string
	FullName  string
	Role      string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// UserProvider looks up and registers users by phone. The user service
// implements this; auth never touches the users table directly.
type UserProvider interface {
	GetByPhone(ctx context.Context, phone string) (*UserInfo, error)
	CreateFromPhone(ctx context.Context, phone string) (*UserInfo, error)
}

type Service struct {
	users  UserProvider
	otp    *OTPStore
	jwt    *JWTManager
	logger *slog.Logger
}

func NewService(
	users UserProvider,
	otp *OTPStore,
	jwt *JWTManager,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:  users,
		otp:    otp,
		jwt:    jwt,
		logger: logger,
	}
}

// RequestOTP issues a login code for the phone. There is no SMS gateway
// wired up; the code is written to the application log instead, which is
// enough for development and staging.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	code, err := s.otp.Issue(ctx, phone)
	if err != nil {
		return err
	}

	s.logger.Info("sms simulation: otp issued",
		slog.String("phone", phone),
		slog.String("code", code),
	)

	return nil
}

// VerifyOTP trades a valid code for an access token. Unknown phones are
// registered on the spot with a placeholder profile and the starting wallet
// balance, so first login and signup are the same flow.
func (s *Service) VerifyOTP(
	ctx context.Context,
	phone, code string,
) (string, *UserInfo, error) {
	if err := s.otp.Verify(ctx, phone, code); err != nil {
		return "", nil, err
	}

	u, err := s.users.GetByPhone(ctx, phone)
	if core.IsNotFound(err) {
		u, err = s.users.CreateFromPhone(ctx, phone)
		if err != nil {
			return "", nil, fmt.Errorf("register user: %w", err)
		}

		s.logger.Info("user auto-registered via otp",
			slog.String("user_id", u.ID),
			slog.String("phone", phone),
		)
	} else if err != nil {
		return "", nil, err
	}

	token, err := s.jwt.CreateAccessToken(u.ID, u.Phone, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue access token: %w", err)
	}

	return token, u, nil
}
