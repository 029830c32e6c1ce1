// AngelaMos | 2026
// entity.go

package provider

import (
	"time"
)

type ServiceProvider struct {
	ID                 string    `db:"id"`
	UserID             string    `db:"user_id"`
	Category           string    `db:"category"`
	VerificationStatus string    `db:"verification_status"`
	IdentityHash       *string   `db:"identity_hash"`
	Rating             float64   `db:"rating"`
	IsAvailable        bool      `db:"is_available"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

const (
	VerificationPending  = "PENDING"
	VerificationVerified = "VERIFIED"
	VerificationRejected = "REJECTED"
)

func (p *ServiceProvider) IsVerified() bool {
	return p.VerificationStatus == VerificationVerified
}

// CanAcceptWork reports eligibility: only verified, available providers are
// offered open requests.
func (p *ServiceProvider) CanAcceptWork() bool {
	return p.IsVerified() && p.IsAvailable
}

func ValidVerificationStatus(status string) bool {
	switch status {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	default:
		return false
	}
}
