// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        string          `db:"id"`
	Phone     string          `db:"phone"`
	Email     string          `db:"email"`
	FullName  string          `db:"full_name"`
	AvatarURL *string         `db:"avatar_url"`
	Role      string          `db:"role"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

const (
	RoleUser     = "USER"
	RoleProvider = "PROVIDER"
	RoleAdmin    = "ADMIN"
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}
