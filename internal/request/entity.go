// AngelaMos | 2026
// entity.go

package request

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

const (
	PriorityNormal  = "NORMAL"
	PriorityUrgent  = "URGENT"
	PriorityExpress = "EXPRESS"
)

const (
	TxnHeldInEscrow = "HELD_IN_ESCROW"
	TxnReleased     = "RELEASED"
	TxnRefunded     = "REFUNDED"
)

// Location is stored as a JSONB column.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *Location) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("scan location: unsupported type %T", src)
	}
}

type ServiceRequest struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	ProviderID  *string         `db:"provider_id"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	Location    Location        `db:"location"`
	Price       decimal.Decimal `db:"price"`
	Status      string          `db:"status"`
	Priority    string          `db:"priority"`
	Rating      *int            `db:"rating"`
	Review      *string         `db:"review"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Transaction is the escrow ledger entry for a request. Exactly one exists
// per request, created when funds are held.
type Transaction struct {
	ID         string          `db:"id"`
	RequestID  string          `db:"request_id"`
	UserID     string          `db:"user_id"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	PaymentRef *string         `db:"payment_ref"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// MarketplaceStats is the admin view of the marketplace: how many requests
// sit in each status and how much money each escrow state holds.
type MarketplaceStats struct {
	RequestCounts map[string]int64
	EscrowTotals  map[string]decimal.Decimal
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityNormal, PriorityUrgent, PriorityExpress:
		return true
	default:
		return false
	}
}
