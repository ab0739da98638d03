package commands

import (
	"context"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
)

// Write-side snapshots prevent dependency on read-side query types (CQRS separation)
type PromoSnapshot struct {
	ID             int64
	Code           string
	Description    *string
	DiscountType   string
	PercentOff     *int32
	AmountOff      *int64
	AppliesTo      string
	ExcludedBrands []string
	MinSubtotal    *int64
	MaxRedemptions *int32
	UserID         *int64
	ClaimedAt      *time.Time
	StartsAt       *time.Time
	EndsAt         *time.Time
	IsActive       bool
}

type OrderSnapshot struct {
	ID     int64
	UserID int64
	Status string
}

// OrderStatusSucceeded is the terminal paid status; redemption is only
// permitted once an order has reached it.
const OrderStatusSucceeded = "SUCCEEDED"

type PromoCodeRepository interface {
	FindByCode(ctx context.Context, code string) (*PromoSnapshot, error)
	// ClaimIfUnowned performs the single atomic conditional update
	// "SET user_id, claimed_at WHERE id = $1 AND user_id IS NULL" and reports
	// whether a row was affected. Zero rows means another caller won the race.
	ClaimIfUnowned(ctx context.Context, promoID, userID int64, at time.Time) (bool, error)
	Deactivate(ctx context.Context, tx infra.DBTX, promoID int64) error
}

type RedemptionRepository interface {
	// Insert relies on the (promo_code_id, user_id) unique constraint; a
	// violation surfaces as infra.KindDuplicateKey, never as a fatal error.
	Insert(ctx context.Context, tx infra.DBTX, promoID, userID, orderID int64, usedAt time.Time) error
	ExistsFor(ctx context.Context, promoID, userID int64) (bool, error)
	CountForPromo(ctx context.Context, promoID int64) (int64, error)
}

type OrderRepository interface {
	FindForUser(ctx context.Context, orderID, userID int64) (*OrderSnapshot, error)
}

type UserRepository interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}
