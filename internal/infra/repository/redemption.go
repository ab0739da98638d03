package repository

import (
	"context"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
)

type RedemptionRepository struct {
	db infra.DBTX
}

func NewRedemptionRepository(db infra.DBTX) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

// Insert creates the redemption row. The UNIQUE(promo_code_id, user_id)
// constraint is the at-most-once guard: a concurrent duplicate comes back
// as KindDuplicateKey for the caller to treat as "already used".
func (r *RedemptionRepository) Insert(ctx context.Context, tx infra.DBTX, promoID, userID, orderID int64, usedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO promo_redemptions (promo_code_id, user_id, order_id, used_at)
		VALUES ($1, $2, $3, $4)`, promoID, userID, orderID, usedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("redemption already recorded", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("redemption references missing row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to insert redemption", err)
	}
	return nil
}

func (r *RedemptionRepository) ExistsFor(ctx context.Context, promoID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM promo_redemptions
			WHERE promo_code_id = $1 AND user_id = $2
		)`, promoID, userID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check redemption", err)
	}
	return exists, nil
}

func (r *RedemptionRepository) CountForPromo(ctx context.Context, promoID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM promo_redemptions
		WHERE promo_code_id = $1`, promoID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count redemptions", err)
	}
	return count, nil
}
