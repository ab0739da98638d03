package repository

import (
	"context"
	"errors"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
)

const promoColumns = `
	id, code, description, discount_type, percent_off, amount_off,
	applies_to, excluded_brands, min_subtotal, max_redemptions,
	user_id, claimed_at, starts_at, ends_at, is_active`

type PromoCodeRepository struct {
	db infra.DBTX
}

func NewPromoCodeRepository(db infra.DBTX) *PromoCodeRepository {
	return &PromoCodeRepository{db: db}
}

func (r *PromoCodeRepository) FindByCode(ctx context.Context, code string) (*commands.PromoSnapshot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+promoColumns+`
		FROM promo_codes
		WHERE code = $1 AND deleted_at IS NULL`, code)

	snap, err := scanPromoSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promo code by code", err)
	}
	return snap, nil
}

// ClaimIfUnowned is the atomic Unclaimed -> Claimed transition. The WHERE
// clause carries the precondition, so two concurrent claimants can never
// both win: the losing update affects zero rows.
func (r *PromoCodeRepository) ClaimIfUnowned(ctx context.Context, promoID, userID int64, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE promo_codes
		SET user_id = $2, claimed_at = $3, updated_at = $3
		WHERE id = $1 AND user_id IS NULL`, promoID, userID, at)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, infra.WrapRepoErr("claim references missing user", err, infra.KindForeignKeyViolated)
		}
		return false, infra.WrapRepoErr("failed to claim promo code", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PromoCodeRepository) Deactivate(ctx context.Context, tx infra.DBTX, promoID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE promo_codes
		SET is_active = FALSE, updated_at = now()
		WHERE id = $1`, promoID)
	if err != nil {
		return infra.WrapRepoErr("failed to deactivate promo code", err)
	}
	return nil
}

func scanPromoSnapshot(row pgx.Row) (*commands.PromoSnapshot, error) {
	var snap commands.PromoSnapshot
	err := row.Scan(
		&snap.ID,
		&snap.Code,
		&snap.Description,
		&snap.DiscountType,
		&snap.PercentOff,
		&snap.AmountOff,
		&snap.AppliesTo,
		&snap.ExcludedBrands,
		&snap.MinSubtotal,
		&snap.MaxRedemptions,
		&snap.UserID,
		&snap.ClaimedAt,
		&snap.StartsAt,
		&snap.EndsAt,
		&snap.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
