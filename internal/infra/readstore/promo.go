package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

const promoViewColumns = `
	p.id, p.code, p.description, p.discount_type, p.percent_off, p.amount_off,
	p.applies_to, p.excluded_brands, p.min_subtotal, p.max_redemptions,
	p.user_id, p.starts_at, p.ends_at, p.is_active, p.created_at`

type PromoReadStore struct {
	db infra.DBTX
}

func NewPromoReadStore(db infra.DBTX) *PromoReadStore {
	return &PromoReadStore{db: db}
}

func (s *PromoReadStore) FindByCode(ctx context.Context, code string) (*queries.PromoView, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+promoViewColumns+`
		FROM promo_codes p
		WHERE p.code = $1 AND p.deleted_at IS NULL`, code)

	view, err := scanPromoView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promo code", err)
	}
	return view, nil
}

// ListActive returns public codes inside their activity window plus, when a
// user is given, the codes claimed by that user.
func (s *PromoReadStore) ListActive(ctx context.Context, now time.Time, userID *int64) ([]queries.PromoView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+promoViewColumns+`
		FROM promo_codes p
		WHERE p.deleted_at IS NULL
		  AND p.is_active
		  AND (p.user_id IS NULL OR p.user_id = $2)
		  AND (p.starts_at IS NULL OR p.starts_at <= $1)
		  AND (p.ends_at IS NULL OR p.ends_at >= $1)
		ORDER BY p.created_at DESC`, now, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active promo codes", err)
	}
	defer rows.Close()

	return collectPromoViews(rows)
}

func (s *PromoReadStore) ListOwned(ctx context.Context, userID int64) ([]queries.PromoView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+promoViewColumns+`
		FROM promo_codes p
		WHERE p.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list owned promo codes", err)
	}
	defer rows.Close()

	return collectPromoViews(rows)
}

func (s *PromoReadStore) ListRedemptionsByUser(ctx context.Context, userID int64) ([]queries.RedemptionView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.code, r.used_at
		FROM promo_redemptions r
		JOIN promo_codes p ON p.id = r.promo_code_id
		WHERE r.user_id = $1
		ORDER BY r.used_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redemptions", err)
	}
	defer rows.Close()

	var views []queries.RedemptionView
	for rows.Next() {
		var v queries.RedemptionView
		if err := rows.Scan(&v.Code, &v.UsedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan redemption row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read redemption rows", err)
	}
	return views, nil
}

func (s *PromoReadStore) CountRedemptions(ctx context.Context, promoID int64) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM promo_redemptions
		WHERE promo_code_id = $1`, promoID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count redemptions", err)
	}
	return count, nil
}

func (s *PromoReadStore) HasRedemption(ctx context.Context, promoID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM promo_redemptions
			WHERE promo_code_id = $1 AND user_id = $2
		)`, promoID, userID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check redemption", err)
	}
	return exists, nil
}

func scanPromoView(row pgx.Row) (*queries.PromoView, error) {
	var v queries.PromoView
	err := row.Scan(
		&v.ID,
		&v.Code,
		&v.Description,
		&v.DiscountType,
		&v.PercentOff,
		&v.AmountOff,
		&v.AppliesTo,
		&v.ExcludedBrands,
		&v.MinSubtotal,
		&v.MaxRedemptions,
		&v.UserID,
		&v.StartsAt,
		&v.EndsAt,
		&v.IsActive,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectPromoViews(rows pgx.Rows) ([]queries.PromoView, error) {
	var views []queries.PromoView
	for rows.Next() {
		v, err := scanPromoView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan promo row", err)
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read promo rows", err)
	}
	return views, nil
}
