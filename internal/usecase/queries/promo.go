package queries

import (
	"context"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/domain/promo"
	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"
)

var ErrQueryFailed = errs.New("promo query failed")

// Validation reason codes surfaced verbatim to clients.
const (
	ReasonInvalidCode   = "invalid_code"
	ReasonNotFound      = "not_found"
	ReasonLoginRequired = "login_required"
	ReasonNotAvailable  = "not_available"
	ReasonNotStarted    = "not_started"
	ReasonExpired       = "expired"
	ReasonLimitReached  = "limit_reached"
	ReasonAlreadyUsed   = "already_used"
	ReasonMinSubtotal   = "min_subtotal"
	ReasonMisconfigured = "misconfigured"
)

type PromoView struct {
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
	StartsAt       *time.Time
	EndsAt         *time.Time
	IsActive       bool
	CreatedAt      time.Time
}

type RedemptionView struct {
	Code   string
	UsedAt time.Time
}

type DiscountView struct {
	Code           string   `json:"code"`
	Description    *string  `json:"description,omitempty"`
	Type           string   `json:"type"` // "percent" | "amount"
	Value          int64    `json:"value"`
	AppliesTo      string   `json:"appliesTo"`
	ExcludedBrands []string `json:"excludedBrands"`
}

type ValidationResult struct {
	OK              bool
	Reason          string
	Discount        *DiscountView
	AlreadyUsed     bool
	RemainingGlobal *int64
	NewTotal        *int64
	MinSubtotal     *int64
}

type ValidateInput struct {
	Code     string
	Subtotal int64
	UserID   *int64
}

type PromoReadStore interface {
	FindByCode(ctx context.Context, code string) (*PromoView, error)
	ListActive(ctx context.Context, now time.Time, userID *int64) ([]PromoView, error)
	ListOwned(ctx context.Context, userID int64) ([]PromoView, error)
	ListRedemptionsByUser(ctx context.Context, userID int64) ([]RedemptionView, error)
	CountRedemptions(ctx context.Context, promoID int64) (int64, error)
	HasRedemption(ctx context.Context, promoID, userID int64) (bool, error)
}

type PromoQueries interface {
	// Validate is a pure check: it never mutates the ledger.
	Validate(ctx context.Context, input ValidateInput) (*ValidationResult, error)
	ListActive(ctx context.Context, userID *int64) ([]PromoView, []RedemptionView, error)
	ListOwned(ctx context.Context, userID int64) ([]PromoView, error)
}

type promoQueriesImpl struct {
	store PromoReadStore
	clock clock.Clock
}

func NewPromoQueries(store PromoReadStore, clock clock.Clock) PromoQueries {
	return &promoQueriesImpl{store: store, clock: clock}
}

func (q *promoQueriesImpl) Validate(ctx context.Context, input ValidateInput) (*ValidationResult, error) {
	code, err := promo.NewCode(input.Code)
	if err != nil {
		return &ValidationResult{Reason: ReasonInvalidCode}, nil
	}

	view, err := q.store.FindByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &ValidationResult{Reason: ReasonNotFound}, nil
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	if !view.IsActive {
		return &ValidationResult{Reason: ReasonNotFound}, nil
	}

	// Personal codes are only visible to their owner.
	if view.UserID != nil {
		if input.UserID == nil {
			return &ValidationResult{Reason: ReasonLoginRequired}, nil
		}
		if *view.UserID != *input.UserID {
			return &ValidationResult{Reason: ReasonNotAvailable}, nil
		}
	}

	entity, err := toPromoEntity(view)
	if err != nil {
		return &ValidationResult{Reason: ReasonMisconfigured}, nil
	}

	now := q.clock.Now()
	switch windowErr := entity.ValidateWindow(now); windowErr {
	case nil:
	case promo.ErrNotYetActive:
		return &ValidationResult{Reason: ReasonNotStarted}, nil
	case promo.ErrExpired:
		return &ValidationResult{Reason: ReasonExpired}, nil
	default:
		return &ValidationResult{Reason: ReasonNotFound}, nil
	}

	var remainingGlobal *int64
	if view.MaxRedemptions != nil {
		used, countErr := q.store.CountRedemptions(ctx, view.ID)
		if countErr != nil {
			return nil, errs.Mark(countErr, ErrQueryFailed)
		}
		if used >= int64(*view.MaxRedemptions) {
			return &ValidationResult{Reason: ReasonLimitReached}, nil
		}
		left := int64(*view.MaxRedemptions) - used
		remainingGlobal = &left
	}

	alreadyUsed := false
	if input.UserID != nil {
		alreadyUsed, err = q.store.HasRedemption(ctx, view.ID, *input.UserID)
		if err != nil {
			return nil, errs.Mark(err, ErrQueryFailed)
		}
		if alreadyUsed {
			return &ValidationResult{Reason: ReasonAlreadyUsed, AlreadyUsed: true}, nil
		}
	}

	subtotal := input.Subtotal
	if subtotal < 0 {
		subtotal = 0
	}
	if subtotal > 0 && !entity.MeetsMinSubtotal(subtotal) {
		return &ValidationResult{Reason: ReasonMinSubtotal, MinSubtotal: view.MinSubtotal}, nil
	}

	result := &ValidationResult{
		OK:              true,
		AlreadyUsed:     alreadyUsed,
		RemainingGlobal: remainingGlobal,
		MinSubtotal:     view.MinSubtotal,
		Discount: &DiscountView{
			Code:           entity.Code().String(),
			Description:    view.Description,
			Type:           discountTypeLabel(entity.Discount().Type()),
			Value:          entity.Discount().Value(),
			AppliesTo:      string(entity.AppliesTo()),
			ExcludedBrands: entity.ExcludedBrands(),
		},
	}
	if subtotal > 0 {
		newTotal := entity.ApplyDiscount(subtotal)
		result.NewTotal = &newTotal
	}
	return result, nil
}

func (q *promoQueriesImpl) ListActive(ctx context.Context, userID *int64) ([]PromoView, []RedemptionView, error) {
	items, err := q.store.ListActive(ctx, q.clock.Now(), userID)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrQueryFailed)
	}

	var my []RedemptionView
	if userID != nil {
		my, err = q.store.ListRedemptionsByUser(ctx, *userID)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrQueryFailed)
		}
	}
	return items, my, nil
}

func (q *promoQueriesImpl) ListOwned(ctx context.Context, userID int64) ([]PromoView, error) {
	items, err := q.store.ListOwned(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return items, nil
}

func discountTypeLabel(t promo.DiscountType) string {
	if t == promo.DiscountAmount {
		return "amount"
	}
	return "percent"
}

func toPromoEntity(view *PromoView) (*promo.PromoCode, error) {
	return promo.NewPromoCode(
		view.ID,
		view.Code,
		promo.DiscountType(view.DiscountType),
		view.PercentOff,
		view.AmountOff,
		promo.AppliesTo(view.AppliesTo),
		view.ExcludedBrands,
		view.MinSubtotal,
		view.MaxRedemptions,
		view.UserID,
		nil,
		view.StartsAt,
		view.EndsAt,
		view.IsActive,
	)
}
