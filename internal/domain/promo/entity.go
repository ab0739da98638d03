package promo

import (
	"errors"
	"time"
)

var (
	ErrNotYetActive = errors.New("promo code is not yet active")
	ErrExpired      = errors.New("promo code has expired")
	ErrInactive     = errors.New("promo code is inactive")
)

type PromoCode struct {
	id             int64
	code           Code
	discount       Discount
	appliesTo      AppliesTo
	excludedBrands []string
	minSubtotal    *int64
	maxRedemptions *int32
	ownerID        *int64
	claimedAt      *time.Time
	startsAt       *time.Time
	endsAt         *time.Time
	isActive       bool
}

func NewPromoCode(
	id int64,
	code string,
	discountType DiscountType,
	percentOff *int32,
	amountOff *int64,
	appliesTo AppliesTo,
	excludedBrands []string,
	minSubtotal *int64,
	maxRedemptions *int32,
	ownerID *int64,
	claimedAt, startsAt, endsAt *time.Time,
	isActive bool,
) (*PromoCode, error) {
	promoCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(discountType, percentOff, amountOff)
	if err != nil {
		return nil, err
	}

	if appliesTo == "" {
		appliesTo = AppliesAll
	}

	return &PromoCode{
		id:             id,
		code:           promoCode,
		discount:       discount,
		appliesTo:      appliesTo,
		excludedBrands: excludedBrands,
		minSubtotal:    minSubtotal,
		maxRedemptions: maxRedemptions,
		ownerID:        ownerID,
		claimedAt:      claimedAt,
		startsAt:       startsAt,
		endsAt:         endsAt,
		isActive:       isActive,
	}, nil
}

// IsActiveAt reports whether t falls inside the code's activity window.
func (p *PromoCode) IsActiveAt(t time.Time) bool {
	if !p.isActive {
		return false
	}
	if p.startsAt != nil && t.Before(*p.startsAt) {
		return false
	}
	if p.endsAt != nil && t.After(*p.endsAt) {
		return false
	}
	return true
}

func (p *PromoCode) ValidateWindow(t time.Time) error {
	if !p.isActive {
		return ErrInactive
	}
	if p.startsAt != nil && t.Before(*p.startsAt) {
		return ErrNotYetActive
	}
	if p.endsAt != nil && t.After(*p.endsAt) {
		return ErrExpired
	}
	return nil
}

// IsPublic reports whether the code has not been claimed by any user.
func (p *PromoCode) IsPublic() bool { return p.ownerID == nil }

func (p *PromoCode) IsOwnedBy(userID int64) bool {
	return p.ownerID != nil && *p.ownerID == userID
}

// IsSingleUse covers codes that deactivate after their first redemption:
// personal codes and codes with a global redemption cap of one.
func (p *PromoCode) IsSingleUse() bool {
	if p.ownerID != nil {
		return true
	}
	return p.maxRedemptions != nil && *p.maxRedemptions == 1
}

func (p *PromoCode) MeetsMinSubtotal(subtotal int64) bool {
	return p.minSubtotal == nil || subtotal >= *p.minSubtotal
}

func (p *PromoCode) ApplyDiscount(subtotal int64) int64 {
	return p.discount.Apply(subtotal)
}

func (p *PromoCode) ID() int64               { return p.id }
func (p *PromoCode) Code() Code              { return p.code }
func (p *PromoCode) Discount() Discount      { return p.discount }
func (p *PromoCode) AppliesTo() AppliesTo    { return p.appliesTo }
func (p *PromoCode) ExcludedBrands() []string { return p.excludedBrands }
func (p *PromoCode) MinSubtotal() *int64     { return p.minSubtotal }
func (p *PromoCode) MaxRedemptions() *int32  { return p.maxRedemptions }
func (p *PromoCode) OwnerID() *int64         { return p.ownerID }
func (p *PromoCode) ClaimedAt() *time.Time   { return p.claimedAt }
func (p *PromoCode) StartsAt() *time.Time    { return p.startsAt }
func (p *PromoCode) EndsAt() *time.Time      { return p.endsAt }
