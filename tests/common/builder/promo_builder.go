//go:build unit || e2e

package builder

import (
	"time"

	dompromo "github.com/drugsdealer/projectX-sub003/internal/domain/promo"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/commands"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"
)

type PromoBuilder struct {
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
	CreatedAt      time.Time
}

func NewPromoBuilder() *PromoBuilder {
	percent := int32(10)
	minSubtotal := int64(500)
	return &PromoBuilder{
		ID:           1,
		Code:         "SUMMER10",
		DiscountType: string(dompromo.DiscountPercent),
		PercentOff:   &percent,
		AppliesTo:    string(dompromo.AppliesAll),
		MinSubtotal:  &minSubtotal,
		IsActive:     true,
		CreatedAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *PromoBuilder) With(mutate func(*PromoBuilder)) *PromoBuilder {
	mutate(b)
	return b
}

func (b *PromoBuilder) WithAmount(amount int64) *PromoBuilder {
	b.DiscountType = string(dompromo.DiscountAmount)
	b.PercentOff = nil
	b.AmountOff = &amount
	return b
}

func (b *PromoBuilder) WithOwner(userID int64) *PromoBuilder {
	claimedAt := b.CreatedAt.Add(time.Hour)
	b.UserID = &userID
	b.ClaimedAt = &claimedAt
	return b
}

func (b *PromoBuilder) WithWindow(startsAt, endsAt time.Time) *PromoBuilder {
	b.StartsAt = &startsAt
	b.EndsAt = &endsAt
	return b
}

func (b *PromoBuilder) WithMaxRedemptions(max int32) *PromoBuilder {
	b.MaxRedemptions = &max
	return b
}

func (b *PromoBuilder) BuildDomain() (*dompromo.PromoCode, error) {
	return dompromo.NewPromoCode(
		b.ID,
		b.Code,
		dompromo.DiscountType(b.DiscountType),
		b.PercentOff,
		b.AmountOff,
		dompromo.AppliesTo(b.AppliesTo),
		b.ExcludedBrands,
		b.MinSubtotal,
		b.MaxRedemptions,
		b.UserID,
		b.ClaimedAt,
		b.StartsAt,
		b.EndsAt,
		b.IsActive,
	)
}

func (b *PromoBuilder) BuildSnapshot() *commands.PromoSnapshot {
	return &commands.PromoSnapshot{
		ID:             b.ID,
		Code:           b.Code,
		Description:    b.Description,
		DiscountType:   b.DiscountType,
		PercentOff:     b.PercentOff,
		AmountOff:      b.AmountOff,
		AppliesTo:      b.AppliesTo,
		ExcludedBrands: b.ExcludedBrands,
		MinSubtotal:    b.MinSubtotal,
		MaxRedemptions: b.MaxRedemptions,
		UserID:         b.UserID,
		ClaimedAt:      b.ClaimedAt,
		StartsAt:       b.StartsAt,
		EndsAt:         b.EndsAt,
		IsActive:       b.IsActive,
	}
}

func (b *PromoBuilder) BuildView() *queries.PromoView {
	return &queries.PromoView{
		ID:             b.ID,
		Code:           b.Code,
		Description:    b.Description,
		DiscountType:   b.DiscountType,
		PercentOff:     b.PercentOff,
		AmountOff:      b.AmountOff,
		AppliesTo:      b.AppliesTo,
		ExcludedBrands: b.ExcludedBrands,
		MinSubtotal:    b.MinSubtotal,
		MaxRedemptions: b.MaxRedemptions,
		UserID:         b.UserID,
		StartsAt:       b.StartsAt,
		EndsAt:         b.EndsAt,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
	}
}
