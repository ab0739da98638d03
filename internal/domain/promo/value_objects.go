package promo

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCode          = errors.New("promo code is empty")
	ErrInvalidDiscount    = errors.New("promo code discount is misconfigured")
	ErrUnknownDiscountTyp = errors.New("unknown discount type")
)

// Code is the canonical (trimmed, upper-case) form of a promo code.
type Code string

func NewCode(raw string) (Code, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrEmptyCode
	}
	return Code(normalized), nil
}

func (c Code) String() string { return string(c) }

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

type AppliesTo string

const (
	AppliesAll           AppliesTo = "ALL"
	AppliesPremiumOnly   AppliesTo = "PREMIUM_ONLY"
	AppliesNonPremium    AppliesTo = "NON_PREMIUM_ONLY"
)

// Discount selects exactly one of percentOff/amountOff by type.
type Discount struct {
	typ        DiscountType
	percentOff int32
	amountOff  int64
}

func NewDiscount(typ DiscountType, percentOff *int32, amountOff *int64) (Discount, error) {
	switch typ {
	case DiscountPercent:
		if percentOff == nil || *percentOff <= 0 || *percentOff > 100 {
			return Discount{}, ErrInvalidDiscount
		}
		return Discount{typ: typ, percentOff: *percentOff}, nil
	case DiscountAmount:
		if amountOff == nil || *amountOff <= 0 {
			return Discount{}, ErrInvalidDiscount
		}
		return Discount{typ: typ, amountOff: *amountOff}, nil
	default:
		return Discount{}, ErrUnknownDiscountTyp
	}
}

func (d Discount) Type() DiscountType { return d.typ }

// Value is the user-facing magnitude: percent points or an absolute amount.
func (d Discount) Value() int64 {
	if d.typ == DiscountPercent {
		return int64(d.percentOff)
	}
	return d.amountOff
}

// Apply returns the subtotal after the discount, never below zero.
func (d Discount) Apply(subtotal int64) int64 {
	var off int64
	switch d.typ {
	case DiscountPercent:
		off = subtotal * int64(d.percentOff) / 100
	case DiscountAmount:
		off = d.amountOff
	}
	total := subtotal - off
	if total < 0 {
		return 0
	}
	return total
}
