package response

import (
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"
)

type ValidatePromoResponse struct {
	OK              bool                  `json:"ok"`
	Reason          string                `json:"reason,omitempty"`
	Code            *queries.DiscountView `json:"code,omitempty"`
	AlreadyUsed     bool                  `json:"alreadyUsed,omitempty"`
	RemainingGlobal *int64                `json:"remainingGlobal,omitempty"`
	NewTotal        *int64                `json:"newTotal,omitempty"`
	MinSubtotal     *int64                `json:"minSubtotal,omitempty"`
}

func FromValidationResult(r *queries.ValidationResult) ValidatePromoResponse {
	return ValidatePromoResponse{
		OK:              r.OK,
		Reason:          r.Reason,
		Code:            r.Discount,
		AlreadyUsed:     r.AlreadyUsed,
		RemainingGlobal: r.RemainingGlobal,
		NewTotal:        r.NewTotal,
		MinSubtotal:     r.MinSubtotal,
	}
}

type SavePromoResponse struct {
	OK           bool `json:"ok"`
	AlreadyOwned bool `json:"alreadyOwned,omitempty"`
}

type RedeemPromoResponse struct {
	OK bool `json:"ok"`
}

type PromoCodeResponse struct {
	ID             int64      `json:"id"`
	Code           string     `json:"code"`
	Description    *string    `json:"description,omitempty"`
	Type           string     `json:"type"`
	Value          int64      `json:"value"`
	AppliesTo      string     `json:"appliesTo"`
	ExcludedBrands []string   `json:"excludedBrands,omitempty"`
	MinSubtotal    *int64     `json:"minSubtotal,omitempty"`
	MaxRedemptions *int32     `json:"maxRedemptions,omitempty"`
	StartsAt       *time.Time `json:"startsAt,omitempty"`
	EndsAt         *time.Time `json:"endsAt,omitempty"`
	IsActive       bool       `json:"isActive"`
}

type RedemptionResponse struct {
	Code   string    `json:"code"`
	UsedAt time.Time `json:"usedAt"`
}

func FromPromoView(v queries.PromoView) PromoCodeResponse {
	resp := PromoCodeResponse{
		ID:             v.ID,
		Code:           v.Code,
		Description:    v.Description,
		AppliesTo:      v.AppliesTo,
		ExcludedBrands: v.ExcludedBrands,
		MinSubtotal:    v.MinSubtotal,
		MaxRedemptions: v.MaxRedemptions,
		StartsAt:       v.StartsAt,
		EndsAt:         v.EndsAt,
		IsActive:       v.IsActive,
	}
	switch v.DiscountType {
	case "AMOUNT":
		resp.Type = "amount"
		if v.AmountOff != nil {
			resp.Value = *v.AmountOff
		}
	default:
		resp.Type = "percent"
		if v.PercentOff != nil {
			resp.Value = int64(*v.PercentOff)
		}
	}
	return resp
}

func FromPromoViews(views []queries.PromoView) []PromoCodeResponse {
	items := make([]PromoCodeResponse, 0, len(views))
	for _, v := range views {
		items = append(items, FromPromoView(v))
	}
	return items
}

func FromRedemptionViews(views []queries.RedemptionView) []RedemptionResponse {
	items := make([]RedemptionResponse, 0, len(views))
	for _, v := range views {
		items = append(items, RedemptionResponse{Code: v.Code, UsedAt: v.UsedAt})
	}
	return items
}
