package request

// Promo payloads are bound loosely and validated by hand so that the
// response carries a field-specific reason code (invalid_code vs
// order_required) instead of a generic binding error.

type ValidatePromoRequest struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
}

type SavePromoRequest struct {
	Code string `json:"code"`
}

type RedeemPromoRequest struct {
	Code    string `json:"code"`
	OrderID int64  `json:"orderId"`
}
