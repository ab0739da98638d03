package api

import (
	"log/slog"
	"net/http"

	"github.com/drugsdealer/projectX-sub003/internal/handler/dto/request"
	"github.com/drugsdealer/projectX-sub003/internal/handler/dto/response"
	"github.com/drugsdealer/projectX-sub003/internal/handler/httperr"
	"github.com/drugsdealer/projectX-sub003/internal/handler/middleware"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/commands"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	commands commands.PromoCommands
	queries  queries.PromoQueries
}

func NewPromoHandler(cmd commands.PromoCommands, qry queries.PromoQueries) *PromoHandler {
	return &PromoHandler{commands: cmd, queries: qry}
}

// List returns active codes visible to the caller plus, when logged in,
// the caller's own redemption history.
func (h *PromoHandler) List(c *gin.Context) {
	var userID *int64
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	items, my, err := h.queries.ListActive(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list promo codes", "error", err)
		httperr.AbortWithReason(c, http.StatusInternalServerError, err, "server_error", "Failed to list promo codes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"items":         response.FromPromoViews(items),
		"myRedemptions": response.FromRedemptionViews(my),
	})
}

func (h *PromoHandler) ListOwned(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithReason(c, http.StatusUnauthorized, nil, "unauthorized", "Authentication required")
		return
	}

	items, err := h.queries.ListOwned(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list owned promo codes", "error", err, "user_id", userID)
		httperr.AbortWithReason(c, http.StatusInternalServerError, err, "server_error", "Failed to list promo codes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"items": response.FromPromoViews(items),
	})
}

// Validate checks a code against the caller's cart without touching the
// ledger. A rejected code is a 400 whose body carries the reason.
func (h *PromoHandler) Validate(c *gin.Context) {
	var req request.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, response.ValidatePromoResponse{Reason: queries.ReasonInvalidCode})
		return
	}

	input := queries.ValidateInput{Code: req.Code, Subtotal: req.Subtotal}
	if id, ok := middleware.GetUserID(c); ok {
		input.UserID = &id
	}

	result, err := h.queries.Validate(c.Request.Context(), input)
	if err != nil {
		slog.Error("promo validation failed", "error", err, "code", req.Code)
		httperr.AbortWithReason(c, http.StatusInternalServerError, err, "server_error", "Failed to validate promo code")
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusBadRequest
	}
	c.JSON(status, response.FromValidationResult(result))
}

// Save claims a code for the caller. Payload problems are reported before
// identity ones, so a malformed request gets a 400 even when anonymous.
func (h *PromoHandler) Save(c *gin.Context) {
	var req request.SavePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		httperr.AbortWithReason(c, http.StatusBadRequest, nil, "invalid_code", "Promo code is required")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithReason(c, http.StatusUnauthorized, nil, "unauthorized", "Authentication required")
		return
	}

	result, err := h.commands.Claim(c.Request.Context(), req.Code, userID)
	if err != nil {
		h.abortClaimError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SavePromoResponse{OK: true, AlreadyOwned: result.AlreadyOwned})
}

func (h *PromoHandler) Redeem(c *gin.Context) {
	var req request.RedeemPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		httperr.AbortWithReason(c, http.StatusBadRequest, nil, "invalid_code", "Promo code is required")
		return
	}
	if req.OrderID <= 0 {
		httperr.AbortWithReason(c, http.StatusBadRequest, nil, "order_required", "Order id is required")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithReason(c, http.StatusUnauthorized, nil, "unauthorized", "Authentication required")
		return
	}

	if err := h.commands.Redeem(c.Request.Context(), req.Code, userID, req.OrderID); err != nil {
		h.abortRedeemError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.RedeemPromoResponse{OK: true})
}

func (h *PromoHandler) abortClaimError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrInvalidCode):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "invalid_code", "Promo code is required")
	case errs.Is(err, commands.ErrPromoNotFound):
		httperr.AbortWithReason(c, http.StatusNotFound, err, "not_found", "Promo code not found")
	case errs.Is(err, commands.ErrAlreadyClaimed):
		httperr.AbortWithReason(c, http.StatusConflict, err, "already_claimed", "Promo code already claimed by another account")
	case errs.Is(err, commands.ErrPromoNotStarted):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "not_started", "Promo code is not active yet")
	case errs.Is(err, commands.ErrPromoExpired):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "expired", "Promo code has expired")
	case errs.Is(err, commands.ErrUserNotFound):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "user_not_found", "Account not found")
	case errs.Is(err, commands.ErrInvalidPromoConfig):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "misconfigured", "Promo code is misconfigured")
	default:
		slog.Error("failed to save promo code", "error", err)
		httperr.AbortWithReason(c, http.StatusInternalServerError, err, "server_error", "Failed to save promo code")
	}
}

func (h *PromoHandler) abortRedeemError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrInvalidCode):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "invalid_code", "Promo code is required")
	case errs.Is(err, commands.ErrPromoNotFound):
		httperr.AbortWithReason(c, http.StatusNotFound, err, "not_found", "Promo code not found")
	case errs.Is(err, commands.ErrOrderNotPaid):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "order_not_paid", "Order not found or not paid")
	case errs.Is(err, commands.ErrPromoNotAvailable):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "not_available", "Promo code is bound to another account")
	case errs.Is(err, commands.ErrPromoNotStarted):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "not_started", "Promo code is not active yet")
	case errs.Is(err, commands.ErrPromoExpired):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "expired", "Promo code has expired")
	case errs.Is(err, commands.ErrPromoLimitReached):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "limit_reached", "Promo code redemption limit reached")
	case errs.Is(err, commands.ErrAlreadyUsed):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "already_used", "Promo code already used")
	case errs.Is(err, commands.ErrUserNotFound):
		httperr.AbortWithReason(c, http.StatusUnauthorized, err, "user_not_found", "Account not found")
	case errs.Is(err, commands.ErrInvalidPromoConfig):
		httperr.AbortWithReason(c, http.StatusBadRequest, err, "misconfigured", "Promo code is misconfigured")
	default:
		slog.Error("failed to redeem promo code", "error", err)
		httperr.AbortWithReason(c, http.StatusInternalServerError, err, "server_error", "Failed to redeem promo code")
	}
}
