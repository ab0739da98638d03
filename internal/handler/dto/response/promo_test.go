//go:build unit

package response_test

import (
	"testing"

	"github.com/drugsdealer/projectX-sub003/internal/handler/dto/response"
	"github.com/drugsdealer/projectX-sub003/tests/common/builder"

	"github.com/google/go-cmp/cmp"
)

func TestFromPromoView(t *testing.T) {
	t.Run("percent code", func(t *testing.T) {
		minSubtotal := int64(500)
		view := builder.NewPromoBuilder().BuildView()

		got := response.FromPromoView(*view)
		want := response.PromoCodeResponse{
			ID:          1,
			Code:        "SUMMER10",
			Type:        "percent",
			Value:       10,
			AppliesTo:   "ALL",
			MinSubtotal: &minSubtotal,
			IsActive:    true,
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("FromPromoView mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("amount code", func(t *testing.T) {
		view := builder.NewPromoBuilder().WithAmount(300).BuildView()

		got := response.FromPromoView(*view)
		if got.Type != "amount" {
			t.Errorf("Type = %q, want %q", got.Type, "amount")
		}
		if got.Value != 300 {
			t.Errorf("Value = %d, want 300", got.Value)
		}
	})

	t.Run("misconfigured value defaults to zero", func(t *testing.T) {
		view := builder.NewPromoBuilder().
			With(func(b *builder.PromoBuilder) { b.PercentOff = nil }).
			BuildView()

		got := response.FromPromoView(*view)
		if got.Value != 0 {
			t.Errorf("Value = %d, want 0", got.Value)
		}
	})
}
