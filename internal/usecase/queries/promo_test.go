//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"
	"github.com/drugsdealer/projectX-sub003/tests/common/builder"
	queriesmock "github.com/drugsdealer/projectX-sub003/tests/mock/queries"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PromoQueriesTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockStore *queriesmock.MockPromoReadStore
	clock     *clock.MockClock
	queries   queries.PromoQueries
}

func (s *PromoQueriesTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockStore = queriesmock.NewMockPromoReadStore(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	s.queries = queries.NewPromoQueries(s.mockStore, s.clock)
}

func (s *PromoQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPromoQueriesSuite(t *testing.T) {
	suite.Run(t, new(PromoQueriesTestSuite))
}

func (s *PromoQueriesTestSuite) validate(input queries.ValidateInput) *queries.ValidationResult {
	result, err := s.queries.Validate(context.Background(), input)
	s.Require().NoError(err)
	s.Require().NotNil(result)
	return result
}

func (s *PromoQueriesTestSuite) TestValidate() {
	userID := int64(42)

	s.Run("success: percent code applied to subtotal", func() {
		view := builder.NewPromoBuilder().BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)
		s.mockStore.EXPECT().HasRedemption(gomock.Any(), view.ID, userID).Return(false, nil)

		result := s.validate(queries.ValidateInput{Code: "summer10", Subtotal: 600, UserID: &userID})

		s.True(result.OK)
		s.Require().NotNil(result.Discount)
		s.Equal("SUMMER10", result.Discount.Code)
		s.Equal("percent", result.Discount.Type)
		s.Equal(int64(10), result.Discount.Value)
		s.Require().NotNil(result.NewTotal)
		s.Equal(int64(540), *result.NewTotal)
	})

	s.Run("success: zero subtotal skips the minimum check", func() {
		view := builder.NewPromoBuilder().BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)
		s.mockStore.EXPECT().HasRedemption(gomock.Any(), view.ID, userID).Return(false, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", Subtotal: 0, UserID: &userID})

		s.True(result.OK)
		s.Nil(result.NewTotal, "no total without a cart")
	})

	s.Run("success: anonymous caller validating a public code", func() {
		view := builder.NewPromoBuilder().BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", Subtotal: 600})

		s.True(result.OK)
		s.False(result.AlreadyUsed)
	})

	s.Run("error: empty code", func() {
		result := s.validate(queries.ValidateInput{Code: "  "})
		s.False(result.OK)
		s.Equal(queries.ReasonInvalidCode, result.Reason)
	})

	s.Run("error: unknown code", func() {
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "NOPE").
			Return(nil, infra.WrapRepoErr("promo not found", nil, infra.KindNotFound))

		result := s.validate(queries.ValidateInput{Code: "NOPE"})
		s.Equal(queries.ReasonNotFound, result.Reason)
	})

	s.Run("error: deactivated code reads as not found", func() {
		view := builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) { b.IsActive = false }).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10"})
		s.Equal(queries.ReasonNotFound, result.Reason)
	})

	s.Run("error: personal code without login", func() {
		view := builder.NewPromoBuilder().WithOwner(7).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10"})
		s.Equal(queries.ReasonLoginRequired, result.Reason)
	})

	s.Run("error: personal code of another user", func() {
		view := builder.NewPromoBuilder().WithOwner(7).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", UserID: &userID})
		s.Equal(queries.ReasonNotAvailable, result.Reason)
	})

	s.Run("error: not yet started", func() {
		now := s.clock.Now()
		view := builder.NewPromoBuilder().WithWindow(now.Add(time.Hour), now.Add(2*time.Hour)).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", UserID: &userID})
		s.Equal(queries.ReasonNotStarted, result.Reason)
	})

	s.Run("error: expired", func() {
		now := s.clock.Now()
		view := builder.NewPromoBuilder().WithWindow(now.Add(-2*time.Hour), now.Add(-time.Hour)).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", UserID: &userID})
		s.Equal(queries.ReasonExpired, result.Reason)
	})

	s.Run("error: global limit exhausted", func() {
		view := builder.NewPromoBuilder().WithMaxRedemptions(100).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)
		s.mockStore.EXPECT().CountRedemptions(gomock.Any(), view.ID).Return(int64(100), nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", UserID: &userID})
		s.Equal(queries.ReasonLimitReached, result.Reason)
	})

	s.Run("success: remaining global count is reported", func() {
		view := builder.NewPromoBuilder().WithMaxRedemptions(100).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)
		s.mockStore.EXPECT().CountRedemptions(gomock.Any(), view.ID).Return(int64(97), nil)
		s.mockStore.EXPECT().HasRedemption(gomock.Any(), view.ID, userID).Return(false, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", Subtotal: 600, UserID: &userID})
		s.True(result.OK)
		s.Require().NotNil(result.RemainingGlobal)
		s.Equal(int64(3), *result.RemainingGlobal)
	})

	s.Run("error: already used by this user", func() {
		view := builder.NewPromoBuilder().BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)
		s.mockStore.EXPECT().HasRedemption(gomock.Any(), view.ID, userID).Return(true, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", Subtotal: 600, UserID: &userID})
		s.Equal(queries.ReasonAlreadyUsed, result.Reason)
		s.True(result.AlreadyUsed)
	})

	s.Run("error: subtotal below the minimum", func() {
		view := builder.NewPromoBuilder().BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)
		s.mockStore.EXPECT().HasRedemption(gomock.Any(), view.ID, userID).Return(false, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", Subtotal: 499, UserID: &userID})
		s.Equal(queries.ReasonMinSubtotal, result.Reason)
		s.Require().NotNil(result.MinSubtotal)
		s.Equal(int64(500), *result.MinSubtotal)
	})

	s.Run("error: misconfigured discount", func() {
		view := builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) { b.PercentOff = nil }).BuildView()
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").Return(view, nil)

		result := s.validate(queries.ValidateInput{Code: "SUMMER10", UserID: &userID})
		s.Equal(queries.ReasonMisconfigured, result.Reason)
	})

	s.Run("error: store failure propagates", func() {
		s.mockStore.EXPECT().FindByCode(gomock.Any(), "SUMMER10").
			Return(nil, infra.WrapRepoErr("query failed", nil, infra.KindDBFailure))

		result, err := s.queries.Validate(context.Background(), queries.ValidateInput{Code: "SUMMER10"})
		s.Error(err)
		s.Nil(result)
	})
}

func (s *PromoQueriesTestSuite) TestListActive() {
	userID := int64(42)

	s.Run("anonymous caller gets no redemption history", func() {
		views := []queries.PromoView{*builder.NewPromoBuilder().BuildView()}
		s.mockStore.EXPECT().ListActive(gomock.Any(), s.clock.Now(), nil).Return(views, nil)

		items, my, err := s.queries.ListActive(context.Background(), nil)
		s.Require().NoError(err)
		s.Len(items, 1)
		s.Nil(my)
	})

	s.Run("logged-in caller gets items plus history", func() {
		views := []queries.PromoView{*builder.NewPromoBuilder().BuildView()}
		redemptions := []queries.RedemptionView{{Code: "SUMMER10", UsedAt: s.clock.Now()}}
		s.mockStore.EXPECT().ListActive(gomock.Any(), s.clock.Now(), &userID).Return(views, nil)
		s.mockStore.EXPECT().ListRedemptionsByUser(gomock.Any(), userID).Return(redemptions, nil)

		items, my, err := s.queries.ListActive(context.Background(), &userID)
		s.Require().NoError(err)
		s.Len(items, 1)
		s.Len(my, 1)
	})
}

func (s *PromoQueriesTestSuite) TestListOwned() {
	userID := int64(42)
	views := []queries.PromoView{*builder.NewPromoBuilder().WithOwner(userID).BuildView()}
	s.mockStore.EXPECT().ListOwned(gomock.Any(), userID).Return(views, nil)

	items, err := s.queries.ListOwned(context.Background(), userID)
	s.Require().NoError(err)
	s.Len(items, 1)
}
