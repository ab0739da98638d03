package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/drugsdealer/projectX-sub003/internal/domain/promo"
	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidCode             = errs.New("invalid promo code")
	ErrPromoNotFound           = errs.New("promo code not found")
	ErrPromoNotAvailable       = errs.New("promo code bound to another account")
	ErrPromoNotStarted         = errs.New("promo code not yet active")
	ErrPromoExpired            = errs.New("promo code expired")
	ErrPromoLimitReached       = errs.New("promo code redemption limit reached")
	ErrAlreadyClaimed          = errs.New("promo code already claimed")
	ErrAlreadyUsed             = errs.New("promo code already used")
	ErrOrderNotPaid            = errs.New("order not found or not paid")
	ErrUserNotFound            = errs.New("user not found")
	ErrInvalidPromoConfig      = errs.New("promo code misconfigured")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ClaimResult struct {
	AlreadyOwned bool
}

type PromoCommands interface {
	// Claim assigns a public code to the user: the one-way
	// Unclaimed -> Claimed transition. Idempotent for the current owner.
	Claim(ctx context.Context, rawCode string, userID int64) (*ClaimResult, error)
	// Redeem records that the user consumed the code against a paid order.
	Redeem(ctx context.Context, rawCode string, userID, orderID int64) error
}

type promoCommandsImpl struct {
	promoRepo      PromoCodeRepository
	redemptionRepo RedemptionRepository
	orderRepo      OrderRepository
	userRepo       UserRepository
	db             *pgxpool.Pool
	clock          clock.Clock
}

func NewPromoCommands(
	promoRepo PromoCodeRepository,
	redemptionRepo RedemptionRepository,
	orderRepo OrderRepository,
	userRepo UserRepository,
	db *pgxpool.Pool,
	clock clock.Clock,
) PromoCommands {
	return &promoCommandsImpl{
		promoRepo:      promoRepo,
		redemptionRepo: redemptionRepo,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		db:             db,
		clock:          clock,
	}
}

func (u *promoCommandsImpl) Claim(ctx context.Context, rawCode string, userID int64) (*ClaimResult, error) {
	code, err := promo.NewCode(rawCode)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCode)
	}

	snap, err := u.findPromo(ctx, code)
	if err != nil {
		return nil, err
	}

	if snap.UserID != nil {
		if *snap.UserID == userID {
			return &ClaimResult{AlreadyOwned: true}, nil
		}
		return nil, ErrAlreadyClaimed
	}

	entity, err := toPromoEntity(snap)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPromoConfig)
	}

	now := u.clock.Now()
	if startsAt := entity.StartsAt(); startsAt != nil && now.Before(*startsAt) {
		return nil, ErrPromoNotStarted
	}
	if endsAt := entity.EndsAt(); endsAt != nil && now.After(*endsAt) {
		return nil, ErrPromoExpired
	}

	exists, err := u.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	// Single conditional update closes the race between two users claiming
	// the same public code. No read-then-write.
	claimed, err := u.promoRepo.ClaimIfUnowned(ctx, snap.ID, userID, now)
	if err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !claimed {
		// Another caller won between the read above and the update.
		return nil, ErrAlreadyClaimed
	}

	return &ClaimResult{}, nil
}

func (u *promoCommandsImpl) Redeem(ctx context.Context, rawCode string, userID, orderID int64) error {
	code, err := promo.NewCode(rawCode)
	if err != nil {
		return errs.Mark(err, ErrInvalidCode)
	}

	// Order ownership and paid status gate everything else.
	order, err := u.orderRepo.FindForUser(ctx, orderID, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrOrderNotPaid
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if order.Status != OrderStatusSucceeded {
		return ErrOrderNotPaid
	}

	snap, err := u.findPromo(ctx, code)
	if err != nil {
		return err
	}
	if !snap.IsActive {
		return ErrPromoNotFound
	}

	entity, err := toPromoEntity(snap)
	if err != nil {
		return errs.Mark(err, ErrInvalidPromoConfig)
	}

	if !entity.IsPublic() && !entity.IsOwnedBy(userID) {
		return ErrPromoNotAvailable
	}

	switch windowErr := entity.ValidateWindow(u.clock.Now()); windowErr {
	case nil:
	case promo.ErrNotYetActive:
		return ErrPromoNotStarted
	case promo.ErrExpired:
		return ErrPromoExpired
	default:
		return ErrPromoNotFound
	}

	if max := entity.MaxRedemptions(); max != nil {
		used, countErr := u.redemptionRepo.CountForPromo(ctx, snap.ID)
		if countErr != nil {
			return errs.Mark(countErr, ErrDatabaseOperationFailed)
		}
		if used >= int64(*max) {
			return ErrPromoLimitReached
		}
	}

	used, err := u.redemptionRepo.ExistsFor(ctx, snap.ID, userID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if used {
		return ErrAlreadyUsed
	}

	return u.executeRedemption(ctx, entity, snap.ID, userID, orderID)
}

// executeRedemption inserts the redemption row and, for single-use codes,
// deactivates the code in the same transaction. The unique constraint on
// (promo_code_id, user_id) turns a concurrent double redeem into a clean
// already-used outcome instead of a double apply.
func (u *promoCommandsImpl) executeRedemption(
	ctx context.Context,
	entity *promo.PromoCode,
	promoID, userID, orderID int64,
) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := u.redemptionRepo.Insert(ctx, tx, promoID, userID, orderID, u.clock.Now()); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return ErrAlreadyUsed
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return ErrUserNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if entity.IsSingleUse() {
		if err := u.promoRepo.Deactivate(ctx, tx, promoID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return errs.Mark(commitErr, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *promoCommandsImpl) findPromo(ctx context.Context, code promo.Code) (*PromoSnapshot, error) {
	snap, err := u.promoRepo.FindByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return snap, nil
}

func toPromoEntity(snap *PromoSnapshot) (*promo.PromoCode, error) {
	return promo.NewPromoCode(
		snap.ID,
		snap.Code,
		promo.DiscountType(snap.DiscountType),
		snap.PercentOff,
		snap.AmountOff,
		promo.AppliesTo(snap.AppliesTo),
		snap.ExcludedBrands,
		snap.MinSubtotal,
		snap.MaxRedemptions,
		snap.UserID,
		snap.ClaimedAt,
		snap.StartsAt,
		snap.EndsAt,
		snap.IsActive,
	)
}
