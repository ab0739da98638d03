package repository

import (
	"context"
	"errors"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
)

// OrderRepository is a read-only view of the external orders table; this
// service never mutates orders.
type OrderRepository struct {
	db infra.DBTX
}

func NewOrderRepository(db infra.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindForUser(ctx context.Context, orderID, userID int64) (*commands.OrderSnapshot, error) {
	var snap commands.OrderSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, status
		FROM orders
		WHERE id = $1 AND user_id = $2`, orderID, userID).
		Scan(&snap.ID, &snap.UserID, &snap.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	return &snap, nil
}
