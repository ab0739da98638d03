package repository

import (
	"context"

	"github.com/drugsdealer/projectX-sub003/internal/infra"
)

type UserRepository struct {
	db infra.DBTX
}

func NewUserRepository(db infra.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE id = $1 AND deleted_at IS NULL
		)`, userID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check user", err)
	}
	return exists, nil
}
