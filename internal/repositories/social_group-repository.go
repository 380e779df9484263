package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	apperrors "appeals-system/pkg/errors"
)

type SocialGroupRepositoryInterface interface {
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.SocialGroup, error)
	FindAll(ctx context.Context) ([]entities.SocialGroup, error)
}

type SocialGroupRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSocialGroupRepository(storage *pgxpool.Pool, logger *zap.Logger) SocialGroupRepositoryInterface {
	return &SocialGroupRepository{storage: storage, logger: logger}
}

func (r *SocialGroupRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.SocialGroup, error) {
	var g entities.SocialGroup
	err := tx.QueryRow(ctx,
		"SELECT id, name, is_active, created_at, updated_at FROM social_groups WHERE id = $1", id,
	).Scan(&g.ID, &g.Name, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("social group", id)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *SocialGroupRepository) FindAll(ctx context.Context) ([]entities.SocialGroup, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, name, is_active, created_at, updated_at FROM social_groups WHERE is_active ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]entities.SocialGroup, 0)
	for rows.Next() {
		var g entities.SocialGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
