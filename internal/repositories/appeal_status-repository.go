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

type AppealStatusRepositoryInterface interface {
	FindByConstInTx(ctx context.Context, tx pgx.Tx, statusConst string) (*entities.AppealStatus, error)
	FindAll(ctx context.Context) ([]entities.AppealStatus, error)
}

type AppealStatusRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAppealStatusRepository(storage *pgxpool.Pool, logger *zap.Logger) AppealStatusRepositoryInterface {
	return &AppealStatusRepository{storage: storage, logger: logger}
}

func (r *AppealStatusRepository) FindByConstInTx(ctx context.Context, tx pgx.Tx, statusConst string) (*entities.AppealStatus, error) {
	var s entities.AppealStatus
	err := tx.QueryRow(ctx,
		"SELECT id, title, status_const FROM appeal_statuses WHERE status_const = $1 ORDER BY id LIMIT 1", statusConst,
	).Scan(&s.ID, &s.Title, &s.StatusConst)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("appeal status", statusConst)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AppealStatusRepository) FindAll(ctx context.Context) ([]entities.AppealStatus, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, title, status_const FROM appeal_statuses ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]entities.AppealStatus, 0)
	for rows.Next() {
		var s entities.AppealStatus
		if err := rows.Scan(&s.ID, &s.Title, &s.StatusConst); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}
