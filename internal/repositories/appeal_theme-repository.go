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

type AppealThemeRepositoryInterface interface {
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AppealTheme, error)
}

type AppealThemeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAppealThemeRepository(storage *pgxpool.Pool, logger *zap.Logger) AppealThemeRepositoryInterface {
	return &AppealThemeRepository{storage: storage, logger: logger}
}

func (r *AppealThemeRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AppealTheme, error) {
	var t entities.AppealTheme
	err := tx.QueryRow(ctx,
		"SELECT id, theme, department_id, is_hidden FROM appeal_themes WHERE id = $1", id,
	).Scan(&t.ID, &t.Theme, &t.DepartmentID, &t.IsHidden)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("appeal theme", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
