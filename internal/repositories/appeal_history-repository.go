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

const historySelectFields = "id, appeal_id, creator_id, connected_person_id, comment, type, meta, is_private, created_at"

type AppealHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.AppealHistory) error
	// FindFirstByType - первая по времени запись указанного типа; ErrNotFound, если её нет.
	FindFirstByType(ctx context.Context, appealID uint64, historyType string) (*entities.AppealHistory, error)
	FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error)
}

type AppealHistoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAppealHistoryRepository(storage *pgxpool.Pool, logger *zap.Logger) AppealHistoryRepositoryInterface {
	return &AppealHistoryRepository{storage: storage, logger: logger}
}

func scanHistory(row pgx.Row) (*entities.AppealHistory, error) {
	var h entities.AppealHistory
	err := row.Scan(&h.ID, &h.AppealID, &h.CreatorID, &h.ConnectedPersonID, &h.Comment, &h.Type, &h.Meta, &h.IsPrivate, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *AppealHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.AppealHistory) error {
	query := `
		INSERT INTO appeal_histories (appeal_id, creator_id, connected_person_id, comment, type, meta, is_private)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return tx.QueryRow(ctx, query,
		history.AppealID, history.CreatorID, history.ConnectedPersonID, history.Comment,
		history.Type, history.Meta, history.IsPrivate,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *AppealHistoryRepository) FindFirstByType(ctx context.Context, appealID uint64, historyType string) (*entities.AppealHistory, error) {
	query := "SELECT " + historySelectFields + " FROM appeal_histories WHERE appeal_id = $1 AND type = $2 ORDER BY created_at, id LIMIT 1"
	h, err := scanHistory(r.storage.QueryRow(ctx, query, appealID, historyType))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("appeal history "+historyType+" for appeal", appealID)
	}
	return h, err
}

func (r *AppealHistoryRepository) FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+historySelectFields+" FROM appeal_histories WHERE appeal_id = $1 ORDER BY created_at, id", appealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]entities.AppealHistory, 0)
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *h)
	}
	return history, rows.Err()
}
