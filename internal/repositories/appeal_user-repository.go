package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	"appeals-system/pkg/constants"
)

type AppealUserRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, link *entities.AppealUser) error
	FindAppealIDsByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) ([]uint64, error)
	// FindAppealIDsByStatusesInTx - обращения в указанных статусах, кроме exclude.
	FindAppealIDsByStatusesInTx(ctx context.Context, tx pgx.Tx, statusConsts []string, exclude []uint64) ([]uint64, error)
	// BulkConnectInTx вставляет связи пачками; уже существующие пары пропускаются.
	BulkConnectInTx(ctx context.Context, tx pgx.Tx, creatorID, employeeID uint64, appealIDs []uint64) (int64, error)
	DeleteByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) (int64, error)
}

type AppealUserRepository struct {
	storage   *pgxpool.Pool
	logger    *zap.Logger
	chunkSize int
}

func NewAppealUserRepository(storage *pgxpool.Pool, logger *zap.Logger) AppealUserRepositoryInterface {
	return &AppealUserRepository{storage: storage, logger: logger, chunkSize: constants.AppealConnectChunkSize}
}

func (r *AppealUserRepository) CreateInTx(ctx context.Context, tx pgx.Tx, link *entities.AppealUser) error {
	query := `
		INSERT INTO appeal_users (appeal_id, employee_id, creator_id, comment, closed_date, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return tx.QueryRow(ctx, query,
		link.AppealID, link.EmployeeID, link.CreatorID, link.Comment, link.ClosedDate, link.IsPrivate,
	).Scan(&link.ID, &link.CreatedAt)
}

func collectIDs(rows pgx.Rows, err error) ([]uint64, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uint64])
}

func (r *AppealUserRepository) FindAppealIDsByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) ([]uint64, error) {
	return collectIDs(tx.Query(ctx,
		"SELECT DISTINCT appeal_id FROM appeal_users WHERE employee_id = $1 ORDER BY appeal_id", employeeID))
}

func (r *AppealUserRepository) FindAppealIDsByStatusesInTx(ctx context.Context, tx pgx.Tx, statusConsts []string, exclude []uint64) ([]uint64, error) {
	builder := psql.Select("a.id").
		From("user_appeals a").
		Join("appeal_statuses s ON s.id = a.status_id").
		Where(sq.Eq{"s.status_const": statusConsts, "a.deleted_at": nil}).
		OrderBy("a.id")
	if len(exclude) > 0 {
		// один параметр-массив вместо параметра на каждый id
		builder = builder.Where("a.id <> ALL(?::bigint[])", toInt64s(exclude))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return collectIDs(tx.Query(ctx, query, args...))
}

func toInt64s(ids []uint64) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func (r *AppealUserRepository) BulkConnectInTx(ctx context.Context, tx pgx.Tx, creatorID, employeeID uint64, appealIDs []uint64) (int64, error) {
	var inserted int64
	for start := 0; start < len(appealIDs); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(appealIDs) {
			end = len(appealIDs)
		}

		builder := psql.Insert("appeal_users").Columns("appeal_id", "employee_id", "creator_id", "is_private")
		for _, appealID := range appealIDs[start:end] {
			builder = builder.Values(appealID, employeeID, creatorID, false)
		}

		query, args, err := builder.Suffix("ON CONFLICT (appeal_id, employee_id) DO NOTHING").ToSql()
		if err != nil {
			return inserted, err
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return inserted, err
		}
		inserted += tag.RowsAffected()
	}

	r.logger.Debug("сотрудник привязан к обращениям",
		zap.Uint64("employeeID", employeeID), zap.Int("requested", len(appealIDs)), zap.Int64("inserted", inserted))
	return inserted, nil
}

func (r *AppealUserRepository) DeleteByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) (int64, error) {
	tag, err := tx.Exec(ctx, "DELETE FROM appeal_users WHERE employee_id = $1", employeeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
