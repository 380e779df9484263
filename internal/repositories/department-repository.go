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

type DepartmentRepositoryInterface interface {
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error)
	// FindDirectorInTx возвращает (nil, nil), если у департамента нет директора.
	FindDirectorInTx(ctx context.Context, tx pgx.Tx, departmentID uint64) (*entities.User, error)
	UpdateDirectorInTx(ctx context.Context, tx pgx.Tx, departmentID, userID uint64) error
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: storage, logger: logger}
}

func (r *DepartmentRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error) {
	var d entities.Department
	err := tx.QueryRow(ctx,
		"SELECT id, name, director_id, control_id, created_at, updated_at FROM departments WHERE id = $1 FOR UPDATE", id,
	).Scan(&d.ID, &d.Name, &d.DirectorID, &d.ControlID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("department", id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) FindDirectorInTx(ctx context.Context, tx pgx.Tx, departmentID uint64) (*entities.User, error) {
	query := "SELECT " + userSelectFields + `
		FROM departments d
		JOIN users u ON u.id = d.director_id
		WHERE d.id = $1 AND u.deleted_at IS NULL`

	user, err := scanUser(tx.QueryRow(ctx, query, departmentID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (r *DepartmentRepository) UpdateDirectorInTx(ctx context.Context, tx pgx.Tx, departmentID, userID uint64) error {
	tag, err := tx.Exec(ctx, "UPDATE departments SET director_id = $2, updated_at = NOW() WHERE id = $1", departmentID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("department", departmentID)
	}
	return nil
}
