package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
)

type EmployeeRepositoryInterface interface {
	// CreateInTx обновляет должность, если сотрудник уже числится в департаменте.
	CreateInTx(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func (r *EmployeeRepository) CreateInTx(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	query := `
		INSERT INTO employees (user_id, department_id, "position")
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, department_id) DO UPDATE SET "position" = EXCLUDED."position", updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return tx.QueryRow(ctx, query, employee.UserID, employee.DepartmentID, employee.Position).
		Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}
