package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	apperrors "appeals-system/pkg/errors"
)

const userSelectFields = `u.id, u.first_name, u.last_name, u.patronymic, u.email, u.email_verified_at, u.phone, u.sex,
	u."position", u.password, u.activate_token, u.is_active, u.social_group_id, u.roles, u.notify_active,
	u.birthday, u.address, u.avatar, u.created_at, u.updated_at, u.deleted_at`

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// *InTx-методы блокируют найденные строки до конца транзакции.
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error)
	FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*entities.User, error)
	FindByRoleInTx(ctx context.Context, tx pgx.Tx, role string) ([]entities.User, error)
	ExistsByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (bool, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, user *entities.User) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, user *entities.User) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Patronymic, &user.Email, &user.EmailVerifiedAt,
		&user.Phone, &user.Sex, &user.Position, &user.Password, &user.ActivateToken, &user.IsActive,
		&user.SocialGroupID, &user.Roles, &user.NotifyActive, &user.Birthday, &user.Address, &user.Avatar,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if user.Roles == nil {
		user.Roles = []string{}
	}
	return &user, nil
}

func (r *UserRepository) findOne(ctx context.Context, q querier, where string, arg interface{}, lock bool) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users u WHERE %s AND u.deleted_at IS NULL", userSelectFields, where)
	if lock {
		query += " FOR UPDATE"
	}
	return scanUser(q.QueryRow(ctx, query, arg))
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, err := r.findOne(ctx, r.storage, "u.id = $1", id, false)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("user", id)
	}
	return user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := r.findOne(ctx, r.storage, "lower(u.email) = lower($1)", email, false)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("user", email)
	}
	return user, err
}

func (r *UserRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error) {
	user, err := r.findOne(ctx, tx, "u.id = $1", id, true)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("user", id)
	}
	return user, err
}

func (r *UserRepository) FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*entities.User, error) {
	user, err := r.findOne(ctx, tx, "lower(u.email) = lower($1)", email, true)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("user", email)
	}
	return user, err
}

func (r *UserRepository) FindByRoleInTx(ctx context.Context, tx pgx.Tx, role string) ([]entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE $1 = ANY(u.roles) AND u.deleted_at IS NULL ORDER BY u.id FOR UPDATE`, userSelectFields)
	rows, err := tx.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) ExistsByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))", email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) CreateInTx(ctx context.Context, tx pgx.Tx, user *entities.User) error {
	query := `
		INSERT INTO users (first_name, last_name, patronymic, email, phone, sex, "position", password,
			activate_token, is_active, social_group_id, roles, notify_active, birthday, address, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Patronymic, user.Email, user.Phone, user.Sex, user.Position,
		user.Password, user.ActivateToken, user.IsActive, user.SocialGroupID, rolesArg(user.Roles),
		user.NotifyActive, user.Birthday, user.Address, user.Avatar,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user %s: %w", user.Email, apperrors.ErrConflict)
		}
		r.logger.Error("ошибка создания пользователя", zap.String("email", user.Email), zap.Error(err))
		return err
	}
	return nil
}

func (r *UserRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, user *entities.User) error {
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3, patronymic = $4, phone = $5, sex = $6, "position" = $7,
			is_active = $8, social_group_id = $9, roles = $10, notify_active = $11, birthday = $12,
			address = $13, avatar = $14, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := tx.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Patronymic, user.Phone, user.Sex, user.Position,
		user.IsActive, user.SocialGroupID, rolesArg(user.Roles), user.NotifyActive, user.Birthday,
		user.Address, user.Avatar,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("user", user.ID)
	}
	return err
}

// rolesArg: NOT NULL колонка text[] не должна получить NULL от nil-слайса.
func rolesArg(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}
