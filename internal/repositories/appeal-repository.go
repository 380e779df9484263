package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/postgis"
	"appeals-system/pkg/types"
)

var appealSelectColumns = []string{
	"a.id", "a.creator_id", "a.appeal_theme_id", "a.executor_id", "a.deputy_id", "a.status_id",
	"a.problem_body", "a.address", "a.post_address", "a.note", "a.is_active", "a.rate",
	"a.dispatcher_create", "a.is_hidden", "a.expired_at", "a.users_voted", "ST_AsText(a.locate)",
	"a.created_at", "a.updated_at", "a.deleted_at",
}

type AppealRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) error
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserAppeal, error)
	// FindByID с fetchRelations=true дополнительно загружает статус, тему и вложения.
	FindByID(ctx context.Context, id uint64, fetchRelations bool) (*entities.UserAppeal, error)
	List(ctx context.Context, page types.Pagination) ([]entities.UserAppeal, uint64, error)
	Report(ctx context.Context, filter entities.AppealReportFilter) ([]entities.AppealReportItem, uint64, error)
}

type AppealRepository struct {
	storage        *pgxpool.Pool
	attachmentRepo AppealAttachmentRepositoryInterface
	logger         *zap.Logger
}

func NewAppealRepository(storage *pgxpool.Pool, attachmentRepo AppealAttachmentRepositoryInterface, logger *zap.Logger) AppealRepositoryInterface {
	return &AppealRepository{storage: storage, attachmentRepo: attachmentRepo, logger: logger}
}

func scanAppeal(row pgx.Row) (*entities.UserAppeal, error) {
	var a entities.UserAppeal
	var locate *string
	err := row.Scan(
		&a.ID, &a.CreatorID, &a.AppealThemeID, &a.ExecutorID, &a.DeputyID, &a.StatusID,
		&a.ProblemBody, &a.Address, &a.PostAddress, &a.Note, &a.IsActive, &a.Rate,
		&a.DispatcherCreate, &a.IsHidden, &a.ExpiredAt, &a.UsersVoted, &locate,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if locate != nil {
		p, err := postgis.Decode(*locate)
		if err != nil {
			return nil, fmt.Errorf("appeal %d: %w", a.ID, err)
		}
		a.Locate = &p
	}
	return &a, nil
}

func locateArg(p *postgis.Point) *string {
	if p == nil {
		return nil
	}
	wkt := p.WKT()
	return &wkt
}

func usersVotedArg(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func (r *AppealRepository) CreateInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) error {
	query := `
		INSERT INTO user_appeals (creator_id, appeal_theme_id, executor_id, deputy_id, status_id, problem_body,
			address, post_address, note, is_active, rate, dispatcher_create, is_hidden, expired_at, users_voted, locate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, ST_GeogFromText($16))
		RETURNING id, created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		appeal.CreatorID, appeal.AppealThemeID, appeal.ExecutorID, appeal.DeputyID, appeal.StatusID,
		appeal.ProblemBody, appeal.Address, appeal.PostAddress, appeal.Note, appeal.IsActive, appeal.Rate,
		appeal.DispatcherCreate, appeal.IsHidden, appeal.ExpiredAt, usersVotedArg(appeal.UsersVoted),
		locateArg(appeal.Locate),
	).Scan(&appeal.ID, &appeal.CreatedAt, &appeal.UpdatedAt)
	if err != nil {
		r.logger.Error("ошибка создания обращения", zap.Uint64("creatorID", appeal.CreatorID), zap.Error(err))
		return err
	}
	return nil
}

func (r *AppealRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) error {
	query := `
		UPDATE user_appeals SET
			appeal_theme_id = $2, executor_id = $3, deputy_id = $4, status_id = $5, problem_body = $6,
			address = $7, post_address = $8, note = $9, is_active = $10, rate = $11, is_hidden = $12,
			expired_at = $13, users_voted = $14, locate = ST_GeogFromText($15), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := tx.QueryRow(ctx, query,
		appeal.ID, appeal.AppealThemeID, appeal.ExecutorID, appeal.DeputyID, appeal.StatusID, appeal.ProblemBody,
		appeal.Address, appeal.PostAddress, appeal.Note, appeal.IsActive, appeal.Rate, appeal.IsHidden,
		appeal.ExpiredAt, usersVotedArg(appeal.UsersVoted), locateArg(appeal.Locate),
	).Scan(&appeal.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("appeal", appeal.ID)
	}
	return err
}

func (r *AppealRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserAppeal, error) {
	query, args, err := psql.Select(appealSelectColumns...).
		From("user_appeals a").
		Where(sq.Eq{"a.id": id, "a.deleted_at": nil}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}

	appeal, err := scanAppeal(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("appeal", id)
	}
	return appeal, err
}

func (r *AppealRepository) FindByID(ctx context.Context, id uint64, fetchRelations bool) (*entities.UserAppeal, error) {
	columns := appealSelectColumns
	builder := psql.Select().From("user_appeals a").Where(sq.Eq{"a.id": id, "a.deleted_at": nil})
	if fetchRelations {
		columns = append(append([]string{}, appealSelectColumns...),
			"s.id", "s.title", "s.status_const", "t.id", "t.theme", "t.department_id", "t.is_hidden")
		builder = builder.
			Join("appeal_statuses s ON s.id = a.status_id").
			Join("appeal_themes t ON t.id = a.appeal_theme_id")
	}

	query, args, err := builder.Columns(columns...).ToSql()
	if err != nil {
		return nil, err
	}

	row := r.storage.QueryRow(ctx, query, args...)
	if !fetchRelations {
		appeal, err := scanAppeal(row)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("appeal", id)
		}
		return appeal, err
	}

	status, theme := &entities.AppealStatus{}, &entities.AppealTheme{}
	appeal, err := scanAppeal(relationsRow{row: row, extra: []any{
		&status.ID, &status.Title, &status.StatusConst, &theme.ID, &theme.Theme, &theme.DepartmentID, &theme.IsHidden,
	}})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("appeal", id)
	}
	if err != nil {
		return nil, err
	}
	appeal.Status, appeal.Theme = status, theme

	appeal.Attachments, err = r.attachmentRepo.FindByAppealID(ctx, appeal.ID)
	if err != nil {
		return nil, err
	}
	return appeal, nil
}

// relationsRow дописывает в Scan колонки присоединённых таблиц после колонок обращения.
type relationsRow struct {
	row   pgx.Row
	extra []any
}

func (r relationsRow) Scan(dest ...any) error {
	return r.row.Scan(append(dest, r.extra...)...)
}

func (r *AppealRepository) List(ctx context.Context, page types.Pagination) ([]entities.UserAppeal, uint64, error) {
	base := psql.Select().From("user_appeals a").Where(sq.Eq{"a.deleted_at": nil})

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета обращений: %w", err)
	}
	if total == 0 {
		return []entities.UserAppeal{}, 0, nil
	}

	query, args, err := base.Columns(appealSelectColumns...).
		OrderBy("a.id DESC").
		Limit(page.PerPage).
		Offset(page.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("список обращений", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appeals := make([]entities.UserAppeal, 0, page.PerPage)
	for rows.Next() {
		appeal, err := scanAppeal(rows)
		if err != nil {
			return nil, 0, err
		}
		appeals = append(appeals, *appeal)
	}
	return appeals, total, rows.Err()
}

func (r *AppealRepository) Report(ctx context.Context, filter entities.AppealReportFilter) ([]entities.AppealReportItem, uint64, error) {
	base := psql.Select().
		From("user_appeals a").
		Join("users c ON c.id = a.creator_id").
		Join("appeal_themes t ON t.id = a.appeal_theme_id").
		Join("appeal_statuses s ON s.id = a.status_id").
		LeftJoin("users e ON e.id = a.executor_id").
		Where(sq.Eq{"a.deleted_at": nil})

	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"a.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.LtOrEq{"a.created_at": *filter.DateTo})
	}
	if len(filter.StatusConsts) > 0 {
		base = base.Where(sq.Eq{"s.status_const": filter.StatusConsts})
	}
	if len(filter.ThemeIDs) > 0 {
		base = base.Where(sq.Eq{"a.appeal_theme_id": filter.ThemeIDs})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета отчета: %w", err)
	}

	builder := base.Columns(
		"a.id", "a.created_at",
		"concat_ws(' ', c.last_name, c.first_name, c.patronymic)",
		"t.theme", "s.title",
		"CASE WHEN e.id IS NULL THEN NULL ELSE concat_ws(' ', e.last_name, e.first_name, e.patronymic) END",
		"a.address", "a.problem_body", "a.is_active",
	).OrderBy("a.id DESC")
	if filter.PerPage > 0 {
		builder = builder.Limit(filter.PerPage).Offset(types.Pagination{Page: filter.Page, PerPage: filter.PerPage}.Offset())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.AppealReportItem, 0)
	for rows.Next() {
		var it entities.AppealReportItem
		if err := rows.Scan(&it.AppealID, &it.CreatedAt, &it.CreatorName, &it.ThemeName, &it.StatusTitle,
			&it.ExecutorFio, &it.Address, &it.ProblemBody, &it.IsActive); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}
