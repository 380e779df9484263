package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
)

const attachmentSelectFields = "id, link, meta, name, user_appeal_id, creator_id, created_at"

type AppealAttachmentRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, attachment *entities.AppealAttachment) error
	FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealAttachment, error)
	FindByAppealIDInTx(ctx context.Context, tx pgx.Tx, appealID uint64) ([]entities.AppealAttachment, error)
	// DeleteByAppealIDInTx возвращает удалённые строки, чтобы после коммита убрать файлы.
	DeleteByAppealIDInTx(ctx context.Context, tx pgx.Tx, appealID uint64) ([]entities.AppealAttachment, error)
}

type AppealAttachmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAppealAttachmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AppealAttachmentRepositoryInterface {
	return &AppealAttachmentRepository{storage: storage, logger: logger}
}

func scanAttachments(rows pgx.Rows) ([]entities.AppealAttachment, error) {
	defer rows.Close()

	attachments := make([]entities.AppealAttachment, 0)
	for rows.Next() {
		var a entities.AppealAttachment
		if err := rows.Scan(&a.ID, &a.Link, &a.Meta, &a.Name, &a.UserAppealID, &a.CreatorID, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *AppealAttachmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, attachment *entities.AppealAttachment) error {
	query := `
		INSERT INTO user_appeal_attachments (link, meta, name, user_appeal_id, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return tx.QueryRow(ctx, query,
		attachment.Link, attachment.Meta, attachment.Name, attachment.UserAppealID, attachment.CreatorID,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *AppealAttachmentRepository) findByAppealID(ctx context.Context, q querier, appealID uint64) ([]entities.AppealAttachment, error) {
	rows, err := q.Query(ctx,
		"SELECT "+attachmentSelectFields+" FROM user_appeal_attachments WHERE user_appeal_id = $1 ORDER BY id", appealID)
	if err != nil {
		return nil, err
	}
	return scanAttachments(rows)
}

func (r *AppealAttachmentRepository) FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealAttachment, error) {
	return r.findByAppealID(ctx, r.storage, appealID)
}

func (r *AppealAttachmentRepository) FindByAppealIDInTx(ctx context.Context, tx pgx.Tx, appealID uint64) ([]entities.AppealAttachment, error) {
	return r.findByAppealID(ctx, tx, appealID)
}

func (r *AppealAttachmentRepository) DeleteByAppealIDInTx(ctx context.Context, tx pgx.Tx, appealID uint64) ([]entities.AppealAttachment, error) {
	rows, err := tx.Query(ctx,
		"DELETE FROM user_appeal_attachments WHERE user_appeal_id = $1 RETURNING "+attachmentSelectFields, appealID)
	if err != nil {
		return nil, err
	}
	return scanAttachments(rows)
}
