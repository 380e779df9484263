package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
	"appeals-system/pkg/constants"
	apperrors "appeals-system/pkg/errors"
)

type AppealHistoryServiceInterface interface {
	RecordModerationInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) (*entities.AppealHistory, error)
	RecordInTx(ctx context.Context, tx pgx.Tx, entry *entities.AppealHistory) error
	// FindByType возвращает (nil, nil), если записи такого типа нет.
	FindByType(ctx context.Context, appealID uint64, historyType string) (*entities.AppealHistory, error)
	FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error)
}

type AppealHistoryService struct {
	historyRepo repositories.AppealHistoryRepositoryInterface
	logger      *zap.Logger
}

func NewAppealHistoryService(historyRepo repositories.AppealHistoryRepositoryInterface, logger *zap.Logger) AppealHistoryServiceInterface {
	return &AppealHistoryService{historyRepo: historyRepo, logger: logger}
}

func (s *AppealHistoryService) RecordModerationInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) (*entities.AppealHistory, error) {
	creatorID := appeal.CreatorID
	entry := &entities.AppealHistory{
		AppealID:  appeal.ID,
		CreatorID: &creatorID,
		Comment:   fmt.Sprintf(constants.ModerationCommentFormat, appeal.ID),
		Type:      constants.HistoryAppealModeration,
	}
	if err := s.RecordInTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordInTx дописывает запись в историю. Записи истории не изменяются и не удаляются.
func (s *AppealHistoryService) RecordInTx(ctx context.Context, tx pgx.Tx, entry *entities.AppealHistory) error {
	if !constants.IsHistoryType(entry.Type) {
		return apperrors.NewValidationError("type", fmt.Sprintf("unknown history type %q", entry.Type))
	}
	if entry.Comment == "" {
		return apperrors.NewValidationError("comment", "comment is required")
	}

	if err := s.historyRepo.CreateInTx(ctx, tx, entry); err != nil {
		s.logger.Error("не удалось записать историю обращения",
			zap.Uint64("appealID", entry.AppealID), zap.String("type", entry.Type), zap.Error(err))
		return err
	}
	return nil
}

func (s *AppealHistoryService) FindByType(ctx context.Context, appealID uint64, historyType string) (*entities.AppealHistory, error) {
	entry, err := s.historyRepo.FindFirstByType(ctx, appealID, historyType)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return entry, err
}

func (s *AppealHistoryService) FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error) {
	return s.historyRepo.FindByAppealID(ctx, appealID)
}
