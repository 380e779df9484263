package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appeals-system/internal/repositories"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/metrics"
)

// AppealVisibilityServiceInterface управляет связями appeal_users: какие обращения видит сотрудник.
type AppealVisibilityServiceInterface interface {
	AppealsVisibleToInTx(ctx context.Context, tx pgx.Tx, userID uint64) ([]uint64, error)
	EligibleAppealIDsInTx(ctx context.Context, tx pgx.Tx, exclude []uint64) ([]uint64, error)
	ConnectUserToAppealsInTx(ctx context.Context, tx pgx.Tx, creatorID, userID uint64, appealIDs []uint64) (int64, error)
	// ConnectToAllEligibleInTx привязывает к обращениям на модерации/рассмотрении, которых сотрудник ещё не видит.
	// Это снимок на момент вызова: обращения, созданные позже, не добавляются.
	ConnectToAllEligibleInTx(ctx context.Context, tx pgx.Tx, creatorID, userID uint64) (int64, error)
	DisconnectUserFromAppealsInTx(ctx context.Context, tx pgx.Tx, userID uint64) (int64, error)
}

type AppealVisibilityService struct {
	appealUserRepo repositories.AppealUserRepositoryInterface
	logger         *zap.Logger
}

func NewAppealVisibilityService(appealUserRepo repositories.AppealUserRepositoryInterface, logger *zap.Logger) AppealVisibilityServiceInterface {
	return &AppealVisibilityService{appealUserRepo: appealUserRepo, logger: logger}
}

func (s *AppealVisibilityService) AppealsVisibleToInTx(ctx context.Context, tx pgx.Tx, userID uint64) ([]uint64, error) {
	return s.appealUserRepo.FindAppealIDsByEmployeeInTx(ctx, tx, userID)
}

func (s *AppealVisibilityService) EligibleAppealIDsInTx(ctx context.Context, tx pgx.Tx, exclude []uint64) ([]uint64, error) {
	return s.appealUserRepo.FindAppealIDsByStatusesInTx(ctx, tx, constants.ConnectableAppealStatuses, exclude)
}

func (s *AppealVisibilityService) ConnectUserToAppealsInTx(ctx context.Context, tx pgx.Tx, creatorID, userID uint64, appealIDs []uint64) (int64, error) {
	if len(appealIDs) == 0 {
		return 0, nil
	}
	inserted, err := s.appealUserRepo.BulkConnectInTx(ctx, tx, creatorID, userID, dedupIDs(appealIDs))
	if err != nil {
		s.logger.Error("не удалось привязать сотрудника к обращениям", zap.Uint64("userID", userID), zap.Error(err))
		return 0, err
	}
	metrics.AppealLinksChangedTotal.WithLabelValues("connect").Add(float64(inserted))
	return inserted, nil
}

func (s *AppealVisibilityService) ConnectToAllEligibleInTx(ctx context.Context, tx pgx.Tx, creatorID, userID uint64) (int64, error) {
	visible, err := s.AppealsVisibleToInTx(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	eligible, err := s.EligibleAppealIDsInTx(ctx, tx, visible)
	if err != nil {
		return 0, err
	}

	s.logger.Info("синхронизация видимости обращений",
		zap.Uint64("userID", userID), zap.Int("alreadyVisible", len(visible)), zap.Int("toConnect", len(eligible)))
	return s.ConnectUserToAppealsInTx(ctx, tx, creatorID, userID, eligible)
}

func (s *AppealVisibilityService) DisconnectUserFromAppealsInTx(ctx context.Context, tx pgx.Tx, userID uint64) (int64, error) {
	removed, err := s.appealUserRepo.DeleteByEmployeeInTx(ctx, tx, userID)
	if err != nil {
		s.logger.Error("не удалось отвязать сотрудника от обращений", zap.Uint64("userID", userID), zap.Error(err))
		return 0, err
	}
	metrics.AppealLinksChangedTotal.WithLabelValues("disconnect").Add(float64(removed))
	s.logger.Info("сотрудник отвязан от обращений", zap.Uint64("userID", userID), zap.Int64("removed", removed))
	return removed, nil
}

func dedupIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
