package services

import (
	"context"

	"go.uber.org/zap"

	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
)

// DictionaryServiceInterface отдаёт справочники для форм клиента.
type DictionaryServiceInterface interface {
	GetSocialGroups(ctx context.Context) ([]entities.SocialGroup, error)
	GetAppealStatuses(ctx context.Context) ([]entities.AppealStatus, error)
}

type DictionaryService struct {
	socialGroupRepo repositories.SocialGroupRepositoryInterface
	statusRepo      repositories.AppealStatusRepositoryInterface
	logger          *zap.Logger
}

func NewDictionaryService(
	socialGroupRepo repositories.SocialGroupRepositoryInterface,
	statusRepo repositories.AppealStatusRepositoryInterface,
	logger *zap.Logger,
) DictionaryServiceInterface {
	return &DictionaryService{socialGroupRepo: socialGroupRepo, statusRepo: statusRepo, logger: logger}
}

func (s *DictionaryService) GetSocialGroups(ctx context.Context) ([]entities.SocialGroup, error) {
	groups, err := s.socialGroupRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("не удалось получить социальные группы", zap.Error(err))
		return nil, err
	}
	return groups, nil
}

func (s *DictionaryService) GetAppealStatuses(ctx context.Context) ([]entities.AppealStatus, error) {
	statuses, err := s.statusRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("не удалось получить статусы обращений", zap.Error(err))
		return nil, err
	}
	return statuses, nil
}
