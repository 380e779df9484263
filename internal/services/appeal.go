package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/metrics"
	"appeals-system/pkg/types"
)

type AppealServiceInterface interface {
	CreateAppeal(ctx context.Context, creator *entities.User, input dto.AppealInput, files []dto.UploadedFile) (*entities.UserAppeal, error)
	// UpdateAppeal при непустом files полностью заменяет вложения.
	UpdateAppeal(ctx context.Context, editor *entities.User, appealID uint64, input dto.AppealInput, files []dto.UploadedFile) (*entities.UserAppeal, error)
	MoveAppealToWork(ctx context.Context, payload dto.MoveAppealToWorkDTO) (*entities.UserAppeal, error)
	GetAppeal(ctx context.Context, appealID uint64) (*entities.UserAppeal, error)
	GetAppeals(ctx context.Context, page types.Pagination) ([]dto.AppealDTO, uint64, error)
	GetAppealHistory(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error)
}

type AppealService struct {
	txManager         repositories.TxManagerInterface
	appealRepo        repositories.AppealRepositoryInterface
	statusRepo        repositories.AppealStatusRepositoryInterface
	themeRepo         repositories.AppealThemeRepositoryInterface
	departmentRepo    repositories.DepartmentRepositoryInterface
	appealUserRepo    repositories.AppealUserRepositoryInterface
	historyService    AppealHistoryServiceInterface
	attachmentService AttachmentServiceInterface
	cacheRepo         repositories.CacheRepositoryInterface
	cacheTTL          time.Duration
	logger            *zap.Logger
}

func NewAppealService(
	txManager repositories.TxManagerInterface,
	appealRepo repositories.AppealRepositoryInterface,
	statusRepo repositories.AppealStatusRepositoryInterface,
	themeRepo repositories.AppealThemeRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	appealUserRepo repositories.AppealUserRepositoryInterface,
	historyService AppealHistoryServiceInterface,
	attachmentService AttachmentServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) AppealServiceInterface {
	return &AppealService{
		txManager:         txManager,
		appealRepo:        appealRepo,
		statusRepo:        statusRepo,
		themeRepo:         themeRepo,
		departmentRepo:    departmentRepo,
		appealUserRepo:    appealUserRepo,
		historyService:    historyService,
		attachmentService: attachmentService,
		cacheRepo:         cacheRepo,
		cacheTTL:          cacheTTL,
		logger:            logger,
	}
}

func (s *AppealService) CreateAppeal(ctx context.Context, creator *entities.User, input dto.AppealInput, files []dto.UploadedFile) (*entities.UserAppeal, error) {
	logger := s.logger.With(zap.Uint64("creatorID", creator.ID))

	var (
		appeal     *entities.UserAppeal
		storedURLs []string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		status, err := s.statusRepo.FindByConstInTx(ctx, tx, constants.AppealStatusModeration)
		if err != nil {
			return err
		}
		theme, err := s.themeRepo.FindByIDInTx(ctx, tx, input.AppealThemeID)
		if err != nil {
			return err
		}

		locate := input.Locate
		appeal = &entities.UserAppeal{
			CreatorID:     creator.ID,
			AppealThemeID: theme.ID,
			StatusID:      status.ID,
			ProblemBody:   input.ProblemBody,
			Address:       null.StringFrom(input.Address),
			IsActive:      input.IsActive,
			Locate:        &locate,
			Status:        status,
			Theme:         theme,
		}
		if err := s.appealRepo.CreateInTx(ctx, tx, appeal); err != nil {
			return err
		}

		attachments, urls, err := s.attachmentService.StoreAppealFilesInTx(ctx, tx, appeal.ID, creator.ID, files)
		storedURLs = urls
		if err != nil {
			return err
		}
		appeal.Attachments = attachments

		if _, err := s.historyService.RecordModerationInTx(ctx, tx, appeal); err != nil {
			return err
		}

		creatorID := creator.ID
		return s.appealUserRepo.CreateInTx(ctx, tx, &entities.AppealUser{
			AppealID:  appeal.ID,
			CreatorID: &creatorID,
		})
	})
	if err != nil {
		logger.Error("не удалось создать обращение", zap.Error(err))
		s.attachmentService.RemoveFiles(storedURLs)
		return nil, err
	}

	metrics.AppealsCreatedTotal.Inc()
	s.invalidateListCache(ctx)
	logger.Info("обращение создано", zap.Uint64("appealID", appeal.ID), zap.Int("files", len(appeal.Attachments)))
	return appeal, nil
}

func (s *AppealService) UpdateAppeal(ctx context.Context, editor *entities.User, appealID uint64, input dto.AppealInput, files []dto.UploadedFile) (*entities.UserAppeal, error) {
	logger := s.logger.With(zap.Uint64("appealID", appealID), zap.Uint64("editorID", editor.ID))

	var storedURLs, removedURLs []string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		appeal, err := s.appealRepo.FindByIDInTx(ctx, tx, appealID)
		if err != nil {
			return err
		}

		if len(files) > 0 {
			_, stored, removed, err := s.attachmentService.ReplaceAppealFilesInTx(ctx, tx, appeal.ID, editor.ID, files)
			storedURLs = stored
			if err != nil {
				return err
			}
			removedURLs = removed
		}

		theme, err := s.themeRepo.FindByIDInTx(ctx, tx, input.AppealThemeID)
		if err != nil {
			return err
		}

		appeal.AppealThemeID = theme.ID
		appeal.ProblemBody = input.ProblemBody
		appeal.Address = null.StringFrom(input.Address)
		appeal.IsActive = input.IsActive
		return s.appealRepo.UpdateInTx(ctx, tx, appeal)
	})
	if err != nil {
		logger.Error("не удалось обновить обращение", zap.Error(err))
		s.attachmentService.RemoveFiles(storedURLs)
		return nil, err
	}

	s.attachmentService.RemoveFiles(removedURLs)
	s.invalidateListCache(ctx)
	logger.Info("обращение обновлено", zap.Int("newFiles", len(storedURLs)))
	return s.appealRepo.FindByID(ctx, appealID, true)
}

// MoveAppealToWork назначает исполнителем директора департамента темы. Без директора исполнитель пустой.
func (s *AppealService) MoveAppealToWork(ctx context.Context, payload dto.MoveAppealToWorkDTO) (*entities.UserAppeal, error) {
	logger := s.logger.With(zap.Uint64("appealID", payload.AppealID), zap.Uint64("themeID", payload.AppealThemeID))

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		theme, err := s.themeRepo.FindByIDInTx(ctx, tx, payload.AppealThemeID)
		if err != nil {
			return err
		}
		director, err := s.departmentRepo.FindDirectorInTx(ctx, tx, theme.DepartmentID)
		if err != nil {
			return err
		}
		appeal, err := s.appealRepo.FindByIDInTx(ctx, tx, payload.AppealID)
		if err != nil {
			return err
		}

		appeal.ExecutorID = nil
		if director != nil {
			directorID := director.ID
			appeal.ExecutorID = &directorID
		} else {
			logger.Warn("у департамента темы нет директора, исполнитель не назначен", zap.Uint64("departmentID", theme.DepartmentID))
		}
		appeal.AppealThemeID = theme.ID
		if payload.IsActive != nil {
			appeal.IsActive = *payload.IsActive
		}
		appeal.Note = payload.Note
		return s.appealRepo.UpdateInTx(ctx, tx, appeal)
	})
	if err != nil {
		logger.Error("не удалось передать обращение в работу", zap.Error(err))
		return nil, err
	}

	metrics.AppealsMovedToWorkTotal.Inc()
	s.invalidateListCache(ctx)
	logger.Info("обращение передано в работу")
	return s.appealRepo.FindByID(ctx, payload.AppealID, true)
}

func (s *AppealService) GetAppeal(ctx context.Context, appealID uint64) (*entities.UserAppeal, error) {
	return s.appealRepo.FindByID(ctx, appealID, true)
}

func (s *AppealService) GetAppealHistory(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error) {
	if _, err := s.appealRepo.FindByID(ctx, appealID, false); err != nil {
		return nil, err
	}
	return s.historyService.FindByAppealID(ctx, appealID)
}

type cachedAppealPage struct {
	Items []dto.AppealDTO `json:"items"`
	Total uint64          `json:"total"`
}

// GetAppeals отдает страницу списка; страницы кешируются в redis под текущей версией списка.
// Ошибки redis не мешают ответу.
func (s *AppealService) GetAppeals(ctx context.Context, page types.Pagination) ([]dto.AppealDTO, uint64, error) {
	version := s.listCacheVersion(ctx)
	key := fmt.Sprintf(constants.CacheKeyAppealsPage, version, page.Page, page.PerPage)

	if raw, err := s.cacheRepo.Get(ctx, key); err == nil {
		var cached cachedAppealPage
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached.Items, cached.Total, nil
		}
		s.logger.Warn("битая запись кеша списка обращений", zap.String("key", key))
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("кеш списка обращений недоступен", zap.Error(err))
	}

	appeals, total, err := s.appealRepo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	items := dto.NewAppealDTOs(appeals)

	if payload, err := json.Marshal(cachedAppealPage{Items: items, Total: total}); err == nil {
		if err := s.cacheRepo.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("не удалось записать страницу в кеш", zap.String("key", key), zap.Error(err))
		}
	}
	return items, total, nil
}

func (s *AppealService) listCacheVersion(ctx context.Context) int64 {
	raw, err := s.cacheRepo.Get(ctx, constants.CacheKeyAppealsVersion)
	if err != nil {
		return 0
	}
	version, _ := strconv.ParseInt(raw, 10, 64)
	return version
}

// invalidateListCache сдвигает версию, старые страницы истекают по TTL.
func (s *AppealService) invalidateListCache(ctx context.Context) {
	if _, err := s.cacheRepo.Incr(ctx, constants.CacheKeyAppealsVersion); err != nil {
		s.logger.Warn("не удалось сбросить кеш списка обращений", zap.Error(err))
	}
}
