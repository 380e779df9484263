package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/filestorage"
)

type AttachmentServiceInterface interface {
	// StoreAppealFilesInTx пишет файлы на диск и строки вложений в tx.
	// Возвращает и те URL, что успели записаться до ошибки, чтобы вызывающий мог их убрать.
	StoreAppealFilesInTx(ctx context.Context, tx pgx.Tx, appealID, creatorID uint64, files []dto.UploadedFile) ([]entities.AppealAttachment, []string, error)
	// ReplaceAppealFilesInTx удаляет все вложения обращения и сохраняет новые.
	ReplaceAppealFilesInTx(ctx context.Context, tx pgx.Tx, appealID, creatorID uint64, files []dto.UploadedFile) (stored []entities.AppealAttachment, storedURLs []string, removedURLs []string, err error)
	StoreAvatar(file dto.UploadedFile) (string, error)
	RemoveFiles(urls []string)
}

type AttachmentService struct {
	attachmentRepo repositories.AppealAttachmentRepositoryInterface
	fileStorage    filestorage.FileStorageInterface
	logger         *zap.Logger
}

func NewAttachmentService(
	attachmentRepo repositories.AppealAttachmentRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) AttachmentServiceInterface {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

func (s *AttachmentService) StoreAppealFilesInTx(ctx context.Context, tx pgx.Tx, appealID, creatorID uint64, files []dto.UploadedFile) ([]entities.AppealAttachment, []string, error) {
	attachments := make([]entities.AppealAttachment, 0, len(files))
	urls := make([]string, 0, len(files))

	for _, file := range files {
		url, err := s.fileStorage.Save(file.Content, file.FileName, constants.UploadCategoryAppeals)
		if err != nil {
			s.logger.Error("не удалось сохранить файл обращения",
				zap.Uint64("appealID", appealID), zap.String("file", file.FileName), zap.Error(err))
			return nil, urls, fmt.Errorf("сохранение файла %s: %w", file.FileName, err)
		}
		urls = append(urls, url)

		attachment := entities.AppealAttachment{
			Link:         url,
			Meta:         string(filestorage.Classify(file.FileName)),
			Name:         file.FileName,
			UserAppealID: appealID,
			CreatorID:    creatorID,
		}
		if err := s.attachmentRepo.CreateInTx(ctx, tx, &attachment); err != nil {
			return nil, urls, err
		}
		attachments = append(attachments, attachment)
	}

	return attachments, urls, nil
}

func (s *AttachmentService) ReplaceAppealFilesInTx(ctx context.Context, tx pgx.Tx, appealID, creatorID uint64, files []dto.UploadedFile) ([]entities.AppealAttachment, []string, []string, error) {
	removed, err := s.attachmentRepo.DeleteByAppealIDInTx(ctx, tx, appealID)
	if err != nil {
		return nil, nil, nil, err
	}
	removedURLs := make([]string, 0, len(removed))
	for _, a := range removed {
		removedURLs = append(removedURLs, a.Link)
	}

	stored, storedURLs, err := s.StoreAppealFilesInTx(ctx, tx, appealID, creatorID, files)
	if err != nil {
		return nil, storedURLs, nil, err
	}
	return stored, storedURLs, removedURLs, nil
}

func (s *AttachmentService) StoreAvatar(file dto.UploadedFile) (string, error) {
	url, err := s.fileStorage.Save(file.Content, file.FileName, constants.UploadCategoryAvatars)
	if err != nil {
		s.logger.Error("не удалось сохранить аватар", zap.String("file", file.FileName), zap.Error(err))
		return "", err
	}
	return url, nil
}

// RemoveFiles удаляет файлы без возврата ошибки: строки в БД уже в согласованном состоянии.
func (s *AttachmentService) RemoveFiles(urls []string) {
	for _, url := range urls {
		if err := s.fileStorage.Delete(url); err != nil {
			s.logger.Warn("не удалось удалить файл", zap.String("url", url), zap.Error(err))
		}
	}
}
