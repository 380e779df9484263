package services

import (
	"context"

	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
)

const reportDateLayout = "02.01.2006 15:04"

type ReportServiceInterface interface {
	GetReportForExcel(ctx context.Context, filter entities.AppealReportFilter) ([]entities.AppealReportItem, uint64, error)
	GetReportDTOs(ctx context.Context, filter entities.AppealReportFilter) ([]dto.AppealReportItemDTO, uint64, error)
}

type reportService struct {
	appealRepo repositories.AppealRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(appealRepo repositories.AppealRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{appealRepo: appealRepo, logger: logger}
}

func (s *reportService) GetReportForExcel(ctx context.Context, filter entities.AppealReportFilter) ([]entities.AppealReportItem, uint64, error) {
	items, total, err := s.appealRepo.Report(ctx, filter)
	if err != nil {
		s.logger.Error("не удалось построить отчет по обращениям", zap.Error(err))
		return nil, 0, err
	}
	return items, total, nil
}

func (s *reportService) GetReportDTOs(ctx context.Context, filter entities.AppealReportFilter) ([]dto.AppealReportItemDTO, uint64, error) {
	items, total, err := s.GetReportForExcel(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.AppealReportItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dto.AppealReportItemDTO{
			AppealID:    item.AppealID,
			CreatedAt:   item.CreatedAt.Format(reportDateLayout),
			CreatorName: item.CreatorName,
			ThemeName:   item.ThemeName,
			StatusTitle: item.StatusTitle,
			ExecutorFio: item.ExecutorFio.String,
			Address:     item.Address.String,
			ProblemBody: item.ProblemBody,
			IsActive:    item.IsActive,
		})
	}
	return out, total, nil
}
