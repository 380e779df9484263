package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"appeals-system/internal/entities"
	"appeals-system/internal/services"
	"appeals-system/pkg/api"
	"appeals-system/pkg/utils"
)

const (
	reportSheet     = "Обращения"
	reportExportMax = 100000
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос на отчет с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	if format == "xlsx" {
		data, _, err := c.reportService.GetReportForExcel(reqCtx, filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, data)
	}

	items, total, err := c.reportService.GetReportDTOs(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessList(ctx, items, api.PaginationMeta{Page: filter.Page, PerPage: filter.PerPage, Total: total})
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.AppealReportFilter, string) {
	page := utils.ParsePaginationParams(ctx.QueryParams())
	filter := entities.AppealReportFilter{
		Page:    page.Page,
		PerPage: page.PerPage,
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		filter.Page = 1
		filter.PerPage = reportExportMax
	}

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(time.RFC3339, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			filter.DateTo = &t
		}
	}

	if s := ctx.QueryParam("statuses"); s != "" {
		for _, st := range strings.Split(s, ",") {
			if st = strings.TrimSpace(st); st != "" {
				filter.StatusConsts = append(filter.StatusConsts, strings.ToUpper(st))
			}
		}
	}
	if s := ctx.QueryParam("theme_ids"); s != "" {
		ids, err := utils.ParseUint64List(s)
		if err == nil {
			filter.ThemeIDs = ids
		}
	}

	return filter, format
}

var reportHeaders = []string{
	"№", "Дата обращения", "Время обращения", "Заявитель", "Тема", "Статус",
	"Исполнитель", "Адрес", "Текст обращения", "Активно",
}

func rowToSlice(item entities.AppealReportItem) []interface{} {
	dateFmt, timeFmt := "02.01.2006", "15:04"
	active := "нет"
	if item.IsActive {
		active = "да"
	}

	return []interface{}{
		item.AppealID, item.CreatedAt.Format(dateFmt), item.CreatedAt.Format(timeFmt), item.CreatorName,
		item.ThemeName, item.StatusTitle, item.ExecutorFio.String, item.Address.String, item.ProblemBody, active,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []entities.AppealReportItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	f.SetSheetRow(reportSheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(reportSheet, "A1", "J1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(reportSheet, cell, &row)
	}
	f.SetColWidth(reportSheet, "B", "C", 16)
	f.SetColWidth(reportSheet, "D", "G", 25)
	f.SetColWidth(reportSheet, "H", "H", 35)
	f.SetColWidth(reportSheet, "I", "I", 60)

	fileName := fmt.Sprintf("appeals_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
