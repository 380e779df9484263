package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/services"
	"appeals-system/pkg/api"
	"appeals-system/pkg/config"
	"appeals-system/pkg/utils"
)

const appealFilesField = "files"

type AppealController struct {
	appealService services.AppealServiceInterface
	logger        *zap.Logger
}

func NewAppealController(appealService services.AppealServiceInterface, logger *zap.Logger) *AppealController {
	return &AppealController{
		appealService: appealService,
		logger:        logger,
	}
}

func (ctrl *AppealController) GetAppeals(c echo.Context) error {
	page := utils.ParsePaginationParams(c.QueryParams())

	items, total, err := ctrl.appealService.GetAppeals(c.Request().Context(), page)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, items, api.PaginationMeta{Page: page.Page, PerPage: page.PerPage, Total: total})
}

func (ctrl *AppealController) GetAppeal(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	appeal, err := ctrl.appealService.GetAppeal(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, dto.NewAppealDTO(appeal))
}

func (ctrl *AppealController) GetAppealHistory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	history, err := ctrl.appealService.GetAppealHistory(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, history)
}

func (ctrl *AppealController) CreateAppeal(c echo.Context) error {
	reqCtx := c.Request().Context()
	user, err := utils.GetUserFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	input, err := ctrl.parseForm(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	files, closeFiles, err := ctrl.openFiles(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer closeFiles()

	appeal, err := ctrl.appealService.CreateAppeal(reqCtx, user, input, files)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, dto.NewAppealDTO(appeal))
}

func (ctrl *AppealController) UpdateAppeal(c echo.Context) error {
	reqCtx := c.Request().Context()
	user, err := utils.GetUserFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var form dto.AppealUpdateFormDTO
	if err := bindAndValidate(c, &form); err != nil {
		ctrl.logger.Warn("неверная форма редактирования обращения", zap.Uint64("appealID", id), zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	input := form.ToInput()

	files, closeFiles, err := ctrl.openFiles(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer closeFiles()

	appeal, err := ctrl.appealService.UpdateAppeal(reqCtx, user, id, input, files)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, dto.NewAppealDTO(appeal))
}

func (ctrl *AppealController) MoveToWork(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.MoveAppealToWorkDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	payload.AppealID = id

	appeal, err := ctrl.appealService.MoveAppealToWork(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, dto.NewAppealDTO(appeal))
}

func (ctrl *AppealController) parseForm(c echo.Context) (dto.AppealInput, error) {
	var form dto.AppealFormDTO
	if err := bindAndValidate(c, &form); err != nil {
		ctrl.logger.Warn("неверная форма обращения", zap.Error(err))
		return dto.AppealInput{}, err
	}
	return form.ToInput()
}

// openFiles открывает все файлы поля files. closeFiles нужно вызвать после сохранения.
func (ctrl *AppealController) openFiles(c echo.Context) ([]dto.UploadedFile, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	headers := form.File[appealFilesField]
	for _, h := range headers {
		if err := checkUpload(appealFilesField, h, config.UploadAppealFile); err != nil {
			return nil, func() {}, err
		}
	}

	files := make([]dto.UploadedFile, 0, len(headers))
	opened := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, h := range headers {
		var src multipart.File
		src, err = h.Open()
		if err != nil {
			closeAll()
			ctrl.logger.Error("не удалось открыть загруженный файл", zap.String("file", h.Filename), zap.Error(err))
			return nil, func() {}, err
		}
		opened = append(opened, src)
		files = append(files, dto.UploadedFile{FileName: h.Filename, Content: src})
	}
	return files, closeAll, nil
}
