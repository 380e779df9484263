package controllers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"appeals-system/internal/services"
	"appeals-system/pkg/api"
	"appeals-system/pkg/utils"
)

type DictionaryController struct {
	dictionaryService services.DictionaryServiceInterface
	logger            *zap.Logger
}

func NewDictionaryController(dictionaryService services.DictionaryServiceInterface, logger *zap.Logger) *DictionaryController {
	return &DictionaryController{dictionaryService: dictionaryService, logger: logger}
}

func (ctrl *DictionaryController) GetSocialGroups(c echo.Context) error {
	groups, err := ctrl.dictionaryService.GetSocialGroups(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, groups)
}

func (ctrl *DictionaryController) GetAppealStatuses(c echo.Context) error {
	statuses, err := ctrl.dictionaryService.GetAppealStatuses(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, statuses)
}
