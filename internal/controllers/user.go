package controllers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/services"
	"appeals-system/pkg/api"
	"appeals-system/pkg/config"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/utils"
)

const avatarFormField = "file"

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

func (ctrl *UserController) CityHeadSetup(c echo.Context) error {
	var payload dto.CityHeadSetupDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.userService.CityHeadSetup(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, user)
}

func (ctrl *UserController) AddControlUser(c echo.Context) error {
	var payload dto.AddControlUserDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.userService.AddControlUser(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, user)
}

func (ctrl *UserController) AddEmployeeUser(c echo.Context) error {
	var payload dto.AddEmployeeUserDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.userService.AddEmployeeUser(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, user)
}

func (ctrl *UserController) UpdateAdminUser(c echo.Context) error {
	reqCtx := c.Request().Context()
	actingUserID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateAdminUserDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.userService.UpdateAdminUser(reqCtx, actingUserID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, user)
}

func (ctrl *UserController) UpdateAvatar(c echo.Context) error {
	reqCtx := c.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	header, err := c.FormFile(avatarFormField)
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewValidationError(avatarFormField, "file is required"), ctrl.logger)
	}
	if err := checkUpload(avatarFormField, header, config.UploadAvatar); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	src, err := header.Open()
	if err != nil {
		ctrl.logger.Error("UpdateAvatar: не удалось открыть файл", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	defer src.Close()

	url, err := ctrl.userService.UpdateUserAvatar(reqCtx, userID, dto.UploadedFile{FileName: header.Filename, Content: src})
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, url)
}

// ActivateUser: POST /users/activate/user/:id/:flag, flag - 0 или 1.
func (ctrl *UserController) ActivateUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var isActive bool
	switch c.Param("flag") {
	case "1":
		isActive = true
	case "0":
		isActive = false
	default:
		return utils.ErrorResponse(c, apperrors.NewValidationError("flag", "must be 0 or 1"), ctrl.logger)
	}

	user, err := ctrl.userService.ActivateUser(c.Request().Context(), id, isActive)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, user)
}
