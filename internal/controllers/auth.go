package controllers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/services"
	"appeals-system/pkg/api"
	"appeals-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Warn("Register: неверные данные", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	resp, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return api.SuccessOne(c, resp)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Warn("Login: неверные данные", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	resp, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return api.SuccessOne(c, resp)
}

// Me возвращает пользователя, загруженного AuthMiddleware.
func (ctrl *AuthController) Me(c echo.Context) error {
	user, err := utils.GetUserFromCtx(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return api.SuccessOne(c, user)
}
