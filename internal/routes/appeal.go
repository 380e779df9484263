package routes

import (
	"github.com/labstack/echo/v4"

	"appeals-system/internal/controllers"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/middleware"
)

// runAppealRouter: список и карточка обращения публичны, изменения только для авторизованных.
func runAppealRouter(appealsGroup *echo.Group, appealCtrl *controllers.AppealController, authMW *middleware.AuthMiddleware) {
	appealsGroup.GET("/", appealCtrl.GetAppeals)
	appealsGroup.GET("/:id", appealCtrl.GetAppeal)
	appealsGroup.GET("/:id/history", appealCtrl.GetAppealHistory)

	appealsGroup.POST("/", appealCtrl.CreateAppeal, authMW.Auth)
	appealsGroup.PUT("/:id", appealCtrl.UpdateAppeal, authMW.Auth)
	appealsGroup.POST("/:id/to-work", appealCtrl.MoveToWork,
		authMW.Auth, authMW.RequireRoles(constants.AdminRole, constants.ModeratorRole))
}
