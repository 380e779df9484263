package routes

import (
	"github.com/labstack/echo/v4"

	"appeals-system/internal/controllers"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/middleware"
)

func runReportRouter(appealsGroup *echo.Group, reportController *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	appealsGroup.GET("/report", reportController.GetReport,
		authMW.Auth, authMW.RequireRoles(constants.AdminRole, constants.ModeratorRole))
}
