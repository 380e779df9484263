package routes

import (
	"github.com/labstack/echo/v4"

	"appeals-system/internal/controllers"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.AdminRole)
	adminOrModerator := authMW.RequireRoles(constants.AdminRole, constants.ModeratorRole)

	secureGroup.POST("/set/city-head", userCtrl.CityHeadSetup, adminOnly)
	secureGroup.POST("/add/control-user", userCtrl.AddControlUser, adminOnly)
	secureGroup.POST("/add/employee-user", userCtrl.AddEmployeeUser, adminOnly)
	secureGroup.POST("/set/employee-user", userCtrl.UpdateAdminUser, adminOnly)
	secureGroup.POST("/update-avatar", userCtrl.UpdateAvatar)
	secureGroup.POST("/activate/user/:id/:flag", userCtrl.ActivateUser, adminOrModerator)
}
