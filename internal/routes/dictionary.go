package routes

import (
	"github.com/labstack/echo/v4"

	"appeals-system/internal/controllers"
)

func runDictionaryRouter(e *echo.Echo, dictionaryCtrl *controllers.DictionaryController) {
	e.GET("/social-groups", dictionaryCtrl.GetSocialGroups)
	e.GET("/appeals/statuses", dictionaryCtrl.GetAppealStatuses)
}
