package routes

import (
	"github.com/labstack/echo/v4"

	"appeals-system/internal/controllers"
	"appeals-system/pkg/middleware"
)

func runAuthRouter(usersGroup *echo.Group, authController *controllers.AuthController, authMW *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	usersGroup.POST("/register", authController.Register, limiter.Middleware)
	usersGroup.POST("/login", authController.Login, limiter.Middleware)
	usersGroup.GET("/me", authController.Me, authMW.Auth)
}
