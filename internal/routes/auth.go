package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
)

func runAuthRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/auth/login", ctrl.Login)
	api.POST("/auth/signup", ctrl.SignUp)
	api.POST("/auth/refresh", ctrl.Refresh)

	secure.GET("/auth/state", ctrl.State)
	secure.POST("/auth/logout", ctrl.Logout)
	secure.GET("/auth/me", ctrl.Me)
}
