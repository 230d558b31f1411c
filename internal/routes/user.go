package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
	"taskdesk/pkg/middleware"
)

func runUserRouter(secure *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	secure.GET("/users", ctrl.GetUsers)
	secure.GET("/user/:id", ctrl.FindUser)
	secure.POST("/user", ctrl.CreateUser, authMW.MasterAdminOnly)
	secure.PUT("/user/:id", ctrl.UpdateUser, authMW.MasterAdminOnly)
	secure.DELETE("/user/:id", ctrl.DeleteUser, authMW.MasterAdminOnly)
}
