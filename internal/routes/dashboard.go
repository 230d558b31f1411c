package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
	"taskdesk/pkg/middleware"
)

func runDashboardRouter(secure *echo.Group, ctrl *controllers.DashboardController, authMW *middleware.AuthMiddleware) {
	secure.GET("/dashboard/stats", ctrl.GetStats, authMW.MasterAdminOnly)
}
