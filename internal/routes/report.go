package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
	"taskdesk/pkg/middleware"
)

func runReportRouter(secure *echo.Group, ctrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	secure.GET("/reports/tasks", ctrl.GetTaskReport, authMW.MasterAdminOnly)
}
