package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
	"taskdesk/pkg/middleware"
)

func runDepartmentRouter(secure *echo.Group, ctrl *controllers.DepartmentController, authMW *middleware.AuthMiddleware) {
	secure.GET("/departments", ctrl.GetDepartments)
	secure.GET("/department/:id", ctrl.FindDepartment)
	secure.POST("/department", ctrl.CreateDepartment, authMW.MasterAdminOnly)
	secure.PUT("/department/:id", ctrl.UpdateDepartment, authMW.MasterAdminOnly)
	secure.DELETE("/department/:id", ctrl.DeleteDepartment, authMW.MasterAdminOnly)
}
