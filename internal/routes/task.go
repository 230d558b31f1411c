package routes

import (
	"github.com/labstack/echo/v4"

	"taskdesk/internal/controllers"
)

func runTaskRouter(secure *echo.Group, ctrl *controllers.TaskController) {
	secure.GET("/tasks", ctrl.GetTasks)
	secure.GET("/task/:id", ctrl.FindTask)
	secure.POST("/task", ctrl.CreateTask)
	secure.PUT("/task/:id", ctrl.UpdateTask)
	secure.DELETE("/task/:id", ctrl.DeleteTask)
}
