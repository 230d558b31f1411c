package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"taskdesk/internal/entities"
	"taskdesk/internal/services"
	"taskdesk/pkg/utils"
)

type ReportController struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

func NewReportController(taskService *services.TaskService, logger *zap.Logger) *ReportController {
	return &ReportController{taskService: taskService, logger: logger}
}

// GetTaskReport exports the viewer's task list, as JSON or as a
// spreadsheet when ?format=xlsx.
func (c *ReportController) GetTaskReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	role, err := utils.GetUserRoleFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tasks, err := c.taskService.GetTasks(reqCtx, userID, role)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "xlsx" {
		return c.respondWithXLSX(ctx, tasks)
	}
	return utils.SuccessResponse(ctx, tasks, "task report", http.StatusOK)
}

var reportHeaders = []string{
	"Title", "Description", "Priority", "Status", "Deadline",
	"Department", "Assignee", "Assigned By", "Created At", "Completed At",
}

func rowToSlice(task entities.Task) []interface{} {
	dateFmt := "02.01.2006"
	departmentName, assigneeName, assignerName := "-", "-", "-"
	if task.Department != nil {
		departmentName = task.Department.Name
	}
	if task.Assignee != nil {
		assigneeName = task.Assignee.FullName
	}
	if task.Assigner != nil {
		assignerName = task.Assigner.FullName
	}

	var createdAt, completedAt string
	if task.CreatedAt != nil {
		createdAt = task.CreatedAt.Format(dateFmt)
	}
	if task.CompletedAt.Valid {
		completedAt = task.CompletedAt.Time.Format(dateFmt)
	}

	return []interface{}{
		task.Title, task.Description, task.Priority, task.Status, task.Deadline.Format(dateFmt),
		departmentName, assigneeName, assignerName, createdAt, completedAt,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, tasks []entities.Task) error {
	f := excelize.NewFile()
	sheet := "Tasks"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "J1", style)

	for i, task := range tasks {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(task)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "B", 30)
	f.SetColWidth(sheet, "F", "H", 25)

	fileName := fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
