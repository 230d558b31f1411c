package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/pkg/constants"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	taskService := NewTaskService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())
	dashboard := NewDashboardService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())

	sales, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Sales"})
	require.NoError(t, err)
	it, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "IT"})
	require.NoError(t, err)

	master := f.createUser(t, "admin@company.com", "Master", constants.RoleMasterAdmin, nil)

	mk := func(departmentID, priority string, deadline time.Time, status string) {
		created, err := taskService.CreateTask(ctx, master.ID, dto.CreateTaskDTO{
			Title:        "t",
			Priority:     priority,
			Deadline:     deadline,
			DepartmentID: departmentID,
			AssignedTo:   master.ID,
		})
		require.NoError(t, err)
		if status != "" {
			_, err = taskService.UpdateTask(ctx, created.ID, dto.UpdateTaskDTO{Status: &status})
			require.NoError(t, err)
		}
	}

	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)
	mk(sales.ID, constants.PriorityHigh, future, "")
	mk(sales.ID, constants.PriorityLow, future, constants.StatusCompleted)
	mk(it.ID, constants.PriorityUrgent, past, "")

	stats, err := dashboard.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 1, stats.OverdueTasks)
	assert.Equal(t, 1, stats.TasksByStatus[constants.StatusPending])
	assert.Equal(t, 1, stats.TasksByStatus[constants.StatusCompleted])
	assert.Equal(t, 1, stats.TasksByStatus[constants.StatusOverdue])
	assert.Equal(t, 1, stats.TasksByPriority[constants.PriorityUrgent])
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalDepartments)

	byName := map[string]dto.DepartmentTaskStatsDTO{}
	for _, d := range stats.Departments {
		byName[d.Name] = d
	}
	assert.Equal(t, 2, byName["Sales"].TotalTasks)
	assert.Equal(t, 1, byName["Sales"].CompletedTasks)
	assert.Equal(t, 1, byName["IT"].TotalTasks)
	assert.Equal(t, 0, byName["IT"].CompletedTasks)
}
