package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/internal/repositories/local"
	"taskdesk/pkg/constants"
	"taskdesk/pkg/localstore"
	"taskdesk/pkg/utils"
)

type fixture struct {
	store          *localstore.Store
	userRepo       repositories.UserRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	taskRepo       repositories.TaskRepositoryInterface
	messageRepo    repositories.MessageRepositoryInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)

	logger := zap.NewNop()
	return &fixture{
		store:          store,
		userRepo:       local.NewUserRepository(store, logger),
		departmentRepo: local.NewDepartmentRepository(store, logger),
		taskRepo:       local.NewTaskRepository(store, logger),
		messageRepo:    local.NewMessageRepository(store, logger),
	}
}

func (f *fixture) createUser(t *testing.T, email, fullName, role string, departmentID *string) *entities.User {
	t.Helper()
	user, err := f.userRepo.CreateUser(context.Background(), entities.User{
		Email:        email,
		FullName:     fullName,
		Role:         role,
		DepartmentID: departmentID,
	})
	require.NoError(t, err)
	return user
}

func TestTaskVisibilityByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewTaskService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Sales"})
	require.NoError(t, err)

	master := f.createUser(t, "admin@company.com", "Master", constants.RoleMasterAdmin, nil)
	assignee := f.createUser(t, "worker@company.com", "Worker", constants.RoleSubAdmin, utils.StringPtr(department.ID))
	bystander := f.createUser(t, "other@company.com", "Other", constants.RoleSubAdmin, nil)

	created, err := service.CreateTask(ctx, master.ID, dto.CreateTaskDTO{
		Title:        "Quarterly report",
		Priority:     constants.PriorityHigh,
		Deadline:     time.Now().Add(48 * time.Hour),
		DepartmentID: department.ID,
		AssignedTo:   assignee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, created.Status)
	assert.Equal(t, master.ID, created.AssignedBy)

	masterTasks, err := service.GetTasks(ctx, master.ID, constants.RoleMasterAdmin)
	require.NoError(t, err)
	require.Len(t, masterTasks, 1)
	require.NotNil(t, masterTasks[0].Department)
	assert.Equal(t, "Sales", masterTasks[0].Department.Name)

	assigneeTasks, err := service.GetTasks(ctx, assignee.ID, constants.RoleSubAdmin)
	require.NoError(t, err)
	require.Len(t, assigneeTasks, 1)
	assert.Equal(t, created.ID, assigneeTasks[0].ID)

	bystanderTasks, err := service.GetTasks(ctx, bystander.ID, constants.RoleSubAdmin)
	require.NoError(t, err)
	assert.Empty(t, bystanderTasks)
}

func TestTaskEnrichment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewTaskService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "IT"})
	require.NoError(t, err)
	master := f.createUser(t, "admin@company.com", "Master", constants.RoleMasterAdmin, nil)
	assignee := f.createUser(t, "worker@company.com", "Worker", constants.RoleSubAdmin, nil)

	created, err := service.CreateTask(ctx, master.ID, dto.CreateTaskDTO{
		Title:        "Patch servers",
		Priority:     constants.PriorityUrgent,
		Deadline:     time.Now().Add(time.Hour),
		DepartmentID: department.ID,
		AssignedTo:   assignee.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, created.Department)
	require.NotNil(t, created.Assignee)
	require.NotNil(t, created.Assigner)
	assert.Equal(t, "IT", created.Department.Name)
	assert.Equal(t, "Worker", created.Assignee.FullName)
	assert.Equal(t, "Master", created.Assigner.FullName)
}

func TestTaskEnrichmentToleratesDanglingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewTaskService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Temp"})
	require.NoError(t, err)
	master := f.createUser(t, "admin@company.com", "Master", constants.RoleMasterAdmin, nil)
	assignee := f.createUser(t, "worker@company.com", "Worker", constants.RoleSubAdmin, nil)

	created, err := service.CreateTask(ctx, master.ID, dto.CreateTaskDTO{
		Title:        "Orphaned",
		Priority:     constants.PriorityLow,
		Deadline:     time.Now().Add(time.Hour),
		DepartmentID: department.ID,
		AssignedTo:   assignee.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.departmentRepo.DeleteDepartment(ctx, department.ID))
	require.NoError(t, f.userRepo.DeleteUser(ctx, assignee.ID))

	tasks, err := service.GetTasks(ctx, master.ID, constants.RoleMasterAdmin)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Nil(t, tasks[0].Department)
	assert.Nil(t, tasks[0].Assignee)
}

func TestTaskOverdueIsDerived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewTaskService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Sales"})
	require.NoError(t, err)
	master := f.createUser(t, "admin@company.com", "Master", constants.RoleMasterAdmin, nil)

	created, err := service.CreateTask(ctx, master.ID, dto.CreateTaskDTO{
		Title:        "Yesterday's job",
		Priority:     constants.PriorityMedium,
		Deadline:     time.Now().Add(-24 * time.Hour),
		DepartmentID: department.ID,
		AssignedTo:   master.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusOverdue, created.Status, "past deadline reads as overdue")

	stored, err := f.taskRepo.FindTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, stored.Status, "stored status is untouched")

	completed, err := service.UpdateTask(ctx, created.ID, dto.UpdateTaskDTO{
		Status: utils.StringPtr(constants.StatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, completed.Status, "completed is never rewritten to overdue")
	assert.True(t, completed.CompletedAt.Valid)
}

func TestTaskUpdateRefreshesUpdatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewTaskService(f.taskRepo, f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Sales"})
	require.NoError(t, err)
	master := f.createUser(t, "admin@company.com", "Master", constants.RoleMasterAdmin, nil)

	created, err := service.CreateTask(ctx, master.ID, dto.CreateTaskDTO{
		Title:        "Track me",
		Priority:     constants.PriorityLow,
		Deadline:     time.Now().Add(time.Hour),
		DepartmentID: department.ID,
		AssignedTo:   master.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CreatedAt)

	updated, err := service.UpdateTask(ctx, created.ID, dto.UpdateTaskDTO{
		Status: utils.StringPtr(constants.StatusInProgress),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(*created.CreatedAt))
}
