package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/types"
)

type TaskService struct {
	taskRepository       repositories.TaskRepositoryInterface
	userRepository       repositories.UserRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	logger               *zap.Logger
}

func NewTaskService(
	taskRepository repositories.TaskRepositoryInterface,
	userRepository repositories.UserRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepository:       taskRepository,
		userRepository:       userRepository,
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

// GetTasks lists tasks visible to the viewer: master_admin sees all,
// sub_admin sees exactly the tasks assigned to them.
func (s *TaskService) GetTasks(ctx context.Context, viewerID, viewerRole string) ([]entities.Task, error) {
	tasks, err := s.taskRepository.GetTasks(ctx)
	if err != nil {
		s.logger.Error("listing tasks failed", zap.Error(err))
		return nil, err
	}

	if viewerRole != constants.RoleMasterAdmin {
		visible := make([]entities.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.AssignedTo == viewerID {
				visible = append(visible, task)
			}
		}
		tasks = visible
	}

	if err := s.enrichTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) FindTask(ctx context.Context, id string, viewerID, viewerRole string) (*entities.Task, error) {
	task, err := s.taskRepository.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerRole != constants.RoleMasterAdmin && task.AssignedTo != viewerID {
		return nil, apperrors.ErrForbidden
	}
	s.enrichTask(ctx, task)
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, creatorID string, payload dto.CreateTaskDTO) (*entities.Task, error) {
	status := payload.Status
	if status == "" {
		status = constants.StatusPending
	}

	task, err := s.taskRepository.CreateTask(ctx, entities.Task{
		Title:        payload.Title,
		Description:  payload.Description,
		Priority:     payload.Priority,
		Status:       status,
		Deadline:     payload.Deadline,
		DepartmentID: payload.DepartmentID,
		AssignedTo:   payload.AssignedTo,
		AssignedBy:   creatorID,
	})
	if err != nil {
		s.logger.Error("creating task failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("task created",
		zap.String("id", task.ID),
		zap.String("assignedTo", task.AssignedTo),
		zap.String("assignedBy", task.AssignedBy))

	// Re-fetch so derived state reflects what was stored.
	return s.refetch(ctx, task.ID)
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, payload dto.UpdateTaskDTO) (*entities.Task, error) {
	if _, err := s.taskRepository.UpdateTask(ctx, id, payload); err != nil {
		s.logger.Error("updating task failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("task updated", zap.String("id", id))
	return s.refetch(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	err := s.taskRepository.DeleteTask(ctx, id)
	if err != nil {
		s.logger.Error("deleting task failed", zap.String("id", id), zap.Error(err))
	}
	return err
}

func (s *TaskService) refetch(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.taskRepository.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.enrichTask(ctx, task)
	return task, nil
}

func (s *TaskService) enrichTasks(ctx context.Context, tasks []entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	departments, err := s.departmentRepository.GetDepartments(ctx)
	if err != nil {
		return err
	}
	departmentIndex := make(map[string]entities.Department, len(departments))
	for _, department := range departments {
		departmentIndex[department.ID] = department
	}

	users, _, err := s.userRepository.GetUsers(ctx, types.Filter{})
	if err != nil {
		return err
	}
	userIndex := make(map[string]entities.User, len(users))
	for _, user := range users {
		userIndex[user.ID] = user
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if department, ok := departmentIndex[task.DepartmentID]; ok {
			task.Department = &department
		}
		if assignee, ok := userIndex[task.AssignedTo]; ok {
			task.Assignee = &assignee
		}
		if assigner, ok := userIndex[task.AssignedBy]; ok {
			task.Assigner = &assigner
		}
		task.Status = task.EffectiveStatus(now)
	}
	return nil
}

// enrichTask resolves relations for one task with point lookups.
func (s *TaskService) enrichTask(ctx context.Context, task *entities.Task) {
	if department, err := s.departmentRepository.FindDepartment(ctx, task.DepartmentID); err == nil {
		task.Department = department
	}
	if assignee, err := s.userRepository.FindUserByID(ctx, task.AssignedTo); err == nil {
		task.Assignee = assignee
	}
	if assigner, err := s.userRepository.FindUserByID(ctx, task.AssignedBy); err == nil {
		task.Assigner = assigner
	}
	task.Status = task.EffectiveStatus(time.Now())
}
