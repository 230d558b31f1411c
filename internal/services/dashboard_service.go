package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	"taskdesk/pkg/types"
)

type DashboardService struct {
	taskRepository       repositories.TaskRepositoryInterface
	userRepository       repositories.UserRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	logger               *zap.Logger
}

func NewDashboardService(
	taskRepository repositories.TaskRepositoryInterface,
	userRepository repositories.UserRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		taskRepository:       taskRepository,
		userRepository:       userRepository,
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

// GetStats aggregates task counters for the admin dashboard. Overdue is
// the derived read-time view, so the by-status map counts overdue tasks
// under "overdue" rather than their stored status.
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardDTO, error) {
	tasks, err := s.taskRepository.GetTasks(ctx)
	if err != nil {
		s.logger.Error("listing tasks failed", zap.Error(err))
		return nil, err
	}
	_, totalUsers, err := s.userRepository.GetUsers(ctx, types.Filter{})
	if err != nil {
		s.logger.Error("listing users failed", zap.Error(err))
		return nil, err
	}
	departments, err := s.departmentRepository.GetDepartments(ctx)
	if err != nil {
		s.logger.Error("listing departments failed", zap.Error(err))
		return nil, err
	}

	stats := &dto.DashboardDTO{
		TotalTasks:       len(tasks),
		TasksByStatus:    map[string]int{},
		TasksByPriority:  map[string]int{},
		TotalUsers:       int(totalUsers),
		TotalDepartments: len(departments),
	}

	byDepartment := make(map[string]*dto.DepartmentTaskStatsDTO, len(departments))
	for _, department := range departments {
		entry := &dto.DepartmentTaskStatsDTO{ID: department.ID, Name: department.Name}
		byDepartment[department.ID] = entry
	}

	now := time.Now()
	for _, task := range tasks {
		status := task.EffectiveStatus(now)
		stats.TasksByStatus[status]++
		stats.TasksByPriority[task.Priority]++
		if status == constants.StatusOverdue {
			stats.OverdueTasks++
		}
		if entry, ok := byDepartment[task.DepartmentID]; ok {
			entry.TotalTasks++
			if task.Status == constants.StatusCompleted {
				entry.CompletedTasks++
			}
		}
	}

	stats.Departments = make([]dto.DepartmentTaskStatsDTO, 0, len(departments))
	for _, department := range departments {
		stats.Departments = append(stats.Departments, *byDepartment[department.ID])
	}
	return stats, nil
}
