package services

import (
	"context"

	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
)

type DepartmentService struct {
	departmentRepository repositories.DepartmentRepositoryInterface
	logger               *zap.Logger
}

func NewDepartmentService(departmentRepository repositories.DepartmentRepositoryInterface, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

func (s *DepartmentService) GetDepartments(ctx context.Context) ([]entities.Department, error) {
	departments, err := s.departmentRepository.GetDepartments(ctx)
	if err != nil {
		s.logger.Error("listing departments failed", zap.Error(err))
		return nil, err
	}
	return departments, nil
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id string) (*entities.Department, error) {
	return s.departmentRepository.FindDepartment(ctx, id)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*entities.Department, error) {
	department, err := s.departmentRepository.CreateDepartment(ctx, entities.Department{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		s.logger.Error("creating department failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("department created", zap.String("id", department.ID), zap.String("name", department.Name))
	return department, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	department, err := s.departmentRepository.UpdateDepartment(ctx, id, payload)
	if err != nil {
		s.logger.Error("updating department failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("department updated", zap.String("id", id))
	return department, nil
}

// DeleteDepartment removes the department only. Users and tasks keep
// their department_id; readers resolve dangling references to nil.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id string) error {
	err := s.departmentRepository.DeleteDepartment(ctx, id)
	if err != nil {
		s.logger.Error("deleting department failed", zap.String("id", id), zap.Error(err))
	}
	return err
}
