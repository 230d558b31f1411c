package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/types"
)

// requireDepartmentForSubAdmin enforces that every sub_admin belongs to an
// existing department. Master administrators are department-free.
func requireDepartmentForSubAdmin(
	ctx context.Context,
	departmentRepo repositories.DepartmentRepositoryInterface,
	role string,
	departmentID *string,
) error {
	if role != constants.RoleSubAdmin {
		return nil
	}
	if departmentID == nil || *departmentID == "" {
		return apperrors.NewBadRequestError("department_id is required for sub_admin")
	}
	if _, err := departmentRepo.FindDepartment(ctx, *departmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewBadRequestError("department not found")
		}
		return err
	}
	return nil
}

type UserService struct {
	userRepository       repositories.UserRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	logger               *zap.Logger
}

func NewUserService(
	userRepository repositories.UserRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepository:       userRepository,
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	users, total, err := s.userRepository.GetUsers(ctx, filter)
	if err != nil {
		s.logger.Error("listing users failed", zap.Error(err))
		return nil, 0, err
	}

	departments, err := s.departmentIndex(ctx)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		attachDepartment(&users[i], departments)
	}
	return users, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	departments, err := s.departmentIndex(ctx)
	if err != nil {
		return nil, err
	}
	attachDepartment(user, departments)
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	role := payload.Role
	if role == "" {
		role = constants.RoleSubAdmin
	}
	if err := requireDepartmentForSubAdmin(ctx, s.departmentRepository, role, payload.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.CreateUser(ctx, entities.User{
		Email:        payload.Email,
		FullName:     payload.FullName,
		Role:         role,
		DepartmentID: payload.DepartmentID,
		PasswordHash: string(hash),
	})
	if err != nil {
		s.logger.Error("creating user failed", zap.String("email", payload.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.String("userID", user.ID))
	return s.FindUser(ctx, user.ID)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, payload dto.UpdateUserDTO) (*entities.User, error) {
	existing, err := s.userRepository.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role := existing.Role
	if payload.Role != nil {
		role = *payload.Role
	}
	departmentID := existing.DepartmentID
	if payload.DepartmentID != nil {
		departmentID = payload.DepartmentID
	}
	if err := requireDepartmentForSubAdmin(ctx, s.departmentRepository, role, departmentID); err != nil {
		return nil, err
	}

	if _, err := s.userRepository.UpdateUser(ctx, id, payload); err != nil {
		s.logger.Error("updating user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.FindUser(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := s.userRepository.DeleteUser(ctx, id)
	if err != nil {
		s.logger.Error("deleting user failed", zap.String("id", id), zap.Error(err))
	}
	return err
}

func (s *UserService) departmentIndex(ctx context.Context) (map[string]entities.Department, error) {
	departments, err := s.departmentRepository.GetDepartments(ctx)
	if err != nil {
		s.logger.Error("listing departments failed", zap.Error(err))
		return nil, err
	}
	index := make(map[string]entities.Department, len(departments))
	for _, department := range departments {
		index[department.ID] = department
	}
	return index, nil
}

func attachDepartment(user *entities.User, departments map[string]entities.Department) {
	if user == nil || user.DepartmentID == nil {
		return
	}
	if department, ok := departments[*user.DepartmentID]; ok {
		user.Department = &department
	}
}
