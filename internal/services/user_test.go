package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/types"
	"taskdesk/pkg/utils"
)

func TestUserServiceCreateAndEnrich(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewUserService(f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "HR"})
	require.NoError(t, err)

	user, err := service.CreateUser(ctx, dto.CreateUserDTO{
		Email:        "hr@company.com",
		Password:     "secret123",
		FullName:     "HR Person",
		DepartmentID: utils.StringPtr(department.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_admin", user.Role)
	require.NotNil(t, user.Department)
	assert.Equal(t, "HR", user.Department.Name)

	users, total, err := service.GetUsers(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Department)
}

func TestUserServiceRequiresDepartmentForSubAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewUserService(f.userRepo, f.departmentRepo, zap.NewNop())

	_, err := service.CreateUser(ctx, dto.CreateUserDTO{
		Email:    "lost@company.com",
		Password: "secret123",
		FullName: "Lost",
	})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	_, err = service.CreateUser(ctx, dto.CreateUserDTO{
		Email:        "dangling@company.com",
		Password:     "secret123",
		FullName:     "Dangling",
		DepartmentID: utils.StringPtr("no-such-department"),
	})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	// Master administrators are not bound to a department.
	admin, err := service.CreateUser(ctx, dto.CreateUserDTO{
		Email:    "root@company.com",
		Password: "secret123",
		FullName: "Root",
		Role:     "master_admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "master_admin", admin.Role)

	// Demoting to sub_admin without assigning a department is rejected too.
	_, err = service.UpdateUser(ctx, admin.ID, dto.UpdateUserDTO{Role: utils.StringPtr("sub_admin")})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewUserService(f.userRepo, f.departmentRepo, zap.NewNop())

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Support"})
	require.NoError(t, err)

	user, err := service.CreateUser(ctx, dto.CreateUserDTO{
		Email:        "x@company.com",
		Password:     "secret123",
		FullName:     "X",
		DepartmentID: utils.StringPtr(department.ID),
	})
	require.NoError(t, err)

	updated, err := service.UpdateUser(ctx, user.ID, dto.UpdateUserDTO{FullName: utils.StringPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)

	require.NoError(t, service.DeleteUser(ctx, user.ID))
	_, err = service.FindUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
