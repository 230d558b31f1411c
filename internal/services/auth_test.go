package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/internal/repositories/local"
	"taskdesk/pkg/config"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/service"
	"taskdesk/pkg/utils"
)

func newAuthService(f *fixture) AuthServiceInterface {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(
		f.userRepo,
		f.departmentRepo,
		local.NewSessionRepository(f.store),
		repositories.NewMemoryCacheRepository(),
		jwtSvc,
		zap.NewNop(),
		&config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute},
	)
}

func signUpDTO(t *testing.T, f *fixture, email, fullName string) dto.SignUpDTO {
	t.Helper()
	department, err := f.departmentRepo.CreateDepartment(context.Background(), entities.Department{Name: "Operations"})
	require.NoError(t, err)
	return dto.SignUpDTO{
		Email:        email,
		Password:     "secret123",
		FullName:     fullName,
		DepartmentID: utils.StringPtr(department.ID),
	}
}

func TestSignUpAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	user, err := auth.SignUp(ctx, signUpDTO(t, f, "new@company.com", "New User"))
	require.NoError(t, err)
	assert.Equal(t, constants.RoleSubAdmin, user.Role, "signup always produces a sub_admin")

	res, err := auth.Login(ctx, dto.LoginDTO{Email: "new@company.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	require.NotNil(t, res.User)
	assert.True(t, res.User.LastLogin.Valid, "last_login is stamped at sign-in")

	current := f.store.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, res.User.ID, current["id"])
}

func TestSignUpIgnoresRequestedRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	department, err := f.departmentRepo.CreateDepartment(ctx, entities.Department{Name: "Sales"})
	require.NoError(t, err)

	// A payload claiming master_admin decodes without the role ever
	// reaching the service.
	body := `{"email":"sneaky@company.com","password":"secret123","full_name":"Sneaky",` +
		`"role":"master_admin","department_id":"` + department.ID + `"}`
	var payload dto.SignUpDTO
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	user, err := auth.SignUp(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleSubAdmin, user.Role)
}

func TestSignUpRequiresDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	_, err := auth.SignUp(ctx, dto.SignUpDTO{Email: "no-dept@company.com", Password: "secret123", FullName: "No Dept"})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	_, err = auth.SignUp(ctx, dto.SignUpDTO{
		Email:        "dangling@company.com",
		Password:     "secret123",
		FullName:     "Dangling",
		DepartmentID: utils.StringPtr("missing-department"),
	})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	_, err := auth.SignUp(ctx, signUpDTO(t, f, "dup@company.com", "First"))
	require.NoError(t, err)

	_, err = auth.SignUp(ctx, signUpDTO(t, f, "dup@company.com", "Second"))
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	_, err := auth.SignUp(ctx, signUpDTO(t, f, "u@company.com", "U"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, dto.LoginDTO{Email: "u@company.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = auth.Login(ctx, dto.LoginDTO{Email: "nobody@company.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginLockout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	_, err := auth.SignUp(ctx, signUpDTO(t, f, "locked@company.com", "L"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = auth.Login(ctx, dto.LoginDTO{Email: "locked@company.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	_, err = auth.Login(ctx, dto.LoginDTO{Email: "locked@company.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts, "even the right password is rejected while locked")
}

func TestLoginHashlessSeededUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	f.createUser(t, "seeded@company.com", "Seeded", constants.RoleMasterAdmin, nil)

	res, err := auth.Login(ctx, dto.LoginDTO{Email: "seeded@company.com", Password: "anything"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleMasterAdmin, res.User.Role)
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	_, err := auth.SignUp(ctx, signUpDTO(t, f, "out@company.com", "Out"))
	require.NoError(t, err)
	_, err = auth.Login(ctx, dto.LoginDTO{Email: "out@company.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx))
	assert.Nil(t, f.store.CurrentUser())
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	_, err := auth.SignUp(ctx, signUpDTO(t, f, "r@company.com", "R"))
	require.NoError(t, err)
	res, err := auth.Login(ctx, dto.LoginDTO{Email: "r@company.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	refreshed, err := auth.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestNotifyStateOneShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := newAuthService(f)

	states := make(chan AuthState, 1)
	auth.NotifyState(ctx, func(state AuthState) { states <- state })

	select {
	case state := <-states:
		assert.Equal(t, AuthEventSignedOut, state.Event)
		assert.Nil(t, state.User)
	case <-time.After(time.Second):
		t.Fatal("state callback was never invoked")
	}

	_, err := auth.SignUp(ctx, signUpDTO(t, f, "n@company.com", "N"))
	require.NoError(t, err)
	_, err = auth.Login(ctx, dto.LoginDTO{Email: "n@company.com", Password: "secret123"})
	require.NoError(t, err)

	auth.NotifyState(ctx, func(state AuthState) { states <- state })
	select {
	case state := <-states:
		assert.Equal(t, AuthEventSignedIn, state.Event)
		require.NotNil(t, state.User)
		assert.Equal(t, "n@company.com", state.User.Email)
	case <-time.After(time.Second):
		t.Fatal("state callback was never invoked")
	}
}
