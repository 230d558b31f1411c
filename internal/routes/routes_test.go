package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/internal/repositories/local"
	"taskdesk/pkg/config"
	"taskdesk/pkg/constants"
	"taskdesk/pkg/filestorage"
	"taskdesk/pkg/localstore"
	"taskdesk/pkg/service"
	"taskdesk/pkg/utils"
	appwebsocket "taskdesk/pkg/websocket"
)

func newTestRouter(t *testing.T) (*echo.Echo, *localstore.Store, service.JWTService) {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)

	logger := zap.NewNop()
	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())

	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverLocal},
		Auth:    config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute},
	}
	InitRouter(e, Dependencies{
		Config:      cfg,
		Store:       store,
		CacheRepo:   repositories.NewMemoryCacheRepository(),
		SessionRepo: local.NewSessionRepository(store),
		JWTService:  jwtSvc,
		Hub:         appwebsocket.NewHub(logger),
		FileStorage: filestorage.NewInlineFileStorage(),
		Logger:      logger,
	})
	return e, store, jwtSvc
}

func issueToken(t *testing.T, store *localstore.Store, jwtSvc service.JWTService, email, role string) string {
	t.Helper()
	userRepo := local.NewUserRepository(store, zap.NewNop())
	user, err := userRepo.CreateUser(context.Background(), entities.User{
		Email:    email,
		FullName: "Routed User",
		Role:     role,
	})
	require.NoError(t, err)

	access, _, err := jwtSvc.GenerateTokens(user.ID, user.Role)
	require.NoError(t, err)
	return access
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestReportRouteIsMasterAdminOnly(t *testing.T) {
	e, store, jwtSvc := newTestRouter(t)

	subToken := issueToken(t, store, jwtSvc, "sub@company.com", constants.RoleSubAdmin)
	masterToken := issueToken(t, store, jwtSvc, "master@company.com", constants.RoleMasterAdmin)

	rec := doJSON(e, http.MethodGet, "/api/reports/tasks", subToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/reports/tasks", masterToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthStateRequiresToken(t *testing.T) {
	e, store, jwtSvc := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/api/auth/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := issueToken(t, store, jwtSvc, "state@company.com", constants.RoleSubAdmin)
	rec = doJSON(e, http.MethodGet, "/api/auth/state", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupCannotMintMasterAdmin(t *testing.T) {
	e, store, _ := newTestRouter(t)

	departmentRepo := local.NewDepartmentRepository(store, zap.NewNop())
	department, err := departmentRepo.CreateDepartment(context.Background(), entities.Department{Name: "Sales"})
	require.NoError(t, err)

	body := `{"email":"join@company.com","password":"secret123","full_name":"Joiner",` +
		`"role":"master_admin","department_id":"` + department.ID + `"}`
	rec := doJSON(e, http.MethodPost, "/api/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Status bool `json:"status"`
		Body   struct {
			Role string `json:"role"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Status)
	assert.Equal(t, constants.RoleSubAdmin, envelope.Body.Role)
}
