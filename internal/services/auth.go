package services

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskdesk/internal/dto"
	"taskdesk/internal/entities"
	"taskdesk/internal/repositories"
	"taskdesk/pkg/config"
	"taskdesk/pkg/constants"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/service"
)

// AuthState is the one-shot session notification delivered to a callback
// registered with NotifyState.
type AuthState struct {
	Event string         `json:"event"`
	User  *entities.User `json:"user,omitempty"`
}

const (
	AuthEventSignedIn  = "SIGNED_IN"
	AuthEventSignedOut = "SIGNED_OUT"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	SignUp(ctx context.Context, payload dto.SignUpDTO) (*entities.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context, userID string) (*entities.User, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	NotifyState(ctx context.Context, callback func(AuthState))
}

type AuthService struct {
	userRepo       repositories.UserRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	sessionRepo    repositories.SessionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	jwtService     service.JWTService
	logger         *zap.Logger
	cfg            *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	sessionRepo repositories.SessionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		sessionRepo:    sessionRepo,
		cacheRepo:      cacheRepo,
		jwtService:     jwtService,
		logger:         logger,
		cfg:            cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	logger := s.logger.With(zap.String("email", payload.Email))

	attemptsKey := fmt.Sprintf("login_attempts:%s", payload.Email)
	attemptsStr, _ := s.cacheRepo.Get(ctx, attemptsKey)
	if attempts, _ := strconv.Atoi(attemptsStr); attempts >= s.cfg.MaxLoginAttempts {
		logger.Warn("login locked out")
		return nil, apperrors.ErrTooManyAttempts
	}

	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		s.recordFailedAttempt(ctx, attemptsKey)
		logger.Warn("login for unknown email")
		return nil, apperrors.ErrInvalidCredentials
	}

	// Seeded accounts may carry no hash; they accept any password, which
	// is logged loudly so it never survives into a real deployment.
	if user.PasswordHash == "" {
		logger.Warn("user has no password hash, accepting any password", zap.String("userID", user.ID))
	} else if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		s.recordFailedAttempt(ctx, attemptsKey)
		logger.Warn("wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.cacheRepo.Del(ctx, attemptsKey)

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn("updating last_login failed", zap.Error(err))
	}
	user, err = s.userRepo.FindUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.enrichUser(ctx, user)

	if err := s.sessionRepo.Save(ctx, user); err != nil {
		logger.Error("saving session failed", zap.Error(err))
		return nil, err
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		logger.Error("token generation failed", zap.Error(err))
		return nil, err
	}

	logger.Info("user signed in", zap.String("userID", user.ID))
	return &dto.AuthResponseDTO{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, key string) {
	if attempts, err := s.cacheRepo.Incr(ctx, key); err == nil && attempts == 1 {
		s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration)
	}
}

// SignUp registers a sub_admin. The requested role is never taken from
// the payload: the public signup route must not be able to mint a master
// administrator.
func (s *AuthService) SignUp(ctx context.Context, payload dto.SignUpDTO) (*entities.User, error) {
	role := constants.RoleSubAdmin
	if err := requireDepartmentForSubAdmin(ctx, s.departmentRepo, role, payload.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, entities.User{
		Email:        payload.Email,
		FullName:     payload.FullName,
		Role:         role,
		DepartmentID: payload.DepartmentID,
		PasswordHash: string(hash),
	})
	if err != nil {
		s.logger.Warn("sign up failed", zap.String("email", payload.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("userID", user.ID), zap.String("email", user.Email))
	s.enrichUser(ctx, user)
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessionRepo.Clear(ctx); err != nil {
		s.logger.Error("clearing session failed", zap.Error(err))
		return err
	}
	s.logger.Info("user signed out")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.enrichUser(ctx, user)
	return user, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	s.enrichUser(ctx, user)

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}

// NotifyState invokes the callback once with the current session state.
// It is a one-shot notification, not a subscription.
func (s *AuthService) NotifyState(ctx context.Context, callback func(AuthState)) {
	user, err := s.sessionRepo.Current(ctx)
	if err != nil {
		s.logger.Warn("reading session failed", zap.Error(err))
	}
	go func() {
		if user != nil {
			callback(AuthState{Event: AuthEventSignedIn, User: user})
			return
		}
		callback(AuthState{Event: AuthEventSignedOut})
	}()
}

func (s *AuthService) enrichUser(ctx context.Context, user *entities.User) {
	if user == nil || user.DepartmentID == nil {
		return
	}
	department, err := s.departmentRepo.FindDepartment(ctx, *user.DepartmentID)
	if err != nil {
		return
	}
	user.Department = department
}
