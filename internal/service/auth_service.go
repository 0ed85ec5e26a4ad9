package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/metrics"
	"github.com/WandevPB/brisagenda-backend/internal/middleware"
	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/repository"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned on a failed login; the handler maps it
// to 401 without revealing whether the username exists.
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	tokenTTL          = 24 * time.Hour
	maxLoginFailures  = 5
	loginLockDuration = 15 * time.Minute
)

// DTOs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token              string `json:"token"`
	Username           string `json:"username"`
	Role               string `json:"role"`
	CentroDistribuicao string `json:"centro_distribuicao"`
	MustChangePassword bool   `json:"must_change_password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type CreateUserRequest struct {
	Username           string `json:"username" binding:"required"`
	Password           string `json:"password" binding:"required,min=6"`
	Role               string `json:"role" binding:"required"`
	CentroDistribuicao string `json:"centro_distribuicao"`
}

// UserResponse omits the password hash.
type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	CentroDistribuicao string    `json:"centro_distribuicao"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
}

// AuthService defines the interface for account and credential management
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
}

type authService struct {
	repo    repository.UserRepository
	limiter *loginLimiter
	now     func() time.Time
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo, limiter: newLoginLimiter(), now: time.Now}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if locked, until := s.limiter.locked(req.Username, s.now()); locked {
		return nil, apperror.Forbidden("too many failed login attempts, try again after " + until.Format("15:04:05"))
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.fail(req.Username)
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal("failed to fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.fail(req.Username)
		return nil, ErrInvalidCredentials
	}
	s.limiter.reset(req.Username)

	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"centro":   user.CentroDistribuicao,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, apperror.Internal("failed to generate token", err)
	}

	return &LoginResponse{
		Token:              signed,
		Username:           user.Username,
		Role:               user.Role,
		CentroDistribuicao: user.CentroDistribuicao,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *authService) fail(username string) {
	s.limiter.recordFailure(username, s.now())
	metrics.LoginFailuresTotal.Inc()
	log.Warn().Str("username", username).Msg("failed login attempt")
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error {
	id, err := uuid.Parse(actor.ID)
	if err != nil {
		return apperror.NotFound("user not found")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return apperror.Internal("failed to fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperror.Validation("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	user.Password = string(hash)
	user.MustChangePassword = false

	if err := s.repo.Update(ctx, user); err != nil {
		return apperror.Internal("failed to update password", err)
	}
	log.Info().Str("username", user.Username).Msg("password changed")
	return nil
}

// ResetPassword sets a new password for the target account and forces a
// change on next login. Admin only; gated at the route.
func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return apperror.Internal("failed to fetch user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	user.Password = string(hash)
	user.MustChangePassword = true

	if err := s.repo.Update(ctx, user); err != nil {
		return apperror.Internal("failed to reset password", err)
	}
	s.limiter.reset(req.Username)
	log.Info().Str("username", user.Username).Msg("password reset")
	return nil
}

func (s *authService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if !model.IsValidRole(req.Role) {
		return nil, apperror.Validation("invalid role: must be admin, institution or consultivo")
	}
	center := req.CentroDistribuicao
	if req.Role == model.RoleInstitution {
		if !model.IsValidCenter(center) {
			return nil, apperror.Validation("institution accounts require a valid distribution center")
		}
	} else {
		center = model.CenterAll
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperror.Validation("username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &model.User{
		Username:           req.Username,
		Password:           string(hash),
		Role:               req.Role,
		CentroDistribuicao: center,
		MustChangePassword: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperror.Internal("failed to create user", err)
	}
	resp := mapUserResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, mapUserResponse(&users[i]))
	}
	return responses, nil
}

func mapUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role,
		CentroDistribuicao: u.CentroDistribuicao,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
	}
}

// loginLimiter throttles failed logins per identity instead of keeping a
// process-wide counter, so one noisy caller cannot lock everyone out.
type loginLimiter struct {
	attempts sync.Map // username -> loginAttempts
}

type loginAttempts struct {
	failures    int
	lockedUntil time.Time
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{}
}

func (l *loginLimiter) locked(username string, now time.Time) (bool, time.Time) {
	if entry, ok := l.attempts.Load(username); ok {
		a := entry.(loginAttempts)
		if now.Before(a.lockedUntil) {
			return true, a.lockedUntil
		}
	}
	return false, time.Time{}
}

func (l *loginLimiter) recordFailure(username string, now time.Time) {
	a := loginAttempts{}
	if entry, ok := l.attempts.Load(username); ok {
		a = entry.(loginAttempts)
	}
	a.failures++
	if a.failures >= maxLoginFailures {
		a.lockedUntil = now.Add(loginLockDuration)
		a.failures = 0
	}
	l.attempts.Store(username, a)
}

func (l *loginLimiter) reset(username string) {
	l.attempts.Delete(username)
}
