package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/auth"
	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/repository"
)

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials indicates a failed email/password check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRefreshToken indicates the refresh token is unknown, revoked, or
// failed verification.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ErrUserNotFound indicates the account no longer exists.
var ErrUserNotFound = errors.New("user not found")

// ErrRegistrationForbidden indicates the caller may not create an account
// with the requested role.
var ErrRegistrationForbidden = errors.New("not allowed to create this account")

// ErrSemesterRequired indicates a student account was requested without a
// semester to enroll in.
var ErrSemesterRequired = errors.New("semester is required for student accounts")

// AuthService covers registration, the token lifecycle, and profile lookup.
// Self-registration always yields a student; managers may create accounts of
// any role, including professors pre-assigned to courses.
type AuthService interface {
	Register(ctx context.Context, actor *Identity, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.RefreshResponse, error)
	Logout(ctx context.Context, payload dto.RefreshRequest) error
	Me(ctx context.Context, identity Identity) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	semesters repository.SemesterRepository
	courses   repository.CourseRepository
	tokens    repository.TokenRepository
	issuer    *auth.TokenIssuer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService builds a new auth service.
func NewAuthService(users repository.UserRepository, semesters repository.SemesterRepository, courses repository.CourseRepository, tokens repository.TokenRepository, issuer *auth.TokenIssuer, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		semesters: semesters,
		courses:   courses,
		tokens:    tokens,
		issuer:    issuer,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// Register creates an account. A nil actor means anonymous self-registration,
// which is restricted to students and requires an existing semester.
func (s *authService) Register(ctx context.Context, actor *Identity, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := models.Role(payload.Role)
	if payload.Role == "" {
		role = models.RoleStudent
	}

	managed := actor != nil && actor.Role == models.RoleManager
	if !managed && role != models.RoleStudent {
		return dto.UserResponse{}, ErrRegistrationForbidden
	}

	user := models.User{
		Username: payload.Username,
		Email:    payload.Email,
		Role:     role,
	}

	if role == models.RoleStudent {
		if payload.SemesterID == 0 {
			return dto.UserResponse{}, ErrSemesterRequired
		}
		if _, err := s.semesters.GetByID(ctx, payload.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserResponse{}, ErrSemesterNotFound
			}
			return dto.UserResponse{}, err
		}
		semesterID := payload.SemesterID
		user.SemesterID = &semesterID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	if role == models.RoleProfessor && len(payload.CourseIDs) > 0 {
		if err := s.courses.AddProfessor(ctx, payload.CourseIDs, user); err != nil {
			return dto.UserResponse{}, err
		}
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(role)).Msg("account created")
	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(user.ID, user.Role)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if err := s.tokens.Upsert(ctx, user.ID, refreshToken); err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")
	return dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}

// Refresh exchanges a stored refresh token for a new access token. The token
// must both verify cryptographically and still exist in the store, so a
// logout revokes it even before expiry.
func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.RefreshResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RefreshResponse{}, err
	}

	userID, role, err := s.issuer.VerifyRefreshToken(payload.RefreshToken)
	if err != nil {
		return dto.RefreshResponse{}, ErrInvalidRefreshToken
	}

	record, err := s.tokens.GetByToken(ctx, payload.RefreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RefreshResponse{}, ErrInvalidRefreshToken
		}
		return dto.RefreshResponse{}, err
	}
	if record.UserID != userID {
		return dto.RefreshResponse{}, ErrInvalidRefreshToken
	}

	accessToken, err := s.issuer.IssueAccessToken(userID, role)
	if err != nil {
		return dto.RefreshResponse{}, err
	}

	return dto.RefreshResponse{AccessToken: accessToken}, nil
}

func (s *authService) Logout(ctx context.Context, payload dto.RefreshRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if err := s.tokens.DeleteByToken(ctx, payload.RefreshToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}

	return nil
}

func (s *authService) Me(ctx context.Context, identity Identity) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
