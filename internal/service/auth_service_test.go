package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academix-go-api/internal/auth"
	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
)

func newAuthFixture(users ...models.User) (AuthService, *userRepoFake, *courseRepoFake, *tokenRepoFake) {
	userRepo := newUserRepoFake(users...)
	courseRepo := newCourseRepoFake(models.Course{ID: 10, Name: "Math", SemesterID: 5})
	tokenRepo := newTokenRepoFake()
	issuer := auth.NewTokenIssuer("access-secret", "refresh-secret", 0, 0)
	svc := NewAuthService(userRepo, newSemesterRepoFake(models.Semester{ID: 5, Name: "Fall 2026"}), courseRepo, tokenRepo, issuer, testValidator(), testLogger())
	return svc, userRepo, courseRepo, tokenRepo
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterSelfServiceCreatesStudent(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), nil, dto.RegisterRequest{
		Username:   "ada",
		Email:      "Ada@Example.com",
		Password:   "secret1",
		SemesterID: 5,
	})
	require.NoError(t, err)
	require.Equal(t, string(models.RoleStudent), user.Role)
	require.NotNil(t, user.SemesterID)
	require.Equal(t, uint(5), *user.SemesterID)

	stored := userRepo.users[user.ID]
	require.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegisterSelfServiceRejectsElevatedRoles(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), nil, dto.RegisterRequest{
		Username: "mallory",
		Email:    "mallory@example.com",
		Password: "secret1",
		Role:     "manager",
	})
	require.ErrorIs(t, err, ErrRegistrationForbidden)
}

func TestRegisterStudentRequiresSemester(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), nil, dto.RegisterRequest{
		Username: "ada",
		Email:        "ada@example.com",
		Password: "secret1",
	})
	require.ErrorIs(t, err, ErrSemesterRequired)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(models.User{ID: 1, Email: "ada@example.com", Role: models.RoleStudent})

	_, err := svc.Register(context.Background(), nil, dto.RegisterRequest{
		Username:   "ada",
		Email:      "ada@example.com",
		Password:   "secret1",
		SemesterID: 5,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterByManagerCreatesProfessorWithCourses(t *testing.T) {
	svc, _, courseRepo, _ := newAuthFixture()
	manager := Identity{UserID: 1, Role: models.RoleManager}

	user, err := svc.Register(context.Background(), &manager, dto.RegisterRequest{
		Username:  "turing",
		Email:     "turing@example.com",
		Password:  "secret1",
		Role:      "professor",
		CourseIDs: []uint{10},
	})
	require.NoError(t, err)
	require.Equal(t, string(models.RoleProfessor), user.Role)
	require.Nil(t, user.SemesterID)
	require.True(t, courseRepo.courses[10].HasProfessor(user.ID))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture(models.User{
		ID:           42,
		Email:        "ada@example.com",
		PasswordHash: hashFor(t, "secret1"),
		Role:         models.RoleStudent,
	})

	result, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, uint(42), result.User.ID)

	stored, err := tokenRepo.GetByToken(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, uint(42), stored.UserID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(models.User{
		ID:           42,
		Email:        "ada@example.com",
		PasswordHash: hashFor(t, "secret1"),
		Role:         models.RoleStudent,
	})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshExchangesStoredToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(models.User{
		ID:           42,
		Email:        "ada@example.com",
		PasswordHash: hashFor(t, "secret1"),
		Role:         models.RoleStudent,
	})

	session, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: session.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(models.User{
		ID:           42,
		Email:        "ada@example.com",
		PasswordHash: hashFor(t, "secret1"),
		Role:         models.RoleStudent,
	})

	session, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), dto.RefreshRequest{RefreshToken: session.RefreshToken}))

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: session.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: "not-a-jwt"})
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestMeReturnsProfile(t *testing.T) {
	svc, _, _, _ := newAuthFixture(models.User{ID: 42, Username: "ada", Email: "ada@example.com", Role: models.RoleStudent})

	user, err := svc.Me(context.Background(), Identity{UserID: 42, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Equal(t, "ada", user.Username)

	_, err = svc.Me(context.Background(), Identity{UserID: 99, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrUserNotFound)
}
