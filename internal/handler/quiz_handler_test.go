package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/handler"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/scope"
	"github.com/noah-isme/academix-go-api/internal/service"
)

type mockQuizService struct {
	lastIdentity service.Identity
	lastParams   dto.QuizListParams
	quiz         dto.QuizResponse
	quizzes      []dto.QuizResponse
	err          error
}

func (m *mockQuizService) Create(_ context.Context, identity service.Identity, _ dto.QuizCreateRequest) (dto.QuizResponse, error) {
	m.lastIdentity = identity
	if m.err != nil {
		return dto.QuizResponse{}, m.err
	}
	return m.quiz, nil
}

func (m *mockQuizService) List(_ context.Context, identity service.Identity, params dto.QuizListParams) ([]dto.QuizResponse, error) {
	m.lastIdentity = identity
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	return m.quizzes, nil
}

func (m *mockQuizService) Get(_ context.Context, identity service.Identity, _ uint) (dto.QuizResponse, error) {
	m.lastIdentity = identity
	if m.err != nil {
		return dto.QuizResponse{}, m.err
	}
	return m.quiz, nil
}

func (m *mockQuizService) Update(_ context.Context, identity service.Identity, _ uint, _ dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	m.lastIdentity = identity
	if m.err != nil {
		return dto.QuizResponse{}, m.err
	}
	return m.quiz, nil
}

func (m *mockQuizService) Delete(_ context.Context, identity service.Identity, _ uint) error {
	m.lastIdentity = identity
	return m.err
}

func newQuizApp(svc service.QuizService, role models.Role) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/quizzes", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", string(role))
		return c.Next()
	})
	quizHandler := handler.NewQuizHandler(svc, zerolog.New(io.Discard))
	quizHandler.RegisterRead(group)
	quizHandler.RegisterAuthoring(group)
	return app
}

func quizCreateBody(t *testing.T) *bytes.Reader {
	t.Helper()
	payload := dto.QuizCreateRequest{
		Title:   "Algebra basics",
		DueDate: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		Questions: []dto.QuestionPayload{
			{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		},
		CourseID:   10,
		SemesterID: 5,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestQuizHandler_CreateSuccess(t *testing.T) {
	svc := &mockQuizService{quiz: dto.QuizResponse{ID: 1, Title: "Algebra basics", CourseID: 10}}
	app := newQuizApp(svc, models.RoleProfessor)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes", quizCreateBody(t))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, uint(1), response.Data.ID)
	require.Equal(t, uint(7), svc.lastIdentity.UserID)
	require.Equal(t, models.RoleProfessor, svc.lastIdentity.Role)
}

func TestQuizHandler_CreateErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "unknown course", err: service.ErrCourseNotFound, statusCode: fiber.StatusNotFound},
		{name: "not assigned", err: service.ErrNotCourseProfessor, statusCode: fiber.StatusForbidden},
		{name: "student caller", err: service.ErrQuizForbidden, statusCode: fiber.StatusForbidden},
		{name: "bad answer key", err: service.ErrInvalidQuestion, statusCode: fiber.StatusBadRequest},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newQuizApp(&mockQuizService{err: tc.err}, models.RoleProfessor)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes", quizCreateBody(t))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestQuizHandler_ListForwardsFilters(t *testing.T) {
	svc := &mockQuizService{quizzes: []dto.QuizResponse{{ID: 1}, {ID: 2}}}
	app := newQuizApp(svc, models.RoleManager)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quizzes?semester_id=5&course_id=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, uint(5), svc.lastParams.SemesterID)
	require.Equal(t, uint(10), svc.lastParams.CourseID)

	var response struct {
		Success bool               `json:"success"`
		Data    []dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 2)
}

func TestQuizHandler_ListOutOfScope(t *testing.T) {
	app := newQuizApp(&mockQuizService{err: scope.ErrForbidden}, models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quizzes?semester_id=9", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestQuizHandler_GetNotFound(t *testing.T) {
	app := newQuizApp(&mockQuizService{err: service.ErrQuizNotFound}, models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quizzes/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestQuizHandler_GetInvalidID(t *testing.T) {
	app := newQuizApp(&mockQuizService{}, models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quizzes/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuizHandler_DeleteNotOwner(t *testing.T) {
	app := newQuizApp(&mockQuizService{err: service.ErrNotQuizOwner}, models.RoleProfessor)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/quizzes/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
