package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

func validQuizPayload() dto.QuizCreateRequest {
	return dto.QuizCreateRequest{
		Title:      "Algebra Basics",
		DueDate:    time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		CourseID:   10,
		SemesterID: 5,
		Questions: []dto.QuestionPayload{
			{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		},
	}
}

func newQuizFixture(users ...models.User) (QuizService, *quizRepoFake) {
	professor := models.User{ID: 7, Role: models.RoleProfessor}
	course := models.Course{ID: 10, Name: "Math", SemesterID: 5, Professors: []models.User{professor}}
	semester := models.Semester{ID: 5, Name: "Fall 2026"}

	quizRepo := newQuizRepoFake()
	svc := NewQuizService(
		quizRepo,
		newCourseRepoFake(course),
		newSemesterRepoFake(semester),
		newUserRepoFake(users...),
		testValidator(),
		testLogger(),
	)
	return svc, quizRepo
}

func TestQuizCreateByAssignedProfessor(t *testing.T) {
	svc, _ := newQuizFixture()

	quiz, err := svc.Create(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, validQuizPayload())
	require.NoError(t, err)
	require.Equal(t, uint(7), quiz.CreatorID)
	require.Len(t, quiz.Questions, 1)
}

func TestQuizCreateRejectsUnassignedProfessor(t *testing.T) {
	svc, _ := newQuizFixture()

	_, err := svc.Create(context.Background(), Identity{UserID: 8, Role: models.RoleProfessor}, validQuizPayload())
	require.ErrorIs(t, err, ErrNotCourseProfessor)
}

func TestQuizCreateManagerBypassesCourseAssignment(t *testing.T) {
	svc, _ := newQuizFixture()

	_, err := svc.Create(context.Background(), Identity{UserID: 1, Role: models.RoleManager}, validQuizPayload())
	require.NoError(t, err)
}

func TestQuizCreateRejectsStudents(t *testing.T) {
	svc, _ := newQuizFixture()

	_, err := svc.Create(context.Background(), Identity{UserID: 42, Role: models.RoleStudent}, validQuizPayload())
	require.ErrorIs(t, err, ErrQuizForbidden)
}

func TestQuizCreateRejectsInvalidQuestionSet(t *testing.T) {
	svc, repo := newQuizFixture()

	payload := validQuizPayload()
	payload.Questions = []dto.QuestionPayload{
		{Text: "fine", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{Text: "broken", Options: []string{"a", "b"}, CorrectAnswer: "c"},
	}

	_, err := svc.Create(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, payload)
	require.ErrorIs(t, err, ErrInvalidQuestion)
	// One bad question rejects the whole quiz.
	require.Empty(t, repo.quizzes)
}

func TestQuizCreateRejectsDuplicateOptions(t *testing.T) {
	svc, _ := newQuizFixture()

	payload := validQuizPayload()
	payload.Questions = []dto.QuestionPayload{
		{Text: "dup", Options: []string{"a", "a"}, CorrectAnswer: "a"},
	}

	_, err := svc.Create(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, payload)
	require.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestQuizCreateUnknownCourse(t *testing.T) {
	svc, _ := newQuizFixture()

	payload := validQuizPayload()
	payload.CourseID = 99

	_, err := svc.Create(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, payload)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestQuizListPinsStudentsToTheirSemester(t *testing.T) {
	student := models.User{ID: 42, Role: models.RoleStudent, SemesterID: semesterRef(5)}
	svc, repo := newQuizFixture(student)
	repo.quizzes[1] = models.Quiz{ID: 1, SemesterID: 5, CourseID: 10, DueDate: time.Now()}
	repo.quizzes[2] = models.Quiz{ID: 2, SemesterID: 9, CourseID: 20, DueDate: time.Now()}

	quizzes, err := svc.List(context.Background(), Identity{UserID: 42, Role: models.RoleStudent}, dto.QuizListParams{})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	require.Equal(t, uint(5), quizzes[0].SemesterID)
}

func TestQuizListRejectsForeignSemesterRequest(t *testing.T) {
	student := models.User{ID: 42, Role: models.RoleStudent, SemesterID: semesterRef(5)}
	svc, _ := newQuizFixture(student)

	_, err := svc.List(context.Background(), Identity{UserID: 42, Role: models.RoleStudent}, dto.QuizListParams{SemesterID: 9})
	require.ErrorIs(t, err, scope.ErrForbidden)
}

func TestQuizListUnenrolledStudentSeesNothing(t *testing.T) {
	student := models.User{ID: 42, Role: models.RoleStudent}
	svc, repo := newQuizFixture(student)
	repo.quizzes[1] = models.Quiz{ID: 1, SemesterID: 5, CourseID: 10, DueDate: time.Now()}

	quizzes, err := svc.List(context.Background(), Identity{UserID: 42, Role: models.RoleStudent}, dto.QuizListParams{})
	require.NoError(t, err)
	require.Empty(t, quizzes)
}

func TestQuizListLimitsProfessorsToTheirCourses(t *testing.T) {
	svc, repo := newQuizFixture()
	repo.quizzes[1] = models.Quiz{ID: 1, SemesterID: 5, CourseID: 10, DueDate: time.Now()}
	repo.quizzes[2] = models.Quiz{ID: 2, SemesterID: 5, CourseID: 20, DueDate: time.Now()}

	quizzes, err := svc.List(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, dto.QuizListParams{})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	require.Equal(t, uint(10), quizzes[0].CourseID)
}

func TestQuizListRejectsProfessorOutsideAllowList(t *testing.T) {
	svc, _ := newQuizFixture()

	_, err := svc.List(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, dto.QuizListParams{CourseID: 20})
	require.ErrorIs(t, err, scope.ErrForbidden)
}

func TestQuizListManagerSeesEverything(t *testing.T) {
	svc, repo := newQuizFixture()
	repo.quizzes[1] = models.Quiz{ID: 1, SemesterID: 5, CourseID: 10, DueDate: time.Now()}
	repo.quizzes[2] = models.Quiz{ID: 2, SemesterID: 9, CourseID: 20, DueDate: time.Now()}

	quizzes, err := svc.List(context.Background(), Identity{UserID: 1, Role: models.RoleManager}, dto.QuizListParams{})
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
}

func TestQuizGetEnforcesVisibility(t *testing.T) {
	student := models.User{ID: 42, Role: models.RoleStudent, SemesterID: semesterRef(9)}
	svc, repo := newQuizFixture(student)
	repo.quizzes[1] = models.Quiz{ID: 1, SemesterID: 5, CourseID: 10, CreatorID: 7, DueDate: time.Now()}

	_, err := svc.Get(context.Background(), Identity{UserID: 42, Role: models.RoleStudent}, 1)
	require.ErrorIs(t, err, ErrQuizForbidden)

	_, err = svc.Get(context.Background(), Identity{UserID: 8, Role: models.RoleProfessor}, 1)
	require.ErrorIs(t, err, ErrNotQuizOwner)

	_, err = svc.Get(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, 1)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), Identity{UserID: 1, Role: models.RoleManager}, 1)
	require.NoError(t, err)
}

func TestQuizUpdateOnlyByCreatorOrManager(t *testing.T) {
	svc, repo := newQuizFixture()
	repo.quizzes[1] = models.Quiz{ID: 1, Title: "Old", SemesterID: 5, CourseID: 10, CreatorID: 7, DueDate: time.Now()}

	title := "New"
	_, err := svc.Update(context.Background(), Identity{UserID: 8, Role: models.RoleProfessor}, 1, dto.QuizUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotQuizOwner)

	updated, err := svc.Update(context.Background(), Identity{UserID: 1, Role: models.RoleManager}, 1, dto.QuizUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
}

func TestQuizDeleteOnlyByCreator(t *testing.T) {
	svc, repo := newQuizFixture()
	repo.quizzes[1] = models.Quiz{ID: 1, SemesterID: 5, CourseID: 10, CreatorID: 7, DueDate: time.Now()}

	err := svc.Delete(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, 1)
	require.NoError(t, err)
	require.Empty(t, repo.quizzes)

	err = svc.Delete(context.Background(), Identity{UserID: 7, Role: models.RoleProfessor}, 1)
	require.ErrorIs(t, err, ErrQuizNotFound)
}
