package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/observability"
	"github.com/noah-isme/academix-go-api/internal/repository"
)

// ErrAlreadySubmitted indicates a grade already exists for the student/quiz pair.
var ErrAlreadySubmitted = errors.New("quiz already submitted")

// ErrDeadlinePassed indicates the quiz due date is in the past.
var ErrDeadlinePassed = errors.New("quiz submission deadline has passed")

// ErrNotEnrolledForQuiz indicates the student's semester does not match the quiz's.
var ErrNotEnrolledForQuiz = errors.New("not assigned to the semester for this quiz")

// ErrGradesForbidden indicates the caller's role may not access the requested grades.
var ErrGradesForbidden = errors.New("role not permitted to access these grades")

// GradingService exposes quiz submission and grade retrieval use cases.
type GradingService interface {
	Submit(ctx context.Context, identity Identity, payload dto.QuizSubmissionRequest) (dto.GradeResponse, error)
	MyGrades(ctx context.Context, identity Identity, quizID uint) ([]dto.GradeResponse, error)
	QuizGrades(ctx context.Context, identity Identity, quizID uint) ([]dto.GradeResponse, error)
}

type gradingService struct {
	grades    repository.GradeRepository
	quizzes   repository.QuizRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradingService builds a new grading service.
func NewGradingService(grades repository.GradeRepository, quizzes repository.QuizRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		grades:    grades,
		quizzes:   quizzes,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "grading_service").Logger(),
		now:       time.Now,
	}
}

// Submit grades the student's answers against the quiz's answer key and
// persists the resulting grade exactly once. Preconditions are checked in a
// fixed order: quiz existence, semester eligibility, deadline, then prior
// submission. The unique index on (student_id, quiz_id) remains the final
// authority when two submissions race past the existence check.
func (s *gradingService) Submit(ctx context.Context, identity Identity, payload dto.QuizSubmissionRequest) (dto.GradeResponse, error) {
	start := s.now()

	if identity.Role != models.RoleStudent {
		return dto.GradeResponse{}, ErrGradesForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		s.observe("validation_failed", start)
		return dto.GradeResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, payload.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.observe("quiz_not_found", start)
			return dto.GradeResponse{}, ErrQuizNotFound
		}
		return dto.GradeResponse{}, err
	}

	student, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.observe("forbidden", start)
			return dto.GradeResponse{}, ErrNotEnrolledForQuiz
		}
		return dto.GradeResponse{}, err
	}

	// Eligibility keys on the student's semester at submission time, not at
	// quiz creation time.
	if !student.IsEnrolled() || *student.SemesterID != quiz.SemesterID {
		s.observe("forbidden", start)
		return dto.GradeResponse{}, ErrNotEnrolledForQuiz
	}

	if quiz.IsPastDue(s.now()) {
		s.observe("deadline_passed", start)
		return dto.GradeResponse{}, ErrDeadlinePassed
	}

	exists, err := s.grades.ExistsForStudentQuiz(ctx, identity.UserID, quiz.ID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if exists {
		s.observe("already_submitted", start)
		return dto.GradeResponse{}, ErrAlreadySubmitted
	}

	score, submittedAnswers := scoreSubmission(quiz.QuestionList(), payload.Answers)

	grade := models.Grade{
		StudentID:        identity.UserID,
		QuizID:           quiz.ID,
		Score:            score,
		TotalQuestions:   len(quiz.QuestionList()),
		SubmittedAnswers: datatypes.NewJSONType(submittedAnswers),
		SubmittedAt:      s.now(),
	}

	if err := s.grades.Create(ctx, &grade); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.observe("already_submitted", start)
			return dto.GradeResponse{}, ErrAlreadySubmitted
		}
		return dto.GradeResponse{}, err
	}

	s.logger.Info().
		Uint("quiz_id", quiz.ID).
		Uint("student_id", identity.UserID).
		Int("score", score).
		Int("total_questions", grade.TotalQuestions).
		Msg("quiz submission graded")
	s.observe("graded", start)

	return dto.NewGradeResponse(grade), nil
}

// MyGrades returns the caller's own grades, most recent first, optionally
// narrowed to one quiz.
func (s *gradingService) MyGrades(ctx context.Context, identity Identity, quizID uint) ([]dto.GradeResponse, error) {
	if identity.Role != models.RoleStudent {
		return nil, ErrGradesForbidden
	}

	grades, err := s.grades.ListByStudent(ctx, identity.UserID, quizID)
	if err != nil {
		return nil, err
	}

	return dto.NewGradeResponseSlice(grades), nil
}

// QuizGrades returns the roster of grades for one quiz in submission order.
// Professors only see rosters for quizzes they created; managers see any.
func (s *gradingService) QuizGrades(ctx context.Context, identity Identity, quizID uint) ([]dto.GradeResponse, error) {
	if identity.Role != models.RoleProfessor && identity.Role != models.RoleManager {
		return nil, ErrGradesForbidden
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	if identity.Role == models.RoleProfessor && quiz.CreatorID != identity.UserID {
		return nil, ErrNotQuizOwner
	}

	grades, err := s.grades.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return dto.NewGradeResponseSlice(grades), nil
}

func (s *gradingService) observe(outcome string, start time.Time) {
	observability.QuizSubmissions().WithLabelValues(outcome).Inc()
	observability.GradingLatency().Observe(s.now().Sub(start).Seconds())
}

// scoreSubmission grades each submitted answer against the quiz's question
// set, keyed by question text. A duplicate question text keeps its last
// definition; an answer to an unknown question text is recorded as incorrect
// but still appears in the answer list. Each distinct question scores at most
// once no matter how often it is answered, keeping the score within the
// question count. The returned list preserves submission order and holds one
// entry per submitted answer.
func scoreSubmission(questions []models.Question, answers []dto.AnswerPayload) (int, []models.SubmittedAnswer) {
	key := make(map[string]models.Question, len(questions))
	for _, question := range questions {
		key[question.Text] = question
	}

	score := 0
	scored := make(map[string]bool, len(questions))
	submitted := make([]models.SubmittedAnswer, 0, len(answers))
	for _, answer := range answers {
		question, found := key[answer.QuestionText]
		correct := found && question.CorrectAnswer == answer.SelectedOption
		if correct && !scored[answer.QuestionText] {
			scored[answer.QuestionText] = true
			score++
		}
		submitted = append(submitted, models.SubmittedAnswer{
			QuestionText:   answer.QuestionText,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      correct,
		})
	}

	return score, submitted
}
