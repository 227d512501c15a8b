package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/repository"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

// ErrQuizNotFound indicates the requested quiz does not exist.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrNotCourseProfessor indicates the professor is not assigned to the target course.
var ErrNotCourseProfessor = errors.New("not assigned to this course")

// ErrNotQuizOwner indicates the caller did not create the quiz.
var ErrNotQuizOwner = errors.New("not the creator of this quiz")

// ErrQuizForbidden indicates the caller's role or scope does not permit the operation.
var ErrQuizForbidden = errors.New("quiz operation not permitted")

// ErrInvalidQuestion indicates a question violates the authoring invariants.
// A single invalid question rejects the entire submitted set.
var ErrInvalidQuestion = errors.New("invalid question")

// QuizService exposes quiz authoring and read use cases.
type QuizService interface {
	Create(ctx context.Context, identity Identity, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	List(ctx context.Context, identity Identity, params dto.QuizListParams) ([]dto.QuizResponse, error)
	Get(ctx context.Context, identity Identity, id uint) (dto.QuizResponse, error)
	Update(ctx context.Context, identity Identity, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, identity Identity, id uint) error
}

type quizService struct {
	quizzes   repository.QuizRepository
	courses   repository.CourseRepository
	semesters repository.SemesterRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuizService builds a new quiz service.
func NewQuizService(quizzes repository.QuizRepository, courses repository.CourseRepository, semesters repository.SemesterRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		courses:   courses,
		semesters: semesters,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		now:       time.Now,
	}
}

func (s *quizService) Create(ctx context.Context, identity Identity, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if identity.Role != models.RoleProfessor && identity.Role != models.RoleManager {
		return dto.QuizResponse{}, ErrQuizForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	dueDate, err := dto.ParseDueDate(payload.DueDate)
	if err != nil {
		return dto.QuizResponse{}, fmt.Errorf("invalid due date: %w", err)
	}

	if err := validateQuestions(payload.Questions); err != nil {
		return dto.QuizResponse{}, err
	}

	if _, err := s.semesters.GetByID(ctx, payload.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrSemesterNotFound
		}
		return dto.QuizResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrCourseNotFound
		}
		return dto.QuizResponse{}, err
	}

	if identity.Role == models.RoleProfessor && !course.HasProfessor(identity.UserID) {
		return dto.QuizResponse{}, ErrNotCourseProfessor
	}

	quiz := models.Quiz{
		Title:      payload.Title,
		DueDate:    dueDate,
		Questions:  datatypes.NewJSONType(toQuestions(payload.Questions)),
		CourseID:   payload.CourseID,
		SemesterID: payload.SemesterID,
		CreatorID:  identity.UserID,
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("course_id", quiz.CourseID).Msg("quiz created")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) List(ctx context.Context, identity Identity, params dto.QuizListParams) ([]dto.QuizResponse, error) {
	scopeParams := scope.QuizParams{SemesterID: params.SemesterID, CourseID: params.CourseID}

	var query scope.QuizQuery
	var err error
	switch identity.Role {
	case models.RoleStudent:
		student, lookupErr := s.studentScope(ctx, identity.UserID)
		if lookupErr != nil {
			return nil, lookupErr
		}

		var requestedCourse *models.Course
		if params.CourseID != 0 && student.SemesterID != 0 {
			course, courseErr := s.courses.GetByID(ctx, params.CourseID)
			if courseErr != nil {
				if errors.Is(courseErr, gorm.ErrRecordNotFound) {
					return nil, ErrCourseNotFound
				}
				return nil, courseErr
			}
			requestedCourse = &course
		}

		query, err = student.Quizzes(scopeParams, requestedCourse)
	case models.RoleProfessor:
		courseIDs, lookupErr := s.courses.ListIDsByProfessor(ctx, identity.UserID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		query, err = scope.Professor{UserID: identity.UserID, CourseIDs: courseIDs}.Quizzes(scopeParams)
	case models.RoleManager:
		query, err = scope.Manager{}.Quizzes(scopeParams)
	default:
		return nil, scope.ErrInvalidRole
	}
	if err != nil {
		return nil, err
	}

	quizzes, err := s.quizzes.List(ctx, query)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizResponseSlice(quizzes), nil
}

// Get applies the same visibility rules as List to a single record: a
// student must share the quiz's semester, a professor must be its creator,
// a manager sees everything.
func (s *quizService) Get(ctx context.Context, identity Identity, id uint) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	switch identity.Role {
	case models.RoleStudent:
		student, err := s.studentScope(ctx, identity.UserID)
		if err != nil {
			return dto.QuizResponse{}, err
		}
		if student.SemesterID == 0 || student.SemesterID != quiz.SemesterID {
			return dto.QuizResponse{}, ErrQuizForbidden
		}
	case models.RoleProfessor:
		if quiz.CreatorID != identity.UserID {
			return dto.QuizResponse{}, ErrNotQuizOwner
		}
	case models.RoleManager:
	default:
		return dto.QuizResponse{}, scope.ErrInvalidRole
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, identity Identity, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, quiz.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrCourseNotFound
		}
		return dto.QuizResponse{}, err
	}

	if identity.Role != models.RoleManager && quiz.CreatorID != identity.UserID {
		return dto.QuizResponse{}, ErrNotQuizOwner
	}

	if payload.Title != nil {
		quiz.Title = *payload.Title
	}

	if payload.DueDate != nil {
		dueDate, err := dto.ParseDueDate(*payload.DueDate)
		if err != nil {
			return dto.QuizResponse{}, fmt.Errorf("invalid due date: %w", err)
		}
		quiz.DueDate = dueDate
	}

	if payload.Questions != nil {
		if err := validateQuestions(payload.Questions); err != nil {
			return dto.QuizResponse{}, err
		}
		quiz.Questions = datatypes.NewJSONType(toQuestions(payload.Questions))
	}

	// Moving a quiz only verifies the new references exist; the creator's
	// link to the new course is intentionally not re-checked.
	if payload.CourseID != nil {
		if _, err := s.courses.GetByID(ctx, *payload.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.QuizResponse{}, ErrCourseNotFound
			}
			return dto.QuizResponse{}, err
		}
		quiz.CourseID = *payload.CourseID
	}

	if payload.SemesterID != nil {
		if _, err := s.semesters.GetByID(ctx, *payload.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.QuizResponse{}, ErrSemesterNotFound
			}
			return dto.QuizResponse{}, err
		}
		quiz.SemesterID = *payload.SemesterID
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz updated")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Delete(ctx context.Context, identity Identity, id uint) error {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	if identity.Role != models.RoleManager && quiz.CreatorID != identity.UserID {
		return ErrNotQuizOwner
	}

	if err := s.quizzes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted")
	return nil
}

// studentScope resolves the student's current semester. A missing account or
// missing enrollment yields an empty scope rather than an error.
func (s *quizService) studentScope(ctx context.Context, userID uint) (scope.Student, error) {
	student, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scope.Student{}, nil
		}
		return scope.Student{}, err
	}
	if !student.IsEnrolled() {
		return scope.Student{}, nil
	}
	return scope.Student{SemesterID: *student.SemesterID}, nil
}

// validateQuestions enforces the authoring invariants: at least two distinct
// options per question and a correct answer drawn from them. One violation
// rejects the whole set.
func validateQuestions(questions []dto.QuestionPayload) error {
	for _, question := range questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("%w: question %q needs at least two options", ErrInvalidQuestion, question.Text)
		}

		seen := make(map[string]struct{}, len(question.Options))
		for _, option := range question.Options {
			if _, duplicate := seen[option]; duplicate {
				return fmt.Errorf("%w: question %q has duplicate option %q", ErrInvalidQuestion, question.Text, option)
			}
			seen[option] = struct{}{}
		}

		if _, ok := seen[question.CorrectAnswer]; !ok {
			return fmt.Errorf("%w: correct answer %q for question %q must be one of the options", ErrInvalidQuestion, question.CorrectAnswer, question.Text)
		}
	}

	return nil
}

func toQuestions(payloads []dto.QuestionPayload) []models.Question {
	questions := make([]models.Question, 0, len(payloads))
	for _, payload := range payloads {
		questions = append(questions, models.Question{
			Text:          payload.Text,
			Options:       payload.Options,
			CorrectAnswer: payload.CorrectAnswer,
		})
	}

	return questions
}
