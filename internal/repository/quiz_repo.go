package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

// QuizRepository defines persistence operations for quizzes.
type QuizRepository interface {
	List(ctx context.Context, query scope.QuizQuery) ([]models.Quiz, error)
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	CountBySemester(ctx context.Context, semesterID uint) (int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates a GORM-backed repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) List(ctx context.Context, query scope.QuizQuery) ([]models.Quiz, error) {
	if query.None {
		return []models.Quiz{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&models.Quiz{})
	if query.SemesterID != 0 {
		tx = tx.Where("semester_id = ?", query.SemesterID)
	}
	if query.CourseID != 0 {
		tx = tx.Where("course_id = ?", query.CourseID)
	} else if len(query.CourseIDs) > 0 {
		tx = tx.Where("course_id IN ?", query.CourseIDs)
	}

	var quizzes []models.Quiz
	if err := tx.Order("due_date ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Save(quiz).Error
}

func (r *quizRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quizRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *quizRepository) CountBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("semester_id = ?", semesterID).
		Count(&count).Error
	return count, err
}
