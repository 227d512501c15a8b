package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// GradeRepository defines persistence operations for grades. Create relies on
// the composite unique index on (student_id, quiz_id): a concurrent duplicate
// submission surfaces as gorm.ErrDuplicatedKey, never as a second row.
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	ExistsForStudentQuiz(ctx context.Context, studentID, quizID uint) (bool, error)
	ListByStudent(ctx context.Context, studentID uint, quizID uint) ([]models.Grade, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]models.Grade, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates a GORM-backed repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepository) ExistsForStudentQuiz(ctx context.Context, studentID, quizID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *gradeRepository) ListByStudent(ctx context.Context, studentID uint, quizID uint) ([]models.Grade, error) {
	tx := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if quizID != 0 {
		tx = tx.Where("quiz_id = ?", quizID)
	}

	// Self view is most-recent-first; the roster view below is the opposite.
	var grades []models.Grade
	if err := tx.Order("submitted_at DESC").Find(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *gradeRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.Grade, error) {
	var grades []models.Grade
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("submitted_at ASC").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}

	return grades, nil
}
