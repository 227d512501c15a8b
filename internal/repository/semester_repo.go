package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// SemesterRepository defines persistence operations for semesters.
type SemesterRepository interface {
	List(ctx context.Context) ([]models.Semester, error)
	GetByID(ctx context.Context, id uint) (models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
	Update(ctx context.Context, semester *models.Semester) error
	Delete(ctx context.Context, id uint) error
}

type semesterRepository struct {
	db *gorm.DB
}

// NewSemesterRepository instantiates a GORM-backed repository.
func NewSemesterRepository(db *gorm.DB) SemesterRepository {
	return &semesterRepository{db: db}
}

func (r *semesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	var semesters []models.Semester
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&semesters).Error; err != nil {
		return nil, err
	}

	return semesters, nil
}

func (r *semesterRepository) GetByID(ctx context.Context, id uint) (models.Semester, error) {
	var semester models.Semester
	if err := r.db.WithContext(ctx).First(&semester, id).Error; err != nil {
		return models.Semester{}, err
	}

	return semester, nil
}

func (r *semesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepository) Update(ctx context.Context, semester *models.Semester) error {
	return r.db.WithContext(ctx).Save(semester).Error
}

func (r *semesterRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Semester{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
