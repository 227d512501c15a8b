package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	List(ctx context.Context, query scope.CourseQuery) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	ListIDsByProfessor(ctx context.Context, professorID uint) ([]uint, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	ReplaceProfessors(ctx context.Context, course *models.Course, professors []models.User) error
	AddProfessor(ctx context.Context, courseIDs []uint, professor models.User) error
	Delete(ctx context.Context, id uint) error
	CountBySemester(ctx context.Context, semesterID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, query scope.CourseQuery) ([]models.Course, error) {
	if query.None {
		return []models.Course{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&models.Course{}).Preload("Professors")
	if query.SemesterID != 0 {
		tx = tx.Where("courses.semester_id = ?", query.SemesterID)
	}
	if query.ProfessorID != 0 {
		tx = tx.Joins("JOIN course_professors ON course_professors.course_id = courses.id").
			Where("course_professors.user_id = ?", query.ProfessorID)
	}

	var courses []models.Course
	if err := tx.Order("courses.name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Professors").First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) ListIDsByProfessor(ctx context.Context, professorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("course_professors").
		Where("user_id = ?", professorID).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit("Professors").Save(course).Error
}

func (r *courseRepository) ReplaceProfessors(ctx context.Context, course *models.Course, professors []models.User) error {
	return r.db.WithContext(ctx).Model(course).Association("Professors").Replace(professors)
}

func (r *courseRepository) AddProfessor(ctx context.Context, courseIDs []uint, professor models.User) error {
	for _, id := range courseIDs {
		course := models.Course{ID: id}
		if err := r.db.WithContext(ctx).Model(&course).Association("Professors").Append(&professor); err != nil {
			return err
		}
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Professors").Delete(&models.Course{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) CountBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("semester_id = ?", semesterID).
		Count(&count).Error
	return count, err
}
