package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	List(ctx context.Context, query scope.AnnouncementQuery) ([]models.Announcement, error)
	GetByID(ctx context.Context, id uint) (models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id uint) error
	CountBySemester(ctx context.Context, semesterID uint) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository instantiates a GORM-backed repository.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) List(ctx context.Context, query scope.AnnouncementQuery) ([]models.Announcement, error) {
	if query.None {
		return []models.Announcement{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&models.Announcement{})
	if query.SemesterID != 0 {
		tx = tx.Where("semester_id = ?", query.SemesterID)
	}
	if query.AuthorID != 0 {
		tx = tx.Where("author_id = ?", query.AuthorID)
	}

	var announcements []models.Announcement
	if err := tx.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, err
	}

	return announcements, nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).First(&announcement, id).Error; err != nil {
		return models.Announcement{}, err
	}

	return announcement, nil
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Save(announcement).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *announcementRepository) CountBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("semester_id = ?", semesterID).
		Count(&count).Error
	return count, err
}
