package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// TokenRepository defines persistence operations for refresh tokens. Upsert
// replaces the user's single active token on re-login rather than appending.
type TokenRepository interface {
	Upsert(ctx context.Context, userID uint, token string) error
	GetByToken(ctx context.Context, token string) (models.RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository instantiates a GORM-backed repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Upsert(ctx context.Context, userID uint, token string) error {
	record := models.RefreshToken{UserID: userID, Token: token}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
		}).
		Create(&record).Error
}

func (r *tokenRepository) GetByToken(ctx context.Context, token string) (models.RefreshToken, error) {
	var record models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		return models.RefreshToken{}, err
	}

	return record, nil
}

func (r *tokenRepository) DeleteByToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
