package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/dto"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/repository"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

// ErrAnnouncementNotFound indicates the requested announcement does not exist.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// ErrNotAnnouncementAuthor indicates the caller did not author the announcement.
var ErrNotAnnouncementAuthor = errors.New("not the author of this announcement")

// ErrAnnouncementForbidden indicates the caller's role or scope does not
// permit the operation.
var ErrAnnouncementForbidden = errors.New("announcement operation not permitted")

// AnnouncementService exposes announcement use cases. The student-facing
// semester listing is cached in Redis and invalidated on every write to that
// semester; the cache is optional and its absence is never an error.
type AnnouncementService interface {
	Create(ctx context.Context, identity Identity, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	List(ctx context.Context, identity Identity, params dto.AnnouncementListParams) ([]dto.AnnouncementResponse, error)
	Get(ctx context.Context, identity Identity, id uint) (dto.AnnouncementResponse, error)
	Update(ctx context.Context, identity Identity, id uint, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, identity Identity, id uint) error
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	semesters     repository.SemesterRepository
	users         repository.UserRepository
	cache         *redis.Client
	ttl           time.Duration
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewAnnouncementService builds a new announcement service.
func NewAnnouncementService(announcements repository.AnnouncementRepository, semesters repository.SemesterRepository, users repository.UserRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AnnouncementService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &announcementService{
		announcements: announcements,
		semesters:     semesters,
		users:         users,
		cache:         cache,
		ttl:           ttl,
		validator:     validate,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
	}
}

func (s *announcementService) Create(ctx context.Context, identity Identity, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if identity.Role != models.RoleProfessor && identity.Role != models.RoleManager {
		return dto.AnnouncementResponse{}, ErrAnnouncementForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	if _, err := s.semesters.GetByID(ctx, payload.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrSemesterNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	announcement := models.Announcement{
		Title:      payload.Title,
		Content:    payload.Content,
		AuthorID:   identity.UserID,
		SemesterID: payload.SemesterID,
	}

	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidateSemesterCache(ctx, announcement.SemesterID)
	s.logger.Info().Uint("announcement_id", announcement.ID).Msg("announcement created")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) List(ctx context.Context, identity Identity, params dto.AnnouncementListParams) ([]dto.AnnouncementResponse, error) {
	scopeParams := scope.AnnouncementParams{Mine: params.Mine, SemesterID: params.SemesterID, AuthorID: params.AuthorID}

	var query scope.AnnouncementQuery
	var err error
	cacheable := false
	switch identity.Role {
	case models.RoleStudent:
		student, lookupErr := s.studentScope(ctx, identity.UserID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		query, err = student.Announcements(scopeParams)
		cacheable = !query.None
	case models.RoleProfessor:
		query, err = scope.Professor{UserID: identity.UserID}.Announcements(scopeParams)
	case models.RoleManager:
		query, err = scope.Manager{}.Announcements(scopeParams)
	default:
		return nil, scope.ErrInvalidRole
	}
	if err != nil {
		return nil, err
	}

	if cacheable {
		if cached, ok := s.cachedSemesterList(ctx, query.SemesterID); ok {
			return cached, nil
		}
	}

	announcements, err := s.announcements.List(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := dto.NewAnnouncementResponseSlice(announcements)
	if cacheable {
		s.storeSemesterList(ctx, query.SemesterID, responses)
	}

	return responses, nil
}

// Get applies the student same-semester restriction as a single-record case
// of the listing scope; professors and managers may read any announcement.
func (s *announcementService) Get(ctx context.Context, identity Identity, id uint) (dto.AnnouncementResponse, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	if identity.Role == models.RoleStudent {
		student, err := s.studentScope(ctx, identity.UserID)
		if err != nil {
			return dto.AnnouncementResponse{}, err
		}
		if student.SemesterID == 0 || student.SemesterID != announcement.SemesterID {
			return dto.AnnouncementResponse{}, ErrAnnouncementForbidden
		}
	} else if !identity.Role.Valid() {
		return dto.AnnouncementResponse{}, scope.ErrInvalidRole
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Update(ctx context.Context, identity Identity, id uint, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	if identity.Role != models.RoleManager && announcement.AuthorID != identity.UserID {
		return dto.AnnouncementResponse{}, ErrNotAnnouncementAuthor
	}

	previousSemester := announcement.SemesterID

	if payload.Title != nil {
		announcement.Title = *payload.Title
	}
	if payload.Content != nil {
		announcement.Content = *payload.Content
	}
	if payload.SemesterID != nil {
		if _, err := s.semesters.GetByID(ctx, *payload.SemesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.AnnouncementResponse{}, ErrSemesterNotFound
			}
			return dto.AnnouncementResponse{}, err
		}
		announcement.SemesterID = *payload.SemesterID
	}

	if err := s.announcements.Update(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidateSemesterCache(ctx, previousSemester)
	if announcement.SemesterID != previousSemester {
		s.invalidateSemesterCache(ctx, announcement.SemesterID)
	}
	s.logger.Info().Uint("announcement_id", announcement.ID).Msg("announcement updated")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Delete(ctx context.Context, identity Identity, id uint) error {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	if identity.Role != models.RoleManager && announcement.AuthorID != identity.UserID {
		return ErrNotAnnouncementAuthor
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.invalidateSemesterCache(ctx, announcement.SemesterID)
	s.logger.Info().Uint("announcement_id", id).Msg("announcement deleted")
	return nil
}

func (s *announcementService) studentScope(ctx context.Context, userID uint) (scope.Student, error) {
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

func (s *announcementService) cachedSemesterList(ctx context.Context, semesterID uint) ([]dto.AnnouncementResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, err := s.cache.Get(ctx, semesterCacheKey(semesterID)).Result()
	if err != nil || cached == "" {
		return nil, false
	}

	var responses []dto.AnnouncementResponse
	if err := json.Unmarshal([]byte(cached), &responses); err != nil {
		return nil, false
	}

	return responses, true
}

func (s *announcementService) storeSemesterList(ctx context.Context, semesterID uint, responses []dto.AnnouncementResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(responses)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, semesterCacheKey(semesterID), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache announcements")
	}
}

func (s *announcementService) invalidateSemesterCache(ctx context.Context, semesterID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, semesterCacheKey(semesterID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate announcement cache")
	}
}

func semesterCacheKey(semesterID uint) string {
	return fmt.Sprintf("announcements:semester:v1:%d", semesterID)
}
