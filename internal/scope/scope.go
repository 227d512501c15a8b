// Package scope computes the effective storage filters a caller is allowed to
// apply to quizzes, courses and announcements. Builders are pure: callers
// resolve identity facts (the student's semester, the professor's course
// allow-list) up front and the builders narrow the requested parameters to
// what that role may see. Any role outside the three known values fails
// closed with ErrInvalidRole.
package scope

import (
	"errors"

	"github.com/noah-isme/academix-go-api/internal/models"
)

// ErrForbidden indicates the caller explicitly asked for records outside
// their permitted scope. This is distinct from an empty scope, which yields
// a query with None set and an empty result.
var ErrForbidden = errors.New("requested filter outside permitted scope")

// ErrInvalidRole indicates the caller's role is not one of the known values.
var ErrInvalidRole = errors.New("invalid role")

// QuizParams are the caller-requested narrowing filters for quiz listings.
type QuizParams struct {
	SemesterID uint
	CourseID   uint
}

// CourseParams are the caller-requested narrowing filters for course listings.
type CourseParams struct {
	SemesterID uint
}

// AnnouncementParams are the caller-requested narrowing filters for
// announcement listings. Mine restricts to the caller's own announcements and
// takes precedence over SemesterID, which takes precedence over AuthorID.
type AnnouncementParams struct {
	Mine       bool
	SemesterID uint
	AuthorID   uint
}

// QuizQuery is the effective quiz filter. A zero field means "no constraint".
// None short-circuits the storage query entirely: the caller has no visible
// records, which must be observably identical to an empty result set.
type QuizQuery struct {
	None       bool
	SemesterID uint
	CourseID   uint
	CourseIDs  []uint
}

// CourseQuery is the effective course filter.
type CourseQuery struct {
	None        bool
	SemesterID  uint
	ProfessorID uint
}

// AnnouncementQuery is the effective announcement filter.
type AnnouncementQuery struct {
	None       bool
	SemesterID uint
	AuthorID   uint
}

// Student scopes every listing to the student's current semester. A zero
// SemesterID means the student has not enrolled yet.
type Student struct {
	SemesterID uint
}

// Professor scopes quiz listings to the courses the professor teaches.
type Professor struct {
	UserID    uint
	CourseIDs []uint
}

// Manager has no forced scope; requested filters pass through unchanged.
type Manager struct{}

// Quizzes pins the listing to the student's semester. An explicitly requested
// semester other than the student's own is rejected, as is a course belonging
// to another semester; requestedCourse must be the resolved course when
// params.CourseID is set, and nil otherwise.
func (s Student) Quizzes(params QuizParams, requestedCourse *models.Course) (QuizQuery, error) {
	if s.SemesterID == 0 {
		return QuizQuery{None: true}, nil
	}
	if params.SemesterID != 0 && params.SemesterID != s.SemesterID {
		return QuizQuery{}, ErrForbidden
	}

	query := QuizQuery{SemesterID: s.SemesterID}
	if requestedCourse != nil {
		if requestedCourse.SemesterID != s.SemesterID {
			return QuizQuery{}, ErrForbidden
		}
		query.CourseID = requestedCourse.ID
	}

	return query, nil
}

// Courses pins the listing to the student's semester.
func (s Student) Courses(params CourseParams) (CourseQuery, error) {
	if s.SemesterID == 0 {
		return CourseQuery{None: true}, nil
	}
	if params.SemesterID != 0 && params.SemesterID != s.SemesterID {
		return CourseQuery{}, ErrForbidden
	}

	return CourseQuery{SemesterID: s.SemesterID}, nil
}

// Announcements pins the listing to the student's semester. Requested
// parameters are ignored rather than rejected: a student never narrows by
// author or foreign semester.
func (s Student) Announcements(AnnouncementParams) (AnnouncementQuery, error) {
	if s.SemesterID == 0 {
		return AnnouncementQuery{None: true}, nil
	}
	return AnnouncementQuery{SemesterID: s.SemesterID}, nil
}

// Quizzes restricts the listing to quizzes of courses the professor teaches.
// An explicitly requested course outside the allow-list is rejected rather
// than silently dropped.
func (p Professor) Quizzes(params QuizParams) (QuizQuery, error) {
	if len(p.CourseIDs) == 0 {
		return QuizQuery{None: true}, nil
	}

	query := QuizQuery{SemesterID: params.SemesterID}
	if params.CourseID != 0 {
		if !containsID(p.CourseIDs, params.CourseID) {
			return QuizQuery{}, ErrForbidden
		}
		query.CourseID = params.CourseID
		return query, nil
	}

	query.CourseIDs = p.CourseIDs
	return query, nil
}

// Courses restricts the listing to courses where the professor appears in the
// professor set.
func (p Professor) Courses(params CourseParams) (CourseQuery, error) {
	return CourseQuery{SemesterID: params.SemesterID, ProfessorID: p.UserID}, nil
}

// Announcements applies the professor narrowing filters in fixed precedence:
// own announcements, then explicit semester, then explicit author.
func (p Professor) Announcements(params AnnouncementParams) (AnnouncementQuery, error) {
	switch {
	case params.Mine:
		return AnnouncementQuery{AuthorID: p.UserID}, nil
	case params.SemesterID != 0:
		return AnnouncementQuery{SemesterID: params.SemesterID}, nil
	case params.AuthorID != 0:
		return AnnouncementQuery{AuthorID: params.AuthorID}, nil
	}
	return AnnouncementQuery{}, nil
}

// Quizzes passes the requested filters through unchanged.
func (Manager) Quizzes(params QuizParams) (QuizQuery, error) {
	return QuizQuery{SemesterID: params.SemesterID, CourseID: params.CourseID}, nil
}

// Courses passes the requested filters through unchanged.
func (Manager) Courses(params CourseParams) (CourseQuery, error) {
	return CourseQuery{SemesterID: params.SemesterID}, nil
}

// Announcements passes the requested filters through unchanged. Both semester
// and author may be combined.
func (Manager) Announcements(params AnnouncementParams) (AnnouncementQuery, error) {
	return AnnouncementQuery{SemesterID: params.SemesterID, AuthorID: params.AuthorID}, nil
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
