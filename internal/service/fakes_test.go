package service

import (
	"context"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/scope"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func semesterRef(id uint) *uint {
	return &id
}

type userRepoFake struct {
	users map[uint]models.User
}

func newUserRepoFake(users ...models.User) *userRepoFake {
	fake := &userRepoFake{users: make(map[uint]models.User, len(users))}
	for _, user := range users {
		fake.users[user.ID] = user
	}
	return fake
}

func (f *userRepoFake) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *userRepoFake) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *userRepoFake) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == 0 {
		user.ID = uint(len(f.users) + 1)
	}
	f.users[user.ID] = *user
	return nil
}

func (f *userRepoFake) UpdateSemester(ctx context.Context, userID uint, semesterID uint) error {
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.SemesterID = &semesterID
	f.users[userID] = user
	return nil
}

func (f *userRepoFake) CountByIDsWithRole(ctx context.Context, ids []uint, role models.Role) (int64, error) {
	var count int64
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if user, ok := f.users[id]; ok && user.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *userRepoFake) CountStudentsBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Role == models.RoleStudent && user.SemesterID != nil && *user.SemesterID == semesterID {
			count++
		}
	}
	return count, nil
}

type semesterRepoFake struct {
	semesters map[uint]models.Semester
	nextID    uint
}

func newSemesterRepoFake(semesters ...models.Semester) *semesterRepoFake {
	fake := &semesterRepoFake{semesters: make(map[uint]models.Semester, len(semesters))}
	for _, semester := range semesters {
		fake.semesters[semester.ID] = semester
		if semester.ID > fake.nextID {
			fake.nextID = semester.ID
		}
	}
	return fake
}

func (f *semesterRepoFake) List(ctx context.Context) ([]models.Semester, error) {
	result := make([]models.Semester, 0, len(f.semesters))
	for _, semester := range f.semesters {
		result = append(result, semester)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *semesterRepoFake) GetByID(ctx context.Context, id uint) (models.Semester, error) {
	semester, ok := f.semesters[id]
	if !ok {
		return models.Semester{}, gorm.ErrRecordNotFound
	}
	return semester, nil
}

func (f *semesterRepoFake) Create(ctx context.Context, semester *models.Semester) error {
	for _, existing := range f.semesters {
		if existing.Name == semester.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	semester.ID = f.nextID
	f.semesters[semester.ID] = *semester
	return nil
}

func (f *semesterRepoFake) Update(ctx context.Context, semester *models.Semester) error {
	for _, existing := range f.semesters {
		if existing.Name == semester.Name && existing.ID != semester.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.semesters[semester.ID] = *semester
	return nil
}

func (f *semesterRepoFake) Delete(ctx context.Context, id uint) error {
	if _, ok := f.semesters[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.semesters, id)
	return nil
}

type courseRepoFake struct {
	courses map[uint]models.Course
	nextID  uint
}

func newCourseRepoFake(courses ...models.Course) *courseRepoFake {
	fake := &courseRepoFake{courses: make(map[uint]models.Course, len(courses))}
	for _, course := range courses {
		fake.courses[course.ID] = course
		if course.ID > fake.nextID {
			fake.nextID = course.ID
		}
	}
	return fake
}

func (f *courseRepoFake) List(ctx context.Context, query scope.CourseQuery) ([]models.Course, error) {
	if query.None {
		return []models.Course{}, nil
	}

	result := make([]models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		if query.SemesterID != 0 && course.SemesterID != query.SemesterID {
			continue
		}
		if query.ProfessorID != 0 && !course.HasProfessor(query.ProfessorID) {
			continue
		}
		result = append(result, course)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *courseRepoFake) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *courseRepoFake) ListIDsByProfessor(ctx context.Context, professorID uint) ([]uint, error) {
	ids := make([]uint, 0)
	for _, course := range f.courses {
		if course.HasProfessor(professorID) {
			ids = append(ids, course.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *courseRepoFake) Create(ctx context.Context, course *models.Course) error {
	f.nextID++
	course.ID = f.nextID
	f.courses[course.ID] = *course
	return nil
}

func (f *courseRepoFake) Update(ctx context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.courses[course.ID] = *course
	return nil
}

func (f *courseRepoFake) ReplaceProfessors(ctx context.Context, course *models.Course, professors []models.User) error {
	stored, ok := f.courses[course.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Professors = professors
	f.courses[course.ID] = stored
	course.Professors = professors
	return nil
}

func (f *courseRepoFake) AddProfessor(ctx context.Context, courseIDs []uint, professor models.User) error {
	for _, id := range courseIDs {
		course, ok := f.courses[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		course.Professors = append(course.Professors, professor)
		f.courses[id] = course
	}
	return nil
}

func (f *courseRepoFake) Delete(ctx context.Context, id uint) error {
	if _, ok := f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *courseRepoFake) CountBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	for _, course := range f.courses {
		if course.SemesterID == semesterID {
			count++
		}
	}
	return count, nil
}

type quizRepoFake struct {
	quizzes map[uint]models.Quiz
	nextID  uint
}

func newQuizRepoFake(quizzes ...models.Quiz) *quizRepoFake {
	fake := &quizRepoFake{quizzes: make(map[uint]models.Quiz, len(quizzes))}
	for _, quiz := range quizzes {
		fake.quizzes[quiz.ID] = quiz
		if quiz.ID > fake.nextID {
			fake.nextID = quiz.ID
		}
	}
	return fake
}

func (f *quizRepoFake) List(ctx context.Context, query scope.QuizQuery) ([]models.Quiz, error) {
	if query.None {
		return []models.Quiz{}, nil
	}

	allowed := make(map[uint]struct{}, len(query.CourseIDs))
	for _, id := range query.CourseIDs {
		allowed[id] = struct{}{}
	}

	result := make([]models.Quiz, 0, len(f.quizzes))
	for _, quiz := range f.quizzes {
		if query.SemesterID != 0 && quiz.SemesterID != query.SemesterID {
			continue
		}
		if query.CourseID != 0 && quiz.CourseID != query.CourseID {
			continue
		}
		if len(query.CourseIDs) > 0 {
			if _, ok := allowed[quiz.CourseID]; !ok {
				continue
			}
		}
		result = append(result, quiz)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

func (f *quizRepoFake) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (f *quizRepoFake) Create(ctx context.Context, quiz *models.Quiz) error {
	f.nextID++
	quiz.ID = f.nextID
	f.quizzes[quiz.ID] = *quiz
	return nil
}

func (f *quizRepoFake) Update(ctx context.Context, quiz *models.Quiz) error {
	if _, ok := f.quizzes[quiz.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.quizzes[quiz.ID] = *quiz
	return nil
}

func (f *quizRepoFake) Delete(ctx context.Context, id uint) error {
	if _, ok := f.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.quizzes, id)
	return nil
}

func (f *quizRepoFake) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	for _, quiz := range f.quizzes {
		if quiz.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (f *quizRepoFake) CountBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	for _, quiz := range f.quizzes {
		if quiz.SemesterID == semesterID {
			count++
		}
	}
	return count, nil
}

type gradeRepoFake struct {
	grades []models.Grade
	nextID uint
}

func newGradeRepoFake(grades ...models.Grade) *gradeRepoFake {
	fake := &gradeRepoFake{grades: grades}
	for _, grade := range grades {
		if grade.ID > fake.nextID {
			fake.nextID = grade.ID
		}
	}
	return fake
}

func (f *gradeRepoFake) Create(ctx context.Context, grade *models.Grade) error {
	for _, existing := range f.grades {
		if existing.StudentID == grade.StudentID && existing.QuizID == grade.QuizID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	grade.ID = f.nextID
	f.grades = append(f.grades, *grade)
	return nil
}

func (f *gradeRepoFake) ExistsForStudentQuiz(ctx context.Context, studentID, quizID uint) (bool, error) {
	for _, grade := range f.grades {
		if grade.StudentID == studentID && grade.QuizID == quizID {
			return true, nil
		}
	}
	return false, nil
}

func (f *gradeRepoFake) ListByStudent(ctx context.Context, studentID uint, quizID uint) ([]models.Grade, error) {
	result := make([]models.Grade, 0)
	for _, grade := range f.grades {
		if grade.StudentID != studentID {
			continue
		}
		if quizID != 0 && grade.QuizID != quizID {
			continue
		}
		result = append(result, grade)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	return result, nil
}

func (f *gradeRepoFake) ListByQuiz(ctx context.Context, quizID uint) ([]models.Grade, error) {
	result := make([]models.Grade, 0)
	for _, grade := range f.grades {
		if grade.QuizID == quizID {
			result = append(result, grade)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.Before(result[j].SubmittedAt) })
	return result, nil
}

type announcementRepoFake struct {
	announcements map[uint]models.Announcement
	nextID        uint
	listCalls     int
}

func newAnnouncementRepoFake(announcements ...models.Announcement) *announcementRepoFake {
	fake := &announcementRepoFake{announcements: make(map[uint]models.Announcement, len(announcements))}
	for _, announcement := range announcements {
		fake.announcements[announcement.ID] = announcement
		if announcement.ID > fake.nextID {
			fake.nextID = announcement.ID
		}
	}
	return fake
}

func (f *announcementRepoFake) List(ctx context.Context, query scope.AnnouncementQuery) ([]models.Announcement, error) {
	f.listCalls++
	if query.None {
		return []models.Announcement{}, nil
	}

	result := make([]models.Announcement, 0, len(f.announcements))
	for _, announcement := range f.announcements {
		if query.SemesterID != 0 && announcement.SemesterID != query.SemesterID {
			continue
		}
		if query.AuthorID != 0 && announcement.AuthorID != query.AuthorID {
			continue
		}
		result = append(result, announcement)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *announcementRepoFake) GetByID(ctx context.Context, id uint) (models.Announcement, error) {
	announcement, ok := f.announcements[id]
	if !ok {
		return models.Announcement{}, gorm.ErrRecordNotFound
	}
	return announcement, nil
}

func (f *announcementRepoFake) Create(ctx context.Context, announcement *models.Announcement) error {
	f.nextID++
	announcement.ID = f.nextID
	f.announcements[announcement.ID] = *announcement
	return nil
}

func (f *announcementRepoFake) Update(ctx context.Context, announcement *models.Announcement) error {
	if _, ok := f.announcements[announcement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.announcements[announcement.ID] = *announcement
	return nil
}

func (f *announcementRepoFake) Delete(ctx context.Context, id uint) error {
	if _, ok := f.announcements[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.announcements, id)
	return nil
}

func (f *announcementRepoFake) CountBySemester(ctx context.Context, semesterID uint) (int64, error) {
	var count int64
	for _, announcement := range f.announcements {
		if announcement.SemesterID == semesterID {
			count++
		}
	}
	return count, nil
}

type tokenRepoFake struct {
	tokens map[string]models.RefreshToken
}

func newTokenRepoFake() *tokenRepoFake {
	return &tokenRepoFake{tokens: make(map[string]models.RefreshToken)}
}

func (f *tokenRepoFake) Upsert(ctx context.Context, userID uint, token string) error {
	for existing, record := range f.tokens {
		if record.UserID == userID {
			delete(f.tokens, existing)
		}
	}
	f.tokens[token] = models.RefreshToken{UserID: userID, Token: token}
	return nil
}

func (f *tokenRepoFake) GetByToken(ctx context.Context, token string) (models.RefreshToken, error) {
	record, ok := f.tokens[token]
	if !ok {
		return models.RefreshToken{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (f *tokenRepoFake) DeleteByToken(ctx context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.tokens, token)
	return nil
}
