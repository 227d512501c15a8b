package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/academix-go-api/internal/config"
	"github.com/noah-isme/academix-go-api/internal/handler"
	"github.com/noah-isme/academix-go-api/internal/middleware"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	EnrollmentHandler   *handler.EnrollmentHandler
	SemesterHandler     *handler.SemesterHandler
	CourseHandler       *handler.CourseHandler
	QuizHandler         *handler.QuizHandler
	GradeHandler        *handler.GradeHandler
	AnnouncementHandler *handler.AnnouncementHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	studentOnly := middleware.RequireRole(string(models.RoleStudent))
	staffOnly := middleware.RequireRole(string(models.RoleProfessor), string(models.RoleManager))
	managerOnly := middleware.RequireRole(string(models.RoleManager))

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth)

		profile := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(profile)

		users := api.Group("/users", jwtMiddleware, managerOnly)
		deps.AuthHandler.RegisterManaged(users)
	}

	if deps.EnrollmentHandler != nil {
		enroll := api.Group("/enroll", jwtMiddleware, studentOnly)
		deps.EnrollmentHandler.Register(enroll)
	}

	if deps.SemesterHandler != nil {
		// Listing stays public so prospective students can pick a semester
		// before they have an account.
		deps.SemesterHandler.RegisterRead(api.Group("/semesters"))

		managed := api.Group("/semesters", jwtMiddleware, managerOnly)
		deps.SemesterHandler.RegisterManaged(managed)
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.RegisterRead(courses)

		managed := api.Group("/courses", jwtMiddleware, managerOnly)
		deps.CourseHandler.RegisterManaged(managed)
	}

	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware)
		deps.QuizHandler.RegisterRead(quizzes)

		authoring := api.Group("/quizzes", jwtMiddleware, staffOnly)
		deps.QuizHandler.RegisterAuthoring(authoring)
	}

	if deps.GradeHandler != nil {
		student := api.Group("/grades", jwtMiddleware, studentOnly)
		deps.GradeHandler.RegisterStudent(student)

		staff := api.Group("/grades", jwtMiddleware, staffOnly)
		deps.GradeHandler.RegisterStaff(staff)
	}

	if deps.AnnouncementHandler != nil {
		announcements := api.Group("/announcements", jwtMiddleware)
		deps.AnnouncementHandler.RegisterRead(announcements)

		authoring := api.Group("/announcements", jwtMiddleware, staffOnly)
		deps.AnnouncementHandler.RegisterAuthoring(authoring)
	}
}
