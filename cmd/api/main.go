package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academix-go-api/internal/auth"
	"github.com/noah-isme/academix-go-api/internal/config"
	"github.com/noah-isme/academix-go-api/internal/database"
	"github.com/noah-isme/academix-go-api/internal/handler"
	"github.com/noah-isme/academix-go-api/internal/middleware"
	"github.com/noah-isme/academix-go-api/internal/models"
	"github.com/noah-isme/academix-go-api/internal/repository"
	"github.com/noah-isme/academix-go-api/internal/router"
	"github.com/noah-isme/academix-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Semester{},
		&models.User{},
		&models.Course{},
		&models.Quiz{},
		&models.Grade{},
		&models.Announcement{},
		&models.RefreshToken{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewUserRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	authService := service.NewAuthService(userRepo, semesterRepo, courseRepo, tokenRepo, issuer, validate, logger)
	enrollmentService := service.NewEnrollmentService(userRepo, semesterRepo, validate, logger)
	semesterService := service.NewSemesterService(semesterRepo, courseRepo, quizRepo, announcementRepo, userRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, semesterRepo, quizRepo, userRepo, validate, logger)
	quizService := service.NewQuizService(quizRepo, courseRepo, semesterRepo, userRepo, validate, logger)
	gradingService := service.NewGradingService(gradeRepo, quizRepo, userRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, semesterRepo, userRepo, redisClient, cfg.AnnouncementCacheTTL, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		EnrollmentHandler:   handler.NewEnrollmentHandler(enrollmentService, logger),
		SemesterHandler:     handler.NewSemesterHandler(semesterService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		QuizHandler:         handler.NewQuizHandler(quizService, logger),
		GradeHandler:        handler.NewGradeHandler(gradingService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
