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

	"github.com/classboard/classboard-api/internal/config"
	"github.com/classboard/classboard-api/internal/database"
	"github.com/classboard/classboard-api/internal/handler"
	"github.com/classboard/classboard-api/internal/middleware"
	"github.com/classboard/classboard-api/internal/models"
	"github.com/classboard/classboard-api/internal/repository"
	"github.com/classboard/classboard-api/internal/router"
	"github.com/classboard/classboard-api/internal/service"
	"github.com/classboard/classboard-api/internal/snapshot"
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
		&models.Student{},
		&models.Group{},
		&models.Task{},
		&models.Evaluation{},
		&models.SchoolClass{},
		&models.Section{},
		&models.Subject{},
		&models.Teacher{},
		&models.Setting{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	snapshotCache := snapshot.New(redisClient, settingsRepo, cfg.SnapshotTTL, logger)

	studentService := service.NewStudentService(studentRepo, settingsRepo, validate, logger)
	groupService := service.NewGroupService(groupRepo, studentRepo, settingsRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, settingsRepo, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, taskRepo, settingsRepo, validate, logger)
	catalogService := service.NewCatalogService(catalogRepo, settingsRepo, validate, logger)
	teacherService := service.NewTeacherService(teacherRepo, settingsRepo, validate, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	dashboardService := service.NewDashboardService(snapshotCache, studentRepo, groupRepo, taskRepo, evaluationRepo, catalogRepo, teacherRepo, settingsRepo, logger)

	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	studentHandler := handler.NewStudentHandler(studentService, validate, logger)
	groupHandler := handler.NewGroupHandler(groupService, validate, logger)
	taskHandler := handler.NewTaskHandler(taskService, validate, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, validate, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, validate, logger)
	teacherHandler := handler.NewTeacherHandler(teacherService, validate, logger)
	settingsHandler := handler.NewSettingsHandler(settingsService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		DashboardHandler:  dashboardHandler,
		StudentHandler:    studentHandler,
		GroupHandler:      groupHandler,
		TaskHandler:       taskHandler,
		EvaluationHandler: evaluationHandler,
		CatalogHandler:    catalogHandler,
		TeacherHandler:    teacherHandler,
		SettingsHandler:   settingsHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
