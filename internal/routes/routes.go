package routes

import (
	"github.com/courtside-app/PickleCoachBack/internal/config"
	"github.com/courtside-app/PickleCoachBack/internal/handlers"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
	"github.com/courtside-app/PickleCoachBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	drillRepo := repository.NewDrillRepository(db)
	blockRepo := repository.NewSessionBlockRepository(db)
	templateRepo := repository.NewSessionTemplateRepository(db)
	assignmentRepo := repository.NewDrillAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewSessionProgressRepository(db)
	overrideRepo := repository.NewSessionTimeRepository(db)

	drillService := services.NewDrillService(drillRepo)
	programService := services.NewProgramService(db, blockRepo, templateRepo, assignmentRepo, enrollmentRepo)
	assignmentService := services.NewAssignmentService(db, templateRepo, assignmentRepo, drillRepo)
	enrollmentService := services.NewEnrollmentService(db, enrollmentRepo, blockRepo, templateRepo, progressRepo)
	scheduleService := services.NewScheduleService(enrollmentRepo, blockRepo, templateRepo, overrideRepo)

	drillHandler := handlers.NewDrillHandler(drillService)
	programHandler := handlers.NewProgramHandler(programService, assignmentService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, scheduleService)

	api := app.Group("/api/v1")

	drills := api.Group("/drills")
	drills.Post("/", drillHandler.CreateDrill)
	drills.Get("/", drillHandler.ListDrills)
	drills.Get("/:id", drillHandler.GetDrill)

	blocks := api.Group("/session-blocks")
	blocks.Post("/", programHandler.CreateSessionBlock)
	blocks.Get("/:id", programHandler.GetSessionBlock)
	blocks.Patch("/:id/active", programHandler.SetSessionBlockActive)
	blocks.Delete("/:id", programHandler.DeleteSessionBlock)
	blocks.Post("/:id/sessions", programHandler.AddSessionTemplate)
	blocks.Put("/:id/sessions/order", programHandler.MoveSessionTemplate)

	templates := api.Group("/session-templates")
	templates.Get("/:id", programHandler.GetSessionTemplate)
	templates.Delete("/:id", programHandler.RemoveSessionTemplate)
	templates.Post("/:id/drills", programHandler.AddDrillAssignment)
	templates.Put("/:id/drills/order", programHandler.MoveDrillAssignment)

	api.Delete("/drill-assignments/:id", programHandler.RemoveDrillAssignment)

	enrollments := api.Group("/enrollments")
	enrollments.Post("/", enrollmentHandler.CreateEnrollment)
	enrollments.Get("/:id", enrollmentHandler.GetEnrollment)
	enrollments.Get("/:id/summary", enrollmentHandler.GetEnrollmentSummary)
	enrollments.Get("/:id/schedule", enrollmentHandler.GetSchedule)
	enrollments.Put("/:id/schedule/time", enrollmentHandler.SetSessionTime)
	enrollments.Post("/:id/sessions/complete", enrollmentHandler.MarkSessionComplete)
	enrollments.Post("/:id/sessions/reopen", enrollmentHandler.ReopenSession)
	enrollments.Patch("/:id/status", enrollmentHandler.UpdateStatus)
	enrollments.Post("/:id/pay", enrollmentHandler.PayForEnrollment)
	enrollments.Get("/:id/progress", enrollmentHandler.ListSessionProgress)

	api.Get("/students/:id/enrollments", enrollmentHandler.ListByStudent)
	api.Get("/coaches/:id/enrollments", enrollmentHandler.ListByCoach)
	api.Get("/coaches/:id/session-blocks", programHandler.ListSessionBlocks)
}
