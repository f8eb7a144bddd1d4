package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type enrollmentApplicationService interface {
	CreateEnrollment(ctx context.Context, studentID, blockID int64, startDate time.Time) (*models.StudentEnrollment, error)
	GetEnrollment(ctx context.Context, enrollmentID int64) (*models.StudentEnrollment, error)
	GetEnrollmentSummary(ctx context.Context, enrollmentID int64) (*models.EnrollmentSummary, error)
	MarkSessionComplete(ctx context.Context, enrollmentID int64, input services.MarkSessionCompleteInput) (*models.StudentEnrollment, *models.SessionProgress, error)
	ReopenSession(ctx context.Context, enrollmentID int64, sessionNumber int) (*models.StudentEnrollment, error)
	UpdateStatus(ctx context.Context, enrollmentID int64, requestedStatus string) (*models.StudentEnrollment, error)
	PayForEnrollment(ctx context.Context, enrollmentID int64) (*models.StudentEnrollment, error)
	ListSessionProgress(ctx context.Context, enrollmentID int64) ([]models.SessionProgress, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.StudentEnrollment, error)
	ListByCoach(ctx context.Context, coachID int64) ([]models.StudentEnrollment, error)
}

type scheduleApplicationService interface {
	GetScheduledSessions(ctx context.Context, enrollmentID int64) ([]models.ScheduledSession, error)
	SetSessionTime(ctx context.Context, enrollmentID int64, sessionNumber int, startTime, endTime string) (*models.SessionTimeOverride, error)
}

type EnrollmentHandler struct {
	enrollments enrollmentApplicationService
	schedule    scheduleApplicationService
}

func NewEnrollmentHandler(
	enrollments *services.EnrollmentService,
	schedule *services.ScheduleService,
) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, schedule: schedule}
}

type createEnrollmentRequest struct {
	StudentID      int64  `json:"student_id"`
	SessionBlockID int64  `json:"session_block_id"`
	StartDate      string `json:"start_date"`
}

type markSessionCompleteRequest struct {
	SessionNumber     int     `json:"session_number"`
	CompletedDrillIDs []int64 `json:"completed_drill_ids"`
	CoachFeedback     *string `json:"coach_feedback"`
	Rating            *int    `json:"rating"`
}

type reopenSessionRequest struct {
	SessionNumber int `json:"session_number"`
}

type updateEnrollmentStatusRequest struct {
	Status string `json:"status"`
}

type setSessionTimeRequest struct {
	SessionNumber int    `json:"session_number"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

func (h *EnrollmentHandler) CreateEnrollment(c *fiber.Ctx) error {
	var req createEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	startDate, err := time.Parse(time.DateOnly, strings.TrimSpace(req.StartDate))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be a valid YYYY-MM-DD date"})
	}

	enrollment, err := h.enrollments.CreateEnrollment(c.Context(), req.StudentID, req.SessionBlockID, startDate)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"enrollment": enrollment})
}

func (h *EnrollmentHandler) GetEnrollment(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	enrollment, err := h.enrollments.GetEnrollment(c.Context(), enrollmentID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"enrollment": enrollment})
}

func (h *EnrollmentHandler) GetEnrollmentSummary(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	summary, err := h.enrollments.GetEnrollmentSummary(c.Context(), enrollmentID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"summary": summary})
}

func (h *EnrollmentHandler) GetSchedule(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	sessions, err := h.schedule.GetScheduledSessions(c.Context(), enrollmentID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *EnrollmentHandler) SetSessionTime(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	var req setSessionTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	override, err := h.schedule.SetSessionTime(c.Context(), enrollmentID, req.SessionNumber, req.StartTime, req.EndTime)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"session_time": override})
}

func (h *EnrollmentHandler) MarkSessionComplete(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	var req markSessionCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	enrollment, progress, err := h.enrollments.MarkSessionComplete(c.Context(), enrollmentID, services.MarkSessionCompleteInput{
		SessionNumber:     req.SessionNumber,
		CompletedDrillIDs: req.CompletedDrillIDs,
		CoachFeedback:     req.CoachFeedback,
		Rating:            req.Rating,
	})
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{
		"enrollment":       enrollment,
		"session_progress": progress,
	})
}

func (h *EnrollmentHandler) ReopenSession(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	var req reopenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	enrollment, err := h.enrollments.ReopenSession(c.Context(), enrollmentID, req.SessionNumber)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"enrollment": enrollment})
}

func (h *EnrollmentHandler) UpdateStatus(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	var req updateEnrollmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	enrollment, err := h.enrollments.UpdateStatus(c.Context(), enrollmentID, req.Status)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"enrollment": enrollment})
}

func (h *EnrollmentHandler) PayForEnrollment(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	enrollment, err := h.enrollments.PayForEnrollment(c.Context(), enrollmentID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"enrollment": enrollment})
}

func (h *EnrollmentHandler) ListSessionProgress(c *fiber.Ctx) error {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid enrollment id"})
	}

	records, err := h.enrollments.ListSessionProgress(c.Context(), enrollmentID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"session_progress": records})
}

func (h *EnrollmentHandler) ListByStudent(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	enrollments, err := h.enrollments.ListByStudent(c.Context(), studentID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"enrollments": enrollments})
}

func (h *EnrollmentHandler) ListByCoach(c *fiber.Ctx) error {
	coachID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	enrollments, err := h.enrollments.ListByCoach(c.Context(), coachID)
	if err != nil {
		return mapEnrollmentError(c, err)
	}

	return c.JSON(fiber.Map{"enrollments": enrollments})
}

func mapEnrollmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidSessionNumber):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session number is out of range"})
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBlockNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session block not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Enrollment not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process enrollment request"})
	}
}
