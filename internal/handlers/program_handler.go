package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type programApplicationService interface {
	CreateSessionBlock(ctx context.Context, coachID int64, input services.CreateSessionBlockInput) (*models.SessionBlock, error)
	GetSessionBlock(ctx context.Context, blockID int64) (*models.SessionBlock, error)
	ListSessionBlocksByCoach(ctx context.Context, coachID int64) ([]models.SessionBlock, error)
	SetSessionBlockActive(ctx context.Context, blockID int64, active bool) (*models.SessionBlock, error)
	DeleteSessionBlock(ctx context.Context, blockID int64) error
	AddSessionTemplate(ctx context.Context, blockID int64, input services.AddSessionTemplateInput) (*models.SessionTemplate, error)
	RemoveSessionTemplate(ctx context.Context, templateID int64) error
	MoveSessionTemplate(ctx context.Context, blockID int64, fromIndex, toIndex int) ([]models.SessionTemplate, error)
}

type assignmentApplicationService interface {
	GetSessionTemplate(ctx context.Context, templateID int64) (*models.SessionTemplate, error)
	AddDrillAssignment(ctx context.Context, templateID int64, input services.AddDrillAssignmentInput) (*models.DrillAssignment, error)
	RemoveDrillAssignment(ctx context.Context, assignmentID int64) error
	MoveDrillAssignment(ctx context.Context, templateID int64, fromIndex, toIndex int) ([]models.DrillAssignment, error)
}

type ProgramHandler struct {
	programs    programApplicationService
	assignments assignmentApplicationService
}

func NewProgramHandler(
	programs *services.ProgramService,
	assignments *services.AssignmentService,
) *ProgramHandler {
	return &ProgramHandler{programs: programs, assignments: assignments}
}

type createSessionBlockRequest struct {
	CoachID        int64   `json:"coach_id"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	SkillLevelFrom string  `json:"skill_level_from"`
	SkillLevelTo   string  `json:"skill_level_to"`
	Price          float64 `json:"price"`
	DurationWeeks  int     `json:"duration_weeks"`
	DeliveryMode   string  `json:"delivery_mode"`
	CourtAddress   *string `json:"court_address"`
	MeetingLink    *string `json:"meeting_link"`
}

type addSessionTemplateRequest struct {
	Title           string   `json:"title"`
	Objectives      []string `json:"objectives"`
	DurationMinutes int      `json:"duration_minutes"`
	CoachNotes      *string  `json:"coach_notes"`
}

type moveRequest struct {
	FromIndex int `json:"from_index"`
	ToIndex   int `json:"to_index"`
}

type addDrillAssignmentRequest struct {
	DrillID         int64   `json:"drill_id"`
	DurationMinutes int     `json:"duration_minutes"`
	Instructions    *string `json:"instructions"`
	IsOptional      bool    `json:"is_optional"`
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *ProgramHandler) CreateSessionBlock(c *fiber.Ctx) error {
	var req createSessionBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CoachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coach_id is required"})
	}

	block, err := h.programs.CreateSessionBlock(c.Context(), req.CoachID, services.CreateSessionBlockInput{
		Title:          req.Title,
		Description:    req.Description,
		SkillLevelFrom: req.SkillLevelFrom,
		SkillLevelTo:   req.SkillLevelTo,
		Price:          req.Price,
		DurationWeeks:  req.DurationWeeks,
		DeliveryMode:   req.DeliveryMode,
		CourtAddress:   req.CourtAddress,
		MeetingLink:    req.MeetingLink,
	})
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_block": block})
}

func (h *ProgramHandler) GetSessionBlock(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session block id"})
	}

	block, err := h.programs.GetSessionBlock(c.Context(), blockID)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{"session_block": block})
}

func (h *ProgramHandler) ListSessionBlocks(c *fiber.Ctx) error {
	coachID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	blocks, err := h.programs.ListSessionBlocksByCoach(c.Context(), coachID)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{"session_blocks": blocks})
}

func (h *ProgramHandler) SetSessionBlockActive(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session block id"})
	}

	var req setActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	block, err := h.programs.SetSessionBlockActive(c.Context(), blockID, req.IsActive)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{"session_block": block})
}

func (h *ProgramHandler) DeleteSessionBlock(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session block id"})
	}

	if err := h.programs.DeleteSessionBlock(c.Context(), blockID); err != nil {
		return mapProgramError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProgramHandler) AddSessionTemplate(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session block id"})
	}

	var req addSessionTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	template, err := h.programs.AddSessionTemplate(c.Context(), blockID, services.AddSessionTemplateInput{
		Title:           req.Title,
		Objectives:      req.Objectives,
		DurationMinutes: req.DurationMinutes,
		CoachNotes:      req.CoachNotes,
	})
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_template": template})
}

func (h *ProgramHandler) RemoveSessionTemplate(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session template id"})
	}

	if err := h.programs.RemoveSessionTemplate(c.Context(), templateID); err != nil {
		return mapProgramError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProgramHandler) MoveSessionTemplate(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session block id"})
	}

	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	templates, err := h.programs.MoveSessionTemplate(c.Context(), blockID, req.FromIndex, req.ToIndex)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{"session_templates": templates})
}

func (h *ProgramHandler) GetSessionTemplate(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session template id"})
	}

	template, err := h.assignments.GetSessionTemplate(c.Context(), templateID)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{
		"session_template":    template,
		"total_drill_minutes": template.TotalDrillMinutes(),
	})
}

func (h *ProgramHandler) AddDrillAssignment(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session template id"})
	}

	var req addDrillAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	assignment, err := h.assignments.AddDrillAssignment(c.Context(), templateID, services.AddDrillAssignmentInput{
		DrillID:         req.DrillID,
		DurationMinutes: req.DurationMinutes,
		Instructions:    req.Instructions,
		IsOptional:      req.IsOptional,
	})
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"drill_assignment": assignment})
}

func (h *ProgramHandler) RemoveDrillAssignment(c *fiber.Ctx) error {
	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid drill assignment id"})
	}

	if err := h.assignments.RemoveDrillAssignment(c.Context(), assignmentID); err != nil {
		return mapProgramError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProgramHandler) MoveDrillAssignment(c *fiber.Ctx) error {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session template id"})
	}

	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	assignments, err := h.assignments.MoveDrillAssignment(c.Context(), templateID, req.FromIndex, req.ToIndex)
	if err != nil {
		return mapProgramError(c, err)
	}

	return c.JSON(fiber.Map{"drill_assignments": assignments})
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func mapProgramError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateDrillAssignment):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Drill is already assigned to this session"})
	case errors.Is(err, services.ErrStructuralIntegrity):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session block has enrollments and cannot be restructured"})
	case errors.Is(err, services.ErrDrillNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Drill not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process program request"})
	}
}
