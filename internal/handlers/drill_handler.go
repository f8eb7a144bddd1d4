package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
	"github.com/courtside-app/PickleCoachBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type drillApplicationService interface {
	CreateDrill(ctx context.Context, coachID int64, input services.CreateDrillInput) (*models.Drill, error)
	GetDrill(ctx context.Context, drillID int64) (*models.Drill, error)
	ListDrills(ctx context.Context, filter repository.DrillListFilter) ([]models.Drill, int, error)
}

type DrillHandler struct {
	service drillApplicationService
}

func NewDrillHandler(service *services.DrillService) *DrillHandler {
	return &DrillHandler{service: service}
}

type createDrillRequest struct {
	CoachID         int64    `json:"coach_id"`
	Title           string   `json:"title"`
	SkillTag        string   `json:"skill_tag"`
	LevelBand       string   `json:"level_band"`
	DurationMinutes int      `json:"duration_minutes"`
	Intensity       int      `json:"intensity"`
	Equipment       []string `json:"equipment"`
	VideoURL        *string  `json:"video_url"`
	IsPublic        bool     `json:"is_public"`
}

func (h *DrillHandler) CreateDrill(c *fiber.Ctx) error {
	var req createDrillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CoachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coach_id is required"})
	}

	drill, err := h.service.CreateDrill(c.Context(), req.CoachID, services.CreateDrillInput{
		Title:           req.Title,
		SkillTag:        req.SkillTag,
		LevelBand:       req.LevelBand,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		Equipment:       req.Equipment,
		VideoURL:        req.VideoURL,
		IsPublic:        req.IsPublic,
	})
	if err != nil {
		return mapDrillError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"drill": drill})
}

func (h *DrillHandler) GetDrill(c *fiber.Ctx) error {
	drillID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || drillID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid drill id"})
	}

	drill, err := h.service.GetDrill(c.Context(), drillID)
	if err != nil {
		return mapDrillError(c, err)
	}

	return c.JSON(fiber.Map{"drill": drill})
}

func (h *DrillHandler) ListDrills(c *fiber.Ctx) error {
	coachID, _ := strconv.ParseInt(c.Query("coach_id"), 10, 64)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	filter := repository.DrillListFilter{
		CoachID:    coachID,
		PublicOnly: coachID <= 0,
		SkillTag:   strings.TrimSpace(c.Query("skill_tag")),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	drills, total, err := h.service.ListDrills(c.Context(), filter)
	if err != nil {
		return mapDrillError(c, err)
	}

	return c.JSON(fiber.Map{
		"drills":     drills,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func mapDrillError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Drill not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process drill request"})
	}
}
