package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubProgramService struct {
	block     *models.SessionBlock
	blocks    []models.SessionBlock
	template  *models.SessionTemplate
	templates []models.SessionTemplate
	err       error

	lastMoveFrom int
	lastMoveTo   int
}

func (s *stubProgramService) CreateSessionBlock(_ context.Context, _ int64, _ services.CreateSessionBlockInput) (*models.SessionBlock, error) {
	return s.block, s.err
}

func (s *stubProgramService) GetSessionBlock(_ context.Context, _ int64) (*models.SessionBlock, error) {
	return s.block, s.err
}

func (s *stubProgramService) ListSessionBlocksByCoach(_ context.Context, _ int64) ([]models.SessionBlock, error) {
	return s.blocks, s.err
}

func (s *stubProgramService) SetSessionBlockActive(_ context.Context, _ int64, _ bool) (*models.SessionBlock, error) {
	return s.block, s.err
}

func (s *stubProgramService) DeleteSessionBlock(_ context.Context, _ int64) error {
	return s.err
}

func (s *stubProgramService) AddSessionTemplate(_ context.Context, _ int64, _ services.AddSessionTemplateInput) (*models.SessionTemplate, error) {
	return s.template, s.err
}

func (s *stubProgramService) RemoveSessionTemplate(_ context.Context, _ int64) error {
	return s.err
}

func (s *stubProgramService) MoveSessionTemplate(_ context.Context, _ int64, fromIndex, toIndex int) ([]models.SessionTemplate, error) {
	s.lastMoveFrom = fromIndex
	s.lastMoveTo = toIndex
	return s.templates, s.err
}

type stubAssignmentService struct {
	template    *models.SessionTemplate
	assignment  *models.DrillAssignment
	assignments []models.DrillAssignment
	err         error
}

func (s *stubAssignmentService) GetSessionTemplate(_ context.Context, _ int64) (*models.SessionTemplate, error) {
	return s.template, s.err
}

func (s *stubAssignmentService) AddDrillAssignment(_ context.Context, _ int64, _ services.AddDrillAssignmentInput) (*models.DrillAssignment, error) {
	return s.assignment, s.err
}

func (s *stubAssignmentService) RemoveDrillAssignment(_ context.Context, _ int64) error {
	return s.err
}

func (s *stubAssignmentService) MoveDrillAssignment(_ context.Context, _ int64, _, _ int) ([]models.DrillAssignment, error) {
	return s.assignments, s.err
}

func newProgramTestApp(programs *stubProgramService, assignments *stubAssignmentService) *fiber.App {
	handler := &ProgramHandler{programs: programs, assignments: assignments}

	app := fiber.New()
	app.Post("/session-blocks", handler.CreateSessionBlock)
	app.Get("/session-blocks/:id", handler.GetSessionBlock)
	app.Delete("/session-blocks/:id", handler.DeleteSessionBlock)
	app.Post("/session-blocks/:id/sessions", handler.AddSessionTemplate)
	app.Post("/session-blocks/:id/sessions/move", handler.MoveSessionTemplate)
	app.Get("/session-templates/:id", handler.GetSessionTemplate)
	app.Delete("/session-templates/:id", handler.RemoveSessionTemplate)
	app.Post("/session-templates/:id/drills", handler.AddDrillAssignment)
	app.Post("/session-templates/:id/drills/move", handler.MoveDrillAssignment)
	return app
}

func TestCreateSessionBlockRequiresCoach(t *testing.T) {
	app := newProgramTestApp(&stubProgramService{}, &stubAssignmentService{})

	status, _ := doJSON(t, app, "POST", "/session-blocks", fiber.Map{
		"title":         "Beginner Fundamentals",
		"delivery_mode": models.DeliveryOffline,
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestCreateSessionBlockReturnsCreated(t *testing.T) {
	programs := &stubProgramService{
		block: &models.SessionBlock{ID: 7, CoachID: 3, Title: "Beginner Fundamentals"},
	}
	app := newProgramTestApp(programs, &stubAssignmentService{})

	status, payload := doJSON(t, app, "POST", "/session-blocks", fiber.Map{
		"coach_id":      3,
		"title":         "Beginner Fundamentals",
		"delivery_mode": models.DeliveryOffline,
		"court_address": "Riverside Courts",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if _, ok := payload["session_block"]; !ok {
		t.Fatalf("expected session_block in response, got %v", payload)
	}
}

func TestDeleteSessionBlockWithEnrollmentsConflicts(t *testing.T) {
	programs := &stubProgramService{err: services.ErrStructuralIntegrity}
	app := newProgramTestApp(programs, &stubAssignmentService{})

	status, _ := doJSON(t, app, "DELETE", "/session-blocks/7", nil)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestMoveSessionTemplatePassesIndexes(t *testing.T) {
	programs := &stubProgramService{
		templates: []models.SessionTemplate{
			{ID: 101, SessionNumber: 1},
			{ID: 100, SessionNumber: 2},
		},
	}
	app := newProgramTestApp(programs, &stubAssignmentService{})

	status, payload := doJSON(t, app, "POST", "/session-blocks/7/sessions/move", fiber.Map{
		"from_index": 1,
		"to_index":   0,
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if programs.lastMoveFrom != 1 || programs.lastMoveTo != 0 {
		t.Fatalf("expected indexes passed through, got %d -> %d", programs.lastMoveFrom, programs.lastMoveTo)
	}
	var templates []models.SessionTemplate
	if err := json.Unmarshal(payload["session_templates"], &templates); err != nil {
		t.Fatalf("unmarshal templates: %v", err)
	}
	if len(templates) != 2 || templates[0].ID != 101 {
		t.Fatalf("unexpected templates %+v", templates)
	}
}

func TestRemoveSessionTemplateLockedByEnrollments(t *testing.T) {
	programs := &stubProgramService{err: services.ErrStructuralIntegrity}
	app := newProgramTestApp(programs, &stubAssignmentService{})

	status, _ := doJSON(t, app, "DELETE", "/session-templates/100", nil)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestAddDrillAssignmentDuplicateConflicts(t *testing.T) {
	assignments := &stubAssignmentService{err: services.ErrDuplicateDrillAssignment}
	app := newProgramTestApp(&stubProgramService{}, assignments)

	status, _ := doJSON(t, app, "POST", "/session-templates/100/drills", fiber.Map{
		"drill_id":         9,
		"duration_minutes": 15,
	})
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestAddDrillAssignmentUnknownDrill(t *testing.T) {
	assignments := &stubAssignmentService{err: services.ErrDrillNotFound}
	app := newProgramTestApp(&stubProgramService{}, assignments)

	status, _ := doJSON(t, app, "POST", "/session-templates/100/drills", fiber.Map{
		"drill_id":         999,
		"duration_minutes": 15,
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestGetSessionTemplateIncludesDrillMinutes(t *testing.T) {
	assignments := &stubAssignmentService{
		template: &models.SessionTemplate{
			ID: 100,
			Drills: []models.DrillAssignment{
				{ID: 1, Order: 1, DurationMinutes: 15},
				{ID: 2, Order: 2, DurationMinutes: 20},
			},
		},
	}
	app := newProgramTestApp(&stubProgramService{}, assignments)

	status, payload := doJSON(t, app, "GET", "/session-templates/100", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var total int
	if err := json.Unmarshal(payload["total_drill_minutes"], &total); err != nil {
		t.Fatalf("unmarshal total_drill_minutes: %v", err)
	}
	if total != 35 {
		t.Fatalf("expected 35 drill minutes, got %d", total)
	}
}
