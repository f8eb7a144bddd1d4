package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/courtside-app/PickleCoachBack/internal/models"
	"github.com/courtside-app/PickleCoachBack/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestDrillCatalogPublicListing(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	drills := NewDrillService(repository.NewDrillRepository(pool))

	coachID := 8500 + time.Now().UnixNano()%1000
	publicDrill := createTestDrill(t, ctx, drills, coachID, models.SkillDink, true)
	privateDrill := createTestDrill(t, ctx, drills, coachID, models.SkillServe, false)
	defer cleanupTestDrills(t, ctx, pool, publicDrill.ID, privateDrill.ID)

	// Anonymous catalog browse: public drills only.
	listed, total, err := drills.ListDrills(ctx, repository.DrillListFilter{
		PublicOnly: true,
		Limit:      50,
	})
	if err != nil {
		t.Fatalf("ListDrills public: %v", err)
	}
	if total < 1 {
		t.Fatalf("expected at least the public drill counted, got %d", total)
	}
	for _, drill := range listed {
		if !drill.IsPublic {
			t.Fatalf("public listing leaked private drill %d", drill.ID)
		}
	}

	listed, _, err = drills.ListDrills(ctx, repository.DrillListFilter{
		PublicOnly: true,
		SkillTag:   models.SkillDink,
		Limit:      50,
	})
	if err != nil {
		t.Fatalf("ListDrills public by skill: %v", err)
	}
	for _, drill := range listed {
		if drill.SkillTag != models.SkillDink {
			t.Fatalf("skill filter leaked drill %d with tag %q", drill.ID, drill.SkillTag)
		}
	}

	// Coach view includes the coach's private drills.
	listed, _, err = drills.ListDrills(ctx, repository.DrillListFilter{
		CoachID: coachID,
		Limit:   50,
	})
	if err != nil {
		t.Fatalf("ListDrills coach: %v", err)
	}
	foundPrivate := false
	for _, drill := range listed {
		if drill.ID == privateDrill.ID {
			foundPrivate = true
		}
	}
	if !foundPrivate {
		t.Fatalf("expected coach listing to include private drill %d", privateDrill.ID)
	}
}

func createTestDrill(t *testing.T, ctx context.Context, drills *DrillService, coachID int64, skillTag string, public bool) *models.Drill {
	t.Helper()

	drill, err := drills.CreateDrill(ctx, coachID, CreateDrillInput{
		Title:           fmt.Sprintf("Integration Drill %s %d", skillTag, time.Now().UnixNano()),
		SkillTag:        skillTag,
		LevelBand:       "3.0-3.5",
		DurationMinutes: 15,
		Intensity:       2,
		IsPublic:        public,
	})
	if err != nil {
		t.Fatalf("CreateDrill(%s): %v", skillTag, err)
	}
	return drill
}

func cleanupTestDrills(t *testing.T, ctx context.Context, pool *pgxpool.Pool, drillIDs ...int64) {
	t.Helper()

	if len(drillIDs) == 0 {
		return
	}
	if _, err := pool.Exec(ctx, "DELETE FROM drills WHERE id = ANY($1)", drillIDs); err != nil {
		t.Fatalf("cleanup drills: %v", err)
	}
}
