package quest

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lifehud/internal/auth"
	"lifehud/internal/event"
	"lifehud/internal/penalty"
	"lifehud/internal/userconfig"
)

type passthroughMultiplier struct{}

func (passthroughMultiplier) EffectiveMultiplier(ctx context.Context, username, area string) (float64, error) {
	return 1.0, nil
}

type questFixture struct {
	svc    *service
	events event.Service
	cfg    userconfig.Repository
	pens   penalty.Repository
	clock  *time.Time
}

func newFixture(t *testing.T) *questFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Quest{}, &event.Event{}, &userconfig.Entry{}, &penalty.Application{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	clock := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)
	events := event.NewService(event.NewRepository(db), passthroughMultiplier{})
	cfg := userconfig.NewRepository(db)
	pens := penalty.NewRepository(db)
	svc := &service{
		db:        db,
		repo:      NewRepository(db),
		cfg:       cfg,
		events:    events,
		penalties: pens,
		now:       func() time.Time { return clock },
	}
	return &questFixture{svc: svc, events: events, cfg: cfg, pens: pens, clock: &clock}
}

func (f *questFixture) advanceDays(n int) {
	*f.clock = f.clock.Add(time.Duration(n) * 24 * time.Hour)
}

func testCtx(username string) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{Username: username, Role: "user"})
}

func adminCtx(username string) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{Username: username, Role: "admin"})
}

func TestCompleteStreakProgression(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx("marcel.pimenta")

	q, err := f.svc.Create(ctx, CreateQuestDTO{Title: "Morning run", Area: "Saúde", XPReward: 20, Cadence: CadenceDaily})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	q, err = f.svc.Complete(ctx, q.ID)
	if err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	if q.Streak != 1 {
		t.Errorf("streak after first completion = %d, want 1", q.Streak)
	}

	f.advanceDays(1)
	q, err = f.svc.Complete(ctx, q.ID)
	if err != nil {
		t.Fatalf("consecutive Complete: %v", err)
	}
	if q.Streak != 2 {
		t.Errorf("streak after consecutive day = %d, want 2", q.Streak)
	}

	f.advanceDays(3)
	q, err = f.svc.Complete(ctx, q.ID)
	if err != nil {
		t.Fatalf("Complete after gap: %v", err)
	}
	if q.Streak != 1 {
		t.Errorf("streak after 3-day gap = %d, want 1", q.Streak)
	}

	events, err := f.events.List(ctx, event.Filter{})
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for _, e := range events {
		if e.Type != event.TypeQuest || e.XP != 20 || e.Note != "Quest: Morning run" {
			t.Errorf("event = %+v, want quest event of 20 XP", e)
		}
	}
}

func TestCompleteGlobalClones(t *testing.T) {
	f := newFixture(t)

	global, err := f.svc.Create(adminCtx("marcel.pimenta"), CreateQuestDTO{
		Title: "Read 10 pages", Area: "Educação", XPReward: 10, Cadence: CadenceDaily, Global: true,
	})
	if err != nil {
		t.Fatalf("Create global: %v", err)
	}

	ctx := testCtx("larissa.souza")
	clone, err := f.svc.Complete(ctx, global.ID)
	if err != nil {
		t.Fatalf("Complete global: %v", err)
	}
	if clone.ID == global.ID {
		t.Fatal("completing a global quest must operate on an owned clone")
	}
	if clone.Owner == nil || *clone.Owner != "larissa.souza" {
		t.Errorf("clone owner = %v, want larissa.souza", clone.Owner)
	}

	// Shared definition stays untouched.
	reloaded, err := f.svc.repo.FindByID(global.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.LastDone != nil || reloaded.Streak != 0 {
		t.Errorf("global quest mutated: %+v", reloaded)
	}

	// Next completion reuses the same clone.
	f.advanceDays(1)
	again, err := f.svc.Complete(ctx, global.ID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if again.ID != clone.ID {
		t.Error("second completion should reuse the existing clone")
	}
	if again.Streak != 2 {
		t.Errorf("clone streak = %d, want 2", again.Streak)
	}
}

func TestPenaltySweep(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx("marcel.pimenta")

	q, err := f.svc.Create(ctx, CreateQuestDTO{Title: "Meditate", Area: "Saúde", XPReward: 5, Cadence: CadenceDaily})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Complete(ctx, q.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err = f.svc.Update(ctx, q.ID, UpdateQuestDTO{XPReward: 5, Streak: intPtr(5)}); err != nil {
		t.Fatalf("Update streak: %v", err)
	}

	if err := f.cfg.SetBool("marcel.pimenta", userconfig.KeyPenaltyActive, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	// Toggle on but no gap yet: sweep runs, nothing to penalise.
	report, err := f.svc.PenaltySweep(ctx)
	if err != nil {
		t.Fatalf("PenaltySweep: %v", err)
	}
	if !report.Ran || len(report.MissedQuests) != 0 {
		t.Errorf("report = %+v, want ran with no misses", report)
	}

	// Three days later the quest was missed twice.
	f.advanceDays(3)
	report, err = f.svc.PenaltySweep(ctx)
	if err != nil {
		t.Fatalf("PenaltySweep after gap: %v", err)
	}
	if !report.Ran || len(report.MissedQuests) != 1 || report.PenaltyXP != userconfig.DefaultPenaltyAmount {
		t.Fatalf("report = %+v, want one missed quest at default amount", report)
	}

	swept, err := f.svc.repo.FindByID(q.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if swept.Streak != 3 {
		t.Errorf("streak after 3-day gap = %d, want 3 (5 - 2)", swept.Streak)
	}

	// Same day again: marker makes the sweep a no-op.
	report, err = f.svc.PenaltySweep(ctx)
	if err != nil {
		t.Fatalf("repeat PenaltySweep: %v", err)
	}
	if report.Ran {
		t.Error("second sweep on the same day must be a no-op")
	}

	events, err := f.events.List(ctx, event.Filter{})
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	penalties := 0
	for _, e := range events {
		if e.Type == event.TypePenalty {
			penalties++
			if e.XP != -userconfig.DefaultPenaltyAmount {
				t.Errorf("penalty XP = %d, want %d", e.XP, -userconfig.DefaultPenaltyAmount)
			}
		}
	}
	if penalties != 1 {
		t.Errorf("got %d penalty events, want exactly 1", penalties)
	}

	apps, err := f.pens.ListApplications("marcel.pimenta")
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(apps) != 1 || apps[0].Source != penalty.SourceQuestSweep {
		t.Errorf("applications = %+v, want one quest_sweep audit row", apps)
	}
}

func TestPenaltySweepDisabledByDefault(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx("marcel.pimenta")

	q, err := f.svc.Create(ctx, CreateQuestDTO{Title: "Meditate", Area: "Saúde", XPReward: 5, Cadence: CadenceDaily})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Complete(ctx, q.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	f.advanceDays(4)
	report, err := f.svc.PenaltySweep(ctx)
	if err != nil {
		t.Fatalf("PenaltySweep: %v", err)
	}
	if report.Ran {
		t.Error("sweep must not run while penalty_active is unset")
	}

	events, err := f.events.List(ctx, event.Filter{})
	if err != nil {
		t.Fatalf("List events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want only the completion", len(events))
	}
}

func TestDisableHidesQuest(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx("marcel.pimenta")

	q, err := f.svc.Create(ctx, CreateQuestDTO{Title: "Stretch", Area: "Saúde", XPReward: 5, Cadence: CadenceDaily})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.svc.Disable(ctx, q.ID); err != nil {
		t.Fatalf("Disable: %v", err)
	}

	quests, err := f.svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(quests) != 0 {
		t.Errorf("disabled quest still listed: %+v", quests)
	}
}

func intPtr(n int) *int { return &n }
