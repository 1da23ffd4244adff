package dashboard

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lifehud/internal/auth"
	"lifehud/internal/event"
	"lifehud/internal/goal"
	"lifehud/internal/penalty"
	"lifehud/internal/perk"
	"lifehud/internal/quest"
	"lifehud/internal/userconfig"
	util "lifehud/internal/utils"
)

// newSnapshotService wires the real services against an in-memory store,
// the same way the application container does.
func newSnapshotService(t *testing.T) (Service, event.Service, userconfig.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&event.Event{}, &quest.Quest{}, &perk.Perk{},
		&penalty.Rule{}, &penalty.Application{}, &userconfig.Entry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ledger := event.NewRepository(db)
	cfg := userconfig.NewRepository(db)
	pens := penalty.NewRepository(db)

	perks := perk.NewContainer(db, ledger)
	events := event.NewService(ledger, perks.Service)
	quests := quest.NewService(db, quest.NewRepository(db), cfg, events, pens)
	goals := goal.NewService(db, ledger, cfg, events, pens)

	return NewService(events, ledger, quests, perks.Service, goals, cfg), events, cfg
}

func testCtx(username string) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{Username: username, Role: "user"})
}

func TestSnapshotLevelUpDetection(t *testing.T) {
	svc, events, _ := newSnapshotService(t)
	ctx := testCtx("marcel.pimenta")

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalXP != 0 || snap.Progress.Level != 1 {
		t.Errorf("fresh snapshot = total %d level %d, want 0 and 1", snap.TotalXP, snap.Progress.Level)
	}
	if snap.LeveledUp {
		t.Error("fresh snapshot must not report a level-up")
	}

	// Enough XP to clear level 2 (costs 274).
	if _, err := events.Record(ctx, event.RecordEventDTO{
		Date: util.Today(), Area: "Coding", XP: 300,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	snap, err = svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Progress.Level < 2 {
		t.Fatalf("level = %d, want >= 2 after 300 XP", snap.Progress.Level)
	}
	if !snap.LeveledUp {
		t.Error("crossing a level between snapshots must report leveled_up")
	}

	// Stable level: no repeated announcement.
	snap, err = svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.LeveledUp {
		t.Error("unchanged level must not report leveled_up again")
	}
}

func TestSnapshotAggregates(t *testing.T) {
	svc, events, _ := newSnapshotService(t)
	ctx := testCtx("marcel.pimenta")

	for _, in := range []struct {
		area string
		xp   int
	}{
		{"Coding", 120},
		{"Coding", 30},
		{"Finanças", 45},
	} {
		if _, err := events.Record(ctx, event.RecordEventDTO{
			Date: util.Today(), Area: in.area, XP: in.xp,
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalXP != 195 {
		t.Errorf("TotalXP = %d, want 195", snap.TotalXP)
	}

	got := map[string]AreaLevel{}
	for _, a := range snap.Areas {
		got[a.Area] = a
	}
	if got["Coding"].XP != 150 || got["Finanças"].XP != 45 {
		t.Errorf("areas = %+v, want Coding=150 Finanças=45", got)
	}
	if got["Coding"].Level < 1 {
		t.Errorf("area level = %d, want >= 1", got["Coding"].Level)
	}
	if len(snap.Goals) == 0 {
		t.Error("snapshot should include goal progress rows")
	}
}
