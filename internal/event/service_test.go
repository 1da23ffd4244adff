package event

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lifehud/internal/auth"
	util "lifehud/internal/utils"
)

type fixedMultiplier float64

func (m fixedMultiplier) EffectiveMultiplier(ctx context.Context, username, area string) (float64, error) {
	return float64(m), nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Event{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testCtx(username string) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{Username: username, Role: "user"})
}

func mustDate(t *testing.T, s string) util.Date {
	t.Helper()
	d, err := util.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{60.0, 60},
		{17.25, 17},
		{17.5, 18},
		{17.49, 17},
	}
	for _, c := range cases {
		if got := roundHalfUp(c.in); got != c.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRecordAppliesMultiplier(t *testing.T) {
	db := newTestDB(t)
	ctx := testCtx("marcel.pimenta")

	t.Run("ExactMultiple", func(t *testing.T) {
		svc := NewService(NewRepository(db), fixedMultiplier(1.2))
		e, err := svc.Record(ctx, RecordEventDTO{
			Date: mustDate(t, "2025-09-10"), Area: "Coding", XP: 50, Note: "review",
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if e.XP != 60 {
			t.Errorf("XP = %d, want 60 (50 * 1.2)", e.XP)
		}
		if !strings.Contains(e.Note, "50 -> 60") {
			t.Errorf("note should carry the audit annotation, got %q", e.Note)
		}
	})

	t.Run("FractionalRoundsHalfUp", func(t *testing.T) {
		svc := NewService(NewRepository(db), fixedMultiplier(1.15))
		e, err := svc.Record(ctx, RecordEventDTO{
			Date: mustDate(t, "2025-09-10"), Area: "Coding", XP: 15,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if e.XP != 17 {
			t.Errorf("XP = %d, want 17 (round(17.25))", e.XP)
		}
	})

	t.Run("NoMultiplierNoAnnotation", func(t *testing.T) {
		svc := NewService(NewRepository(db), fixedMultiplier(1.0))
		e, err := svc.Record(ctx, RecordEventDTO{
			Date: mustDate(t, "2025-09-10"), Area: "Coding", XP: 20, Note: "plain",
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if e.XP != 20 || e.Note != "plain" {
			t.Errorf("got xp=%d note=%q, want untouched 20/plain", e.XP, e.Note)
		}
	})

	t.Run("PenaltyNotAmplified", func(t *testing.T) {
		svc := NewService(NewRepository(db), fixedMultiplier(1.5))
		e, err := svc.Grant(ctx, nil, "marcel.pimenta", GrantInput{
			Date: mustDate(t, "2025-09-10"), Area: "Coding", XP: -10, Type: TypePenalty,
		})
		if err != nil {
			t.Fatalf("Grant: %v", err)
		}
		if e.XP != -10 {
			t.Errorf("penalty XP = %d, want -10 unchanged", e.XP)
		}
	})
}

func TestUpdateDoesNotReapplyPerks(t *testing.T) {
	db := newTestDB(t)
	ctx := testCtx("marcel.pimenta")
	svc := NewService(NewRepository(db), fixedMultiplier(1.2))

	e, err := svc.Record(ctx, RecordEventDTO{Date: mustDate(t, "2025-09-10"), Area: "Coding", XP: 50})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	updated, err := svc.Update(ctx, e.ID, UpdateEventDTO{
		Date: e.Date, Area: e.Area, XP: 40, Note: "corrected",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.XP != 40 {
		t.Errorf("XP = %d, want exactly 40 (edits bypass the multiplier)", updated.XP)
	}
}

func TestOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), fixedMultiplier(1.0))

	e, err := svc.Record(testCtx("marcel.pimenta"), RecordEventDTO{
		Date: mustDate(t, "2025-09-10"), Area: "Coding", XP: 10,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if _, err := svc.Update(testCtx("larissa.souza"), e.ID, UpdateEventDTO{XP: 999}); err != ErrEventNotFound {
		t.Errorf("Update by another user = %v, want ErrEventNotFound", err)
	}
	if err := svc.Delete(testCtx("larissa.souza"), e.ID); err != ErrEventNotFound {
		t.Errorf("Delete by another user = %v, want ErrEventNotFound", err)
	}
	if err := svc.Delete(testCtx("marcel.pimenta"), e.ID); err != nil {
		t.Errorf("Delete by owner: %v", err)
	}
}

func TestAggregateByArea(t *testing.T) {
	db := newTestDB(t)
	ctx := testCtx("marcel.pimenta")
	svc := NewService(NewRepository(db), fixedMultiplier(1.0))

	for _, in := range []struct {
		date string
		area string
		xp   int
	}{
		{"2025-09-01", "Coding", 30},
		{"2025-09-02", "Coding", 20},
		{"2025-09-02", "Finanças", 15},
	} {
		if _, err := svc.Record(ctx, RecordEventDTO{Date: mustDate(t, in.date), Area: in.area, XP: in.xp}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	rows, err := svc.AggregateByArea(ctx, Filter{})
	if err != nil {
		t.Fatalf("AggregateByArea: %v", err)
	}
	got := map[string]int{}
	for _, r := range rows {
		got[r.Area] = r.XP
	}
	if got["Coding"] != 50 || got["Finanças"] != 15 {
		t.Errorf("aggregates = %v, want Coding=50 Finanças=15", got)
	}

	from := mustDate(t, "2025-09-02")
	rows, err = svc.AggregateByArea(ctx, Filter{From: &from})
	if err != nil {
		t.Fatalf("AggregateByArea range: %v", err)
	}
	got = map[string]int{}
	for _, r := range rows {
		got[r.Area] = r.XP
	}
	if got["Coding"] != 20 {
		t.Errorf("ranged Coding = %d, want 20", got["Coding"])
	}
}

func TestBucketXP(t *testing.T) {
	events := []Event{
		{Date: mustDate(t, "2025-09-01"), XP: 10}, // Monday
		{Date: mustDate(t, "2025-09-03"), XP: 20},
		{Date: mustDate(t, "2025-09-08"), XP: 5}, // next week
	}

	weekly := BucketXP(events, "week")
	if len(weekly) != 2 {
		t.Fatalf("got %d weekly buckets, want 2", len(weekly))
	}
	if weekly[0].XP != 30 || weekly[1].XP != 5 {
		t.Errorf("weekly = %+v, want 30 then 5", weekly)
	}

	daily := BucketXP(events, "day")
	if len(daily) != 3 {
		t.Errorf("got %d daily buckets, want 3", len(daily))
	}
}

func TestFillBuckets(t *testing.T) {
	sparse := []TimeBucket{
		{Date: mustDate(t, "2025-09-01"), XP: 30}, // Monday
		{Date: mustDate(t, "2025-09-22"), XP: 5},  // three weeks later
	}

	filled := FillBuckets(sparse, "week")
	if len(filled) != 4 {
		t.Fatalf("got %d weekly buckets, want 4", len(filled))
	}
	if filled[1].XP != 0 || filled[2].XP != 0 {
		t.Errorf("idle weeks should be zero buckets: %+v", filled)
	}
	if filled[1].Date.String() != "2025-09-08" || filled[2].Date.String() != "2025-09-15" {
		t.Errorf("idle weeks misplaced: %+v", filled)
	}
	if filled[0].XP != 30 || filled[3].XP != 5 {
		t.Errorf("original buckets changed: %+v", filled)
	}

	months := FillBuckets([]TimeBucket{
		{Date: mustDate(t, "2025-06-01"), XP: 10},
		{Date: mustDate(t, "2025-09-01"), XP: 20},
	}, "month")
	if len(months) != 4 {
		t.Errorf("got %d monthly buckets, want 4", len(months))
	}
}

func TestComputeBadges(t *testing.T) {
	today := mustDate(t, "2025-09-10")

	t.Run("Empty", func(t *testing.T) {
		if got := ComputeBadges(nil, today); len(got) != 0 {
			t.Errorf("badges for no events = %v, want none", got)
		}
	})

	t.Run("CommittedAndWeeklyHero", func(t *testing.T) {
		events := []Event{
			{Date: today.AddDays(-30), XP: 900},
			{Date: today.AddDays(-2), XP: 250},
		}
		names := badgeNames(ComputeBadges(events, today))
		if !names["Committed"] {
			t.Error("want Committed for >1000 XP")
		}
		if !names["Weekly Hero"] {
			t.Error("want Weekly Hero for >200 XP in last 7 days")
		}
		if names["Veteran"] {
			t.Error("Veteran requires >5000 XP")
		}
	})

	t.Run("Consistent", func(t *testing.T) {
		// Six of the eight calendar weeks ending today carry XP.
		weekStart := mustDate(t, "2025-09-08")
		var events []Event
		for week := 0; week < 8; week++ {
			if week == 3 || week == 5 {
				continue
			}
			events = append(events, Event{Date: weekStart.AddDays(-7 * week), XP: 10})
		}
		names := badgeNames(ComputeBadges(events, today))
		if !names["Consistent"] {
			t.Error("want Consistent for 6 of 8 active calendar weeks")
		}
	})

	t.Run("ConsistentLapses", func(t *testing.T) {
		// Eight fully active weeks, but the run ended ten weeks ago: the
		// window that matters is the one ending today, so the badge lapses.
		weekStart := mustDate(t, "2025-09-08")
		var events []Event
		for week := 10; week < 18; week++ {
			events = append(events, Event{Date: weekStart.AddDays(-7 * week), XP: 10})
		}
		names := badgeNames(ComputeBadges(events, today))
		if names["Consistent"] {
			t.Error("Consistent must lapse once the active weeks fall out of the window")
		}
	})
}

func badgeNames(badges []Badge) map[string]bool {
	names := map[string]bool{}
	for _, b := range badges {
		names[b.Name] = true
	}
	return names
}

func TestImportCSVSkipsBadRows(t *testing.T) {
	db := newTestDB(t)
	ctx := testCtx("marcel.pimenta")
	svc := NewService(NewRepository(db), fixedMultiplier(1.0))

	input := strings.Join([]string{
		"date,area,xp,note,type",
		"2025-09-01,Coding,30,import one,import",
		"not-a-date,Coding,30,bad date,import",
		"2025-09-02,Finanças,abc,bad xp,import",
		"2025-09-03,Social,15,,",
	}, "\n")

	report, err := ImportCSV(ctx, svc, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if report.Imported != 2 {
		t.Errorf("Imported = %d, want 2", report.Imported)
	}
	if report.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", report.Skipped)
	}
	if len(report.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", report.Errors)
	}

	events, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("stored %d events, want 2", len(events))
	}
}

func TestSeriesUsesNow(t *testing.T) {
	db := newTestDB(t)
	ctx := testCtx("marcel.pimenta")
	svcImpl := &service{repo: NewRepository(db), multipliers: fixedMultiplier(1.0), now: func() time.Time {
		return time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	}}

	if _, err := svcImpl.Record(ctx, RecordEventDTO{Area: "Coding", XP: 10}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	events, err := svcImpl.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if events[0].Date.String() != "2025-09-10" {
		t.Errorf("zero date should default to today, got %s", events[0].Date)
	}
}
