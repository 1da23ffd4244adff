package perk

import (
	"testing"

	util "lifehud/internal/utils"
)

func mustDate(t *testing.T, s string) util.Date {
	t.Helper()
	d, err := util.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func owned(username string) *string { return &username }

func TestMatchesArea(t *testing.T) {
	cases := []struct {
		spec, area string
		want       bool
	}{
		{"", "Coding", true},
		{"Coding", "Coding", true},
		{"coding", "CODING", true},
		{"Educação/Inglês/Produtividade", "Inglês", true},
		{"Inglês", "Educação/Inglês/Produtividade", true},
		{"Coding", "Saúde Física", false},
		{"Coding", "", false},
	}
	for _, c := range cases {
		if got := MatchesArea(c.spec, c.area); got != c.want {
			t.Errorf("MatchesArea(%q, %q) = %v, want %v", c.spec, c.area, got, c.want)
		}
	}
}

func TestResolveNoStacking(t *testing.T) {
	today := mustDate(t, "2025-09-10")
	activated := mustDate(t, "2025-09-09")
	perks := []Perk{
		{Name: "Focus Booster", Area: "Produtividade", Multiplier: 1.1, Active: true, ActivatedAt: &activated},
		{Name: "Deep Work", Area: "Produtividade", Multiplier: 1.2, Active: true, ActivatedAt: &activated},
	}

	got := Resolve(perks, "marcel.pimenta", "Produtividade", today)
	if got != 1.2 {
		t.Fatalf("Resolve = %v, want 1.2 (highest wins, never 1.32)", got)
	}
}

func TestResolveNoMatchDefaultsToOne(t *testing.T) {
	today := mustDate(t, "2025-09-10")
	perks := []Perk{
		{Name: "Deep Work", Area: "Coding", Multiplier: 1.2, Active: true},
	}
	if got := Resolve(perks, "marcel.pimenta", "Finanças", today); got != 1.0 {
		t.Fatalf("Resolve = %v, want 1.0", got)
	}
}

func TestPerkExpiry(t *testing.T) {
	activated := mustDate(t, "2025-09-01")
	p := Perk{Name: "Deep Work", Area: "Coding", Multiplier: 1.2, Active: true,
		DurationDays: 7, ActivatedAt: &activated}

	day6 := mustDate(t, "2025-09-07")
	if !IsEffective(p, day6) {
		t.Error("perk should still be effective on day 6")
	}
	day8 := mustDate(t, "2025-09-09")
	if IsEffective(p, day8) {
		t.Error("perk should be expired on day 8")
	}
}

func TestFailOpenTiming(t *testing.T) {
	today := mustDate(t, "2025-09-10")
	p := Perk{Name: "Deep Work", Multiplier: 1.2, Active: true, DurationDays: 7}
	if !IsEffective(p, today) {
		t.Error("perk with no activation timestamp should fail open to effective")
	}

	p.Active = false
	if IsEffective(p, today) {
		t.Error("inactive perk must never be effective")
	}
}

func TestGlobalShadowing(t *testing.T) {
	perks := []Perk{
		{Name: "Focus Booster", Area: "Produtividade", Multiplier: 1.1},
		{Name: "Focus Booster", Area: "Coding", Multiplier: 1.3, Owner: owned("marcel.pimenta")},
		{Name: "Deep Work", Area: "Educação", Multiplier: 1.2, Owner: owned("larissa.souza")},
	}

	visible := VisibleTo(perks, "marcel.pimenta")
	if len(visible) != 1 {
		t.Fatalf("got %d visible perks, want 1: %+v", len(visible), visible)
	}
	if visible[0].Area != "Coding" {
		t.Errorf("user-specific perk should shadow the global one, got %+v", visible[0])
	}

	// Larissa keeps the global Focus Booster plus her own Deep Work.
	visible = VisibleTo(perks, "larissa.souza")
	if len(visible) != 2 {
		t.Fatalf("got %d visible perks for larissa, want 2", len(visible))
	}
}

func TestTimeRemaining(t *testing.T) {
	activated := mustDate(t, "2025-09-01")
	p := Perk{DurationDays: 7, ActivatedAt: &activated, Active: true}

	if days, unlimited := TimeRemaining(p, mustDate(t, "2025-09-03")); unlimited || days != 5 {
		t.Errorf("TimeRemaining = (%d, %v), want (5, false)", days, unlimited)
	}
	if days, _ := TimeRemaining(p, mustDate(t, "2025-09-20")); days != 0 {
		t.Errorf("expired perk remaining = %d, want 0", days)
	}
	if _, unlimited := TimeRemaining(Perk{DurationDays: 0}, mustDate(t, "2025-09-03")); !unlimited {
		t.Error("zero-duration perk should be unlimited")
	}
}
