package perk

import (
	"github.com/google/uuid"

	"lifehud/internal/scope"
)

// CatalogEntry is one perk the system ships with.
type CatalogEntry struct {
	Name         string
	Area         string
	UnlockLevel  int
	Effect       string
	Multiplier   float64
	DurationDays int
	Scope        scope.Scope
}

// Catalog is the fixed perk set seeded at startup.
var Catalog = []CatalogEntry{
	{
		Name:        "Focus Booster",
		Area:        "Produtividade",
		UnlockLevel: 3,
		Effect:      "10% XP bonus para tarefas de produtividade",
		Multiplier:  1.1,
		Scope:       scope.Global(),
	},
	{
		Name:         "Deep Work",
		Area:         "Coding",
		UnlockLevel:  5,
		Effect:       "XP x1.2 em Coding por 7 dias",
		Multiplier:   1.2,
		DurationDays: 7,
		Scope:        scope.Owned("marcel.pimenta"),
	},
	{
		Name:         "Deep Work",
		Area:         "Educação/Inglês/Produtividade",
		UnlockLevel:  5,
		Effect:       "XP x1.2 em Educação, Inglês e Produtividade por 7 dias",
		Multiplier:   1.2,
		DurationDays: 7,
		Scope:        scope.Owned("larissa.souza"),
	},
}

// SeedCatalog upserts the catalog by (name, area, owner). Activation state on
// existing rows is preserved; only the descriptive fields are refreshed.
func SeedCatalog(repo Repository) error {
	for _, entry := range Catalog {
		existing, err := repo.FindByNameAreaScope(entry.Name, entry.Area, entry.Scope)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.UnlockLevel = entry.UnlockLevel
			existing.Effect = entry.Effect
			existing.Multiplier = entry.Multiplier
			existing.DurationDays = entry.DurationDays
			if err := repo.Update(existing); err != nil {
				return err
			}
			continue
		}

		p := Perk{
			ID:           uuid.New(),
			Name:         entry.Name,
			Area:         entry.Area,
			UnlockLevel:  entry.UnlockLevel,
			Effect:       entry.Effect,
			Multiplier:   entry.Multiplier,
			DurationDays: entry.DurationDays,
			Owner:        entry.Scope.OwnerColumn(),
		}
		if err := repo.Create(&p); err != nil {
			return err
		}
	}
	return nil
}
