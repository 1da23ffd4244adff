package container

import (
	"log"

	"lifehud/internal/auth"
	"lifehud/internal/config"
	"lifehud/internal/dashboard"
	"lifehud/internal/event"
	"lifehud/internal/goal"
	"lifehud/internal/meta"
	"lifehud/internal/penalty"
	"lifehud/internal/perk"
	"lifehud/internal/quest"
	"lifehud/internal/user"
	"lifehud/internal/userconfig"
)

type Container struct {
	Config             config.Config
	UserContainer      *user.UserContainer
	EventContainer     *event.Container
	QuestContainer     *quest.Container
	PerkContainer      *perk.Container
	MetaContainer      *meta.Container
	GoalContainer      *goal.Container
	PenaltyContainer   *penalty.Container
	DashboardContainer *dashboard.Container
}

func New() *Container {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	config.InitLogger(cfg.LogLevel)
	auth.Init(cfg.JWTSecret)

	if err := config.Connect(cfg.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	db := config.DB

	if err := db.AutoMigrate(
		&user.User{},
		&event.Event{},
		&quest.Quest{},
		&perk.Perk{},
		&meta.Meta{},
		&penalty.Rule{},
		&penalty.Application{},
		&userconfig.Entry{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	configRepo := userconfig.NewRepository(db)
	penaltyRepo := penalty.NewRepository(db)

	// The perk resolver reads XP from the ledger repository, and the event
	// service asks the perk service for multipliers; the two meet through
	// their interfaces, never through each other's packages.
	eventRepo := event.NewRepository(db)
	perkContainer := perk.NewContainer(db, eventRepo)
	eventContainer := event.NewContainer(db, perkContainer.Service)

	questContainer := quest.NewContainer(db, configRepo, eventContainer.Service, penaltyRepo)
	metaContainer := meta.NewContainer(db, questContainer.Repo, eventRepo, configRepo)
	goalContainer := goal.NewContainer(db, eventRepo, configRepo, eventContainer.Service, penaltyRepo)
	penaltyContainer := penalty.NewContainer(db, configRepo, eventContainer.Service)
	dashboardContainer := dashboard.NewContainer(
		eventContainer.Service,
		eventRepo,
		questContainer.Service,
		perkContainer.Service,
		goalContainer.Service,
		configRepo,
	)
	userContainer := user.NewUserContainer(db)

	if err := user.SeedDefaults(db, userContainer.Repo); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	if err := perk.SeedCatalog(perkContainer.Repo); err != nil {
		log.Fatalf("failed to seed perk catalog: %v", err)
	}

	return &Container{
		Config:             cfg,
		UserContainer:      userContainer,
		EventContainer:     eventContainer,
		QuestContainer:     questContainer,
		PerkContainer:      perkContainer,
		MetaContainer:      metaContainer,
		GoalContainer:      goalContainer,
		PenaltyContainer:   penaltyContainer,
		DashboardContainer: dashboardContainer,
	}
}
