package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lingualink/gamify/missions"
	"github.com/lingualink/gamify/missions/catalog"
	"github.com/lingualink/gamify/missions/database"
	"github.com/lingualink/gamify/missions/database/repositories"
	"github.com/lingualink/gamify/missions/interfaces"
	"github.com/lingualink/gamify/missions/logger"
	"github.com/lingualink/gamify/missions/migration"
	"github.com/lingualink/gamify/missions/notifier"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	initDB := flag.Bool("init-db", false, "initialize the database schema and exit")
	resetDB := flag.Bool("reset-db", false, "truncate all engine tables before starting")
	importLegacy := flag.Bool("import-legacy", false, "import the legacy Mongo export and exit")
	find := flag.String("find", "", "fuzzy-search the mission catalog and exit")
	simulate := flag.String("simulate", "", "simulate a day of activity for the given player id and exit")
	flag.Parse()

	cfg, err := missions.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Log.Format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     cfg.Log.Level,
			AddSource: cfg.Log.AddSource,
		})))
	} else {
		slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	}

	logger.LogSystem("Starting LinguaLink missions engine",
		slog.String("version", version),
		slog.String("commit", commit))

	cat := catalog.Default()

	// Catalog-only commands need no database.
	if *find != "" {
		runFind(cat, *find)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		logger.LogError("Database connection failed", err,
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(1)
	}
	defer db.Close()

	logger.LogSystem("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(1)
	}
	if *initDB {
		return
	}

	if *resetDB {
		if err := db.ResetTables(ctx); err != nil {
			slog.Error("Failed to reset tables", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Engine tables truncated")
	}

	if *importLegacy {
		runImport(ctx, db, cfg)
		return
	}

	repos, uow := repositories.NewBunUnitOfWork(db.BunDB())

	var sink interfaces.NotificationSink
	if cfg.Notify.WebhookURL != "" {
		webhookSink, err := notifier.NewWebhookSink(cfg.Notify.WebhookURL)
		if err != nil {
			slog.Error("Failed to create webhook sink", slog.Any("error", err))
			os.Exit(1)
		}
		defer webhookSink.Close(context.Background())
		sink = webhookSink
	}

	var rng interfaces.RandomSource
	if cfg.Engine.Seed != 0 {
		rng = interfaces.NewSeededRand(cfg.Engine.Seed)
	}

	engine := missions.New(cat, repos, uow, nil, rng, sink)

	if *simulate != "" {
		runSimulation(ctx, engine, *simulate)
		return
	}

	slog.Info("Engine ready; use -init-db, -import-legacy, -find or -simulate")
}

func runFind(cat *catalog.Catalog, query string) {
	matches := cat.Search(query)
	if len(matches) == 0 {
		fmt.Printf("no templates match %q\n", query)
		return
	}
	for _, m := range matches {
		fmt.Printf("%-24s %-28s %-10s target=%d points=%d\n",
			m.Template.ID, m.Template.Title, m.Template.Rarity, m.Template.TargetValue, m.Template.PointsReward)
	}
}

func runImport(ctx context.Context, db *database.DB, cfg *missions.Config) {
	if cfg.Legacy.URI == "" || cfg.Legacy.Database == "" {
		slog.Error("Legacy import requires [legacy] uri and database in the config")
		os.Exit(1)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Legacy.URI))
	if err != nil {
		slog.Error("Failed to connect to legacy Mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	importer := migration.NewImporter(db.BunDB(), client, cfg.Legacy.Database)
	importer.SetBatchSize(cfg.Legacy.BatchSize)

	stats, err := importer.Run(ctx)
	if err != nil {
		logger.LogError("Legacy import failed", err)
		os.Exit(1)
	}
	for name, table := range stats.Tables {
		fmt.Printf("%-12s imported=%d skipped=%d\n", name, table.Imported, table.Skipped)
	}
}

// runSimulation exercises one full engine cycle against the live database:
// login, refresh, a burst of events, then claims on whatever completed.
func runSimulation(ctx context.Context, engine *missions.Engine, playerID string) {
	login, err := engine.RecordDailyLogin(ctx, playerID)
	if err != nil {
		slog.Error("Simulation login failed", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("login: streak=%d bonus=%d\n", login.StreakDays, login.BonusPoints)

	active, err := engine.ListActiveMissions(ctx, playerID)
	if err != nil {
		slog.Error("Simulation refresh failed", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("active missions: %d\n", len(active))

	events := []struct {
		action catalog.ActionType
		count  int
	}{
		{catalog.ActionSendMessages, 60},
		{catalog.ActionCompleteTranslations, 25},
		{catalog.ActionShareMedia, 12},
		{catalog.ActionAddContacts, 3},
	}
	for _, ev := range events {
		for i := 0; i < ev.count; i++ {
			if err := engine.ApplyActionEvent(ctx, playerID, ev.action, 1); err != nil {
				slog.Error("Simulation event failed", slog.Any("error", err))
				os.Exit(1)
			}
		}
	}

	active, err = engine.ListActiveMissions(ctx, playerID)
	if err != nil {
		slog.Error("Simulation listing failed", slog.Any("error", err))
		os.Exit(1)
	}
	for _, inst := range active {
		if !inst.Completed || inst.Claimed {
			continue
		}
		result, err := engine.Claim(ctx, playerID, inst.ID)
		if err != nil {
			slog.Error("Simulation claim failed", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Printf("claimed %q: +%d points", inst.Title, result.PointsAwarded)
		if result.SpecialReward != nil {
			fmt.Printf(" reward=%s(%s)", result.SpecialReward.Type, result.SpecialReward.Rarity)
		}
		fmt.Println()
	}

	stats, err := engine.GetStats(ctx, playerID)
	if err != nil {
		slog.Error("Simulation stats failed", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("stats: completed=%d points=%d level=%s streak=%d rewards=%d\n",
		stats.TotalCompleted, stats.TotalPoints, stats.Level, stats.StreakDays, stats.SpecialRewards)
}
