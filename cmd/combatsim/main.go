package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/combat-rules-engine/internal/combat"
	"github.com/KirkDiggler/combat-rules-engine/internal/config"
	"github.com/KirkDiggler/combat-rules-engine/internal/definitions"
	"github.com/KirkDiggler/combat-rules-engine/internal/logging"
	defrepo "github.com/KirkDiggler/combat-rules-engine/internal/repositories/definitions"
	"github.com/KirkDiggler/combat-rules-engine/internal/scenario"
)

func main() {
	scenarioPath := flag.String("scenario", "data/scenarios/ambush.yaml", "scenario file to run")
	quiet := flag.Bool("quiet", false, "only print the final state")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	defs, err := loadDefinitions(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load definitions", zap.Error(err))
	}
	if err := defs.Validate(); err != nil {
		logger.Fatal("Definitions are invalid", zap.Error(err))
	}

	sc, err := scenario.LoadFile(*scenarioPath)
	if err != nil {
		logger.Fatal("Failed to load scenario", zap.String("path", *scenarioPath), zap.Error(err))
	}

	runner := scenario.NewRunner(&scenario.RunnerConfig{
		Combat: combat.Config{
			Seed:                   cfg.Combat.Seed,
			SurfaceActions:         cfg.Combat.SurfaceActions,
			ConcentrationSaveBonus: cfg.Combat.ConcentrationSaveBonus,
			MaxRuleDepth:           cfg.Combat.RuleMaxDepth,
		},
		Definitions: defs,
		Logger:      logger,
	})

	report, err := runner.Run(sc)
	if err != nil {
		logger.Fatal("Scenario failed", zap.Error(err))
	}

	if !*quiet {
		for i, e := range report.Combat.History() {
			fmt.Printf("%4d  %s\n", i+1, scenario.FormatEvent(e))
		}
		fmt.Println()
	}

	fmt.Printf("%s: %d rounds\n", displayName(sc), report.Rounds)
	for _, spec := range sc.Combatants {
		hp, maxHP, ok := report.Combat.HitPoints(spec.ID)
		if !ok {
			fmt.Printf("  %-12s left the combat\n", spec.ID)
			continue
		}
		fmt.Printf("  %-12s %3d/%-3d %v\n", spec.ID, hp, maxHP, report.Combat.Statuses.StatusIDs(spec.ID))
	}
	for _, actionErr := range report.ActionErrors {
		fmt.Printf("  rejected: %v\n", actionErr)
	}
	for _, engineErr := range report.Combat.Errors() {
		fmt.Printf("  error: %v\n", engineErr)
	}
}

func displayName(sc *scenario.Scenario) string {
	if sc.Name != "" {
		return sc.Name
	}
	return "scenario"
}

// loadDefinitions reads the data directory and layers the Redis store on top when configured
func loadDefinitions(cfg *config.Config, logger *zap.Logger) (*definitions.Set, error) {
	defs, err := definitions.LoadDir(cfg.Definitions.Dir)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded definition files",
		zap.String("dir", cfg.Definitions.Dir),
		zap.Int("statuses", len(defs.Statuses)),
		zap.Int("passives", len(defs.Passives)),
	)

	if cfg.Redis.URL == "" {
		return defs, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("Failed to parse Redis URL, using files only", zap.Error(err))
		return defs, nil
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		logger.Warn("Failed to connect to Redis, using files only", zap.Error(pingErr))
		return defs, nil
	}

	stored, err := defrepo.LoadSet(ctx, defrepo.NewRedis(client))
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded stored definitions",
		zap.Int("statuses", len(stored.Statuses)),
		zap.Int("passives", len(stored.Passives)),
	)
	defs.Merge(stored)
	return defs, nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: combatsim [-scenario file] [-quiet]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a scripted combat and prints its event log.\n")
		flag.PrintDefaults()
	}
}
