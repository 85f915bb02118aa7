package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/combat-rules-engine/internal/clients/dnd5e"
	"github.com/KirkDiggler/combat-rules-engine/internal/config"
	"github.com/KirkDiggler/combat-rules-engine/internal/definitions"
	"github.com/KirkDiggler/combat-rules-engine/internal/logging"
	defrepo "github.com/KirkDiggler/combat-rules-engine/internal/repositories/definitions"
)

func main() {
	class := flag.String("class", "", "only import spells on this class list")
	levels := flag.String("levels", "", "comma separated spell levels, empty for all")
	all := flag.Bool("all", false, "import spells that do not need concentration too")
	out := flag.String("out", "", "write a YAML definition file instead of storing in Redis")
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

	spellLevels, err := parseLevels(*levels)
	if err != nil {
		logger.Fatal("Invalid -levels", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	importer, err := dnd5e.New(&dnd5e.Config{
		HttpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: cfg.DND5E.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create D&D 5e client", zap.Error(err))
	}

	imported, err := importer.Import(ctx, &dnd5e.ImportInput{
		Class:             *class,
		Levels:            spellLevels,
		ConcentrationOnly: !*all,
	})
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}

	set := &definitions.Set{Statuses: imported}
	if err := set.Validate(); err != nil {
		logger.Fatal("Imported definitions are invalid", zap.Error(err))
	}

	if *out != "" {
		if err := writeFile(*out, set); err != nil {
			logger.Fatal("Failed to write definitions", zap.String("path", *out), zap.Error(err))
		}
		logger.Info("Wrote definitions", zap.String("path", *out), zap.Int("statuses", len(imported)))
		return
	}

	if cfg.Redis.URL == "" {
		logger.Fatal("REDIS_URL is required unless -out is given")
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}
	client := redis.NewClient(opts)
	defer client.Close()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(pingErr))
	}

	if err := defrepo.SaveSet(ctx, defrepo.NewRedis(client), set); err != nil {
		logger.Fatal("Failed to store definitions", zap.Error(err))
	}
	logger.Info("Stored definitions in Redis", zap.Int("statuses", len(imported)))
}

func parseLevels(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var levels []int
	for _, part := range strings.Split(text, ",") {
		level, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func writeFile(path string, set *definitions.Set) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
