// Command o-sea scrapes OpenSea collections into per-collection CSV files:
// aggregate stats, asset custody, sale history, active listings, and the
// holdings and transaction histories of every wallet the collection touches.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/salustiana/o-sea/internal/config"
	"github.com/salustiana/o-sea/internal/job"
	"github.com/salustiana/o-sea/internal/sink"
	"github.com/salustiana/o-sea/pkg/client"
	"github.com/salustiana/o-sea/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the scrape configuration")
	pretty := flag.Bool("pretty", false, "human-readable log output")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// .env is optional; the environment may carry the key directly.
	_ = godotenv.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Pretty = *pretty
	if *verbose {
		logCfg.Level = logging.LevelDebug
	}
	logging.Setup(logCfg)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis is configured but unreachable")
		}
		defer redisClient.Close()
	}

	osea, err := client.New(client.Config{
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Redis:     redisClient,
		CacheTTL:  time.Duration(cfg.CacheTTL),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("creating the OpenSea client failed")
	}

	out, err := sink.NewCSV(cfg.OutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("creating the output sink failed")
	}
	defer out.Close()

	jobs := make([]job.Params, 0, len(cfg.Collections))
	for _, col := range cfg.Collections {
		jobs = append(jobs, job.Params{
			Slug:           col.Slug,
			AssetPages:     config.Ceiling(col.AssetPages),
			SalesPages:     config.Ceiling(col.SalesPages),
			WalletNFTPages: config.Ceiling(col.WalletNFTPages),
			WalletTxPages:  config.Ceiling(col.WalletTxPages),
			ListingAssets:  col.ListingAssets,
		})
	}

	runner := job.NewRunner(osea, out)
	if err := runner.Run(ctx, jobs); err != nil {
		log.Error().Err(err).Msg("scrape interrupted")
	}

	runner.Summary().Render(os.Stdout)
}
