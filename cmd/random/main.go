package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"image-ranker/internal"
	"image-ranker/internal/logging"
	"image-ranker/internal/ranker"
	"image-ranker/internal/report"
	"image-ranker/internal/source"
)

func main() {
	internal.LoadEnv()
	cfg := internal.LoadConfig()

	flag.StringVar(&cfg.Folder, "folder", cfg.Folder, "Directory or s3://bucket/prefix to scan")
	flag.IntVar(&cfg.TopK, "top-k", cfg.TopK, "Number of matches to print")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Images decoded in parallel")
	flag.BoolVar(&cfg.MarkDuplicates, "dupes", cfg.MarkDuplicates, "Flag perceptual near-duplicates")
	seed := flag.Int64("seed", 0, "Seed for picking the reference (0 = random)")
	asJSON := flag.Bool("json", false, "Print the ranking as JSON")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Usage: random -folder <dir|s3://bucket/prefix> [-top-k 5] [-seed N]")
		os.Exit(1)
	}

	log, err := logging.New(cfg.ErrorsLog, cfg.Silent)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log, *seed, *asJSON)
	stop()
	if err != nil {
		log.Errorf("%v", err)
	}
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg internal.Config, log *logging.Logger, seed int64, asJSON bool) error {
	src, err := source.FromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	ranking, err := ranker.New(cfg, log).RankRandom(ctx, src, cfg.TopK, ranker.NewRand(seed))
	if err != nil {
		return fmt.Errorf("rank random image in %s: %w", cfg.Folder, err)
	}

	format := report.Scores
	if asJSON {
		format = report.JSON
	}
	return report.Write(os.Stdout, ranking, format)
}
