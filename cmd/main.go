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

	flag.StringVar(&cfg.Input, "input", cfg.Input, "Reference image (name in -folder or a path)")
	flag.StringVar(&cfg.Folder, "folder", cfg.Folder, "Directory or s3://bucket/prefix to scan")
	flag.IntVar(&cfg.TopK, "top-k", cfg.TopK, "Number of matches to print")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Images decoded in parallel")
	flag.BoolVar(&cfg.MarkDuplicates, "dupes", cfg.MarkDuplicates, "Flag perceptual near-duplicates")
	asJSON := flag.Bool("json", false, "Print the ranking as JSON")
	progress := flag.Bool("progress", false, "Show a progress bar on stderr")
	flag.Parse()

	if cfg.Input == "" {
		fmt.Println("Usage: ranker -input <image> -folder <dir|s3://bucket/prefix> [-top-k 5]")
		fmt.Println("Use cmd/random to pick the reference at random.")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.ErrorsLog, cfg.Silent)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log, *asJSON, *progress)
	stop()
	if err != nil {
		log.Errorf("%v", err)
	}
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg internal.Config, log *logging.Logger, asJSON, progress bool) error {
	src, err := source.FromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	r := ranker.New(cfg, log)
	if progress {
		r.OnProgress = report.Progress(os.Stderr, "scoring")
	}

	ranking, err := r.Rank(ctx, src, cfg.Input, cfg.TopK)
	if err != nil {
		return fmt.Errorf("rank %s: %w", cfg.Input, err)
	}

	format := report.Names
	if asJSON {
		format = report.JSON
	}
	return report.Write(os.Stdout, ranking, format)
}
