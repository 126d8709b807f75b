package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/projectsamarth/samarth/internal/app"
	"github.com/projectsamarth/samarth/internal/config"
	"github.com/projectsamarth/samarth/internal/dataset"
	"github.com/projectsamarth/samarth/internal/observability"
)

func main() {
	table := flag.String("table", "", "table name; defaults to one derived from the file name (single file only)")
	prefix := flag.String("prefix", "", "table prefix inside the bucket; defaults to SAMARTH_DATASET_TABLE_PREFIX")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall import timeout")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: samarth-import [flags] <file.csv> [file.csv...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *table != "" && len(files) > 1 {
		fmt.Fprintln(os.Stderr, "-table can only be used with a single file")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("samarth-import")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := app.OpenObjectStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open object store", slog.Any("error", err))
		os.Exit(1)
	}

	importer := &dataset.Importer{
		ObjectStore: store,
		TablePrefix: firstNonEmpty(*prefix, cfg.Dataset.TablePrefix),
		Logger:      logger,
	}

	failed := false
	for _, file := range files {
		name := *table
		if name == "" {
			name = dataset.TableName(file)
		}
		if err := importFile(ctx, importer, name, file); err != nil {
			logger.Error("import failed", slog.String("file", file), slog.Any("error", err))
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func importFile(ctx context.Context, importer *dataset.Importer, table, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	result, err := importer.ImportCSV(ctx, table, f)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d rows -> %s\n", result.Table, result.RecordCount, result.ObjectKey)
	for _, column := range result.Columns {
		fmt.Printf("  %-32s %s\n", column.Name, column.Type)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}
