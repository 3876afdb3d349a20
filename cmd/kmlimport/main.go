// Command kmlimport streams a KML document into a PostGIS-backed
// placemarks table, batch by batch, acking each batch only after its
// transaction commits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/devonrourke/kmlstream"
	"github.com/devonrourke/kmlstream/internal/pgstore"
)

func main() {
	kmlPath := flag.String("kml", "", "path to the KML file to import")
	truncate := flag.Bool("truncate", false, "truncate the placemarks table before importing")
	dryRun := flag.Bool("dry-run", false, "parse and print a summary without writing to the database")
	batchSize := flag.Int("batch-size", 256, "flush once more than this many placemarks are buffered")
	flag.Parse()

	if *kmlPath == "" {
		log.Fatal("-kml is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *kmlPath, *batchSize, *truncate, *dryRun); err != nil {
		log.Fatalf("kmlimport: %v", err)
	}
}

func run(ctx context.Context, kmlPath string, batchSize int, truncate, dryRun bool) error {
	f, err := os.Open(kmlPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", kmlPath, err)
	}
	defer f.Close()

	opts := kmlstream.ParseOptions{
		BatchSize: batchSize,
		Warn: func(err error, path []string) {
			log.Printf("dropped geometry at %v: %v", path, err)
		},
	}

	if dryRun {
		return dryRunSummary(ctx, f, opts)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	store := pgstore.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if truncate {
		if err := store.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
	}

	parser, wait := kmlstream.Events(ctx, f, opts)

	total, inserted := 0, 0
	for batch := range parser.Batches() {
		n, err := store.InsertBatch(ctx, batch.Placemarks)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		total += len(batch.Placemarks)
		inserted += n
		if err := parser.Ack(ctx); err != nil {
			return fmt.Errorf("ack batch: %w", err)
		}
	}
	if err := wait(); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	log.Printf("imported %d of %d streamed placemarks into PostgreSQL", inserted, total)
	return nil
}

// dryRunSummary parses the document without a database connection and
// prints a geometry-type breakdown, matching the dry-run behavior of
// the importer this command replaces.
func dryRunSummary(ctx context.Context, f *os.File, opts kmlstream.ParseOptions) error {
	counts := make(map[string]int)
	total := 0

	for pm, err := range kmlstream.Stream(ctx, f, opts) {
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		total++
		for _, g := range pm.Geoms {
			counts[geometryKindName(g)]++
		}
	}

	fmt.Printf("Placemarks: %d\n", total)
	for kind, count := range counts {
		fmt.Printf("  %s: %d\n", kind, count)
	}
	return nil
}

func geometryKindName(g kmlstream.Geometry) string {
	switch g.(type) {
	case kmlstream.Point:
		return "Point"
	case kmlstream.Line:
		return "LineString"
	case *kmlstream.Polygon:
		return "Polygon"
	case *kmlstream.MultiGeometry:
		return "MultiGeometry"
	default:
		return "Unknown"
	}
}
