package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/pulsefilter/internal/logger"
	"github.com/guttosm/pulsefilter/internal/metrics"
	"github.com/guttosm/pulsefilter/internal/storage"
)

const (
	fileDateLayout   = "02-01-2006" // DD-MM-YYYY
	fileSuffix       = "_NEGOCIOSAVISTA.txt"
	defaultBatchSize = 5000
	maxDays          = 7
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.TradesRepository {
	return storage.NewTradesRepository(db)
}

// nowFn anchors the business-day window; tests pin it.
var nowFn = time.Now

// Options controls one ingestion run.
type Options struct {
	Dir      string // directory holding DD-MM-YYYY_NEGOCIOSAVISTA.txt files
	Days     int    // business days to ingest, clamped to 1..7
	Parallel int    // worker count; 0 picks min(7, NumCPU)
	Force    bool   // re-ingest days already present in ingestion_log
	Batch    int    // COPY batch size; 0 picks 5000
}

// Summary reports what a run did.
type Summary struct {
	Files    int
	Skipped  int
	Rows     int
	Duration time.Duration
}

// ProcessDirectory ingests the last opts.Days business days from opts.Dir.
//
// Every expected file must exist before any work starts. Files are processed
// concurrently; the first failure cancels the remaining workers and is
// returned. Days already recorded in the ingestion log are skipped unless
// opts.Force is set, in which case their trades are deleted and reloaded.
func ProcessDirectory(ctx context.Context, db *sql.DB, opts Options) (Summary, error) {
	repo := repoCtor(db)
	started := time.Now()

	days := clamp(opts.Days, 1, maxDays)
	batch := opts.Batch
	if batch <= 0 {
		batch = defaultBatchSize
	}

	files, err := expectedFiles(opts.Dir, LastNBusinessDays(days, nowFn()))
	if err != nil {
		return Summary{}, err
	}

	workers := opts.Parallel
	if workers <= 0 {
		workers = min(maxDays, runtime.NumCPU())
	}
	workers = clamp(workers, 1, maxDays)

	log := logger.L()
	log.Info().Int("files", len(files)).Str("dir", opts.Dir).Int("workers", workers).Bool("force", opts.Force).Msg("ingestion start")

	var skipped, rows atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			base := filepath.Base(path)
			n, skip, err := ingestFile(gctx, repo, path, batch, opts.Force)
			switch {
			case err != nil:
				metrics.IngestedFiles.WithLabelValues(metrics.FileFailed).Inc()
				log.Error().Str("file", base).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", base, err)
			case skip:
				skipped.Add(1)
				metrics.IngestedFiles.WithLabelValues(metrics.FileSkipped).Inc()
				log.Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Msg("already ingested")
			default:
				rows.Add(int64(n))
				metrics.IngestedFiles.WithLabelValues(metrics.FileIngested).Inc()
				metrics.IngestedRows.Add(float64(n))
				log.Info().Int("idx", i+1).Int("total", len(files)).Str("file", base).Int("rows", n).Msg("file done")
			}
			return nil
		})
	}

	err = g.Wait()
	sum := Summary{
		Files:    len(files),
		Skipped:  int(skipped.Load()),
		Rows:     int(rows.Load()),
		Duration: time.Since(started),
	}
	if err != nil {
		return sum, err
	}
	log.Info().Int("rows", sum.Rows).Int("skipped", sum.Skipped).Dur("elapsed", sum.Duration).Msg("ingestion done")
	return sum, nil
}

// expectedFiles maps business days to file paths and fails listing every
// missing one.
func expectedFiles(dir string, days []time.Time) ([]string, error) {
	files := make([]string, 0, len(days))
	var missing []string
	for _, d := range days {
		name := d.Format(fileDateLayout) + fileSuffix
		full := filepath.Join(dir, name)
		if _, err := os.Stat(full); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("stat %s: %w", full, err)
			}
			missing = append(missing, name)
		}
		files = append(files, full)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required files: %s", strings.Join(missing, ", "))
	}
	return files, nil
}

// ingestFile loads one day. It reports skip=true when the day is already
// logged and force is off.
func ingestFile(ctx context.Context, repo storage.TradesRepository, path string, batch int, force bool) (rows int, skip bool, err error) {
	base := filepath.Base(path)
	day, err := time.Parse(fileDateLayout, strings.TrimSuffix(base, fileSuffix))
	if err != nil {
		return 0, false, fmt.Errorf("parse date from filename: %w", err)
	}

	exists, err := repo.HasIngestionForDate(ctx, day)
	if err != nil {
		return 0, false, fmt.Errorf("check ingestion log: %w", err)
	}
	if exists {
		if !force {
			return 0, true, nil
		}
		if err := repo.DeleteTradesByDate(ctx, day); err != nil {
			return 0, false, fmt.Errorf("delete existing: %w", err)
		}
	}

	rows, err = parseAndPersistFile(ctx, path, repo, batch)
	if err != nil {
		return 0, false, err
	}
	if err := repo.UpsertIngestionLog(ctx, day, base, rows); err != nil {
		return 0, false, fmt.Errorf("upsert ingestion log: %w", err)
	}
	return rows, false, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
