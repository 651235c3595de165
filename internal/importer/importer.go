// Package importer bulk loads historical payment requests from CSV files.
package importer

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/packflow/internal/logger"
	"github.com/guttosm/packflow/internal/observability/metrics"
	"github.com/guttosm/packflow/internal/storage"
)

const (
	fileExt          = ".csv"
	maxParallelFiles = 8
)

// Repositories are the stores an import writes to.
type Repositories struct {
	ImportLog storage.ImportLogRepository
}

// reposCtor is an indirection for creating the repositories; tests can override this.
var reposCtor = func(db *sql.DB) Repositories {
	return Repositories{ImportLog: storage.NewImportLogRepository(db)}
}

// Options control a directory import.
type Options struct {
	// UserID owns every imported payment.
	UserID string
	// Parallel caps concurrent files. Zero means min(8, NumCPU).
	Parallel int
	// Force re-imports files whose content changed since the last run.
	Force bool
}

// ProcessDirectory imports every *.csv file in dir for opts.UserID.
//
// Behavior:
//   - Files are processed concurrently, bounded by opts.Parallel.
//   - Each file must carry the exact header. Its rows and its import log
//     entry are written in one transaction, so a failed file leaves nothing.
//   - A file whose checksum matches the import log is skipped.
//   - A file that changed since it was imported fails unless opts.Force is set.
//   - The first failure cancels the remaining files and is returned.
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, opts Options) error {
	if strings.TrimSpace(opts.UserID) == "" {
		return fmt.Errorf("import requires a user id")
	}
	repos := reposCtor(db)

	files, err := listFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", fileExt, dir)
	}

	maxParallel := maxParallelFiles
	if opts.Parallel > 0 {
		maxParallel = min(opts.Parallel, maxParallelFiles)
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}
	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("import start")

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

schedule:
	for i, file := range files {
		idx, f := i, file
		if gctx.Err() != nil {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break schedule
		}

		g.Go(func() error {
			defer func() { <-sem }()
			return importFile(gctx, f, idx, len(files), repos, opts)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func importFile(ctx context.Context, path string, idx, total int, repos Repositories, opts Options) error {
	start := time.Now()
	base := filepath.Base(path)
	log := logger.L().With().Int("idx", idx+1).Int("total", total).Str("file", base).Logger()

	sum, err := checksum(path)
	if err != nil {
		return fmt.Errorf("file %s: %w", base, err)
	}
	previous, err := repos.ImportLog.ImportedChecksum(ctx, base)
	if err != nil {
		return fmt.Errorf("file %s: check import log: %w", base, err)
	}
	switch {
	case previous == sum:
		log.Info().Bool("skipped", true).Msg("already imported")
		return nil
	case previous != "" && !opts.Force:
		return fmt.Errorf("file %s changed since it was imported, rerun with --force to import it again", base)
	}

	payments, err := parseFile(ctx, path, opts.UserID)
	if err != nil {
		log.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
		return fmt.Errorf("file %s: %w", base, err)
	}
	if err := repos.ImportLog.RecordImport(ctx, base, sum, payments); err != nil {
		log.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
		return fmt.Errorf("file %s: %w", base, err)
	}
	metrics.AddImportedRows(len(payments))
	log.Info().Int("rows", len(payments)).Dur("elapsed", time.Since(start)).Bool("force", opts.Force).Msg("file done")
	return nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), fileExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
