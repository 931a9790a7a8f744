// Package seed imports schools in bulk from CSV files.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/locus/internal/geocoding"
	"github.com/UnknownOlympus/locus/internal/metrics"
	"github.com/UnknownOlympus/locus/internal/service"
)

// ErrNoProvider is reported for rows without coordinates when the loader has no geocoder.
var ErrNoProvider = errors.New("row has no coordinates and no geocoding provider is configured")

// Adder stores a validated school. It is satisfied by *service.SchoolService.
type Adder interface {
	AddSchool(ctx context.Context, input service.NewSchool) (int64, error)
}

// Progress is notified once for every processed row.
type Progress interface {
	Add(num int) error
}

// Report summarises a finished import.
type Report struct {
	Imported int
	Failed   int
}

// Loader imports rows through a fixed pool of workers. Each row goes through
// the school service, so it is validated like an API request.
type Loader struct {
	log           *slog.Logger       // Logger for logging loader activities
	schools       Adder              // Service storing the imported schools
	provider      geocoding.Provider // Geocoding provider for rows without coordinates, may be nil
	providerName  string             // Name of the provider for metrics labeling
	metrics       *metrics.Metrics   // Metrics for tracking import progress
	numWorkers    int                // Number of concurrent workers
	addressPrefix string             // Prefix added to addresses before geocoding (country, city, etc.)
	progress      Progress
}

// NewLoader creates a new Loader. A non-positive numWorkers is treated as one.
func NewLoader(
	log *slog.Logger,
	schools Adder,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
	addressPrefix string,
) *Loader {
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &Loader{
		log:           log,
		schools:       schools,
		provider:      provider,
		providerName:  providerName,
		metrics:       metrics,
		numWorkers:    numWorkers,
		addressPrefix: addressPrefix,
	}
}

// WithProgress sets a progress reporter and returns the loader.
func (l *Loader) WithProgress(progress Progress) *Loader {
	l.progress = progress
	return l
}

// Load imports rows and waits for all workers to finish. A failed row is logged
// and counted, it never aborts the batch. Rows still queued when ctx is cancelled
// are counted as failed.
func (l *Loader) Load(ctx context.Context, rows []Row) Report {
	l.log.InfoContext(ctx, "Starting import", "rows", len(rows), "num_workers", l.numWorkers)

	jobs := make(chan Row, len(rows))
	results := make(chan bool, len(rows))
	var wgr sync.WaitGroup

	for i := 1; i <= l.numWorkers; i++ {
		wgr.Add(1)
		go l.worker(ctx, i, &wgr, jobs, results)
	}

	for _, row := range rows {
		jobs <- row
	}
	close(jobs)

	wgr.Wait()
	close(results)

	var report Report
	for ok := range results {
		if ok {
			report.Imported++
		} else {
			report.Failed++
		}
	}

	l.log.InfoContext(ctx, "Import finished", "imported", report.Imported, "failed", report.Failed)

	return report
}

func (l *Loader) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan Row, results chan<- bool) {
	defer wg.Done()
	for row := range jobs {
		l.metrics.SeedActiveWorkers.Inc()
		l.log.DebugContext(ctx, "Processing row", "worker", idx, "line", row.Line)

		id, err := l.process(ctx, row)
		if err != nil {
			l.log.ErrorContext(ctx, "Failed to import row", "worker", idx, "line", row.Line, "error", err)
			l.metrics.SeedRows.WithLabelValues(metrics.StatusFailure).Inc()
		} else {
			l.log.DebugContext(ctx, "Row imported", "worker", idx, "line", row.Line, "id", id)
			l.metrics.SeedRows.WithLabelValues(metrics.StatusSuccess).Inc()
		}
		results <- err == nil

		if l.progress != nil {
			if errProgress := l.progress.Add(1); errProgress != nil {
				l.log.DebugContext(ctx, "Failed to update progress", "worker", idx, "error", errProgress)
			}
		}
		l.metrics.SeedActiveWorkers.Dec()
	}
}

func (l *Loader) process(ctx context.Context, row Row) (int64, error) {
	if row.Err != nil {
		return 0, row.Err
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("import cancelled: %w", err)
	}

	input := service.NewSchool{
		Name:      row.Name,
		Address:   row.Address,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
	}

	if input.Latitude == nil || input.Longitude == nil {
		if l.provider == nil {
			return 0, ErrNoProvider
		}

		startTime := time.Now()
		coords, err := l.provider.Geocode(ctx, l.addressPrefix+row.Address)
		l.metrics.GeocodingSeconds.WithLabelValues(l.providerName).Observe(time.Since(startTime).Seconds())
		if err != nil {
			l.metrics.GeocodingErrors.Inc()
			return 0, fmt.Errorf("failed to geocode address: %w", err)
		}

		input.Latitude, input.Longitude = &coords.Latitude, &coords.Longitude
	}

	return l.schools.AddSchool(ctx, input)
}
