package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/reconcile"
	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

// Options configures one import run.
type Options struct {
	// SourceName is recorded on the audit row, typically the file name.
	SourceName string

	// PurgeExisting deletes all centers and tenants before the first
	// row, inside the same transaction as the import itself.
	PurgeExisting bool

	// ProgressEvery logs a progress line every N rows. Zero means the
	// default of 100.
	ProgressEvery int
}

// Stats is the outcome of a run, shaped for JSON output.
type Stats struct {
	Success        bool     `json:"success"`
	RunID          string   `json:"run_id"`
	RowsTotal      int      `json:"rows_total"`
	RowsProcessed  int      `json:"rows_processed"`
	CentersCreated int      `json:"centers_created"`
	CentersUpdated int      `json:"centers_updated"`
	TenantsCreated int      `json:"tenants_created"`
	TenantsUpdated int      `json:"tenants_updated"`
	GeocodeSuccess int      `json:"geocode_success"`
	GeocodeFailed  int      `json:"geocode_failed"`
	QualityScore   int      `json:"quality_score"`
	Errors         []string `json:"errors,omitempty"`
	ErrorMessage   string   `json:"error_message,omitempty"`
}

// Importer runs whole-file imports against a store.
type Importer struct {
	store    store.Store
	geocoder geocode.Client
	groups   model.CategoryMap
	log      *zap.Logger
}

func New(st store.Store, gc geocode.Client, groups model.CategoryMap) *Importer {
	return &Importer{store: st, geocoder: gc, groups: groups, log: zap.L().Named("importer")}
}

// Run imports all rows inside one transaction. Row failures are
// recorded on the audit record and do not abort the batch; a failed
// precondition or a cancelled context aborts with nothing written.
func (im *Importer) Run(ctx context.Context, rows []Row, opts Options) (*Stats, error) {
	run, err := im.store.CreateImportRun(ctx, opts.SourceName)
	if err != nil {
		return nil, eris.Wrap(err, "importer: create run")
	}
	stats := &Stats{RunID: run.ID, RowsTotal: len(rows)}

	// The geocoder gates center creation, so an unconfigured one
	// fails the run before any row is touched.
	if !im.geocoder.Configured() {
		return im.fail(ctx, run, stats, geocode.ErrNotConfigured)
	}

	if err := im.store.StartImportRun(ctx, run.ID, len(rows)); err != nil {
		return nil, eris.Wrap(err, "importer: start run")
	}
	im.log.Info("import started",
		zap.String("run_id", run.ID),
		zap.String("source", opts.SourceName),
		zap.Int("rows", len(rows)),
		zap.Bool("purge", opts.PurgeExisting))

	progressEvery := opts.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 100
	}

	txErr := im.store.InTx(ctx, func(st store.Store) error {
		if opts.PurgeExisting {
			n, err := st.PurgeCenters(ctx)
			if err != nil {
				return eris.Wrap(err, "importer: purge existing data")
			}
			im.log.Info("purged existing data", zap.Int64("centers", n))
		}

		engine := reconcile.NewEngine(st, im.geocoder, im.groups)
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := engine.ProcessRow(ctx, buildRow(row))
			if err != nil {
				var gcErr *reconcile.GeocodeError
				if errors.As(err, &gcErr) {
					stats.GeocodeFailed++
				}
				stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %v", row.Number, err))
				continue
			}

			stats.RowsProcessed++
			if result.CenterCreated {
				stats.CentersCreated++
			}
			if result.CenterUpdated {
				stats.CentersUpdated++
			}
			if result.TenantCreated {
				stats.TenantsCreated++
			}
			if result.TenantUpdated {
				stats.TenantsUpdated++
			}
			if result.Geocoded {
				stats.GeocodeSuccess++
			}

			if (i+1)%progressEvery == 0 {
				im.log.Info("import progress",
					zap.String("run_id", run.ID),
					zap.Int("rows_done", i+1),
					zap.Int("rows_total", len(rows)))
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, context.Canceled) || errors.Is(txErr, context.DeadlineExceeded) {
			run.Status = model.RunStatusCancelled
			run.ErrorMessage = "import cancelled, no rows were committed"
		} else {
			run.Status = model.RunStatusFailed
			run.ErrorMessage = eris.ToString(txErr, false)
		}
		im.finish(ctx, run, stats)
		return stats, txErr
	}

	run.Status = model.RunStatusCompleted
	stats.Success = true
	im.finish(ctx, run, stats)

	im.log.Info("import finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(run.Status)),
		zap.Int("rows_processed", stats.RowsProcessed),
		zap.Int("errors", len(stats.Errors)),
		zap.Int("quality_score", stats.QualityScore))
	return stats, nil
}

// fail marks the run failed before it ever started processing.
func (im *Importer) fail(ctx context.Context, run *model.ImportRun, stats *Stats, cause error) (*Stats, error) {
	run.Status = model.RunStatusFailed
	run.ErrorMessage = eris.ToString(cause, false)
	im.finish(ctx, run, stats)
	return stats, cause
}

// finish computes the quality score, copies counters onto the audit
// record, and persists it. Persistence faults are logged, not
// returned: the import outcome is already decided.
func (im *Importer) finish(ctx context.Context, run *model.ImportRun, stats *Stats) {
	// The audit record must land even when the run died to a
	// cancelled context.
	ctx = context.WithoutCancel(ctx)

	stats.QualityScore = qualityScore(stats.RowsTotal, len(stats.Errors))
	stats.ErrorMessage = run.ErrorMessage

	run.RowsProcessed = stats.RowsProcessed
	run.RowsSkipped = len(stats.Errors)
	run.CentersCreated = stats.CentersCreated
	run.CentersUpdated = stats.CentersUpdated
	run.TenantsCreated = stats.TenantsCreated
	run.TenantsUpdated = stats.TenantsUpdated
	run.GeocodeSuccess = stats.GeocodeSuccess
	run.GeocodeFailed = stats.GeocodeFailed
	run.QualityScore = &stats.QualityScore
	run.Errors = stats.Errors

	if err := im.store.FinishImportRun(ctx, run); err != nil {
		im.log.Error("finish import run",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
}

// qualityScore grades a batch from its error rate: a clean batch is
// 100 and an all-errors batch bottoms out at 50.
func qualityScore(total, faulted int) int {
	if total == 0 {
		return 0
	}
	score := 100 - int(float64(faulted)/float64(total)*50)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
