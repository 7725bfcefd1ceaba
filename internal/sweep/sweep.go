// Package sweep backfills coordinates on centers that were stored
// before geocoding was configured, or re-geocodes everything on
// demand.
package sweep

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

// DefaultDelay is the pause between consecutive geocoding calls.
const DefaultDelay = 200 * time.Millisecond

// Options configures a sweep.
type Options struct {
	// Force re-geocodes every center, including ones that already
	// have coordinates.
	Force bool

	// Delay is the pause between calls. Zero means DefaultDelay.
	Delay time.Duration

	// Limit caps how many centers are considered. Zero means all.
	Limit int
}

// Result summarizes one sweep.
type Result struct {
	Total     int     `json:"total"`
	Success   int     `json:"success"`
	Skipped   int     `json:"skipped"`
	Failed    int     `json:"failed"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

// Run geocodes the selected centers one by one. Per-center failures
// are collected, never fatal; only an unconfigured geocoder or a
// cancelled context aborts. Cancellation is honored between centers,
// so a center is never left half-updated.
func Run(ctx context.Context, st store.Store, gc geocode.Client, opts Options) (*Result, error) {
	if !gc.Configured() {
		return nil, geocode.ErrNotConfigured
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	centers, err := st.ListCenters(ctx, store.CenterFilter{
		MissingCoordinates: !opts.Force,
		Limit:              opts.Limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sweep: list centers")
	}

	log := zap.L().Named("sweep")
	log.Info("sweep started",
		zap.Int("centers", len(centers)),
		zap.Bool("force", opts.Force),
		zap.Duration("delay", delay))

	res := &Result{Total: len(centers)}
	for i := range centers {
		c := &centers[i]

		if !opts.Force && c.HasCoordinates() {
			res.Skipped++
			continue
		}

		if i > 0 {
			select {
			case <-ctx.Done():
				return res, eris.Wrap(ctx.Err(), "sweep: cancelled")
			case <-time.After(delay):
			}
		}

		if err := geocodeCenter(ctx, st, gc, c); err != nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, c.ID)
			log.Warn("geocode failed",
				zap.Int64("center_id", c.ID),
				zap.String("center", c.Name),
				zap.Error(err))
			continue
		}
		res.Success++
	}

	log.Info("sweep finished",
		zap.Int("success", res.Success),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed))
	return res, nil
}

func geocodeCenter(ctx context.Context, st store.Store, gc geocode.Client, c *model.Center) error {
	result, err := gc.Geocode(ctx, geocode.AddressInput{
		Street:  strVal(c.AddressStreet),
		City:    strVal(c.AddressCity),
		State:   strVal(c.AddressState),
		ZipCode: strVal(c.AddressZip),
	})
	if err != nil {
		return err
	}
	return st.SetCenterCoordinates(ctx, c.ID, result.Latitude, result.Longitude)
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
