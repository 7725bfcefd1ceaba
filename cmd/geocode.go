package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/shopwindow/internal/sweep"
)

var (
	sweepForce bool
	sweepDelay time.Duration
	sweepLimit int
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocoding maintenance",
}

var geocodeSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Geocode centers that are missing coordinates",
	Long:  "Walks the centers without coordinates and geocodes each one, pacing calls to stay under the API quota. With --force every center is re-geocoded.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		delay := sweepDelay
		if delay == 0 {
			delay = cfg.Geocode.SweepDelay()
		}

		result, err := sweep.Run(ctx, st, initGeocoder(), sweep.Options{
			Force: sweepForce,
			Delay: delay,
			Limit: sweepLimit,
		})
		if err != nil {
			return eris.Wrap(err, "geocode sweep")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	geocodeSweepCmd.Flags().BoolVar(&sweepForce, "force", false, "re-geocode centers that already have coordinates")
	geocodeSweepCmd.Flags().DurationVar(&sweepDelay, "delay", 0, "pause between API calls (default from config)")
	geocodeSweepCmd.Flags().IntVar(&sweepLimit, "limit", 0, "max centers to process (0 = all)")

	geocodeCmd.AddCommand(geocodeSweepCmd)
	rootCmd.AddCommand(geocodeCmd)
}
