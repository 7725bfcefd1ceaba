package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/store"
)

var centersCmd = &cobra.Command{
	Use:   "centers",
	Short: "Inspect shopping centers",
}

var centersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shopping centers",
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

		missing, _ := cmd.Flags().GetBool("missing-coordinates")
		limit, _ := cmd.Flags().GetInt("limit")

		centers, err := st.ListCenters(ctx, store.CenterFilter{
			MissingCoordinates: missing,
			Limit:              limit,
		})
		if err != nil {
			return eris.Wrap(err, "centers list")
		}

		if len(centers) == 0 {
			fmt.Fprintln(os.Stderr, "No centers found.")
			return nil
		}

		formatCentersList(os.Stdout, centers)
		return nil
	},
}

var centersTenantsCmd = &cobra.Command{
	Use:   "tenants <center-name>",
	Short: "List the tenants of a center",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		center, err := st.GetCenterByKey(ctx, model.NormalizeName(args[0]))
		if err != nil {
			return eris.Wrap(err, "centers tenants")
		}
		if center == nil {
			return eris.Errorf("center not found: %s", args[0])
		}

		tenants, err := st.ListTenants(ctx, center.ID)
		if err != nil {
			return eris.Wrap(err, "centers tenants")
		}

		formatTenantsList(os.Stdout, tenants)
		return nil
	},
}

func init() {
	centersListCmd.Flags().Bool("missing-coordinates", false, "only centers without coordinates")
	centersListCmd.Flags().Int("limit", 100, "max centers to display (0 = all)")

	centersCmd.AddCommand(centersListCmd)
	centersCmd.AddCommand(centersTenantsCmd)
	rootCmd.AddCommand(centersCmd)
}

func formatCentersList(out io.Writer, centers []model.Center) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCITY\tSTATE\tGLA\tGEOCODED")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t-----\t---\t--------")

	for _, c := range centers {
		gla := ""
		if c.TotalGLA != nil {
			gla = fmt.Sprintf("%d", *c.TotalGLA)
		}
		geocoded := "no"
		if c.HasCoordinates() {
			geocoded = "yes"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, strOrDash(c.AddressCity), strOrDash(c.AddressState), gla, geocoded)
	}
	_ = w.Flush()
}

func formatTenantsList(out io.Writer, tenants []model.Tenant) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSUITE\tSQFT\tGROUP\tRENT/SF\tLEASE")
	_, _ = fmt.Fprintln(w, "----\t-----\t----\t-----\t-------\t-----")

	for _, t := range tenants {
		sqft := ""
		if t.SquareFootage != nil {
			sqft = fmt.Sprintf("%d", *t.SquareFootage)
		}
		rent := ""
		if t.BaseRent != nil {
			rent = t.BaseRent.StringFixed(2)
		}
		exp := ""
		if t.LeaseExpiration != nil {
			exp = t.LeaseExpiration.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Name, t.Suite, sqft, t.MajorGroup, rent, exp)
	}
	_ = w.Flush()
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
