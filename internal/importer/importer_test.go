package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

type stubGeocoder struct {
	configured bool
	err        error
	onCall     func()
	calls      int
}

func (s *stubGeocoder) Configured() bool { return s.configured }

func (s *stubGeocoder) Geocode(_ context.Context, _ geocode.AddressInput) (*geocode.Result, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &geocode.Result{Latitude: 33.78, Longitude: -84.38, Quality: "rooftop"}, nil
}

func newTestImporter(t *testing.T, gc geocode.Client) (*Importer, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, gc, nil), st
}

func mustReadCSV(t *testing.T, src string) []Row {
	t.Helper()
	rows, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	return rows
}

const sampleCSV = `shopping_center_name,address_city,address_state,total_gla,tenant_name,tenant_suite_number,square_footage,retail_category,base_rent
Oak Ridge Mall,Atlanta,GA,152000,Starbucks,101,1800,Coffee Shop,$24.50
Oak Ridge Mall,Atlanta,GA,152000,Subway,205,1200,Sandwiches,
Elm Street Shops,Decatur,GA,48000,Great Clips,,900,Hair Salon,18
`

func TestRunImportsBatch(t *testing.T) {
	gc := &stubGeocoder{configured: true}
	im, st := newTestImporter(t, gc)
	ctx := context.Background()

	stats, err := im.Run(ctx, mustReadCSV(t, sampleCSV), Options{SourceName: "sample.csv"})
	require.NoError(t, err)

	assert.True(t, stats.Success)
	assert.Equal(t, 3, stats.RowsTotal)
	assert.Equal(t, 3, stats.RowsProcessed)
	assert.Equal(t, 2, stats.CentersCreated)
	assert.Equal(t, 3, stats.TenantsCreated)
	assert.Equal(t, 2, stats.GeocodeSuccess)
	assert.Equal(t, 0, stats.GeocodeFailed)
	assert.Equal(t, 100, stats.QualityScore)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, 2, gc.calls)

	run, err := st.GetImportRun(ctx, stats.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, "sample.csv", run.SourceFile)
	assert.Equal(t, 3, run.RowsProcessed)
	require.NotNil(t, run.QualityScore)
	assert.Equal(t, 100, *run.QualityScore)
	require.NotNil(t, run.StartedAt)
	require.NotNil(t, run.CompletedAt)
}

func TestRunIsIdempotent(t *testing.T) {
	gc := &stubGeocoder{configured: true}
	im, _ := newTestImporter(t, gc)
	ctx := context.Background()

	_, err := im.Run(ctx, mustReadCSV(t, sampleCSV), Options{SourceName: "first.csv"})
	require.NoError(t, err)

	stats, err := im.Run(ctx, mustReadCSV(t, sampleCSV), Options{SourceName: "again.csv"})
	require.NoError(t, err)

	// Same file twice: nothing new to create or fill.
	assert.Equal(t, 0, stats.CentersCreated)
	assert.Equal(t, 0, stats.CentersUpdated)
	assert.Equal(t, 0, stats.TenantsCreated)
	assert.Equal(t, 0, stats.TenantsUpdated)
	assert.Equal(t, 3, stats.RowsProcessed)
	assert.Equal(t, 2, gc.calls)
}

func TestRunEnrichesExistingRecords(t *testing.T) {
	gc := &stubGeocoder{configured: true}
	im, st := newTestImporter(t, gc)
	ctx := context.Background()

	sparse := "shopping_center_name,tenant_name\nOak Ridge Mall,Starbucks\n"
	_, err := im.Run(ctx, mustReadCSV(t, sparse), Options{SourceName: "sparse.csv"})
	require.NoError(t, err)

	rich := "shopping_center_name,address_city,year_built,tenant_name,square_footage\nOak Ridge Mall,Atlanta,1987,Starbucks,1800\n"
	stats, err := im.Run(ctx, mustReadCSV(t, rich), Options{SourceName: "rich.csv"})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.CentersCreated)
	assert.Equal(t, 1, stats.CentersUpdated)
	assert.Equal(t, 1, stats.TenantsUpdated)
	assert.Equal(t, 1, gc.calls)

	c, err := st.GetCenterByKey(ctx, "oak ridge mall")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Atlanta", *c.AddressCity)
	assert.Equal(t, 1987, *c.YearBuilt)
}

func TestRunRowFaultDoesNotAbortBatch(t *testing.T) {
	gc := &stubGeocoder{configured: true}
	im, st := newTestImporter(t, gc)
	ctx := context.Background()

	src := strings.Join([]string{
		"shopping_center_name,tenant_name",
		"Oak Ridge Mall,Starbucks",
		",Orphan Tenant",
		"Elm Street Shops,Great Clips",
	}, "\n")

	stats, err := im.Run(ctx, mustReadCSV(t, src), Options{SourceName: "faulty.csv"})
	require.NoError(t, err)

	assert.True(t, stats.Success)
	assert.Equal(t, 3, stats.RowsTotal)
	assert.Equal(t, 2, stats.RowsProcessed)
	assert.Equal(t, 2, stats.CentersCreated)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "row 3:")
	// 1 fault in 3 rows: 100 - 16 = 84.
	assert.Equal(t, 84, stats.QualityScore)

	run, err := st.GetImportRun(ctx, stats.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.RowsSkipped)
	assert.Len(t, run.Errors, 1)
}

func TestRunCountsGeocodeFailures(t *testing.T) {
	gc := &stubGeocoder{configured: true, err: geocode.ErrNoResults}
	im, st := newTestImporter(t, gc)
	ctx := context.Background()

	src := "shopping_center_name\nGhost Plaza\n"
	stats, err := im.Run(ctx, mustReadCSV(t, src), Options{SourceName: "ghost.csv"})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.GeocodeFailed)
	assert.Equal(t, 0, stats.CentersCreated)
	assert.Len(t, stats.Errors, 1)

	// The rollback leaves no trace of the center.
	c, err := st.GetCenterByKey(ctx, "ghost plaza")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRunFailsWhenGeocoderUnconfigured(t *testing.T) {
	im, st := newTestImporter(t, &stubGeocoder{configured: false})
	ctx := context.Background()

	stats, err := im.Run(ctx, mustReadCSV(t, sampleCSV), Options{SourceName: "sample.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, geocode.ErrNotConfigured))

	require.NotNil(t, stats)
	assert.False(t, stats.Success)
	assert.Equal(t, 0, stats.RowsProcessed)

	run, err := st.GetImportRun(ctx, stats.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.ErrorMessage)
}

func TestRunPurgeExisting(t *testing.T) {
	gc := &stubGeocoder{configured: true}
	im, st := newTestImporter(t, gc)
	ctx := context.Background()

	_, err := im.Run(ctx, mustReadCSV(t, sampleCSV), Options{SourceName: "seed.csv"})
	require.NoError(t, err)

	src := "shopping_center_name,tenant_name\nBrand New Plaza,Chipotle\n"
	stats, err := im.Run(ctx, mustReadCSV(t, src), Options{SourceName: "replacement.csv", PurgeExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CentersCreated)

	centers, err := st.ListCenters(ctx, store.CenterFilter{})
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, "Brand New Plaza", centers[0].Name)
}

func TestRunCancellationCommitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel mid-batch, after the first center geocodes.
	gc := &stubGeocoder{configured: true, onCall: cancel}
	im, st := newTestImporter(t, gc)

	stats, err := im.Run(ctx, mustReadCSV(t, sampleCSV), Options{SourceName: "cancelled.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	require.NotNil(t, stats)
	assert.False(t, stats.Success)

	run, gerr := st.GetImportRun(context.Background(), stats.RunID)
	require.NoError(t, gerr)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusCancelled, run.Status)
	assert.Contains(t, run.ErrorMessage, "cancelled")

	// The transaction rolled back, so no centers survive.
	centers, cerr := st.ListCenters(context.Background(), store.CenterFilter{})
	require.NoError(t, cerr)
	assert.Empty(t, centers)
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		total, faulted, want int
	}{
		{0, 0, 0},
		{10, 0, 100},
		{10, 5, 75},
		{10, 10, 50},
		{3, 1, 84},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qualityScore(tt.total, tt.faulted),
			"total=%d faulted=%d", tt.total, tt.faulted)
	}
}
