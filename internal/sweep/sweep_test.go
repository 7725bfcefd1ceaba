package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

type scriptedGeocoder struct {
	configured bool
	// failCity makes requests for that city fail with ErrNoResults.
	failCity string
	onCall   func()
	calls    int
}

func (s *scriptedGeocoder) Configured() bool { return s.configured }

func (s *scriptedGeocoder) Geocode(_ context.Context, addr geocode.AddressInput) (*geocode.Result, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall()
	}
	if s.failCity != "" && addr.City == s.failCity {
		return nil, geocode.ErrNoResults
	}
	return &geocode.Result{Latitude: 33.78, Longitude: -84.38, Quality: "rooftop"}, nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedCenter(t *testing.T, st store.Store, name, city string, geocoded bool) *model.Center {
	t.Helper()
	ctx := context.Background()
	c := &model.Center{Name: name, NameKey: model.NormalizeName(name), AddressCity: &city}
	require.NoError(t, st.CreateCenter(ctx, c))
	if geocoded {
		require.NoError(t, st.SetCenterCoordinates(ctx, c.ID, 40.0, -75.0))
	}
	return c
}

func TestRunBackfillsMissingCoordinates(t *testing.T) {
	st := newTestStore(t)
	seedCenter(t, st, "Oak Ridge Mall", "Atlanta", false)
	seedCenter(t, st, "Elm Street Shops", "Decatur", false)
	seedCenter(t, st, "Done Plaza", "Marietta", true)

	gc := &scriptedGeocoder{configured: true}
	res, err := Run(context.Background(), st, gc, Options{Delay: time.Millisecond})
	require.NoError(t, err)

	// Already-geocoded centers are not even listed.
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 2, gc.calls)

	centers, err := st.ListCenters(context.Background(), store.CenterFilter{MissingCoordinates: true})
	require.NoError(t, err)
	assert.Empty(t, centers)
}

func TestRunCollectsFailures(t *testing.T) {
	st := newTestStore(t)
	seedCenter(t, st, "Oak Ridge Mall", "Atlanta", false)
	bad := seedCenter(t, st, "Ghost Plaza", "Nowhere", false)

	gc := &scriptedGeocoder{configured: true, failCity: "Nowhere"}
	res, err := Run(context.Background(), st, gc, Options{Delay: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []int64{bad.ID}, res.FailedIDs)
}

func TestRunForceRegeocodesEverything(t *testing.T) {
	st := newTestStore(t)
	c := seedCenter(t, st, "Done Plaza", "Marietta", true)
	seedCenter(t, st, "Oak Ridge Mall", "Atlanta", false)

	gc := &scriptedGeocoder{configured: true}
	res, err := Run(context.Background(), st, gc, Options{Force: true, Delay: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 2, gc.calls)

	got, err := st.GetCenterByKey(context.Background(), c.NameKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.HasCoordinates())
	assert.InDelta(t, 33.78, *got.Latitude, 0.001)
}

func TestRunUnconfiguredGeocoder(t *testing.T) {
	st := newTestStore(t)
	seedCenter(t, st, "Oak Ridge Mall", "Atlanta", false)

	_, err := Run(context.Background(), st, &scriptedGeocoder{configured: false}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, geocode.ErrNotConfigured))
}

func TestRunHonorsCancellationBetweenCenters(t *testing.T) {
	st := newTestStore(t)
	seedCenter(t, st, "Oak Ridge Mall", "Atlanta", false)
	seedCenter(t, st, "Elm Street Shops", "Decatur", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel during the first geocode; the sweep must stop at the
	// pause before the second center instead of sleeping through it.
	gc := &scriptedGeocoder{configured: true, onCall: cancel}
	start := time.Now()
	res, err := Run(ctx, st, gc, Options{Delay: time.Hour})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), time.Minute)

	require.NotNil(t, res)
	assert.Equal(t, 1, gc.calls)
}

func TestRunLimit(t *testing.T) {
	st := newTestStore(t)
	seedCenter(t, st, "One", "Atlanta", false)
	seedCenter(t, st, "Two", "Atlanta", false)
	seedCenter(t, st, "Three", "Atlanta", false)

	gc := &scriptedGeocoder{configured: true}
	res, err := Run(context.Background(), st, gc, Options{Limit: 2, Delay: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Success)
}
