// Package reconcile merges source rows into the existing center and
// tenant records. New data lands, existing data is never overwritten,
// and a center only comes into existence with coordinates attached.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

// Row is one fully coerced source record.
type Row struct {
	CenterName  string
	Center      CenterPatch
	TenantName  string
	TenantSuite string
	Tenant      TenantPatch
}

// RowResult reports what processing one row did.
type RowResult struct {
	CenterCreated bool
	CenterUpdated bool
	TenantCreated bool
	TenantUpdated bool
	Geocoded      bool
}

// GeocodeError marks a row failure caused by the geocoding gateway, so
// callers can count it separately from data faults.
type GeocodeError struct {
	Center string
	Err    error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Center, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// Engine reconciles rows against the store.
type Engine struct {
	store    store.Store
	geocoder geocode.Client
	groups   model.CategoryMap
	log      *zap.Logger
}

func NewEngine(st store.Store, gc geocode.Client, groups model.CategoryMap) *Engine {
	if groups == nil {
		groups = model.DefaultCategoryGroups
	}
	return &Engine{store: st, geocoder: gc, groups: groups, log: zap.L().Named("reconcile")}
}

// ProcessRow merges one row. An error means the row contributed
// nothing; the caller decides whether to continue with the next row.
func (e *Engine) ProcessRow(ctx context.Context, row Row) (RowResult, error) {
	var res RowResult

	name := strings.TrimSpace(row.CenterName)
	if name == "" {
		return res, eris.New("shopping center name is required")
	}
	key := model.NormalizeName(name)

	center, err := e.store.GetCenterByKey(ctx, key)
	if err != nil {
		return res, eris.Wrapf(err, "lookup center %q", name)
	}

	if center == nil {
		center, err = e.createCenter(ctx, name, key, row.Center)
		if err != nil {
			return res, err
		}
		res.CenterCreated = true
		res.Geocoded = true
	} else if changed := mergeCenter(center, row.Center); len(changed) > 0 {
		if err := e.store.UpdateCenter(ctx, center); err != nil {
			return res, eris.Wrapf(err, "update center %q", name)
		}
		res.CenterUpdated = true
		e.log.Debug("center enriched",
			zap.String("center", name),
			zap.Strings("fields", changed))
	}

	tenantName := strings.TrimSpace(row.TenantName)
	if tenantName == "" {
		return res, nil
	}

	created, updated, err := e.processTenant(ctx, center, tenantName, strings.TrimSpace(row.TenantSuite), row.Tenant)
	if err != nil {
		return res, err
	}
	res.TenantCreated = created
	res.TenantUpdated = updated
	return res, nil
}

// createCenter persists a new center and geocodes it in the same
// breath. When geocoding fails the insert is rolled back: a center
// without coordinates must not survive an import.
func (e *Engine) createCenter(ctx context.Context, name, key string, p CenterPatch) (*model.Center, error) {
	c := &model.Center{Name: name, NameKey: key}
	mergeCenter(c, p)

	if err := e.store.CreateCenter(ctx, c); err != nil {
		return nil, eris.Wrapf(err, "create center %q", name)
	}

	result, err := e.geocoder.Geocode(ctx, geocode.AddressInput{
		Street:  deref(c.AddressStreet),
		City:    deref(c.AddressCity),
		State:   deref(c.AddressState),
		ZipCode: deref(c.AddressZip),
	})
	if err != nil {
		if delErr := e.store.DeleteCenter(ctx, c.ID); delErr != nil {
			return nil, eris.Wrapf(delErr, "rollback center %q after geocode failure: %v", name, err)
		}
		e.log.Warn("center rolled back, geocoding failed",
			zap.String("center", name),
			zap.Error(err))
		return nil, &GeocodeError{Center: name, Err: err}
	}

	if err := e.store.SetCenterCoordinates(ctx, c.ID, result.Latitude, result.Longitude); err != nil {
		return nil, eris.Wrapf(err, "store coordinates for %q", name)
	}
	c.Latitude = &result.Latitude
	c.Longitude = &result.Longitude

	e.log.Info("center created",
		zap.String("center", name),
		zap.Float64("lat", result.Latitude),
		zap.Float64("lng", result.Longitude),
		zap.String("quality", result.Quality))
	return c, nil
}

func (e *Engine) processTenant(ctx context.Context, center *model.Center, name, suite string, p TenantPatch) (created, updated bool, err error) {
	t, err := e.store.GetTenant(ctx, center.ID, name, suite)
	if err != nil {
		return false, false, eris.Wrapf(err, "lookup tenant %q", name)
	}

	if t == nil {
		t = &model.Tenant{CenterID: center.ID, Name: name, Suite: suite}
		mergeTenant(t, p)
		e.deriveGroup(t)
		if err := e.store.CreateTenant(ctx, t); err != nil {
			return false, false, eris.Wrapf(err, "create tenant %q", name)
		}
		return true, false, nil
	}

	changed := mergeTenant(t, p)
	if e.deriveGroup(t) {
		changed = append(changed, "major_group")
	}
	if len(changed) == 0 {
		return false, false, nil
	}
	if err := e.store.UpdateTenant(ctx, t); err != nil {
		return false, false, eris.Wrapf(err, "update tenant %q", name)
	}
	e.log.Debug("tenant enriched",
		zap.String("tenant", name),
		zap.Strings("fields", changed))
	return false, true, nil
}

// deriveGroup fills the major group from the retail category when it
// is still unset. Unmapped categories land in the other/non-retail
// bucket and get logged once per row.
func (e *Engine) deriveGroup(t *model.Tenant) bool {
	if t.MajorGroup != "" || t.RetailCategory == nil {
		return false
	}
	group, ok := e.groups.Lookup(*t.RetailCategory)
	if !ok {
		e.log.Warn("unmapped retail category",
			zap.String("category", *t.RetailCategory),
			zap.String("tenant", t.Name))
	}
	t.MajorGroup = group
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
