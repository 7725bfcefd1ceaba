// Package store persists centers, tenants, and import runs. Two
// implementations exist: PostgresStore for production and SQLiteStore
// for local work and tests.
package store

import (
	"context"

	"github.com/sells-group/shopwindow/internal/model"
)

// CenterFilter specifies criteria for listing centers.
type CenterFilter struct {
	// MissingCoordinates restricts the listing to centers that have
	// not been geocoded yet.
	MissingCoordinates bool
	Limit              int
	Offset             int
}

// RunFilter specifies criteria for listing import runs.
type RunFilter struct {
	Status model.RunStatus
	Limit  int
	Offset int
}

// Store defines the persistence interface for the reconciliation
// pipeline. Get methods return (nil, nil) when the record is absent;
// an error always means the lookup itself failed.
type Store interface {
	// Centers. Coordinates are written only through
	// SetCenterCoordinates; Create and Update never touch them.
	GetCenterByKey(ctx context.Context, nameKey string) (*model.Center, error)
	CreateCenter(ctx context.Context, c *model.Center) error
	UpdateCenter(ctx context.Context, c *model.Center) error
	DeleteCenter(ctx context.Context, id int64) error
	SetCenterCoordinates(ctx context.Context, id int64, lat, lng float64) error
	ListCenters(ctx context.Context, filter CenterFilter) ([]model.Center, error)
	PurgeCenters(ctx context.Context) (int64, error)

	// Tenants, keyed by (center, name, suite).
	GetTenant(ctx context.Context, centerID int64, name, suite string) (*model.Tenant, error)
	CreateTenant(ctx context.Context, t *model.Tenant) error
	UpdateTenant(ctx context.Context, t *model.Tenant) error
	ListTenants(ctx context.Context, centerID int64) ([]model.Tenant, error)

	// Import runs. StartImportRun moves pending to processing;
	// FinishImportRun writes counters and a terminal status and
	// refuses to touch a run that is already terminal.
	CreateImportRun(ctx context.Context, sourceFile string) (*model.ImportRun, error)
	StartImportRun(ctx context.Context, runID string, rowsTotal int) error
	FinishImportRun(ctx context.Context, run *model.ImportRun) error
	GetImportRun(ctx context.Context, runID string) (*model.ImportRun, error)
	ListImportRuns(ctx context.Context, filter RunFilter) ([]model.ImportRun, error)

	// InTx runs fn against a transactional view of the store and
	// commits iff fn returns nil.
	InTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
