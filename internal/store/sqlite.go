package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/sells-group/shopwindow/internal/model"
)

// sqlQuerier is the query surface shared by *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	q  sqlQuerier
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode. Foreign keys are turned on so tenant rows cascade with
// their center.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// A single connection keeps :memory: databases coherent and
	// serializes writers on file databases.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{q: db, db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS shopping_centers (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL,
	name_key          TEXT NOT NULL UNIQUE,
	center_type       TEXT,
	address_street    TEXT,
	address_city      TEXT,
	address_state     TEXT,
	address_zip       TEXT,
	county            TEXT,
	municipality      TEXT,
	zoning_authority  TEXT,
	owner             TEXT,
	property_manager  TEXT,
	leasing_agent     TEXT,
	leasing_brokerage TEXT,
	total_gla         INTEGER,
	year_built        INTEGER,
	latitude          REAL,
	longitude         REAL,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_centers_city_state ON shopping_centers(address_city, address_state);

CREATE TABLE IF NOT EXISTS tenants (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	center_id        INTEGER NOT NULL REFERENCES shopping_centers(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	suite            TEXT NOT NULL DEFAULT '',
	square_footage   INTEGER,
	retail_category  TEXT,
	major_group      TEXT NOT NULL DEFAULT '',
	ownership_type   TEXT,
	base_rent        TEXT,
	lease_term       INTEGER,
	lease_commence   DATETIME,
	lease_expiration DATETIME,
	credit_category  TEXT,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL,
	UNIQUE (center_id, name, suite)
);

CREATE INDEX IF NOT EXISTS idx_tenants_center_id ON tenants(center_id);

CREATE TABLE IF NOT EXISTS import_runs (
	id              TEXT PRIMARY KEY,
	source_file     TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'pending',
	rows_total      INTEGER NOT NULL DEFAULT 0,
	rows_processed  INTEGER NOT NULL DEFAULT 0,
	rows_skipped    INTEGER NOT NULL DEFAULT 0,
	centers_created INTEGER NOT NULL DEFAULT 0,
	centers_updated INTEGER NOT NULL DEFAULT 0,
	tenants_created INTEGER NOT NULL DEFAULT 0,
	tenants_updated INTEGER NOT NULL DEFAULT 0,
	geocode_success INTEGER NOT NULL DEFAULT 0,
	geocode_failed  INTEGER NOT NULL DEFAULT 0,
	quality_score   INTEGER,
	errors          TEXT,
	error_message   TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL,
	started_at      DATETIME,
	completed_at    DATETIME
);

CREATE INDEX IF NOT EXISTS idx_import_runs_status ON import_runs(status);
`

const sqliteCenterColumns = `id, name, name_key, center_type, address_street, address_city, address_state, address_zip,
	county, municipality, zoning_authority, owner, property_manager, leasing_agent, leasing_brokerage,
	total_gla, year_built, latitude, longitude, created_at, updated_at`

const sqliteTenantColumns = `id, center_id, name, suite, square_footage, retail_category, major_group, ownership_type,
	base_rent, lease_term, lease_commence, lease_expiration, credit_category, created_at, updated_at`

const sqliteRunColumns = `id, source_file, status, rows_total, rows_processed, rows_skipped,
	centers_created, centers_updated, tenants_created, tenants_updated,
	geocode_success, geocode_failed, quality_score, errors, error_message,
	created_at, updated_at, started_at, completed_at`

// scannable abstracts sql.Row and sql.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

func checkRowsAffected(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %v", entity, id)
	}
	return nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.q.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InTx runs fn against a transactional copy of the store. Calls made
// while already inside a transaction join it.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&SQLiteStore{q: tx}); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit tx")
}

// Centers

func scanSQLiteCenter(row scannable) (*model.Center, error) {
	var c model.Center
	err := row.Scan(
		&c.ID, &c.Name, &c.NameKey, &c.CenterType, &c.AddressStreet, &c.AddressCity, &c.AddressState,
		&c.AddressZip, &c.County, &c.Municipality, &c.ZoningAuthority, &c.Owner, &c.PropertyManager,
		&c.LeasingAgent, &c.LeasingBrokerage, &c.TotalGLA, &c.YearBuilt, &c.Latitude, &c.Longitude,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) GetCenterByKey(ctx context.Context, nameKey string) (*model.Center, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+sqliteCenterColumns+` FROM shopping_centers WHERE name_key = ?`,
		nameKey,
	)
	c, err := scanSQLiteCenter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get center %s", nameKey)
	}
	return c, nil
}

func (s *SQLiteStore) CreateCenter(ctx context.Context, c *model.Center) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO shopping_centers
		 (name, name_key, center_type, address_street, address_city, address_state, address_zip,
		  county, municipality, zoning_authority, owner, property_manager, leasing_agent, leasing_brokerage,
		  total_gla, year_built, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.NameKey, c.CenterType, c.AddressStreet, c.AddressCity, c.AddressState, c.AddressZip,
		c.County, c.Municipality, c.ZoningAuthority, c.Owner, c.PropertyManager, c.LeasingAgent,
		c.LeasingBrokerage, c.TotalGLA, c.YearBuilt, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert center %q", c.Name)
	}
	c.ID, err = res.LastInsertId()
	return eris.Wrap(err, "sqlite: center insert id")
}

func (s *SQLiteStore) UpdateCenter(ctx context.Context, c *model.Center) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := s.q.ExecContext(ctx,
		`UPDATE shopping_centers SET
		 center_type = ?, address_street = ?, address_city = ?, address_state = ?, address_zip = ?,
		 county = ?, municipality = ?, zoning_authority = ?, owner = ?, property_manager = ?,
		 leasing_agent = ?, leasing_brokerage = ?, total_gla = ?, year_built = ?, updated_at = ?
		 WHERE id = ?`,
		c.CenterType, c.AddressStreet, c.AddressCity, c.AddressState, c.AddressZip,
		c.County, c.Municipality, c.ZoningAuthority, c.Owner, c.PropertyManager,
		c.LeasingAgent, c.LeasingBrokerage, c.TotalGLA, c.YearBuilt, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update center %d", c.ID)
	}
	return checkRowsAffected(res, "center", c.ID)
}

func (s *SQLiteStore) DeleteCenter(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM shopping_centers WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete center %d", id)
	}
	return checkRowsAffected(res, "center", id)
}

func (s *SQLiteStore) SetCenterCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE shopping_centers SET latitude = ?, longitude = ?, updated_at = ? WHERE id = ?`,
		lat, lng, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set coordinates %d", id)
	}
	return checkRowsAffected(res, "center", id)
}

func (s *SQLiteStore) ListCenters(ctx context.Context, filter CenterFilter) ([]model.Center, error) {
	query := `SELECT ` + sqliteCenterColumns + ` FROM shopping_centers WHERE true`
	args := []any{}

	if filter.MissingCoordinates {
		query += ` AND (latitude IS NULL OR longitude IS NULL)`
	}
	query += ` ORDER BY name`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += ` LIMIT -1`
		}
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list centers")
	}
	defer rows.Close()

	var centers []model.Center
	for rows.Next() {
		c, err := scanSQLiteCenter(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan center")
		}
		centers = append(centers, *c)
	}
	return centers, eris.Wrap(rows.Err(), "sqlite: list centers iterate")
}

func (s *SQLiteStore) PurgeCenters(ctx context.Context) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM shopping_centers`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: purge centers")
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: purge rows affected")
}

// Tenants

func scanSQLiteTenant(row scannable) (*model.Tenant, error) {
	var t model.Tenant
	var rent *string
	err := row.Scan(
		&t.ID, &t.CenterID, &t.Name, &t.Suite, &t.SquareFootage, &t.RetailCategory, &t.MajorGroup,
		&t.OwnershipType, &rent, &t.LeaseTerm, &t.LeaseCommence, &t.LeaseExpiration, &t.CreditCategory,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rent != nil {
		d, err := decimal.NewFromString(*rent)
		if err != nil {
			return nil, eris.Wrapf(err, "parse base_rent %q", *rent)
		}
		t.BaseRent = &d
	}
	return &t, nil
}

func (s *SQLiteStore) GetTenant(ctx context.Context, centerID int64, name, suite string) (*model.Tenant, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+sqliteTenantColumns+` FROM tenants WHERE center_id = ? AND name = ? AND suite = ?`,
		centerID, name, suite,
	)
	t, err := scanSQLiteTenant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get tenant %q", name)
	}
	return t, nil
}

func (s *SQLiteStore) CreateTenant(ctx context.Context, t *model.Tenant) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO tenants
		 (center_id, name, suite, square_footage, retail_category, major_group, ownership_type,
		  base_rent, lease_term, lease_commence, lease_expiration, credit_category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.CenterID, t.Name, t.Suite, t.SquareFootage, t.RetailCategory, string(t.MajorGroup),
		t.OwnershipType, decimalArg(t.BaseRent), t.LeaseTerm, t.LeaseCommence, t.LeaseExpiration,
		t.CreditCategory, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert tenant %q", t.Name)
	}
	t.ID, err = res.LastInsertId()
	return eris.Wrap(err, "sqlite: tenant insert id")
}

func (s *SQLiteStore) UpdateTenant(ctx context.Context, t *model.Tenant) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := s.q.ExecContext(ctx,
		`UPDATE tenants SET
		 square_footage = ?, retail_category = ?, major_group = ?, ownership_type = ?,
		 base_rent = ?, lease_term = ?, lease_commence = ?, lease_expiration = ?,
		 credit_category = ?, updated_at = ?
		 WHERE id = ?`,
		t.SquareFootage, t.RetailCategory, string(t.MajorGroup), t.OwnershipType,
		decimalArg(t.BaseRent), t.LeaseTerm, t.LeaseCommence, t.LeaseExpiration,
		t.CreditCategory, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update tenant %d", t.ID)
	}
	return checkRowsAffected(res, "tenant", t.ID)
}

func (s *SQLiteStore) ListTenants(ctx context.Context, centerID int64) ([]model.Tenant, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+sqliteTenantColumns+` FROM tenants WHERE center_id = ? ORDER BY name, suite`,
		centerID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tenants")
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		t, err := scanSQLiteTenant(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tenant")
		}
		tenants = append(tenants, *t)
	}
	return tenants, eris.Wrap(rows.Err(), "sqlite: list tenants iterate")
}

// Import runs

func scanSQLiteImportRun(row scannable) (*model.ImportRun, error) {
	var r model.ImportRun
	var errorsJSON *string
	err := row.Scan(
		&r.ID, &r.SourceFile, &r.Status, &r.RowsTotal, &r.RowsProcessed, &r.RowsSkipped,
		&r.CentersCreated, &r.CentersUpdated, &r.TenantsCreated, &r.TenantsUpdated,
		&r.GeocodeSuccess, &r.GeocodeFailed, &r.QualityScore, &errorsJSON, &r.ErrorMessage,
		&r.CreatedAt, &r.UpdatedAt, &r.StartedAt, &r.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if errorsJSON != nil {
		if err := json.Unmarshal([]byte(*errorsJSON), &r.Errors); err != nil {
			return nil, eris.Wrap(err, "unmarshal run errors")
		}
	}
	return &r, nil
}

func (s *SQLiteStore) CreateImportRun(ctx context.Context, sourceFile string) (*model.ImportRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO import_runs (id, source_file, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, sourceFile, string(model.RunStatusPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert import run")
	}

	return &model.ImportRun{
		ID:         id,
		SourceFile: sourceFile,
		Status:     model.RunStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *SQLiteStore) StartImportRun(ctx context.Context, runID string, rowsTotal int) error {
	now := time.Now().UTC()
	res, err := s.q.ExecContext(ctx,
		`UPDATE import_runs SET status = ?, rows_total = ?, started_at = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(model.RunStatusProcessing), rowsTotal, now, now, runID, string(model.RunStatusPending),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: start import run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("import run not pending: %s", runID)
	}
	return nil
}

func (s *SQLiteStore) FinishImportRun(ctx context.Context, run *model.ImportRun) error {
	if !run.Status.Terminal() {
		return eris.Errorf("finish requires a terminal status, got %q", run.Status)
	}

	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run errors")
	}

	now := time.Now().UTC()
	run.UpdatedAt = now
	if run.CompletedAt == nil {
		run.CompletedAt = &now
	}

	res, err := s.q.ExecContext(ctx,
		`UPDATE import_runs SET
		 status = ?, rows_processed = ?, rows_skipped = ?,
		 centers_created = ?, centers_updated = ?, tenants_created = ?, tenants_updated = ?,
		 geocode_success = ?, geocode_failed = ?, quality_score = ?,
		 errors = ?, error_message = ?, completed_at = ?, updated_at = ?
		 WHERE id = ? AND status IN (?, ?)`,
		string(run.Status), run.RowsProcessed, run.RowsSkipped,
		run.CentersCreated, run.CentersUpdated, run.TenantsCreated, run.TenantsUpdated,
		run.GeocodeSuccess, run.GeocodeFailed, run.QualityScore,
		string(errorsJSON), run.ErrorMessage, run.CompletedAt, now,
		run.ID, string(model.RunStatusPending), string(model.RunStatusProcessing),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish import run %s", run.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("import run not active: %s", run.ID)
	}
	return nil
}

func (s *SQLiteStore) GetImportRun(ctx context.Context, runID string) (*model.ImportRun, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM import_runs WHERE id = ?`,
		runID,
	)
	r, err := scanSQLiteImportRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get import run %s", runID)
	}
	return r, nil
}

func (s *SQLiteStore) ListImportRuns(ctx context.Context, filter RunFilter) ([]model.ImportRun, error) {
	query := `SELECT ` + sqliteRunColumns + ` FROM import_runs WHERE true`
	args := []any{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list import runs")
	}
	defer rows.Close()

	var runs []model.ImportRun
	for rows.Next() {
		r, err := scanSQLiteImportRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan import run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list import runs iterate")
}
