package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/shopwindow/internal/db"
	"github.com/sells-group/shopwindow/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	q       db.Querier
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
// These are the per-row hot path of an import.
var preparedStatements = map[string]string{
	"get_center_by_key": `SELECT ` + centerColumns + ` FROM shopping_centers WHERE name_key = $1`,
	"get_tenant":        `SELECT ` + tenantColumns + ` FROM tenants WHERE center_id = $1 AND name = $2 AND suite = $3`,
	"set_coordinates":   `UPDATE shopping_centers SET latitude = $1, longitude = $2, updated_at = $3 WHERE id = $4`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{q: pool, pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS shopping_centers (
	id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
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
	latitude          DOUBLE PRECISION,
	longitude         DOUBLE PRECISION,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_centers_city_state ON shopping_centers(address_city, address_state);
CREATE INDEX IF NOT EXISTS idx_centers_county ON shopping_centers(county);

CREATE TABLE IF NOT EXISTS tenants (
	id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	center_id        BIGINT NOT NULL REFERENCES shopping_centers(id) ON DELETE CASCADE,
	name             TEXT NOT NULL,
	suite            TEXT NOT NULL DEFAULT '',
	square_footage   INTEGER,
	retail_category  TEXT,
	major_group      TEXT NOT NULL DEFAULT '',
	ownership_type   TEXT,
	base_rent        NUMERIC(10,2),
	lease_term       INTEGER,
	lease_commence   DATE,
	lease_expiration DATE,
	credit_category  TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (center_id, name, suite)
);

CREATE INDEX IF NOT EXISTS idx_tenants_center_id ON tenants(center_id);
CREATE INDEX IF NOT EXISTS idx_tenants_major_group ON tenants(major_group);

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
	errors          JSONB,
	error_message   TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at      TIMESTAMPTZ,
	completed_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_import_runs_status ON import_runs(status);
`

const centerColumns = `id, name, name_key, center_type, address_street, address_city, address_state, address_zip,
	county, municipality, zoning_authority, owner, property_manager, leasing_agent, leasing_brokerage,
	total_gla, year_built, latitude, longitude, created_at, updated_at`

const tenantColumns = `id, center_id, name, suite, square_footage, retail_category, major_group, ownership_type,
	base_rent::text, lease_term, lease_commence, lease_expiration, credit_category, created_at, updated_at`

const runColumns = `id, source_file, status, rows_total, rows_processed, rows_skipped,
	centers_created, centers_updated, tenants_created, tenants_updated,
	geocode_success, geocode_failed, quality_score, errors, error_message,
	created_at, updated_at, started_at, completed_at`

type pgScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.q.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.q.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// InTx runs fn against a transactional copy of the store. Calls made
// while already inside a transaction join it.
func (s *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&PostgresStore{q: tx}); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit tx")
}

// Centers

func scanCenter(row pgScanner) (*model.Center, error) {
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

func (s *PostgresStore) GetCenterByKey(ctx context.Context, nameKey string) (*model.Center, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+centerColumns+` FROM shopping_centers WHERE name_key = $1`,
		nameKey,
	)
	c, err := scanCenter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get center %s", nameKey)
	}
	return c, nil
}

func (s *PostgresStore) CreateCenter(ctx context.Context, c *model.Center) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	err := s.q.QueryRow(ctx,
		`INSERT INTO shopping_centers
		 (name, name_key, center_type, address_street, address_city, address_state, address_zip,
		  county, municipality, zoning_authority, owner, property_manager, leasing_agent, leasing_brokerage,
		  total_gla, year_built, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id`,
		c.Name, c.NameKey, c.CenterType, c.AddressStreet, c.AddressCity, c.AddressState, c.AddressZip,
		c.County, c.Municipality, c.ZoningAuthority, c.Owner, c.PropertyManager, c.LeasingAgent,
		c.LeasingBrokerage, c.TotalGLA, c.YearBuilt, now, now,
	).Scan(&c.ID)
	return eris.Wrapf(err, "postgres: insert center %q", c.Name)
}

func (s *PostgresStore) UpdateCenter(ctx context.Context, c *model.Center) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := s.q.Exec(ctx,
		`UPDATE shopping_centers SET
		 center_type = $1, address_street = $2, address_city = $3, address_state = $4, address_zip = $5,
		 county = $6, municipality = $7, zoning_authority = $8, owner = $9, property_manager = $10,
		 leasing_agent = $11, leasing_brokerage = $12, total_gla = $13, year_built = $14, updated_at = $15
		 WHERE id = $16`,
		c.CenterType, c.AddressStreet, c.AddressCity, c.AddressState, c.AddressZip,
		c.County, c.Municipality, c.ZoningAuthority, c.Owner, c.PropertyManager,
		c.LeasingAgent, c.LeasingBrokerage, c.TotalGLA, c.YearBuilt, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update center %d", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("center not found: %d", c.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteCenter(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM shopping_centers WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete center %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("center not found: %d", id)
	}
	return nil
}

func (s *PostgresStore) SetCenterCoordinates(ctx context.Context, id int64, lat, lng float64) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE shopping_centers SET latitude = $1, longitude = $2, updated_at = $3 WHERE id = $4`,
		lat, lng, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set coordinates %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("center not found: %d", id)
	}
	return nil
}

func (s *PostgresStore) ListCenters(ctx context.Context, filter CenterFilter) ([]model.Center, error) {
	query := `SELECT ` + centerColumns + ` FROM shopping_centers WHERE true`
	args := []any{}
	argIdx := 1

	if filter.MissingCoordinates {
		query += ` AND (latitude IS NULL OR longitude IS NULL)`
	}
	query += ` ORDER BY name`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argIdx)
		args = append(args, filter.Limit)
		argIdx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list centers")
	}
	defer rows.Close()

	var centers []model.Center
	for rows.Next() {
		c, err := scanCenter(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan center")
		}
		centers = append(centers, *c)
	}
	return centers, eris.Wrap(rows.Err(), "postgres: list centers iterate")
}

func (s *PostgresStore) PurgeCenters(ctx context.Context) (int64, error) {
	// Tenants go with their centers via ON DELETE CASCADE.
	tag, err := s.q.Exec(ctx, `DELETE FROM shopping_centers`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: purge centers")
	}
	return tag.RowsAffected(), nil
}

// Tenants

func scanTenant(row pgScanner) (*model.Tenant, error) {
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

// decimalArg renders a decimal for a NUMERIC parameter, nil for NULL.
func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func (s *PostgresStore) GetTenant(ctx context.Context, centerID int64, name, suite string) (*model.Tenant, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE center_id = $1 AND name = $2 AND suite = $3`,
		centerID, name, suite,
	)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get tenant %q", name)
	}
	return t, nil
}

func (s *PostgresStore) CreateTenant(ctx context.Context, t *model.Tenant) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	err := s.q.QueryRow(ctx,
		`INSERT INTO tenants
		 (center_id, name, suite, square_footage, retail_category, major_group, ownership_type,
		  base_rent, lease_term, lease_commence, lease_expiration, credit_category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		t.CenterID, t.Name, t.Suite, t.SquareFootage, t.RetailCategory, string(t.MajorGroup),
		t.OwnershipType, decimalArg(t.BaseRent), t.LeaseTerm, t.LeaseCommence, t.LeaseExpiration,
		t.CreditCategory, now, now,
	).Scan(&t.ID)
	return eris.Wrapf(err, "postgres: insert tenant %q", t.Name)
}

func (s *PostgresStore) UpdateTenant(ctx context.Context, t *model.Tenant) error {
	t.UpdatedAt = time.Now().UTC()
	tag, err := s.q.Exec(ctx,
		`UPDATE tenants SET
		 square_footage = $1, retail_category = $2, major_group = $3, ownership_type = $4,
		 base_rent = $5, lease_term = $6, lease_commence = $7, lease_expiration = $8,
		 credit_category = $9, updated_at = $10
		 WHERE id = $11`,
		t.SquareFootage, t.RetailCategory, string(t.MajorGroup), t.OwnershipType,
		decimalArg(t.BaseRent), t.LeaseTerm, t.LeaseCommence, t.LeaseExpiration,
		t.CreditCategory, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update tenant %d", t.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("tenant not found: %d", t.ID)
	}
	return nil
}

func (s *PostgresStore) ListTenants(ctx context.Context, centerID int64) ([]model.Tenant, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE center_id = $1 ORDER BY name, suite`,
		centerID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list tenants")
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan tenant")
		}
		tenants = append(tenants, *t)
	}
	return tenants, eris.Wrap(rows.Err(), "postgres: list tenants iterate")
}

// Import runs

func scanImportRun(row pgScanner) (*model.ImportRun, error) {
	var r model.ImportRun
	var errorsJSON *[]byte
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
		if err := json.Unmarshal(*errorsJSON, &r.Errors); err != nil {
			return nil, eris.Wrap(err, "unmarshal run errors")
		}
	}
	return &r, nil
}

func (s *PostgresStore) CreateImportRun(ctx context.Context, sourceFile string) (*model.ImportRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.q.Exec(ctx,
		`INSERT INTO import_runs (id, source_file, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, sourceFile, string(model.RunStatusPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert import run")
	}

	return &model.ImportRun{
		ID:         id,
		SourceFile: sourceFile,
		Status:     model.RunStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *PostgresStore) StartImportRun(ctx context.Context, runID string, rowsTotal int) error {
	now := time.Now().UTC()
	tag, err := s.q.Exec(ctx,
		`UPDATE import_runs SET status = $1, rows_total = $2, started_at = $3, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		string(model.RunStatusProcessing), rowsTotal, now, runID, string(model.RunStatusPending),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: start import run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("import run not pending: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FinishImportRun(ctx context.Context, run *model.ImportRun) error {
	if !run.Status.Terminal() {
		return eris.Errorf("finish requires a terminal status, got %q", run.Status)
	}

	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run errors")
	}

	now := time.Now().UTC()
	run.UpdatedAt = now
	if run.CompletedAt == nil {
		run.CompletedAt = &now
	}

	tag, err := s.q.Exec(ctx,
		`UPDATE import_runs SET
		 status = $1, rows_processed = $2, rows_skipped = $3,
		 centers_created = $4, centers_updated = $5, tenants_created = $6, tenants_updated = $7,
		 geocode_success = $8, geocode_failed = $9, quality_score = $10,
		 errors = $11, error_message = $12, completed_at = $13, updated_at = $14
		 WHERE id = $15 AND status IN ($16, $17)`,
		string(run.Status), run.RowsProcessed, run.RowsSkipped,
		run.CentersCreated, run.CentersUpdated, run.TenantsCreated, run.TenantsUpdated,
		run.GeocodeSuccess, run.GeocodeFailed, run.QualityScore,
		errorsJSON, run.ErrorMessage, run.CompletedAt, now,
		run.ID, string(model.RunStatusPending), string(model.RunStatusProcessing),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish import run %s", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("import run not active: %s", run.ID)
	}
	return nil
}

func (s *PostgresStore) GetImportRun(ctx context.Context, runID string) (*model.ImportRun, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+runColumns+` FROM import_runs WHERE id = $1`,
		runID,
	)
	r, err := scanImportRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get import run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListImportRuns(ctx context.Context, filter RunFilter) ([]model.ImportRun, error) {
	query := `SELECT ` + runColumns + ` FROM import_runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list import runs")
	}
	defer rows.Close()

	var runs []model.ImportRun
	for rows.Next() {
		r, err := scanImportRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan import run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list import runs iterate")
}
