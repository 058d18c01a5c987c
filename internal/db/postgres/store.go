// Package postgres is a record store on a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/db/sqlfilter"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
)

// Compile-time check.
var _ db.RecordStore = (*Store)(nil)

// Store implements db.RecordStore on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPool creates and verifies a pgxpool connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// Open connects to databaseURL and returns a store.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	name_en         TEXT NOT NULL DEFAULT '',
	name_fr         TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	description_en  TEXT NOT NULL DEFAULT '',
	description_fr  TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT 'OTHER',
	subcategory     TEXT NOT NULL DEFAULT '',
	subcategory_en  TEXT NOT NULL DEFAULT '',
	requirements    TEXT[] NOT NULL DEFAULT '{}',
	requirements_en TEXT[] NOT NULL DEFAULT '{}',
	process         TEXT[] NOT NULL DEFAULT '{}',
	process_en      TEXT[] NOT NULL DEFAULT '{}',
	fee             TEXT NOT NULL DEFAULT '',
	duration        TEXT NOT NULL DEFAULT '',
	processing_time TEXT NOT NULL DEFAULT '',
	office          TEXT NOT NULL DEFAULT '',
	contact_info    TEXT NOT NULL DEFAULT '',
	is_online       BOOLEAN NOT NULL DEFAULT FALSE,
	online_url      TEXT NOT NULL DEFAULT '',
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	name_fold           TEXT NOT NULL DEFAULT '',
	name_en_fold        TEXT NOT NULL DEFAULT '',
	name_fr_fold        TEXT NOT NULL DEFAULT '',
	description_fold    TEXT NOT NULL DEFAULT '',
	description_en_fold TEXT NOT NULL DEFAULT '',
	description_fr_fold TEXT NOT NULL DEFAULT '',
	subcategory_fold    TEXT NOT NULL DEFAULT '',
	subcategory_en_fold TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_active_category ON records (is_active, category);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

const upsertSQL = `
INSERT INTO records (
	id, name, name_en, name_fr, description, description_en, description_fr,
	category, subcategory, subcategory_en,
	requirements, requirements_en, process, process_en,
	fee, duration, processing_time, office, contact_info,
	is_online, online_url, is_active, created_at, updated_at,
	name_fold, name_en_fold, name_fr_fold,
	description_fold, description_en_fold, description_fr_fold,
	subcategory_fold, subcategory_en_fold
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, name_en = EXCLUDED.name_en, name_fr = EXCLUDED.name_fr,
	description = EXCLUDED.description, description_en = EXCLUDED.description_en,
	description_fr = EXCLUDED.description_fr,
	category = EXCLUDED.category, subcategory = EXCLUDED.subcategory,
	subcategory_en = EXCLUDED.subcategory_en,
	requirements = EXCLUDED.requirements, requirements_en = EXCLUDED.requirements_en,
	process = EXCLUDED.process, process_en = EXCLUDED.process_en,
	fee = EXCLUDED.fee, duration = EXCLUDED.duration, processing_time = EXCLUDED.processing_time,
	office = EXCLUDED.office, contact_info = EXCLUDED.contact_info,
	is_online = EXCLUDED.is_online, online_url = EXCLUDED.online_url, is_active = EXCLUDED.is_active,
	updated_at = EXCLUDED.updated_at,
	name_fold = EXCLUDED.name_fold, name_en_fold = EXCLUDED.name_en_fold,
	name_fr_fold = EXCLUDED.name_fr_fold,
	description_fold = EXCLUDED.description_fold,
	description_en_fold = EXCLUDED.description_en_fold,
	description_fr_fold = EXCLUDED.description_fr_fold,
	subcategory_fold = EXCLUDED.subcategory_fold,
	subcategory_en_fold = EXCLUDED.subcategory_en_fold
`

// UpsertRecords inserts or replaces rows by ID in one transaction.
// An existing row keeps its creation time.
func (s *Store) UpsertRecords(ctx context.Context, rows []db.RecordRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := s.now().UTC()
	batch := &pgx.Batch{}
	for i := range rows {
		batch.Queue(upsertSQL, upsertArgs(&rows[i], now)...)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("upsert %q: %w", rows[i].ID, err)}
		}
	}
	if err := br.Close(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("commit transaction: %w", err)}
	}
	return nil
}

func upsertArgs(r *db.RecordRow, now time.Time) []any {
	created, updated := r.CreatedAt, r.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = now
	}

	return []any{
		r.ID, r.Name, r.NameEn, r.NameFr, r.Description, r.DescriptionEn, r.DescriptionFr,
		r.Category, r.Subcategory, r.SubcategoryEn,
		nonNil(r.Requirements), nonNil(r.RequirementsEn), nonNil(r.Process), nonNil(r.ProcessEn),
		r.Fee, r.Duration, r.ProcessingTime, r.Office, r.ContactInfo,
		r.IsOnline, r.OnlineURL, r.IsActive, created, updated,
		normalize.Normalize(r.Name), normalize.Normalize(r.NameEn), normalize.Normalize(r.NameFr),
		normalize.Normalize(r.Description), normalize.Normalize(r.DescriptionEn),
		normalize.Normalize(r.DescriptionFr),
		normalize.Normalize(r.Subcategory), normalize.Normalize(r.SubcategoryEn),
	}
}

// SetActive toggles a record's active flag.
func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE records SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, s.now().UTC(), id)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

const selectColumns = `id, name, name_en, name_fr, description, description_en, description_fr,
	category, subcategory, subcategory_en,
	requirements, requirements_en, process, process_en,
	fee, duration, processing_time, office, contact_info,
	is_online, online_url, is_active, created_at, updated_at`

// buildFind renders the SELECT for a record query.
func buildFind(q *db.RecordQuery) (string, []any, error) {
	b := sqlfilter.NewBuilder(sqlfilter.Postgres)
	where, err := b.Where(q.Filters)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectColumns)
	sb.WriteString(" FROM records")
	if where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
	}
	sb.WriteString(" ")
	sb.WriteString(sqlfilter.OrderBy(sqlfilter.Postgres, q.Order))
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.Bind(q.Limit))
	}
	return sb.String(), b.Args(), nil
}

// FindRecords runs the filter as a WHERE clause.
func (s *Store) FindRecords(ctx context.Context, q *db.RecordQuery) ([]db.RecordRow, error) {
	sqlText, args, err := buildFind(q)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	rows, err := s.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer rows.Close()

	var out []db.RecordRow
	for rows.Next() {
		var r db.RecordRow
		err := rows.Scan(
			&r.ID, &r.Name, &r.NameEn, &r.NameFr, &r.Description, &r.DescriptionEn, &r.DescriptionFr,
			&r.Category, &r.Subcategory, &r.SubcategoryEn,
			&r.Requirements, &r.RequirementsEn, &r.Process, &r.ProcessEn,
			&r.Fee, &r.Duration, &r.ProcessingTime, &r.Office, &r.ContactInfo,
			&r.IsOnline, &r.OnlineURL, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("scan row: %w", err)}
		}
		r.CreatedAt = r.CreatedAt.UTC()
		r.UpdatedAt = r.UpdatedAt.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return out, nil
}

// Stats counts records.
func (s *Store) Stats(ctx context.Context) (*db.Stats, error) {
	st := &db.Stats{ByCategory: make(map[string]int)}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_active AND is_online)
		FROM records`).Scan(&st.Total, &st.Active, &st.Online)
	if err != nil {
		return nil, &db.Error{Op: db.OpStats, Err: err}
	}

	rows, err := s.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM records WHERE is_active GROUP BY category`)
	if err != nil {
		return nil, &db.Error{Op: db.OpStats, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, &db.Error{Op: db.OpStats, Err: err}
		}
		st.ByCategory[cat] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpStats, Err: err}
	}
	return st, nil
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
