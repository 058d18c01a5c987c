// Package sqlite is a record store on the pure-Go SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver (no CGO)

	"github.com/kailas-cloud/khadamat/internal/db"
	"github.com/kailas-cloud/khadamat/internal/db/sqlfilter"
	"github.com/kailas-cloud/khadamat/internal/domain/normalize"
)

// Compile-time check.
var _ db.RecordStore = (*Store)(nil)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements db.RecordStore on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: one writer, and an in-memory database lives as long as it does.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	return &Store{db: conn, now: time.Now}, nil
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
	requirements    TEXT NOT NULL DEFAULT '[]',
	requirements_en TEXT NOT NULL DEFAULT '[]',
	process         TEXT NOT NULL DEFAULT '[]',
	process_en      TEXT NOT NULL DEFAULT '[]',
	fee             TEXT NOT NULL DEFAULT '',
	duration        TEXT NOT NULL DEFAULT '',
	processing_time TEXT NOT NULL DEFAULT '',
	office          TEXT NOT NULL DEFAULT '',
	contact_info    TEXT NOT NULL DEFAULT '',
	is_online       INTEGER NOT NULL DEFAULT 0,
	online_url      TEXT NOT NULL DEFAULT '',
	is_active       INTEGER NOT NULL DEFAULT 1,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL,
	name_fold           TEXT NOT NULL DEFAULT '',
	name_en_fold        TEXT NOT NULL DEFAULT '',
	name_fr_fold        TEXT NOT NULL DEFAULT '',
	description_fold    TEXT NOT NULL DEFAULT '',
	description_en_fold TEXT NOT NULL DEFAULT '',
	description_fr_fold TEXT NOT NULL DEFAULT '',
	subcategory_fold    TEXT NOT NULL DEFAULT '',
	subcategory_en_fold TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_active_category ON records(is_active, category);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
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
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name, name_en = excluded.name_en, name_fr = excluded.name_fr,
	description = excluded.description, description_en = excluded.description_en,
	description_fr = excluded.description_fr,
	category = excluded.category, subcategory = excluded.subcategory,
	subcategory_en = excluded.subcategory_en,
	requirements = excluded.requirements, requirements_en = excluded.requirements_en,
	process = excluded.process, process_en = excluded.process_en,
	fee = excluded.fee, duration = excluded.duration, processing_time = excluded.processing_time,
	office = excluded.office, contact_info = excluded.contact_info,
	is_online = excluded.is_online, online_url = excluded.online_url, is_active = excluded.is_active,
	updated_at = excluded.updated_at,
	name_fold = excluded.name_fold, name_en_fold = excluded.name_en_fold,
	name_fr_fold = excluded.name_fr_fold,
	description_fold = excluded.description_fold,
	description_en_fold = excluded.description_en_fold,
	description_fr_fold = excluded.description_fr_fold,
	subcategory_fold = excluded.subcategory_fold,
	subcategory_en_fold = excluded.subcategory_en_fold
`

// UpsertRecords inserts or replaces rows by ID in one transaction.
// An existing row keeps its creation time.
func (s *Store) UpsertRecords(ctx context.Context, rows []db.RecordRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("prepare statement: %w", err)}
	}
	defer stmt.Close()

	now := s.now().UTC()
	for i := range rows {
		args, err := upsertArgs(&rows[i], now)
		if err != nil {
			return &db.Error{Op: db.OpUpsert, Err: err}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("upsert %q: %w", rows[i].ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("commit transaction: %w", err)}
	}
	return nil
}

func upsertArgs(r *db.RecordRow, now time.Time) ([]any, error) {
	lists := make([]string, 4)
	for i, l := range [][]string{r.Requirements, r.RequirementsEn, r.Process, r.ProcessEn} {
		s, err := encodeList(l)
		if err != nil {
			return nil, fmt.Errorf("encode lists of %q: %w", r.ID, err)
		}
		lists[i] = s
	}

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
		lists[0], lists[1], lists[2], lists[3],
		r.Fee, r.Duration, r.ProcessingTime, r.Office, r.ContactInfo,
		boolInt(r.IsOnline), r.OnlineURL, boolInt(r.IsActive), created.UnixNano(), updated.UnixNano(),
		normalize.Normalize(r.Name), normalize.Normalize(r.NameEn), normalize.Normalize(r.NameFr),
		normalize.Normalize(r.Description), normalize.Normalize(r.DescriptionEn),
		normalize.Normalize(r.DescriptionFr),
		normalize.Normalize(r.Subcategory), normalize.Normalize(r.SubcategoryEn),
	}, nil
}

// SetActive toggles a record's active flag.
func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET is_active = ?, updated_at = ? WHERE id = ?`,
		boolInt(active), s.now().UTC().UnixNano(), id)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	if n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

const selectColumns = `id, name, name_en, name_fr, description, description_en, description_fr,
	category, subcategory, subcategory_en,
	requirements, requirements_en, process, process_en,
	fee, duration, processing_time, office, contact_info,
	is_online, online_url, is_active, created_at, updated_at`

// FindRecords runs the filter as a WHERE clause.
func (s *Store) FindRecords(ctx context.Context, q *db.RecordQuery) ([]db.RecordRow, error) {
	b := sqlfilter.NewBuilder(sqlfilter.SQLite)
	where, err := b.Where(q.Filters)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectColumns)
	sb.WriteString(" FROM records ")
	sb.WriteString(where)
	sb.WriteString(" ")
	sb.WriteString(sqlfilter.OrderBy(sqlfilter.SQLite, q.Order))
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.Bind(q.Limit))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), b.Args()...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer rows.Close()

	var out []db.RecordRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (db.RecordRow, error) {
	var (
		r                      db.RecordRow
		req, reqEn, proc, prEn string
		online, active         int
		created, updated       int64
	)
	err := rows.Scan(
		&r.ID, &r.Name, &r.NameEn, &r.NameFr, &r.Description, &r.DescriptionEn, &r.DescriptionFr,
		&r.Category, &r.Subcategory, &r.SubcategoryEn,
		&req, &reqEn, &proc, &prEn,
		&r.Fee, &r.Duration, &r.ProcessingTime, &r.Office, &r.ContactInfo,
		&online, &r.OnlineURL, &active, &created, &updated,
	)
	if err != nil {
		return db.RecordRow{}, fmt.Errorf("scan row: %w", err)
	}

	for _, l := range []struct {
		src string
		dst *[]string
	}{{req, &r.Requirements}, {reqEn, &r.RequirementsEn}, {proc, &r.Process}, {prEn, &r.ProcessEn}} {
		if *l.dst, err = decodeList(l.src); err != nil {
			return db.RecordRow{}, fmt.Errorf("decode lists of %q: %w", r.ID, err)
		}
	}

	r.IsOnline = online != 0
	r.IsActive = active != 0
	r.CreatedAt = time.Unix(0, created).UTC()
	r.UpdatedAt = time.Unix(0, updated).UTC()
	return r, nil
}

// Stats counts records.
func (s *Store) Stats(ctx context.Context) (*db.Stats, error) {
	st := &db.Stats{ByCategory: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(is_active), 0),
			COALESCE(SUM(CASE WHEN is_active = 1 AND is_online = 1 THEN 1 ELSE 0 END), 0)
		FROM records`).Scan(&st.Total, &st.Active, &st.Online)
	if err != nil {
		return nil, &db.Error{Op: db.OpStats, Err: err}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM records WHERE is_active = 1 GROUP BY category`)
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

func encodeList(l []string) (string, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
