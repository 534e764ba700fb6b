// Package store exports an enriched app table to SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
)

// SQLite writes analysis runs into a SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS apps (
	run_id                  TEXT NOT NULL REFERENCES runs(id),
	app_id                  TEXT NOT NULL,
	app_name                TEXT NOT NULL,
	appstore_url            TEXT,
	primary_genre           TEXT,
	content_rating          TEXT,
	age_group               TEXT,
	size_bytes              REAL,
	size_mb                 REAL,
	required_ios_version    TEXT,
	released                TEXT NOT NULL,
	release_year            TEXT,
	updated                 TEXT,
	updated_year            TEXT,
	version                 TEXT,
	price                   REAL,
	price_range             TEXT,
	currency                TEXT,
	free                    INTEGER,
	type                    TEXT,
	developer_id            TEXT,
	developer               TEXT,
	developer_url           TEXT,
	average_user_rating     INTEGER,
	reviews                 INTEGER,
	review_category         TEXT,
	current_version_score   REAL,
	current_version_reviews INTEGER
);

CREATE INDEX IF NOT EXISTS idx_apps_run_id ON apps(run_id);
CREATE INDEX IF NOT EXISTS idx_apps_genre ON apps(primary_genre);
`

func (s *SQLite) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const insertApp = `INSERT INTO apps (
	run_id, app_id, app_name, appstore_url, primary_genre, content_rating, age_group,
	size_bytes, size_mb, required_ios_version, released, release_year, updated, updated_year,
	version, price, price_range, currency, free, type, developer_id, developer, developer_url,
	average_user_rating, reviews, review_category, current_version_score, current_version_reviews
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Export writes every row of an enriched table under a new run and returns the run ID.
func (s *SQLite) Export(ctx context.Context, t *dataset.Table) (string, error) {
	if !t.RatingsRounded {
		return "", eris.New("sqlite: table has not been enriched")
	}
	id := uuid.New().String()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, row_count, created_at) VALUES (?, ?, ?, ?)`,
		id, t.Name, t.Len(), time.Now().UTC(),
	); err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}
	stmt, err := tx.PrepareContext(ctx, insertApp)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for i, r := range t.Records {
		if _, err := stmt.ExecContext(ctx,
			id, r.AppID, r.AppName.String, r.AppStoreURL, r.PrimaryGenre, r.ContentRating, nullString(r.AgeGroup),
			nullFloat(r.SizeBytes), nullFloat(r.SizeMB), r.RequiredIOSVersion, r.Released.String, nullString(r.ReleaseYear),
			nullString(r.Updated), nullString(r.UpdatedYear),
			r.Version, nullFloat(r.Price), r.PriceRange, r.Currency, nullBool(r.Free), r.Type, r.DeveloperID, r.Developer,
			nullString(r.DeveloperURL),
			ratingInt(r.AverageUserRating), nullInt(r.Reviews), r.ReviewCategory, nullFloat(r.CurrentVersionScore),
			nullInt(r.CurrentVersionReviews),
		); err != nil {
			return "", eris.Wrapf(err, "sqlite: insert app row %d", i+1)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return id, nil
}

// CountApps returns the number of app rows stored for a run.
func (s *SQLite) CountApps(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM apps WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: count apps for run %s", runID)
	}
	return n, nil
}

func nullString(v dataset.NullString) sql.NullString {
	return sql.NullString{String: v.String, Valid: v.Valid}
}

func nullFloat(v dataset.NullFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Float64, Valid: v.Valid}
}

func nullInt(v dataset.NullInt) sql.NullInt64 {
	return sql.NullInt64{Int64: v.Int64, Valid: v.Valid}
}

func nullBool(v dataset.NullBool) sql.NullBool {
	return sql.NullBool{Bool: v.Bool, Valid: v.Valid}
}

func ratingInt(v dataset.NullFloat) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v.Float64), Valid: v.Valid}
}
