// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no C compiler
// needed, cross-compiles everywhere Go does. The blank import below
// registers it with database/sql as the driver named "sqlite".
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The typed store accessors (Users,
// Jobs, Applications, ...) share this pool; each implements one repository
// interface.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/jobboard.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// SQLite's default locks the whole file for the duration of a write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the UserRepository implementation backed by this pool.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Jobs returns the JobRepository implementation backed by this pool.
func (db *DB) Jobs() *JobStore { return &JobStore{conn: db.conn} }

// Applications returns the ApplicationRepository implementation backed by
// this pool.
func (db *DB) Applications() *ApplicationStore { return &ApplicationStore{conn: db.conn} }

// EmployerProfiles returns the EmployerProfileRepository implementation.
func (db *DB) EmployerProfiles() *EmployerProfileStore { return &EmployerProfileStore{conn: db.conn} }

// JobSeekerProfiles returns the JobSeekerProfileRepository implementation.
func (db *DB) JobSeekerProfiles() *JobSeekerProfileStore {
	return &JobSeekerProfileStore{conn: db.conn}
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every startup.
//
// Two uniqueness rules live here rather than in application code:
//   - users.email UNIQUE backs the duplicate-signup check
//   - applications UNIQUE(job_id, applicant_id) closes the race where two
//     concurrent applies both pass the service-level existence check
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			google_id     TEXT NOT NULL DEFAULT '',
			provider      TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'jobseeker',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS employer_profiles (
			user_id       TEXT PRIMARY KEY REFERENCES users(id),
			company_name  TEXT NOT NULL,
			company_email TEXT NOT NULL,
			phone         TEXT NOT NULL DEFAULT '',
			website       TEXT NOT NULL DEFAULT '',
			description   TEXT NOT NULL DEFAULT '',
			location      TEXT NOT NULL DEFAULT '',
			logo          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating employer_profiles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobseeker_profiles (
			user_id    TEXT PRIMARY KEY REFERENCES users(id),
			full_name  TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			skills     TEXT NOT NULL DEFAULT '[]',
			experience TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			resume_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating jobseeker_profiles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id               TEXT PRIMARY KEY,
			employer_id      TEXT NOT NULL REFERENCES users(id),
			title            TEXT NOT NULL,
			description      TEXT NOT NULL,
			qualifications   TEXT NOT NULL DEFAULT '[]',
			responsibilities TEXT NOT NULL DEFAULT '[]',
			job_type         TEXT NOT NULL,
			location         TEXT NOT NULL,
			salary_min       INTEGER NOT NULL DEFAULT 0,
			salary_max       INTEGER NOT NULL DEFAULT 0,
			company_name     TEXT NOT NULL DEFAULT '',
			company_logo     TEXT NOT NULL DEFAULT '',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_employer_id ON jobs(employer_id);
		CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id           TEXT PRIMARY KEY,
			job_id       TEXT NOT NULL REFERENCES jobs(id),
			applicant_id TEXT NOT NULL REFERENCES users(id),
			full_name    TEXT NOT NULL,
			email        TEXT NOT NULL,
			phone        TEXT NOT NULL DEFAULT '',
			skills       TEXT NOT NULL DEFAULT '[]',
			experience   TEXT NOT NULL DEFAULT '',
			education    TEXT NOT NULL DEFAULT '',
			cover_letter TEXT NOT NULL DEFAULT '',
			resume_url   TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL DEFAULT 'applied',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(job_id, applicant_id)
		);
		CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);
		CREATE INDEX IF NOT EXISTS idx_applications_applicant_id ON applications(applicant_id);
	`)
	if err != nil {
		return fmt.Errorf("creating applications table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column spec (e.g. "users.email"). modernc.org/sqlite surfaces
// constraint failures as plain errors with the offending columns in the
// message, so string matching is the available signal.
func isUniqueViolation(err error, columns string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, columns)
}

// marshalStrings serializes a string list into a JSON text column.
// nil becomes "[]" so scans never see NULL.
func marshalStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding string list: %w", err)
	}
	return string(b), nil
}

// unmarshalStrings reads a JSON text column back into a string list.
func unmarshalStrings(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("sqlite: decoding string list: %w", err)
	}
	return list, nil
}
