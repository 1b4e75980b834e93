// Package auditlog records build runs and their per-item failures in a SQLite
// database, so fallout from a bad localization export can be traced after the fact.
package auditlog

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sqlx.DB
}

// Run is one recorded build run.
type Run struct {
	ID               int64     `db:"id"`
	StartedAt        time.Time `db:"started_at"`
	DurationMs       int64     `db:"duration_ms"`
	LocalizationsDir string    `db:"localizations_dir"`
	Views            int       `db:"views"`
	Failures         int       `db:"failures"`
}

// Failure is one non-fatal problem recorded for a run. Language is empty for
// view-level failures.
type Failure struct {
	RunID    int64  `db:"run_id"`
	View     string `db:"view"`
	Language string `db:"language"`
	Message  string `db:"message"`
}

// Open opens (creating if necessary) the audit database at the given path.
func Open(file string) (s *Store, err error) {
	db, err := sqlx.Connect("sqlite3", file)
	if err != nil {
		return nil, err
	}

	s = &Store{db: db}
	if err = s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() (err error) {
	_, err = s.db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return err
	}
	// Faster than using default journal file
	_, err = s.db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
CREATE TABLE IF NOT EXISTS "run" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "started_at" DATETIME,
    "duration_ms" INTEGER,
    "localizations_dir" TEXT,
    "views" INTEGER,
    "failures" INTEGER
);
CREATE TABLE IF NOT EXISTS "failure" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "run_id" INTEGER REFERENCES "run"("id") ON UPDATE CASCADE ON DELETE CASCADE,
    "view" TEXT,
    "language" TEXT,
    "message" TEXT
);
CREATE INDEX IF NOT EXISTS "failure_run_id" ON "failure" ("run_id");
`)

	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores one build run and its failures, returning the new run's id.
func (s *Store) RecordRun(startedAt time.Time, duration time.Duration, locDir string, views int, failures []Failure) (id int64, err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result, err := tx.Exec(
		`INSERT INTO run (started_at, duration_ms, localizations_dir, views, failures) VALUES (?, ?, ?, ?, ?)`,
		startedAt, duration.Milliseconds(), locDir, views, len(failures))
	if err != nil {
		return 0, err
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, f := range failures {
		_, err = tx.Exec(
			`INSERT INTO failure (run_id, view, language, message) VALUES (?, ?, ?, ?)`,
			id, f.View, f.Language, f.Message)
		if err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// LastRuns gets the n most recent runs, newest first.
func (s *Store) LastRuns(n int) (runs []Run, err error) {
	err = s.db.Select(&runs, `SELECT id, started_at, duration_ms, localizations_dir, views, failures FROM run ORDER BY id DESC LIMIT ?`, n)

	return runs, err
}

// RunFailures gets all failures recorded for a run.
func (s *Store) RunFailures(runID int64) (failures []Failure, err error) {
	err = s.db.Select(&failures, `SELECT run_id, view, language, message FROM failure WHERE run_id = ? ORDER BY view, language`, runID)

	return failures, err
}
