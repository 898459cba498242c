package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/xmlzip/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// Store is a SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.xmlzip/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".xmlzip", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every .up.sql migration newer than the recorded version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveRun stores or replaces a run and its failures in one transaction.
func (s *Store) SaveRun(ctx context.Context, report *domain.RunReport) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, dir, levels_path, objects_path, archives, archives_failed,
			members, members_failed, level_rows, object_rows, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dir = excluded.dir,
			levels_path = excluded.levels_path,
			objects_path = excluded.objects_path,
			archives = excluded.archives,
			archives_failed = excluded.archives_failed,
			members = excluded.members,
			members_failed = excluded.members_failed,
			level_rows = excluded.level_rows,
			object_rows = excluded.object_rows,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, report.ID, report.Dir, report.LevelsPath, report.ObjectsPath,
		report.Archives, report.ArchivesFailed, report.Members, report.MembersFailed,
		report.LevelRows, report.ObjectRows,
		report.StartedAt.UTC(), nullTime(report))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM run_failures WHERE run_id = ?", report.ID); err != nil {
		return fmt.Errorf("clearing failures: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_failures (run_id, seq, kind, archive, member, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing failure insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range report.Failures {
		if _, err = stmt.ExecContext(ctx, report.ID, i, string(f.Kind), f.Archive, f.Member, f.Message); err != nil {
			return fmt.Errorf("saving failure: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// GetRun retrieves a run and its failures.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.RunReport, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	report, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, archive, member, message
		FROM run_failures WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.Failure
		var kind string
		if err := rows.Scan(&kind, &f.Archive, &f.Member, &f.Message); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		f.Kind = domain.FailureKind(kind)
		report.Failures = append(report.Failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating failures: %w", err)
	}

	return report, nil
}

// ListRuns returns runs newest first, without failures.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunReport, error) {
	query := selectRuns + " ORDER BY started_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunReport
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

const selectRuns = `
	SELECT id, dir, levels_path, objects_path, archives, archives_failed,
		members, members_failed, level_rows, object_rows, started_at, finished_at
	FROM runs`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunReport, error) {
	var r domain.RunReport
	var startedAt, finishedAt sql.NullTime
	if err := row.Scan(&r.ID, &r.Dir, &r.LevelsPath, &r.ObjectsPath,
		&r.Archives, &r.ArchivesFailed, &r.Members, &r.MembersFailed,
		&r.LevelRows, &r.ObjectRows, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if startedAt.Valid {
		r.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		r.FinishedAt = finishedAt.Time
	}
	return &r, nil
}

func nullTime(report *domain.RunReport) any {
	if report.FinishedAt.IsZero() {
		return nil
	}
	return report.FinishedAt.UTC()
}
