package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/javameta/internal/outline"
)

// sqliteSchema stores each run with its records and descriptor lines.
// Ordinals preserve input order and per-file descriptor order.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	file_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS file_records (
	run_id    TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	ordinal   INTEGER NOT NULL,
	file_path TEXT NOT NULL,
	PRIMARY KEY (run_id, ordinal)
);

CREATE TABLE IF NOT EXISTS descriptors (
	run_id       TEXT NOT NULL,
	file_ordinal INTEGER NOT NULL,
	ordinal      INTEGER NOT NULL,
	detail       TEXT NOT NULL,
	PRIMARY KEY (run_id, file_ordinal, ordinal),
	FOREIGN KEY (run_id, file_ordinal) REFERENCES file_records(run_id, ordinal) ON DELETE CASCADE
);
`

// SQLiteSink appends each run to a SQLite database.
type SQLiteSink struct {
	path string
}

// NewSQLiteSink creates a sink writing to the database at path.
func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{path: path}
}

func (s *SQLiteSink) Name() string {
	return "sqlite " + s.path
}

// Write stores the batch in a single transaction.
func (s *SQLiteSink) Write(ctx context.Context, batch *Batch) error {
	if err := s.write(ctx, batch); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return nil
}

func (s *SQLiteSink) write(ctx context.Context, batch *Batch) error {
	db, err := openDB(s.path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	runID := batch.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	createdAt := batch.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	sqlStr, args, err := sq.Insert("runs").
		Columns("run_id", "created_at", "file_count").
		Values(runID, createdAt.UTC().Format(time.RFC3339), len(batch.Records)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", runID, err)
	}

	fileStmt, err := prepareInsert(ctx, tx, sq.Insert("file_records").
		Columns("run_id", "ordinal", "file_path").
		Values("", 0, ""))
	if err != nil {
		return err
	}
	defer fileStmt.Close()

	detailStmt, err := prepareInsert(ctx, tx, sq.Insert("descriptors").
		Columns("run_id", "file_ordinal", "ordinal", "detail").
		Values("", 0, 0, ""))
	if err != nil {
		return err
	}
	defer detailStmt.Close()

	for i, record := range batch.Records {
		if _, err := fileStmt.ExecContext(ctx, runID, i, record.FilePath); err != nil {
			return fmt.Errorf("failed to insert record for %s: %w", record.FilePath, err)
		}
		for j, detail := range record.Details {
			if _, err := detailStmt.ExecContext(ctx, runID, i, j, detail); err != nil {
				return fmt.Errorf("failed to insert descriptor for %s: %w", record.FilePath, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReadBatch loads the records of one run in their original order.
func ReadBatch(ctx context.Context, path, runID string) ([]outline.FileRecord, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := sq.Select("f.ordinal", "f.file_path", "d.detail").
		From("file_records f").
		LeftJoin("descriptors d ON d.run_id = f.run_id AND d.file_ordinal = f.ordinal").
		Where(sq.Eq{"f.run_id": runID}).
		OrderBy("f.ordinal", "d.ordinal").
		RunWith(db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", runID, err)
	}
	defer rows.Close()

	records := []outline.FileRecord{}
	lastOrdinal := -1
	for rows.Next() {
		var ordinal int
		var filePath string
		var detail sql.NullString
		if err := rows.Scan(&ordinal, &filePath, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if ordinal != lastOrdinal {
			records = append(records, outline.FileRecord{FilePath: filePath, Details: []string{}})
			lastOrdinal = ordinal
		}
		if detail.Valid {
			last := &records[len(records)-1]
			last.Details = append(last.Details, detail.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return records, nil
}

func openDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// SQLite disables foreign keys by default; enable them for every pooled connection.
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return db, nil
}

// prepareInsert builds the statement once with squirrel and prepares it on tx.
func prepareInsert(ctx context.Context, tx *sql.Tx, builder sq.InsertBuilder) (*sql.Stmt, error) {
	sqlStr, _, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return stmt, nil
}
