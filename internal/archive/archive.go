// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists analysis runs in a local SQLite database so a
// comparison can be re-rendered or exported without re-querying the APIs.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citescope/pkg/types"
)

const dbFile = "citescope.db"

// Store manages the run archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at dir/citescope.db,
// creating the schema when missing.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".citescope"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			query TEXT,
			source TEXT NOT NULL,
			researcher_id TEXT NOT NULL,
			researcher_name TEXT,
			analyzed_works INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			self_count INTEGER NOT NULL,
			collaborator_count INTEGER NOT NULL,
			independent_count INTEGER NOT NULL,
			report TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			work_id TEXT NOT NULL,
			title TEXT,
			year INTEGER,
			classification TEXT NOT NULL,
			link TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id, classification)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunSummary is one row of the archive listing.
type RunSummary struct {
	ID                int64        `json:"id" yaml:"id"`
	CreatedAt         time.Time    `json:"created_at" yaml:"created_at"`
	Query             string       `json:"query,omitempty" yaml:"query,omitempty"`
	Source            types.Source `json:"source" yaml:"source"`
	ResearcherID      string       `json:"researcher_id" yaml:"researcher_id"`
	ResearcherName    string       `json:"researcher_name" yaml:"researcher_name"`
	AnalyzedWorks     int          `json:"analyzed_works" yaml:"analyzed_works"`
	SelfCount         int          `json:"self_count" yaml:"self_count"`
	CollaboratorCount int          `json:"collaborator_count" yaml:"collaborator_count"`
	IndependentCount  int          `json:"independent_count" yaml:"independent_count"`
}

// SaveReport stores one run per source report and returns the new run IDs
// in report order. The full SourceReport is kept as a JSON blob for
// lossless retrieval; counts and records are broken out into columns for
// SQL-level inspection.
func (s *Store) SaveReport(ctx context.Context, report types.Report) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	var ids []int64
	for _, sr := range report.Sources {
		blob, err := json.Marshal(sr)
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO runs (created_at, query, source, researcher_id, researcher_name,
				analyzed_works, skipped, self_count, collaborator_count, independent_count, report)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			now, report.Query, string(sr.Source), sr.Researcher.ID, sr.Researcher.Name,
			sr.AnalyzedWorks, sr.Skipped,
			sr.Count(types.ClassSelf), sr.Count(types.ClassCollaborator), sr.Count(types.ClassIndependent),
			string(blob))
		if err != nil {
			return nil, fmt.Errorf("inserting run: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading run id: %w", err)
		}

		for _, g := range sr.Groups {
			for _, r := range g.Records {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO records (run_id, work_id, title, year, classification, link)
					 VALUES (?, ?, ?, ?, ?, ?)`,
					id, r.ID, r.Title, r.Year, string(r.Classification), r.Link); err != nil {
					return nil, fmt.Errorf("inserting record: %w", err)
				}
			}
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}
	return ids, nil
}

// ListRuns returns all archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, query, source, researcher_id, researcher_name,
			analyzed_works, self_count, collaborator_count, independent_count
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r       RunSummary
			created string
			src     string
		)
		if err := rows.Scan(&r.ID, &created, &r.Query, &src, &r.ResearcherID, &r.ResearcherName,
			&r.AnalyzedWorks, &r.SelfCount, &r.CollaboratorCount, &r.IndependentCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Source = types.Source(src)
		if t, perr := time.Parse(time.RFC3339, created); perr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the full SourceReport stored for one run.
func (s *Store) GetRun(ctx context.Context, id int64) (types.SourceReport, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return types.SourceReport{}, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return types.SourceReport{}, fmt.Errorf("loading run %d: %w", id, err)
	}

	var sr types.SourceReport
	if err := json.Unmarshal([]byte(blob), &sr); err != nil {
		return types.SourceReport{}, fmt.Errorf("decoding run %d: %w", id, err)
	}
	return sr, nil
}

// Records returns the archived records of one run, optionally filtered by
// classification.
func (s *Store) Records(ctx context.Context, runID int64, class types.Classification) ([]types.ClassifiedRecord, error) {
	q := `SELECT work_id, title, year, classification, link FROM records WHERE run_id = ?`
	args := []any{runID}
	if class != "" {
		q += ` AND classification = ?`
		args = append(args, string(class))
	}
	q += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	var records []types.ClassifiedRecord
	for rows.Next() {
		var (
			r   types.ClassifiedRecord
			cls string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Year, &cls, &r.Link); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Classification = types.Classification(cls)
		records = append(records, r)
	}
	return records, rows.Err()
}
