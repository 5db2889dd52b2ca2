package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run ID is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one conversion run.
type Run struct {
	ID         string    `json:"id"`
	Profile    string    `json:"profile"`
	SourceDir  string    `json:"source_dir"`
	URDFPath   string    `json:"urdf_path"`
	USDPath    string    `json:"usd_path"`
	YAMLPath   string    `json:"yaml_path"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	TotalPads  int       `json:"total_pads"`
	USDBytes   int64     `json:"usd_bytes"`
	YAMLBytes  int64     `json:"yaml_bytes"`
	YAMLHash   string    `json:"yaml_hash,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Transition is one state change of a run.
type Transition struct {
	RunID string    `json:"run_id"`
	Seq   int64     `json:"seq"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	At    time.Time `json:"at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

// BeginRun inserts a new run row.
func (s *Store) BeginRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, profile, source_dir, urdf_path, usd_path, yaml_path, state, total_pads, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.Profile,
		r.SourceDir,
		r.URDFPath,
		r.USDPath,
		r.YAMLPath,
		r.State,
		r.TotalPads,
		formatTime(r.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordTransition appends a transition and moves the run to tr.To.
// Re-recording the same (run, seq) is a no-op.
func (s *Store) RecordTransition(ctx context.Context, tr Transition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transitions (run_id, seq, from_state, to_state, at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, tr.RunID, tr.Seq, tr.From, tr.To, formatTime(tr.At))
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE runs SET state = ? WHERE id = ?`, tr.To, tr.RunID); err != nil {
			return fmt.Errorf("record transition: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}

// FinishRun stores the final state and results of a run.
func (s *Store) FinishRun(ctx context.Context, r Run) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET state = ?, error = ?, total_pads = ?, usd_bytes = ?, yaml_bytes = ?,
		    yaml_hash = ?, finished_at = ?
		WHERE id = ?
	`,
		r.State,
		r.Error,
		r.TotalPads,
		r.USDBytes,
		r.YAMLBytes,
		r.YAMLHash,
		formatTime(r.FinishedAt),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", r.ID, ErrRunNotFound)
	}
	return nil
}

const runColumns = `id, profile, source_dir, urdf_path, usd_path, yaml_path, state, error,
	total_pads, usd_bytes, yaml_bytes, yaml_hash, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var started, finished string
	if err := row.Scan(
		&r.ID, &r.Profile, &r.SourceDir, &r.URDFPath, &r.USDPath, &r.YAMLPath,
		&r.State, &r.Error, &r.TotalPads, &r.USDBytes, &r.YAMLBytes, &r.YAMLHash,
		&started, &finished,
	); err != nil {
		return Run{}, err
	}
	var err error
	if r.StartedAt, err = parseTime(started); err != nil {
		return Run{}, fmt.Errorf("run %s started_at: %w", r.ID, err)
	}
	if r.FinishedAt, err = parseTime(finished); err != nil {
		return Run{}, fmt.Errorf("run %s finished_at: %w", r.ID, err)
	}
	return r, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListTransitions returns the transitions of a run in seq order.
func (s *Store) ListTransitions(ctx context.Context, runID string) ([]Transition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, from_state, to_state, at
		FROM transitions
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var tr Transition
		var at string
		if err := rows.Scan(&tr.RunID, &tr.Seq, &tr.From, &tr.To, &at); err != nil {
			return nil, fmt.Errorf("list transitions: %w", err)
		}
		if tr.At, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("list transitions: %w", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	return out, nil
}

// LastHash returns the config hash of the most recent run that wrote
// yamlPath for profile, or "" if there is none.
func (s *Store) LastHash(ctx context.Context, profile, yamlPath string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT yaml_hash FROM runs
		WHERE profile = ? AND yaml_path = ? AND yaml_hash != ''
		ORDER BY started_at DESC, id ASC
		LIMIT 1
	`, profile, yamlPath).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last hash: %w", err)
	}
	return hash, nil
}
