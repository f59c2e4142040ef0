package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/supports"
)

// Run is one recorded probe run.
type Run struct {
	ID           string
	EnvKey       string
	Descriptor   platform.Descriptor
	Source       string // e.g. "browser:chromium" or "profile:ie11"
	Seq          int64
	Capabilities supports.Set // only populated by SaveRun
}

// SaveRun records a probe run and makes its values the current capability
// table of the descriptor's environment. Capabilities not in caps keep
// their previous value.
func (s *Store) SaveRun(ctx context.Context, d platform.Descriptor, source string, caps supports.Set) (Run, error) {
	run := Run{
		ID:           s.ids.Generate(),
		EnvKey:       d.Key(),
		Descriptor:   d,
		Source:       source,
		Capabilities: caps,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM probe_runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("save run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO probe_runs
		(id, env_key, user_agent, engine, os, browser, major, source, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.EnvKey,
		d.UserAgent,
		string(d.Engine),
		string(d.OS),
		d.Browser,
		d.Major,
		source,
		run.Seq,
	)
	if err != nil {
		return Run{}, fmt.Errorf("save run: insert run: %w", err)
	}

	// deterministic write order
	for _, name := range caps.Names() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO capabilities (env_key, name, supported, run_id)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(env_key, name) DO UPDATE SET
				supported = excluded.supported,
				run_id = excluded.run_id
		`, run.EnvKey, string(name), caps[name], run.ID)
		if err != nil {
			return Run{}, fmt.Errorf("save run: upsert %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("save run: commit: %w", err)
	}
	return run, nil
}

// LoadCapabilities returns the current capability table of an environment.
// ok is false when nothing was recorded for it.
func (s *Store) LoadCapabilities(ctx context.Context, envKey string) (set supports.Set, ok bool, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, supported
		FROM capabilities
		WHERE env_key = ?
		ORDER BY name COLLATE BINARY ASC
	`, envKey)
	if err != nil {
		return nil, false, fmt.Errorf("query capabilities: %w", err)
	}
	defer rows.Close()

	set = make(supports.Set)
	for rows.Next() {
		var name string
		var supported bool
		if err := rows.Scan(&name, &supported); err != nil {
			return nil, false, fmt.Errorf("scan capability: %w", err)
		}
		set[supports.Capability(name)] = supported
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate capabilities: %w", err)
	}
	return set, len(set) > 0, nil
}

// Runs returns recorded runs ordered by seq. An empty envKey lists every run.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) Runs(ctx context.Context, envKey string) ([]Run, error) {
	query := `
		SELECT id, env_key, user_agent, engine, os, browser, major, source, seq
		FROM probe_runs
	`
	var args []any
	if envKey != "" {
		query += ` WHERE env_key = ?`
		args = append(args, envKey)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var engine, os string
	err := rows.Scan(
		&run.ID,
		&run.EnvKey,
		&run.Descriptor.UserAgent,
		&engine,
		&os,
		&run.Descriptor.Browser,
		&run.Descriptor.Major,
		&run.Source,
		&run.Seq,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Descriptor.Engine = platform.Engine(engine)
	run.Descriptor.OS = platform.OS(os)
	return run, nil
}

// Host returns a supports.Host answering from the recorded table of an
// environment. Capabilities never recorded are unsupported probes.
func (s *Store) Host(ctx context.Context, envKey string) (supports.Host, error) {
	set, _, err := s.LoadCapabilities(ctx, envKey)
	if err != nil {
		return nil, err
	}
	return supports.TableHost(set), nil
}
