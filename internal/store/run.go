package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/satprep/internal/audit"
	"github.com/abhisek/satprep/internal/bank"
)

// runRepo implements RunRepo with plain SQL shared by both drivers.
type runRepo struct {
	s *Store
}

func (r *runRepo) Save(ctx context.Context, rec *RunRecord) error {
	if rec.Run.ID == "" {
		rec.Run.ID = uuid.NewString()
	}
	if rec.Run.CreatedAt.IsZero() {
		rec.Run.CreatedAt = time.Now()
	}
	rec.Run.CreatedAt = rec.Run.CreatedAt.UTC().Truncate(time.Millisecond)

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	run := rec.Run
	_, err = tx.ExecContext(ctx, r.s.rebind(
		`INSERT INTO audit_runs (id, created_at, source, target_per_bucket, total, warnings, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.CreatedAt.UnixMilli(), run.Source, run.TargetPerBucket, run.Total, run.Warnings, run.Errors)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	issueStmt, err := tx.PrepareContext(ctx, r.s.rebind(
		`INSERT INTO audit_issues (run_id, seq, level, code, message, question_id, section, topic, difficulty, context_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare issue insert: %w", err)
	}
	defer issueStmt.Close()
	for i, is := range rec.Issues {
		ctxJSON := "{}"
		if len(is.Context) > 0 {
			b, err := json.Marshal(is.Context)
			if err != nil {
				return fmt.Errorf("marshal issue context: %w", err)
			}
			ctxJSON = string(b)
		}
		_, err := issueStmt.ExecContext(ctx, run.ID, i, string(is.Level), is.Code, is.Message,
			is.ID, string(is.Section), is.Topic, string(is.Difficulty), ctxJSON)
		if err != nil {
			return fmt.Errorf("insert issue %d: %w", i, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, r.s.rebind(
		`INSERT INTO audit_rows (run_id, seq, question_id, section, topic, difficulty, template,
			has_visual, visual_type, visual_shape, answer_index, correct_choice, fingerprint, valid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer rowStmt.Close()
	for i, row := range rec.Rows {
		_, err := rowStmt.ExecContext(ctx, run.ID, i, row.ID, row.Section, row.Topic, row.Difficulty, row.Template,
			boolInt(row.HasVisual), row.VisualType, row.VisualShape, row.AnswerIndex, row.CorrectChoice,
			row.Fingerprint, boolInt(row.Valid))
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func (r *runRepo) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, source, target_per_bucket, total, warnings, errors
		FROM audit_runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var created int64
		if err := rows.Scan(&run.ID, &created, &run.Source, &run.TargetPerBucket,
			&run.Total, &run.Warnings, &run.Errors); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(created).UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *runRepo) Issues(ctx context.Context, runID string) ([]bank.Issue, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(
		`SELECT level, code, message, question_id, section, topic, difficulty, context_json
		FROM audit_issues WHERE run_id = ? ORDER BY seq`), runID)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var issues []bank.Issue
	for rows.Next() {
		var (
			is                 bank.Issue
			level, section     string
			difficulty, ctxRaw string
		)
		if err := rows.Scan(&level, &is.Code, &is.Message, &is.ID, &section, &is.Topic, &difficulty, &ctxRaw); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		is.Level = bank.Level(level)
		is.Section = bank.Section(section)
		is.Difficulty = bank.Difficulty(difficulty)
		if ctxRaw != "" && ctxRaw != "{}" {
			if err := json.Unmarshal([]byte(ctxRaw), &is.Context); err != nil {
				return nil, fmt.Errorf("unmarshal issue context: %w", err)
			}
		}
		issues = append(issues, is)
	}
	return issues, rows.Err()
}

func (r *runRepo) Rows(ctx context.Context, runID string) ([]audit.MatrixRow, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(
		`SELECT question_id, section, topic, difficulty, template, has_visual, visual_type,
			visual_shape, answer_index, correct_choice, fingerprint, valid
		FROM audit_rows WHERE run_id = ? ORDER BY seq`), runID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []audit.MatrixRow
	for rows.Next() {
		var row audit.MatrixRow
		var hasVisual, valid int
		if err := rows.Scan(&row.ID, &row.Section, &row.Topic, &row.Difficulty, &row.Template, &hasVisual,
			&row.VisualType, &row.VisualShape, &row.AnswerIndex, &row.CorrectChoice, &row.Fingerprint, &valid); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row.HasVisual = hasVisual != 0
		row.Valid = valid != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *runRepo) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	// Find the runs beyond the N most recent. SQLite needs a LIMIT before
	// OFFSET; -1 means no limit.
	query := `SELECT id FROM audit_runs ORDER BY created_at DESC, id LIMIT -1 OFFSET ?`
	if r.s.driver == DriverPostgres {
		query = `SELECT id FROM audit_runs ORDER BY created_at DESC, id OFFSET ?`
	}
	rows, err := r.s.db.QueryContext(ctx, r.s.rebind(query), keep)
	if err != nil {
		return fmt.Errorf("query runs for prune: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan run id: %w", err)
		}
		stale = append(stale, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query runs for prune: %w", err)
	}
	if len(stale) == 0 {
		return nil // fewer than keep runs exist
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	for _, id := range stale {
		for _, table := range []string{"audit_issues", "audit_rows"} {
			if _, err := tx.ExecContext(ctx, r.s.rebind(`DELETE FROM `+table+` WHERE run_id = ?`), id); err != nil {
				return fmt.Errorf("prune %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, r.s.rebind(`DELETE FROM audit_runs WHERE id = ?`), id); err != nil {
			return fmt.Errorf("prune run: %w", err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
