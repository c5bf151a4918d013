package store

import (
	"context"
	"time"

	"github.com/abhisek/satprep/internal/audit"
	"github.com/abhisek/satprep/internal/bank"
)

// Run summarizes one recorded validate run.
type Run struct {
	ID              string
	CreatedAt       time.Time
	Source          string // the question list that was audited
	TargetPerBucket int
	Total           int
	Warnings        int
	Errors          int
}

// RunRecord is everything saved for a run.
type RunRecord struct {
	Run    Run
	Issues []bank.Issue
	Rows   []audit.MatrixRow
}

// RunRepo manages recorded audit runs.
type RunRepo interface {
	// Save stores a run with its issues and matrix rows. An empty Run.ID is
	// filled with a new UUID; a zero CreatedAt with the current time.
	Save(ctx context.Context, rec *RunRecord) error

	// List returns the most recent runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Run, error)

	// Issues returns the issues of a run in their original order.
	Issues(ctx context.Context, runID string) ([]bank.Issue, error)

	// Rows returns the matrix rows saved for a run, in order.
	Rows(ctx context.Context, runID string) ([]audit.MatrixRow, error)

	// Prune deletes all but the N most recent runs.
	Prune(ctx context.Context, keep int) error
}
