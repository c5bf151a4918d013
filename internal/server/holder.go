// Package server exposes the loaded question bank to the practice UI over
// a small read-only HTTP API.
package server

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/abhisek/satprep/internal/bank"
)

// Snapshot is one loaded bank with the issues found while loading it.
type Snapshot struct {
	Bank     *bank.Bank
	Issues   []bank.Issue
	LoadedAt time.Time
}

// LoadFunc produces a fresh bank.
type LoadFunc func() (*bank.Bank, []bank.Issue, error)

// Holder owns the current bank. Readers always see a complete snapshot;
// Reload builds a new one and swaps the reference.
type Holder struct {
	load    LoadFunc
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a Holder that loads through load. It holds no bank
// until the first Reload.
func NewHolder(load LoadFunc) *Holder {
	return &Holder{load: load}
}

// Reload loads a new bank and makes it current. On error the previous bank
// stays in place.
func (h *Holder) Reload() (*Snapshot, error) {
	if h.load == nil {
		return nil, errors.New("no loader configured")
	}
	b, issues, err := h.load()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Bank: b, Issues: issues, LoadedAt: time.Now().UTC()}
	h.current.Store(snap)
	return snap, nil
}

// Current returns the current snapshot, or nil before the first load.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// FileLoader reads a question list from path and builds a bank with opts.
// Records the parser could not decode are reported as schema issues ahead
// of the loader's own.
func FileLoader(path string, opts bank.LoaderOptions) LoadFunc {
	return func() (*bank.Bank, []bank.Issue, error) {
		doc, err := bank.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		var issues []bank.Issue
		for _, p := range doc.Problems {
			issues = append(issues, p.Issue().With("action", "dropped"))
		}
		b, buildIssues := bank.Build(doc.Records, opts)
		return b, append(issues, buildIssues...), nil
	}
}
