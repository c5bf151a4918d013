// Package audit re-derives the answer of every templated question from its
// parameters and figure, and reports anything malformed, duplicated,
// missing a figure or answered wrongly.
package audit

import (
	"github.com/abhisek/satprep/internal/bank"
)

// DefaultTolerance is the absolute slack allowed between a displayed
// numeric choice and the recomputed value.
const DefaultTolerance = 0.02

// minTolerance is the floor applied to any configured tolerance.
const minTolerance = 1e-6

// Options controls an audit run.
type Options struct {
	// Checks run against every record, in order. Every check runs even if
	// an earlier one reported a problem.
	Checks []Check

	// TargetPerBucket is the expected size of each bucket; smaller buckets
	// get a warning. Zero disables the bucket check.
	TargetPerBucket int

	// Tolerance is the absolute numeric slack for answer comparison.
	Tolerance float64

	// Policy decides which figure kinds satisfy visual-required topics.
	Policy bank.VisualPolicy

	// ExpectBuckets are checked for size even if no record falls in them.
	ExpectBuckets []bank.Bucket
}

// DefaultOptions returns the standard check chain and thresholds.
func DefaultOptions() Options {
	return Options{
		Checks: []Check{
			&StructuralCheck{},
			&DuplicateCheck{},
			&VisualCheck{},
			&ParamAgreementCheck{},
			&AnswerCheck{},
		},
		TargetPerBucket: 40,
		Tolerance:       DefaultTolerance,
		Policy:          bank.PolicyStrict,
	}
}

func (o Options) tolerance() float64 {
	return max(minTolerance, o.Tolerance)
}

// Check inspects one record. Implementations keep no state of their own;
// anything that spans records lives in State.
type Check interface {
	// Name returns a short identifier, e.g. "structural" or "answer".
	Name() string

	// Check returns the issues found in q, or nil.
	Check(q *bank.Question, st *State) []bank.Issue
}

// State is shared by the checks during one run.
type State struct {
	Opts Options

	// firstByFingerprint maps an audit fingerprint to the id of the first
	// record that produced it.
	firstByFingerprint map[string]string
}

func newState(opts Options) *State {
	return &State{Opts: opts, firstByFingerprint: make(map[string]string)}
}

// Result is the outcome of an audit run.
type Result struct {
	Issues []bank.Issue
	Rows   []MatrixRow
}

// Total returns the number of records audited.
func (r *Result) Total() int { return len(r.Rows) }

// Errors returns the error-level issues.
func (r *Result) Errors() []bank.Issue {
	var out []bank.Issue
	for _, i := range r.Issues {
		if i.Level == bank.LevelError {
			out = append(out, i)
		}
	}
	return out
}

// Run audits records. It never fails: every problem is an issue.
func Run(records []bank.Question, opts Options) *Result {
	st := newState(opts)
	res := &Result{Rows: make([]MatrixRow, 0, len(records))}

	for i := range records {
		q := &records[i]
		malformed := false
		for _, c := range opts.Checks {
			for _, is := range c.Check(q, st) {
				if _, ok := is.Context["check"]; !ok {
					is = is.With("check", c.Name())
				}
				if is.Level == bank.LevelError && c.Name() == structuralName {
					malformed = true
				}
				res.Issues = append(res.Issues, is)
			}
		}
		res.Rows = append(res.Rows, newMatrixRow(q, !malformed))
	}

	res.Issues = append(res.Issues, bucketIssues(records, opts)...)
	return res
}

// RunDocument audits a parsed list, reporting undecodable records as
// schema errors ahead of the per-record issues.
func RunDocument(doc *bank.Document, opts Options) *Result {
	res := Run(doc.Records, opts)
	if len(doc.Problems) == 0 {
		return res
	}
	issues := make([]bank.Issue, 0, len(doc.Problems)+len(res.Issues))
	for _, p := range doc.Problems {
		issues = append(issues, p.Issue())
	}
	res.Issues = append(issues, res.Issues...)
	res.Rows = mergeRows(res.Rows, doc.Problems)
	return res
}

// mergeRows places an invalid row for each undecodable record at its list
// position among the decoded rows.
func mergeRows(rows []MatrixRow, problems []bank.ParseError) []MatrixRow {
	out := make([]MatrixRow, 0, len(rows)+len(problems))
	r, p := 0, 0
	for pos := 0; r < len(rows) || p < len(problems); pos++ {
		if p < len(problems) && (problems[p].Index <= pos || r == len(rows)) {
			out = append(out, problemRow(problems[p]))
			p++
			continue
		}
		out = append(out, rows[r])
		r++
	}
	return out
}

func problemRow(p bank.ParseError) MatrixRow {
	return MatrixRow{ID: p.ID, AnswerIndex: -1, Valid: false}
}

// bucketIssues warns about buckets holding fewer than the target.
func bucketIssues(records []bank.Question, opts Options) []bank.Issue {
	if opts.TargetPerBucket <= 0 {
		return nil
	}
	counts := make(map[bank.Bucket]int)
	var order []bank.Bucket
	for _, b := range opts.ExpectBuckets {
		if _, ok := counts[b]; !ok {
			counts[b] = 0
			order = append(order, b)
		}
	}
	for i := range records {
		b := bank.BucketOf(&records[i])
		if _, ok := counts[b]; !ok {
			order = append(order, b)
		}
		counts[b]++
	}

	var issues []bank.Issue
	for _, b := range order {
		n := counts[b]
		if n >= opts.TargetPerBucket {
			continue
		}
		issues = append(issues, bank.Issue{
			Level:      bank.LevelWarn,
			Code:       bank.CodeBucketUnderTarget,
			Message:    formatShortfall(b, n, opts.TargetPerBucket),
			Section:    b.Section,
			Topic:      b.Topic,
			Difficulty: b.Difficulty,
			Context:    map[string]any{"count": n, "target": opts.TargetPerBucket, "shortfall": opts.TargetPerBucket - n},
		})
	}
	return issues
}
