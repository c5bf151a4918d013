package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/satprep/internal/bank"
)

// Report is the JSON issue report.
type Report struct {
	GeneratedAt     time.Time    `json:"generatedAt"`
	TargetPerBucket int          `json:"targetPerBucket"`
	TotalQuestions  int          `json:"totalQuestions"`
	IssueCount      int          `json:"issueCount"`
	Issues          []bank.Issue `json:"issues"`
}

// NewReport summarizes res. now is recorded as the generation time.
func NewReport(res *Result, opts Options, now time.Time) Report {
	issues := res.Issues
	if issues == nil {
		issues = []bank.Issue{}
	}
	return Report{
		GeneratedAt:     now.UTC(),
		TargetPerBucket: opts.TargetPerBucket,
		TotalQuestions:  res.Total(),
		IssueCount:      len(issues),
		Issues:          issues,
	}
}

// WriteReport writes the report as indented JSON to path.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := bank.EnsureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
