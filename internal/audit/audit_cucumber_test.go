package audit

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/problemgen"
)

// TestAuditScenarios runs the audit feature scenarios.
func TestAuditScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "audit",
		ScenarioInitializer: initializeAuditScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "features")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

type auditScenario struct {
	records []bank.Question
	opts    Options
	result  *Result
}

func initializeAuditScenario(ctx *godog.ScenarioContext) {
	s := &auditScenario{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.records = nil
		s.opts = auditOpts()
		s.result = nil
		return ctx, nil
	})

	ctx.Step(`^a rectangle question with width (\d+) and height (\d+) whose marked answer is "([^"]*)"$`, s.givenRectangle)
	ctx.Step(`^a scatter question with 8 rising points labeled "([^"]*)"$`, s.givenScatter)
	ctx.Step(`^the same question again with id "([^"]*)"$`, s.givenRepeat)
	ctx.Step(`^a target of (\d+) questions per bucket$`, s.givenTarget)
	ctx.Step(`^a bank generated with seed (\d+) and (\d+) questions per bucket$`, s.givenGenerated)
	ctx.Step(`^the list is audited$`, s.whenAudited)
	ctx.Step(`^there (?:is|are) (\d+) error issues?$`, s.thenErrorCount)
	ctx.Step(`^the issues include "([^"]*)" for "([^"]*)"$`, s.thenIssueFor)
	ctx.Step(`^every matrix row is valid$`, s.thenAllValid)
}

func (s *auditScenario) givenRectangle(w, h int, marked string) error {
	area := strconv.Itoa(w * h)
	choices := []string{marked}
	for _, c := range []string{area, strconv.Itoa(2 * (w + h)), strconv.Itoa(w + h), strconv.Itoa(w*h + 5)} {
		if len(choices) < 4 && c != marked {
			choices = append(choices, c)
		}
	}
	s.records = append(s.records, rectangle("geo-1", w, h, choices, 0))
	return nil
}

func (s *auditScenario) givenScatter(label string) error {
	s.records = append(s.records, scatter("scatter-1", rising(), label))
	return nil
}

func (s *auditScenario) givenRepeat(id string) error {
	if len(s.records) == 0 {
		return fmt.Errorf("no question to repeat")
	}
	q := s.records[len(s.records)-1]
	q.ID = id
	s.records = append(s.records, q)
	return nil
}

func (s *auditScenario) givenTarget(n int) error {
	s.opts.TargetPerBucket = n
	return nil
}

func (s *auditScenario) givenGenerated(seed, target int) error {
	cfg := problemgen.DefaultConfig()
	cfg.Seed = uint32(seed)
	cfg.TargetPerBucket = target
	res, err := problemgen.Generate(cfg)
	if err != nil {
		return err
	}
	s.records = res.Questions
	return nil
}

func (s *auditScenario) whenAudited() error {
	s.result = Run(s.records, s.opts)
	return nil
}

func (s *auditScenario) thenErrorCount(n int) error {
	errs := s.result.Errors()
	if len(errs) != n {
		return fmt.Errorf("expected %d error issues, got %d: %v", n, len(errs), errs)
	}
	return nil
}

func (s *auditScenario) thenIssueFor(code, id string) error {
	for _, is := range s.result.Issues {
		if is.Code == code && is.ID == id {
			return nil
		}
	}
	return fmt.Errorf("no %s issue for %q in %v", code, id, s.result.Issues)
}

func (s *auditScenario) thenAllValid() error {
	for _, r := range s.result.Rows {
		if !r.Valid {
			return fmt.Errorf("row %s is not valid", r.ID)
		}
	}
	return nil
}
