package audit

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/satprep/internal/bank"
)

const structuralName = "structural"

// StructuralCheck reports missing fields, bad enums, bad choices and an
// out-of-range answer index.
type StructuralCheck struct{}

func (c *StructuralCheck) Name() string { return structuralName }

func (c *StructuralCheck) Check(q *bank.Question, _ *State) []bank.Issue {
	return bank.CheckStructure(q)
}

// DuplicateCheck reports records whose content fingerprint was already
// seen earlier in the run. The later record is kept and flagged.
type DuplicateCheck struct{}

func (c *DuplicateCheck) Name() string { return "duplicate" }

func (c *DuplicateCheck) Check(q *bank.Question, st *State) []bank.Issue {
	fp := bank.AuditFingerprint(q)
	first, dup := st.firstByFingerprint[fp]
	if !dup {
		st.firstByFingerprint[fp] = q.ID
		return nil
	}
	is := bank.NewIssue(q, bank.LevelWarn, bank.CodeDuplicate,
		"duplicate of %s", describeID(first)).
		With("fingerprint", fp).
		With("firstId", first)
	return []bank.Issue{is}
}

func describeID(id string) string {
	if id == "" {
		return "an earlier record without id"
	}
	return id
}

// VisualCheck reports figure-required topics whose figure is absent or of
// a kind the policy does not accept.
type VisualCheck struct{}

func (c *VisualCheck) Name() string { return "visual" }

func (c *VisualCheck) Check(q *bank.Question, st *State) []bank.Issue {
	if !bank.RequiresVisual(q.Topic) {
		return nil
	}
	policy := st.Opts.Policy
	if !policy.Valid() {
		policy = bank.PolicyStrict
	}
	if q.Visual == nil {
		return []bank.Issue{
			bank.NewIssue(q, bank.LevelWarn, bank.CodeVisualMissing,
				"%s questions need a figure (%s)", q.Topic, bank.AcceptedKinds(q.Topic, policy)),
		}
	}
	if !bank.AcceptsVisual(q.Topic, q.Visual, policy) {
		return []bank.Issue{
			bank.NewIssue(q, bank.LevelWarn, bank.CodeVisualKind,
				"%s figure is not accepted for %s (%s)", q.Visual.Kind(), q.Topic, bank.AcceptedKinds(q.Topic, policy)).
				With("kind", q.Visual.Kind()).
				With("policy", string(policy)),
		}
	}
	return nil
}

// figureKeys lists, per template, the parameters the svg figure must echo.
var figureKeys = map[string][]string{
	"rectangle_area":            {"w", "h"},
	"right_triangle_hypotenuse": {"a", "b"},
}

// ParamAgreementCheck reports svg figures whose dimensions differ from the
// template parameters the answer was computed from.
type ParamAgreementCheck struct{}

func (c *ParamAgreementCheck) Name() string { return "params" }

func (c *ParamAgreementCheck) Check(q *bank.Question, _ *State) []bank.Issue {
	keys, ok := figureKeys[q.Template()]
	if !ok || q.Visual == nil || q.Visual.Type != bank.VisualSVG {
		return nil
	}
	params := q.Params()
	var issues []bank.Issue
	for _, k := range keys {
		want, okParam := params.Num(k)
		got, okFigure := q.Visual.Params.Num(k)
		switch {
		case !okParam:
			// Missing template parameters surface as an unvalidated answer.
			continue
		case !okFigure:
			issues = append(issues, bank.NewIssue(q, bank.LevelWarn, bank.CodeVisualParams,
				"figure is missing %q (template has %s)", k, formatValue(want)).
				With("key", k))
		case math.Abs(want-got) > minTolerance:
			issues = append(issues, bank.NewIssue(q, bank.LevelWarn, bank.CodeVisualParams,
				"figure %s=%s but template %s=%s", k, formatValue(got), k, formatValue(want)).
				With("key", k).
				With("figure", got).
				With("template", want))
		}
	}
	return issues
}

// AnswerCheck recomputes the answer of templated records and compares it
// with the choice at answerIndex.
type AnswerCheck struct{}

func (c *AnswerCheck) Name() string { return "answer" }

func (c *AnswerCheck) Check(q *bank.Question, st *State) []bank.Issue {
	if q.IsManual() {
		return nil
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
		// Already reported as a structural error.
		return nil
	}
	exp, err := Derive(q)
	if errors.Is(err, ErrInconsistent) {
		return []bank.Issue{
			bank.NewIssue(q, bank.LevelError, bank.CodeParamConflict, "%v", err).
				With("template", q.Template()),
		}
	}
	if err != nil {
		return []bank.Issue{
			bank.NewIssue(q, bank.LevelWarn, bank.CodeUnvalidated,
				"could not validate answer: %v", err).
				With("template", q.Template()),
		}
	}
	recorded := q.CorrectChoice()
	if exp.Matches(recorded, st.Opts.tolerance()) {
		return nil
	}
	return []bank.Issue{
		bank.NewIssue(q, bank.LevelError, bank.CodeAnswerMismatch,
			"expected %s but answerIndex %d is %q", exp, q.AnswerIndex, recorded).
			With("template", q.Template()).
			With("expected", exp.String()).
			With("recorded", recorded),
	}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}

func formatShortfall(b bank.Bucket, n, target int) string {
	return fmt.Sprintf("%s has %d questions, %d short of %d", b, n, target-n, target)
}
