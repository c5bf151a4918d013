package bank

import "fmt"

// Level is the severity of an issue.
type Level string

const (
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Issue codes shared by the auditor and the loader.
const (
	CodeSchema            = "schema"
	CodeMissingField      = "missing_field"
	CodeInvalidSection    = "invalid_section"
	CodeInvalidDifficulty = "invalid_difficulty"
	CodeChoiceCount       = "choice_count"
	CodeChoiceInvalid     = "choice_invalid"
	CodeAnswerIndex       = "answer_index"
	CodeMissingExpl       = "missing_explanation"
	CodeDuplicate         = "duplicate"
	CodeVisualMissing     = "visual_missing"
	CodeVisualKind        = "visual_kind"
	CodeVisualParams      = "visual_param_mismatch"
	CodeAnswerMismatch    = "answer_mismatch"
	CodeUnvalidated       = "unvalidated"
	CodeParamConflict     = "param_conflict"
	CodeBucketUnderTarget = "bucket_under_target"
)

// Issue is one finding about a question or a bucket.
type Issue struct {
	Level      Level          `json:"level"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	ID         string         `json:"id,omitempty"`
	Section    Section        `json:"section,omitempty"`
	Topic      string         `json:"topic,omitempty"`
	Difficulty Difficulty     `json:"difficulty,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

func (i Issue) String() string {
	if i.ID == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Level, i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s %s: %s", i.Level, i.Code, i.ID, i.Message)
}

// NewIssue builds an issue located at q.
func NewIssue(q *Question, level Level, code, format string, args ...any) Issue {
	return Issue{
		Level:      level,
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		ID:         q.ID,
		Section:    q.Section,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
	}
}

// With returns a copy of i carrying an extra context entry.
func (i Issue) With(key string, value any) Issue {
	ctx := make(map[string]any, len(i.Context)+1)
	for k, v := range i.Context {
		ctx[k] = v
	}
	ctx[key] = value
	i.Context = ctx
	return i
}

// HasErrors reports whether any issue is error-level.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

// CountLevels returns the number of warn and error issues.
func CountLevels(issues []Issue) (warns, errs int) {
	for _, i := range issues {
		switch i.Level {
		case LevelWarn:
			warns++
		case LevelError:
			errs++
		}
	}
	return warns, errs
}
