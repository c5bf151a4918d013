package bank

import "strings"

// CheckStructure runs the record-shape checks shared by the auditor and
// the loader. Every problem is reported; error-level issues mean the record
// is malformed.
func CheckStructure(q *Question) []Issue {
	var issues []Issue

	missing := func(field string) {
		issues = append(issues, NewIssue(q, LevelError, CodeMissingField, "%s is empty", field).With("field", field))
	}
	if strings.TrimSpace(q.ID) == "" {
		missing("id")
	}
	if q.Section == "" {
		missing("section")
	} else if !q.Section.Valid() {
		issues = append(issues, NewIssue(q, LevelError, CodeInvalidSection,
			"section must be \"math\" or \"reading\", got %q", q.Section))
	}
	if strings.TrimSpace(q.Topic) == "" {
		missing("topic")
	}
	if q.Difficulty == "" {
		missing("difficulty")
	} else if !q.Difficulty.Valid() {
		issues = append(issues, NewIssue(q, LevelError, CodeInvalidDifficulty,
			"difficulty must be easy, medium or hard, got %q", q.Difficulty))
	}
	if strings.TrimSpace(q.Question) == "" {
		missing("question")
	}

	if len(q.Choices) != ChoiceCount {
		issues = append(issues, NewIssue(q, LevelError, CodeChoiceCount,
			"expected exactly %d choices, got %d", ChoiceCount, len(q.Choices)))
	} else {
		seen := make(map[string]bool, ChoiceCount)
		for i, c := range q.Choices {
			key := Normalize(c)
			if key == "" {
				issues = append(issues, NewIssue(q, LevelError, CodeChoiceInvalid, "choice %d is empty", i+1))
				continue
			}
			if seen[key] {
				issues = append(issues, NewIssue(q, LevelError, CodeChoiceInvalid, "duplicate choice %q", c))
			}
			seen[key] = true
		}
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= ChoiceCount {
		issues = append(issues, NewIssue(q, LevelError, CodeAnswerIndex,
			"answerIndex must be in [0,%d], got %d", ChoiceCount-1, q.AnswerIndex))
	}

	if strings.TrimSpace(q.Explanation) == "" {
		issues = append(issues, NewIssue(q, LevelWarn, CodeMissingExpl, "explanation is empty"))
	}
	return issues
}

// Malformed reports whether CheckStructure finds an error-level problem.
func Malformed(q *Question) bool {
	return HasErrors(CheckStructure(q))
}
