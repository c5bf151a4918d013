package problemgen

import (
	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

// template is a named parametric question builder. build draws parameters
// from r and returns a draft; it returns ok=false when the draw cannot
// produce a usable question, and the bucket loop simply tries again.
type template struct {
	name  string
	build func(r *rng.LCG, d bank.Difficulty) (draft, bool)
}

// draft is a question before its choices are shuffled.
type draft struct {
	Question    string
	Explanation string

	// Correct is the display text of the right answer; Distractors holds
	// exactly three wrong options.
	Correct     string
	Distractors []string

	Visual *bank.Visual
	Params bank.Params

	Passage    string
	Underline  string
	ChoiceMode string
}

// Shortfall records a bucket that did not reach its target within the
// attempt budget.
type Shortfall struct {
	Bucket   bank.Bucket
	Produced int
	Target   int
}

// Missing returns how many questions the bucket is short by.
func (s Shortfall) Missing() int {
	return s.Target - s.Produced
}

// Result is the output of one generator run.
type Result struct {
	Questions  []bank.Question
	Shortfalls []Shortfall

	// Attempts is the total number of template draws made.
	Attempts int
}
