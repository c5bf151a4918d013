package bank

import (
	"encoding/json"
	"sort"
)

// LoaderOptions controls how Build admits records into a Bank.
type LoaderOptions struct {
	// RequireVisual drops records on visual-required topics that carry no
	// acceptable figure instead of keeping them degraded.
	RequireVisual bool

	// Policy decides which figure kinds are acceptable. Defaults to strict.
	Policy VisualPolicy
}

// Bank is the grouped, read-only question bank the UI consumes:
// section -> topic -> difficulty -> questions. A Bank is never mutated
// after Build returns; reloading means building a new one.
type Bank struct {
	groups map[Section]map[string]map[Difficulty][]Question
	size   int
}

// Build admits records into a new Bank under the loader policy:
// malformed records are dropped, later duplicates (by LoaderFingerprint)
// are skipped, and missing figures are logged. The returned issues use the
// same shape as the auditor's.
func Build(records []Question, opts LoaderOptions) (*Bank, []Issue) {
	if opts.Policy == "" {
		opts.Policy = PolicyStrict
	}
	b := &Bank{groups: make(map[Section]map[string]map[Difficulty][]Question)}
	seen := make(map[string]string, len(records))
	var issues []Issue

	for i := range records {
		q := records[i]

		var malformed bool
		for _, is := range CheckStructure(&q) {
			if is.Level == LevelError {
				malformed = true
				issues = append(issues, is.With("action", "dropped"))
			}
		}
		if malformed {
			continue
		}

		fp := LoaderFingerprint(&q)
		if first, dup := seen[fp]; dup {
			issues = append(issues, NewIssue(&q, LevelWarn, CodeDuplicate,
				"duplicate of %s, skipped", first).With("fingerprint", fp))
			continue
		}
		seen[fp] = q.ID

		if !AcceptsVisual(q.Topic, q.Visual, opts.Policy) {
			code, msg := CodeVisualKind, "visual "+q.Visual.Kind()+" is not one of "+AcceptedKinds(q.Topic, opts.Policy)
			if q.Visual == nil {
				code, msg = CodeVisualMissing, "topic requires a visual"
			}
			if opts.RequireVisual {
				issues = append(issues, NewIssue(&q, LevelWarn, code, "%s", msg).With("action", "dropped"))
				continue
			}
			issues = append(issues, NewIssue(&q, LevelWarn, code, "%s", msg))
		}

		b.add(q)
	}
	return b, issues
}

func (b *Bank) add(q Question) {
	topics, ok := b.groups[q.Section]
	if !ok {
		topics = make(map[string]map[Difficulty][]Question)
		b.groups[q.Section] = topics
	}
	diffs, ok := topics[q.Topic]
	if !ok {
		diffs = make(map[Difficulty][]Question)
		topics[q.Topic] = diffs
	}
	diffs[q.Difficulty] = append(diffs[q.Difficulty], q)
	b.size++
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Sections returns the sections present, sorted.
func (b *Bank) Sections() []Section {
	if b == nil {
		return nil
	}
	out := make([]Section, 0, len(b.groups))
	for s := range b.groups {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Topics returns the topics present in a section, sorted.
func (b *Bank) Topics(s Section) []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.groups[s]))
	for t := range b.groups[s] {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Difficulties returns the difficulties present for a topic, in band order.
func (b *Bank) Difficulties(s Section, topic string) []Difficulty {
	if b == nil {
		return nil
	}
	var out []Difficulty
	for _, d := range AllDifficulties() {
		if len(b.groups[s][topic][d]) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// Questions returns a copy of the questions in one bucket.
func (b *Bank) Questions(s Section, topic string, d Difficulty) []Question {
	if b == nil {
		return nil
	}
	src := b.groups[s][topic][d]
	out := make([]Question, len(src))
	copy(out, src)
	return out
}

// MarshalJSON renders the nested section/topic/difficulty mapping.
func (b *Bank) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b.groups)
}
