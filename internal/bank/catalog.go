package bank

import "strings"

// Math topics.
const (
	TopicAlgebra         = "Algebra"
	TopicAdvancedMath    = "Advanced Math"
	TopicProblemSolving  = "Problem Solving"
	TopicGeometry        = "Geometry"
	TopicDataAnalysis    = "Data Analysis"
	TopicStatsAndProb    = "Statistics & Probability"
	TopicMainIdea        = "Main Idea"
	TopicVocabulary      = "Vocabulary in Context"
	TopicEvidence        = "Evidence"
	TopicGrammar         = "Grammar"
	TopicRhetoricalSkill = "Rhetorical Skills"
)

// Bucket identifies the set of questions sharing one section, topic and
// difficulty.
type Bucket struct {
	Section    Section
	Topic      string
	Difficulty Difficulty
}

func (b Bucket) String() string {
	return string(b.Section) + "/" + b.Topic + "/" + string(b.Difficulty)
}

// BucketOf returns the bucket a question belongs to.
func BucketOf(q *Question) Bucket {
	return Bucket{Section: q.Section, Topic: q.Topic, Difficulty: q.Difficulty}
}

// Topics returns the generated topics of a section in catalog order.
// Statistics & Probability is accepted in hand-authored lists but is not
// part of the generated catalog.
func Topics(s Section) []string {
	switch s {
	case SectionMath:
		return []string{TopicAlgebra, TopicAdvancedMath, TopicProblemSolving, TopicGeometry, TopicDataAnalysis}
	case SectionReading:
		return []string{TopicMainIdea, TopicVocabulary, TopicEvidence, TopicGrammar, TopicRhetoricalSkill}
	}
	return nil
}

// AllBuckets returns every generated bucket in catalog order: sections,
// then topics, then difficulties.
func AllBuckets() []Bucket {
	var out []Bucket
	for _, s := range []Section{SectionMath, SectionReading} {
		for _, t := range Topics(s) {
			for _, d := range AllDifficulties() {
				out = append(out, Bucket{Section: s, Topic: t, Difficulty: d})
			}
		}
	}
	return out
}

// VisualPolicy selects which figure kinds satisfy a visual-required topic.
type VisualPolicy string

const (
	// PolicyStrict accepts svg for Geometry and chart/table for data topics.
	PolicyStrict VisualPolicy = "strict"
	// PolicyLegacy additionally tolerates svg figures on data topics.
	PolicyLegacy VisualPolicy = "legacy"
)

// Valid reports whether p is a known policy.
func (p VisualPolicy) Valid() bool {
	return p == PolicyStrict || p == PolicyLegacy
}

var (
	geometryShapes = map[string]bool{
		"rectangle":        true,
		"right_triangle":   true,
		"triangle":         true,
		"circle":           true,
		"arc":              true,
		"cylinder":         true,
		"coordinate_plane": true,
		"polygon":          true,
	}
	chartTypes = map[string]bool{
		"bar":       true,
		"scatter":   true,
		"line":      true,
		"histogram": true,
		"pie":       true,
		"dot":       true,
	}
)

// RequiresVisual reports whether questions on topic must carry a figure.
func RequiresVisual(topic string) bool {
	switch topic {
	case TopicGeometry, TopicDataAnalysis, TopicStatsAndProb:
		return true
	}
	return false
}

// AcceptsVisual reports whether v is an acceptable figure for topic under
// the given policy. Topics that do not require a figure accept anything.
func AcceptsVisual(topic string, v *Visual, policy VisualPolicy) bool {
	if !RequiresVisual(topic) {
		return true
	}
	if v == nil {
		return false
	}
	switch topic {
	case TopicGeometry:
		return v.Type == VisualSVG && geometryShapes[v.Shape]
	default:
		switch v.Type {
		case VisualChart:
			return chartTypes[v.ChartType]
		case VisualTable:
			return len(v.Headers) > 0
		case VisualSVG:
			return policy == PolicyLegacy
		}
	}
	return false
}

// AcceptedKinds describes the accepted figure kinds for topic, for use in
// issue messages.
func AcceptedKinds(topic string, policy VisualPolicy) string {
	switch topic {
	case TopicGeometry:
		return "svg"
	case TopicDataAnalysis, TopicStatsAndProb:
		if policy == PolicyLegacy {
			return "chart, table or svg"
		}
		return "chart or table"
	}
	return "any"
}

// Slug lowercases s and joins its words with dashes, dropping anything that
// is not a letter or digit: "Data Analysis" -> "data-analysis".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
