package problemgen

import (
	"fmt"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

// topicTemplates lists the templates drawn from for each generated topic.
var topicTemplates = map[string][]template{
	bank.TopicAlgebra:        {linearEquation},
	bank.TopicAdvancedMath:   {quadraticRoot},
	bank.TopicProblemSolving: {percentChange},
	bank.TopicGeometry: {
		rectangleArea, rightTriangleHypotenuse, circleCircumference,
		arcLength, cylinderVolume, coordinateDistance,
	},
	bank.TopicDataAnalysis:    {barMean, scatterCorrelation, correlationRValue, tableFraction},
	bank.TopicMainIdea:        {readingMainIdea},
	bank.TopicVocabulary:      {readingVocabulary},
	bank.TopicEvidence:        {readingEvidence},
	bank.TopicGrammar:         {readingGrammar},
	bank.TopicRhetoricalSkill: {readingTransition},
}

// TemplateNames returns the names of all generator templates.
func TemplateNames() []string {
	var names []string
	for _, b := range bank.AllBuckets() {
		if b.Difficulty != bank.DifficultyEasy {
			continue
		}
		for _, t := range topicTemplates[b.Topic] {
			names = append(names, t.name)
		}
	}
	return names
}

// Generator produces a deterministic question list from a seed.
type Generator struct {
	cfg Config
}

// New returns a Generator for cfg.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate runs every bucket in catalog order against a single seeded
// stream. Buckets are never generated concurrently: the order of draws is
// what makes the output reproducible.
func (g *Generator) Generate() (*Result, error) {
	if err := g.cfg.validate(); err != nil {
		return nil, err
	}
	r := rng.New(g.cfg.Seed)
	res := &Result{}
	for _, b := range bank.AllBuckets() {
		qs, attempts := g.fillBucket(r, b)
		res.Attempts += attempts
		res.Questions = append(res.Questions, qs...)
		if len(qs) < g.cfg.TargetPerBucket {
			res.Shortfalls = append(res.Shortfalls, Shortfall{Bucket: b, Produced: len(qs), Target: g.cfg.TargetPerBucket})
		}
	}
	return res, nil
}

// Generate is shorthand for New(cfg).Generate().
func Generate(cfg Config) (*Result, error) {
	return New(cfg).Generate()
}

// fillBucket draws candidates until the bucket reaches its target or the
// attempt budget runs out. Candidates whose prompt already appeared in the
// bucket are skipped.
func (g *Generator) fillBucket(r *rng.LCG, b bank.Bucket) ([]bank.Question, int) {
	templates := topicTemplates[b.Topic]
	if len(templates) == 0 {
		return nil, 0
	}
	seen := make(map[string]bool, g.cfg.TargetPerBucket)
	var out []bank.Question

	attempts := 0
	for attempts < g.cfg.MaxAttempts && len(out) < g.cfg.TargetPerBucket {
		attempts++
		t := rng.Choice(r, templates)
		d, ok := t.build(r, b.Difficulty)
		if !ok {
			continue
		}
		choices, answer, ok := assemble(r, d)
		if !ok {
			continue
		}
		q := bank.Question{
			ID:          questionID(b, len(out)+1),
			Section:     b.Section,
			Topic:       b.Topic,
			Difficulty:  b.Difficulty,
			Question:    d.Question,
			Choices:     choices,
			AnswerIndex: answer,
			Explanation: d.Explanation,
			Visual:      d.Visual,
			Passage:     d.Passage,
			Underline:   d.Underline,
			ChoiceMode:  d.ChoiceMode,
			Meta:        &bank.Meta{Template: t.name, Params: d.Params},
		}
		key := bank.QuestionKey(&q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out, attempts
}

func questionID(b bank.Bucket, seq int) string {
	return fmt.Sprintf("%s-%s-%s-%03d", b.Section, bank.Slug(b.Topic), b.Difficulty, seq)
}
