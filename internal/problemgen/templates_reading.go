package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/rng"
)

// Reading items are short placeholder passages assembled from a subject
// and an angle. They exercise the reading buckets of the UI; their answers
// are carried in the parameters rather than derived arithmetically.
//
// Subjects are tiered by difficulty so that no prompt is shared between
// the easy, medium and hard buckets of a topic.
var readingSubjects = [3][]string{
	{"urban gardens", "honeybees", "public libraries", "volcanoes", "rainforests", "city parks"},
	{"coral reefs", "solar power", "migratory birds", "space telescopes", "glaciers", "folk music"},
	{"the printing press", "the Silk Road", "jazz", "early computers", "deep-sea vents", "ancient trade routes"},
}

// subjectsFor returns the subject tier for d.
func subjectsFor(d bank.Difficulty) []string {
	return readingSubjects[level(d)-1]
}

// allSubjects returns every tier in order.
func allSubjects() []string {
	var out []string
	for _, tier := range readingSubjects {
		out = append(out, tier...)
	}
	return out
}

var readingAuthors = []string{"author", "historian", "journalist", "scientist"}

type angle struct {
	sentence string // what the passage does, with %s for the subject
	idea     string // the main-idea statement, with %s for the subject
	claim    string // a claim the passage supports, with %s for the subject
	evidence string // the sentence that supports the claim
}

var readingAngles = []angle{
	{
		sentence: "traces how %s changed over several centuries",
		idea:     "It describes the long history of %s.",
		claim:    "%s have changed a great deal over time",
		evidence: "Records from three different centuries describe %s in very different ways.",
	},
	{
		sentence: "argues that %s deserve more public funding",
		idea:     "It makes a case for increased support of %s.",
		claim:    "%s would benefit from more public funding",
		evidence: "Communities that invested in %s reported lasting benefits within a decade.",
	},
	{
		sentence: "explains the methods researchers use to study %s",
		idea:     "It explains how researchers study %s.",
		claim:    "careful measurement is central to research on %s",
		evidence: "Researchers studying %s repeat each measurement several times before drawing conclusions.",
	},
	{
		sentence: "compares two competing views about %s",
		idea:     "It weighs two opposing opinions about %s.",
		claim:    "experts disagree about %s",
		evidence: "One group of experts praises %s, while another warns of serious drawbacks.",
	},
	{
		sentence: "recounts a personal encounter with %s",
		idea:     "It shares an individual's experience with %s.",
		claim:    "a single experience with %s can change a person's outlook",
		evidence: "After one afternoon spent with %s, the narrator began to see the world differently.",
	},
}

var neutralSentences = []string{
	"Many people first learn about %s in school.",
	"The topic of %s appears often in popular magazines.",
	"Some libraries keep entire shelves of books about %s.",
	"Photographs of %s are common in travel guides.",
}

var readingMainIdea = template{name: "reading_main_idea", build: buildMainIdea}

func buildMainIdea(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	subject := rng.Choice(r, subjectsFor(d))
	author := rng.Choice(r, readingAuthors)
	idx := r.IntRange(0, len(readingAngles)-1)
	a := readingAngles[idx]

	correct := fmt.Sprintf(a.idea, subject)
	pool := make([]string, 0, len(readingAngles))
	for _, other := range readingAngles {
		pool = append(pool, fmt.Sprintf(other.idea, subject))
	}
	return draft{
		Question: fmt.Sprintf("In a short passage, the %s %s. Which choice best states the main idea of the passage?",
			author, fmt.Sprintf(a.sentence, subject)),
		Explanation: fmt.Sprintf("The passage as a whole %s, so the main idea is: %s",
			fmt.Sprintf(a.sentence, subject), correct),
		Correct:     correct,
		Distractors: textDistractors(r, correct, pool),
		Params:      bank.Params{"subject": subject, "angle": idx, "answer": correct},
	}, true
}

type vocabEntry struct {
	word     string
	frame    string // sentence frame; first %s is the subject, second the word
	meaning  string
	wrong    []string
	minLevel int
}

var vocabulary = []vocabEntry{
	{"novel", "The study of %s took a %s approach that no one had tried before.", "new", []string{"long", "fictional", "written"}, 1},
	{"keen", "Visitors showed a %[2]s interest in %[1]s during the exhibit.", "eager", []string{"sharp", "narrow", "bitter"}, 1},
	{"sound", "The committee judged the plan for %s to be %s.", "reasonable", []string{"noisy", "healthy", "deep"}, 1},
	{"check", "New rules were meant to %[2]s the decline of %[1]s.", "halt", []string{"examine", "mark", "pay"}, 1},
	{"reserved", "Early accounts of %s were %s in their praise.", "restrained", []string{"booked", "shy", "saved"}, 2},
	{"arresting", "The report included an %[2]s photograph of %[1]s.", "striking", []string{"detaining", "stopping", "alarming"}, 2},
	{"grave", "Scientists raised %[2]s concerns about the future of %[1]s.", "serious", []string{"buried", "dull", "heavy"}, 2},
	{"qualified", "Critics gave %s only %s approval.", "limited", []string{"certified", "skilled", "eligible"}, 2},
	{"tempered", "Her enthusiasm for %s was %s by the cost of the project.", "moderated", []string{"hardened", "angered", "heated"}, 3},
	{"sanguine", "Officials remained %[2]s about the prospects for %[1]s.", "optimistic", []string{"bloody", "angry", "uncertain"}, 3},
	{"cogent", "The essay on %s offered a %s argument for change.", "convincing", []string{"lengthy", "confusing", "emotional"}, 3},
	{"ephemeral", "Interest in %s proved %s, fading within a year.", "short-lived", []string{"eternal", "invisible", "delicate"}, 3},
}

var readingVocabulary = template{name: "reading_vocabulary", build: buildVocabulary}

func buildVocabulary(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	var entries []vocabEntry
	for _, e := range vocabulary {
		if e.minLevel == level(d) {
			entries = append(entries, e)
		}
	}
	e := rng.Choice(r, entries)
	subject := rng.Choice(r, allSubjects())
	sentence := fmt.Sprintf(e.frame, subject, e.word)

	return draft{
		Question:    fmt.Sprintf("\"%s\" As used in the sentence, \"%s\" most nearly means", sentence, e.word),
		Explanation: fmt.Sprintf("In this context \"%s\" means \"%s\".", e.word, e.meaning),
		Correct:     e.meaning,
		Distractors: append([]string(nil), e.wrong...),
		Underline:   e.word,
		ChoiceMode:  "word",
		Params:      bank.Params{"word": e.word, "subject": subject, "answer": e.meaning},
	}, true
}

var readingEvidence = template{name: "reading_evidence", build: buildEvidence}

func buildEvidence(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	subject := rng.Choice(r, subjectsFor(d))
	author := rng.Choice(r, readingAuthors)
	idx := r.IntRange(0, len(readingAngles)-1)
	a := readingAngles[idx]

	correct := fmt.Sprintf(a.evidence, subject)
	neutral := make([]string, len(neutralSentences))
	for i, n := range neutralSentences {
		neutral[i] = fmt.Sprintf(n, subject)
	}
	distractors := textDistractors(r, correct, neutral)

	sentences := append([]string{correct}, distractors...)
	rng.Shuffle(r, sentences)

	return draft{
		Question: fmt.Sprintf("In a passage by the %s, which sentence best supports the claim that %s?",
			author, fmt.Sprintf(a.claim, subject)),
		Explanation: fmt.Sprintf("Only the sentence \"%s\" gives information that bears directly on the claim.", correct),
		Correct:     correct,
		Distractors: distractors,
		Passage:     strings.Join(sentences, " "),
		ChoiceMode:  "sentence",
		Params:      bank.Params{"subject": subject, "angle": idx, "answer": correct},
	}, true
}

type verbForms struct {
	singular, plural, participle, infinitive string
	complement                               string
}

var grammarVerbs = []verbForms{
	{"is", "are", "being", "to be", "on display this month"},
	{"has", "have", "having", "to have", "been restored recently"},
	{"seems", "seem", "seeming", "to seem", "older than the catalog suggests"},
	{"remains", "remain", "remaining", "to remain", "in excellent condition"},
	{"needs", "need", "needing", "to need", "careful cataloging"},
}

// grammarNouns is tiered by difficulty like readingSubjects.
var grammarNouns = [3][]string{
	{"paintings", "letters", "fossils", "photographs"},
	{"maps", "recordings", "sculptures", "coins"},
	{"manuscripts", "tapestries", "instruments", "journals"},
}

// grammarSubjects pairs a subject frame with its grammatical number.
var grammarSubjects = []struct {
	frame  string
	number string
}{
	{"The collection of %s", "singular"},
	{"Each of the %s", "singular"},
	{"The box of %s", "singular"},
	{"The %s in the east wing", "plural"},
	{"The %s donated by the family", "plural"},
}

var readingGrammar = template{name: "reading_grammar", build: buildGrammar}

func buildGrammar(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	subj := rng.Choice(r, grammarSubjects)
	noun := rng.Choice(r, grammarNouns[level(d)-1])
	v := rng.Choice(r, grammarVerbs)

	correct, wrong := v.singular, v.plural
	if subj.number == "plural" {
		correct, wrong = v.plural, v.singular
	}
	subject := fmt.Sprintf(subj.frame, noun)
	return draft{
		Question: fmt.Sprintf("Which choice completes the text so that it conforms to the conventions of Standard English? %s ______ %s.",
			subject, v.complement),
		Explanation: fmt.Sprintf("The subject \"%s\" is %s, so the verb must be \"%s\".", subject, subj.number, correct),
		Correct:     correct,
		Distractors: []string{wrong, v.participle, v.infinitive},
		ChoiceMode:  "word",
		Params: bank.Params{
			"number":   subj.number,
			"singular": v.singular,
			"plural":   v.plural,
		},
	}, true
}

// Transition relations and the transition each one calls for.
var transitions = map[string]string{
	"contrast": "However,",
	"cause":    "Therefore,",
	"addition": "Moreover,",
	"example":  "For example,",
}

var relationOrder = []string{"contrast", "cause", "addition", "example"}

var transitionPairs = map[string][][2]string{
	"contrast": {
		{"Many people assume that caring for %s is simple.", "experts say it demands years of training."},
		{"Early reports about %s were mostly positive.", "later studies raised new concerns."},
		{"Supporters of %s expected quick results.", "progress turned out to be slow and uneven."},
	},
	"cause": {
		{"The city doubled its budget for projects on %s.", "the number of such projects grew quickly."},
		{"A popular documentary featured %s last spring.", "local interest in the topic rose sharply."},
		{"Volunteers spent a year cataloging facts about %s.", "the new guidebook is unusually thorough."},
	},
	"addition": {
		{"Programs about %s attract visitors from around the world.", "they support many local jobs."},
		{"Learning about %s improves students' observation skills.", "it encourages them to ask better questions."},
		{"Research on %s has attracted new funding.", "it has drawn young scientists into the field."},
	},
	"example": {
		{"Studying %s has inspired several inventions.", "one engineer designed a cooling system after a single visit."},
		{"Writers have long drawn ideas from %s.", "a well-known poem is devoted entirely to the subject."},
		{"Teachers often use %s to make lessons concrete.", "one class built a scale model to study the topic."},
	},
}

var readingTransition = template{name: "reading_transition", build: buildTransition}

func buildTransition(r *rng.LCG, d bank.Difficulty) (draft, bool) {
	subject := rng.Choice(r, subjectsFor(d))
	relation := rng.Choice(r, relationOrder)
	pair := rng.Choice(r, transitionPairs[relation])

	correct := transitions[relation]
	var pool []string
	for _, rel := range relationOrder {
		pool = append(pool, transitions[rel])
	}
	return draft{
		Question: fmt.Sprintf("%s ______ %s Which choice completes the text with the most logical transition?",
			fmt.Sprintf(pair[0], subject), pair[1]),
		Explanation: fmt.Sprintf("The second sentence expresses %s relative to the first, so \"%s\" is the logical transition.",
			relationPhrase(relation), correct),
		Correct:     correct,
		Distractors: textDistractors(r, correct, pool),
		ChoiceMode:  "word",
		Params:      bank.Params{"relation": relation},
	}, true
}

func relationPhrase(relation string) string {
	switch relation {
	case "contrast":
		return "a contrast"
	case "cause":
		return "a result"
	case "addition":
		return "an additional point"
	default:
		return "an example"
	}
}
