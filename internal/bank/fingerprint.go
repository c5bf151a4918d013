package bank

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds text for duplicate detection: NFKC, lower case, and runs
// of whitespace collapsed to a single space.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalizeChoices normalizes each choice and joins them in order.
func normalizeChoices(choices []string) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = Normalize(c)
	}
	return strings.Join(parts, "||")
}

// AuditFingerprint is the fingerprint the auditor uses to report
// duplicates. It covers the bucket, the normalized prompt and choices and
// the serialized template parameters.
func AuditFingerprint(q *Question) string {
	params := ""
	if p := q.Params(); len(p) > 0 {
		// Map keys are marshaled in sorted order, so this is stable.
		if b, err := json.Marshal(p); err == nil {
			params = string(b)
		}
	}
	return hashParts(
		string(q.Section),
		q.Topic,
		string(q.Difficulty),
		Normalize(q.Question),
		normalizeChoices(q.Choices),
		params,
	)
}

// LoaderFingerprint is the lighter fingerprint the bank loader uses to skip
// duplicates: prompt, choices, answer index and figure kind.
func LoaderFingerprint(q *Question) string {
	return hashParts(
		Normalize(q.Question),
		normalizeChoices(q.Choices),
		strconv.Itoa(q.AnswerIndex),
		q.Visual.Kind(),
	)
}

// QuestionKey is the generator's uniqueness key: bucket plus the exact
// prompt text.
func QuestionKey(q *Question) string {
	return BucketOf(q).String() + "|" + q.Question
}

func hashParts(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
