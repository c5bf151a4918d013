package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ParseError describes a record that could not be decoded.
type ParseError struct {
	Index int    // position in the list
	ID    string // record id, when it could be read
	Err   string
}

func (e ParseError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %d (%s): %s", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.Err)
}

// Issue converts the parse failure into an error-level schema issue.
func (e ParseError) Issue() Issue {
	return Issue{
		Level:   LevelError,
		Code:    CodeSchema,
		Message: e.Err,
		ID:      e.ID,
		Context: map[string]any{"index": e.Index},
	}
}

// Document is a decoded question list. Records that could not be decoded
// are listed in Problems and absent from Records.
type Document struct {
	Records  []Question
	Problems []ParseError
}

// Parse decodes a JSON array of question records. A document that is not
// a JSON array is an error; individual bad records are collected as
// Problems so that one typo does not hide the rest of the list.
func Parse(data []byte) (*Document, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse question list: %w", err)
	}

	doc := &Document{Records: make([]Question, 0, len(raws))}
	for i, raw := range raws {
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			doc.Problems = append(doc.Problems, ParseError{Index: i, Err: err.Error()})
			continue
		}
		id := peekID(generic)

		msg, err := checkRecordShape(generic)
		if err != nil {
			return nil, fmt.Errorf("record schema: %w", err)
		}
		if msg != "" {
			doc.Problems = append(doc.Problems, ParseError{Index: i, ID: id, Err: msg})
			continue
		}

		var q Question
		if err := json.Unmarshal(raw, &q); err != nil {
			doc.Problems = append(doc.Problems, ParseError{Index: i, ID: id, Err: err.Error()})
			continue
		}
		doc.Records = append(doc.Records, q)
	}
	return doc, nil
}

func peekID(v any) string {
	if m, ok := v.(map[string]any); ok {
		if id, ok := m["id"].(string); ok {
			return id
		}
	}
	return ""
}

// ReadFile reads and parses a question list file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question list: %w", err)
	}
	return Parse(data)
}

// Encode renders records as an indented JSON array with a trailing
// newline. The output depends only on the records, so regenerating an
// unchanged list produces identical bytes.
func Encode(records []Question) ([]byte, error) {
	if records == nil {
		records = []Question{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode question list: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes records to path, creating parent directories.
func WriteFile(path string, records []Question) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write question list: %w", err)
	}
	return nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
