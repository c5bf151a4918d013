package bank

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://question-record.json"

// recordSchema describes the JSON shape of one question record. It only
// pins field types; presence and value ranges are left to CheckStructure so
// that hand-authored lists get one precise issue per problem.
var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":          map[string]any{"type": "string"},
		"section":     map[string]any{"type": "string"},
		"topic":       map[string]any{"type": "string"},
		"difficulty":  map[string]any{"type": "string"},
		"question":    map[string]any{"type": "string"},
		"choices":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"answerIndex": map[string]any{"type": "integer"},
		"explanation": map[string]any{"type": "string"},
		"passage":     map[string]any{"type": "string"},
		"underline":   map[string]any{"type": "string"},
		"choiceMode":  map[string]any{"type": "string"},
		"visual": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"type":      map[string]any{"type": "string"},
				"shape":     map[string]any{"type": "string"},
				"chartType": map[string]any{"type": "string"},
				"params":    map[string]any{"type": "object"},
				"config":    map[string]any{"type": "object"},
				"caption":   map[string]any{"type": "string"},
				"headers":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"rows": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"data": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"label": map[string]any{"type": "string"},
							"x":     map[string]any{"type": "number"},
							"y":     map[string]any{"type": "number"},
						},
					},
				},
			},
			"required": []any{"type"},
		},
		"meta": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"template": map[string]any{"type": "string"},
				"params":   map[string]any{"type": []any{"object", "null"}},
			},
		},
	},
}

var compiledRecordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler wants a decoded JSON value, not Go maps of arbitrary
	// types, so round-trip the definition.
	defBytes, err := json.Marshal(recordSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal record schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse record schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(recordSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(recordSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})

// checkRecordShape validates one decoded JSON value against the record
// schema and returns a single-line description of the first failures.
func checkRecordShape(v any) (string, error) {
	compiled, err := compiledRecordSchema()
	if err != nil {
		return "", err
	}
	if err := compiled.Validate(v); err != nil {
		return flattenSchemaError(err), nil
	}
	return "", nil
}

func flattenSchemaError(err error) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "; ")
}
