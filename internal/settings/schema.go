package settings

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaDoc validates a full or partial settings payload. Types only;
// value policy stays with the UI.
var schemaDoc = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"ticker_input":         map[string]any{"type": "string"},
		"analyst_market":       map[string]any{"type": "boolean"},
		"analyst_social":       map[string]any{"type": "boolean"},
		"analyst_news":         map[string]any{"type": "boolean"},
		"analyst_fundamentals": map[string]any{"type": "boolean"},
		"analyst_macro":        map[string]any{"type": "boolean"},
		"research_depth":       map[string]any{"type": "string"},
		"allow_shorts":         map[string]any{"type": "boolean"},
		"loop_enabled":         map[string]any{"type": "boolean"},
		"loop_interval":        map[string]any{"type": "integer", "minimum": 1},
		"market_hour_enabled":  map[string]any{"type": "boolean"},
		"market_hours_input":   map[string]any{"type": "string"},
		"trade_after_analyze":  map[string]any{"type": "boolean"},
		"trade_dollar_amount":  map[string]any{"type": "number", "minimum": 0},
		"quick_llm":            map[string]any{"type": "string"},
		"deep_llm":             map[string]any{"type": "string"},
	},
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := json.Marshal(schemaDoc)
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", strings.NewReader(string(raw))); err != nil {
			schemaErr = err
			return
		}
		schemaCompiled, schemaErr = compiler.Compile("schema.json")
	})
	return schemaCompiled, schemaErr
}

// ValidatePayload checks a decoded JSON object against the settings
// schema. Callers pass the generic form straight from the request
// body.
func ValidatePayload(payload map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return schema.Validate(payload)
}
