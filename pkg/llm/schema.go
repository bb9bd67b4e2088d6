package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/umputun/appscope/pkg/domain"
)

// resultSchema is the output schema sent to the model and used to validate its answer
var resultSchema, compiledSchema = mustResultSchema()

// ResultSchema returns the JSON schema of domain.AnalysisResult
func ResultSchema() json.RawMessage {
	return resultSchema
}

func mustResultSchema() (json.RawMessage, *gojsonschema.Schema) {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	s := r.Reflect(&domain.AnalysisResult{})
	// providers reject meta keywords in response schemas
	s.Version = ""
	s.ID = ""

	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("marshal result schema: %v", err))
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("compile result schema: %v", err))
	}
	return data, compiled
}

// parseResult converts model text into an AnalysisResult.
// The text must contain one JSON object valid against the result schema.
func parseResult(text string) (*domain.AnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no json object found in response")
	}
	payload := text[start : end+1]

	validation, err := compiledSchema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("decode response json: %w", err)
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("response does not match schema: %s", strings.Join(issues, "; "))
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if strings.TrimSpace(result.AppName) == "" {
		return nil, errors.New("response has empty app name")
	}
	return &result, nil
}
