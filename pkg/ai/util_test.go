package ai

import (
	"encoding/json"
	"testing"
)

type testSpan struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type testResponse struct {
	Entities []testSpan `json:"entities"`
}

func TestUnmarshalFlexible_Variants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "valid json object",
			input: `{"entities":[{"text":"Jane Smith","label":"PERSON"}]}`,
		},
		{
			name:  "markdown code fence",
			input: "```json\n{\"entities\":[{\"text\":\"Jane Smith\",\"label\":\"PERSON\"}]}\n```",
		},
		{
			name:  "unquoted keys and single quotes",
			input: `{entities: [{text: 'Jane Smith', label: 'PERSON'}]}`,
		},
		{
			name:  "trailing comma",
			input: `{"entities":[{"text":"Jane Smith","label":"PERSON"},]}`,
		},
		{
			name:  "missing end brackets",
			input: `{"entities":[{"text":"Jane Smith","label":"PERSON"`,
		},
		{
			name:  "double encoded",
			input: `"{\"entities\":[{\"text\":\"Jane Smith\",\"label\":\"PERSON\"}]}"`,
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\"entities\":[{\"text\":\"Jane Smith\",\"label\":\"PERSON\"}]}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got testResponse
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if len(got.Entities) != 1 || got.Entities[0] != (testSpan{Text: "Jane Smith", Label: "PERSON"}) {
				t.Fatalf("UnmarshalFlexible() got = %+v", got)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	var got testResponse
	if err := UnmarshalFlexible("no entities found", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(&testResponse{})
	raw, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded struct {
		Type                 string                     `json:"type"`
		Properties           map[string]json.RawMessage `json:"properties"`
		AdditionalProperties *bool                      `json:"additionalProperties"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.Type != "object" {
		t.Fatalf("schema type got = %q, want object", decoded.Type)
	}
	if _, ok := decoded.Properties["entities"]; !ok {
		t.Fatalf("schema properties missing entities: %s", raw)
	}
	if decoded.AdditionalProperties == nil || *decoded.AdditionalProperties {
		t.Fatalf("schema should forbid additional properties: %s", raw)
	}
}
