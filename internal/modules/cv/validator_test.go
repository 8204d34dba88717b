package cv

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatal(err)
	}
	return data
}

const validDoc = `{
	"metadata": {"version": "1.0", "last_updated": "2026-08-01", "total_sections": 2},
	"sections": {
		"experience": {
			"backend": {
				"id": "exp-backend",
				"keywords": ["go", "backend"],
				"responses": {"general": "I build backend services in Go.", "recruiter": "I have five years of Go experience."},
				"details": "## Backend\nServices and tooling."
			},
			"infra": {
				"id": "exp-infra",
				"keywords": ["kubernetes"],
				"responses": {"general": "I run workloads on Kubernetes."}
			}
		}
	},
	"personality": {"traits": ["curious"]},
	"responseTemplates": {"general": "{{answer}}"}
}`

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	result := Validate(mustParse(t, validDoc), nil)
	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
	if result.SectionsCount != 2 {
		t.Fatalf("SectionsCount = %d, want 2", result.SectionsCount)
	}
}

func TestValidateReportsEachMissingRequiredKey(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		missing []string
	}{
		{"all missing", `{}`, []string{"metadata", "sections", "personality", "responseTemplates"}},
		{"one missing", `{"metadata":{"version":"1","last_updated":"x","total_sections":0},"sections":{},"personality":{}}`, []string{"responseTemplates"}},
		{"two missing", `{"sections":{},"responseTemplates":{}}`, []string{"metadata", "personality"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(mustParse(t, tt.doc), nil)
			if result.Success {
				t.Fatal("expected failure")
			}
			for _, key := range tt.missing {
				want := "Missing required property: " + key
				found := false
				for _, e := range result.Errors {
					if e == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("missing error %q in %v", want, result.Errors)
				}
			}
		})
	}
}

func TestValidateRequiredKeysComeFromSchema(t *testing.T) {
	schema := mustParse(t, `{"required": ["metadata", "extra"]}`)
	result := Validate(mustParse(t, `{"metadata":{"version":"1","last_updated":"x","total_sections":1}}`), schema)

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Missing required property: extra" {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateShapeRules(t *testing.T) {
	doc := mustParse(t, `{
		"metadata": {"version": 3, "last_updated": "x", "total_sections": "two"},
		"sections": {"experience": {"backend": {"id": 1, "keywords": "go", "responses": []}}},
		"personality": "curious",
		"responseTemplates": {}
	}`)

	result := Validate(doc, nil)
	if result.Success {
		t.Fatal("expected failure")
	}

	for _, want := range []string{
		"metadata.version must be a string",
		"metadata.total_sections must be a number",
		"sections.experience.backend.id must be a string",
		"sections.experience.backend.keywords must be an array",
		"sections.experience.backend.responses must be an object",
		"personality must be an object",
	} {
		found := false
		for _, e := range result.Errors {
			if e == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing error %q in %v", want, result.Errors)
		}
	}
}

func TestValidateNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Validate panicked: %v", r)
		}
	}()

	result := Validate(nil, nil)
	if result.Success {
		t.Fatal("nil document must not validate")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "empty") {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}
