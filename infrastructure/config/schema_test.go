package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	t.Parallel()

	schema := GenerateSchema()
	if schema.Type != "object" {
		t.Errorf("Type = %q, want object", schema.Type)
	}
	for _, section := range []string{"name", "version", "log", "planner", "domains", "server", "telemetry"} {
		if _, ok := schema.Properties[section]; !ok {
			t.Errorf("missing property %q", section)
		}
	}
	planner := schema.Properties["planner"]
	if planner.Properties["max_goals"].Default != 1000 {
		t.Errorf("max_goals default = %v", planner.Properties["max_goals"].Default)
	}
	if got := schema.Properties["server"].Properties["timeout"].Default; got != "30s" {
		t.Errorf("timeout default = %v, want 30s", got)
	}
}

func TestSchemaJSON(t *testing.T) {
	t.Parallel()

	out, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("SchemaJSON() is not valid JSON: %v", err)
	}
	if decoded["$schema"] == nil || decoded["title"] != "popsolver Configuration" {
		t.Errorf("unexpected header: %v %v", decoded["$schema"], decoded["title"])
	}
}
