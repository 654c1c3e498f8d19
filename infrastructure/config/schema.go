package config

import (
	"encoding/json"

	domainconfig "github.com/felixgeelhaar/popsolver/domain/config"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
}

// GenerateSchema generates a JSON Schema for the service configuration file.
func GenerateSchema() *JSONSchema {
	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/popsolver/popsolver-config.schema.json",
		Title:       "popsolver Configuration",
		Description: "Configuration schema for the popsolver planning service",
		Type:        "object",
		Required:    []string{"name", "version"},
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "A human-readable name for this configuration",
			},
			"version": {
				Type:        "string",
				Description: "The configuration schema version",
				Default:     "1.0",
			},
			"description": {
				Type:        "string",
				Description: "Describes the deployment",
			},
			"log":       generateLogSchema(),
			"planner":   generatePlannerSchema(),
			"domains":   generateDomainsSchema(),
			"server":    generateServerSchema(),
			"telemetry": generateTelemetrySchema(),
		},
	}
}

func generateLogSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Structured logging settings",
		Properties: map[string]*JSONSchema{
			"level": {
				Type:    "string",
				Enum:    []string{"trace", "debug", "info", "warn", "error"},
				Default: "info",
			},
			"format": {
				Type:    "string",
				Enum:    []string{"json", "console"},
				Default: "json",
			},
		},
	}
}

func generatePlannerSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Plan search settings",
		Properties: map[string]*JSONSchema{
			"max_goals": {
				Type:        "integer",
				Description: "Maximum number of goals one plan request may schedule",
				Default:     domainconfig.DefaultMaxGoals,
				Minimum:     floatPtr(0),
			},
			"default_domain": {
				Type:        "string",
				Description: "Domain used when a request names none",
				Default:     domainconfig.DefaultDomain,
			},
			"fewest_unmet_first": {
				Type:        "boolean",
				Description: "Choose the operator with the fewest unmet preconditions instead of the first declared one",
				Default:     false,
			},
		},
	}
}

func generateDomainsSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Where operator tables are loaded from",
		Properties: map[string]*JSONSchema{
			"dir": {
				Type:        "string",
				Description: "Directory of YAML, JSON or TOML domain files",
			},
			"watch": {
				Type:        "boolean",
				Description: "Reload the directory when its files change",
				Default:     false,
			},
			"disable_builtins": {
				Type:        "boolean",
				Description: "Leave the embedded robot and blocks-world tables out",
				Default:     false,
			},
		},
	}
}

func generateServerSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "MCP tool server settings",
		Properties: map[string]*JSONSchema{
			"name": {
				Type:    "string",
				Default: domainconfig.DefaultServerName,
			},
			"max_concurrent": {
				Type:        "integer",
				Description: "Maximum concurrent tool calls",
				Default:     domainconfig.DefaultMaxConcurrent,
				Minimum:     floatPtr(0),
			},
			"timeout": {
				Type:        "string",
				Description: "Per-call timeout as a Go duration",
				Default:     domainconfig.DefaultTimeout.String(),
				Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
			},
		},
	}
}

func generateTelemetrySchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "OpenTelemetry settings",
		Properties: map[string]*JSONSchema{
			"tracing": {Type: "boolean", Default: false},
			"metrics": {Type: "boolean", Default: false},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as an indented JSON string.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
