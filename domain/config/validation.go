package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Paths returns the path of every error, in order.
func (e ValidationErrors) Paths() []string {
	out := make([]string, len(e))
	for i, err := range e {
		out[i] = err.Path
	}
	return out
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validFormats = map[string]bool{"json": true, "console": true}
)

// Validator validates service configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *ServiceConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateLog(config)
	v.validatePlanner(config)
	v.validateDomains(config)
	v.validateServer(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *ServiceConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateLog(config *ServiceConfig) {
	if config.Log.Level != "" && !validLevels[strings.ToLower(config.Log.Level)] {
		v.addError("log.level", fmt.Sprintf("invalid level: %s", config.Log.Level))
	}
	if config.Log.Format != "" && !validFormats[strings.ToLower(config.Log.Format)] {
		v.addError("log.format", fmt.Sprintf("invalid format: %s", config.Log.Format))
	}
}

func (v *Validator) validatePlanner(config *ServiceConfig) {
	if config.Planner.MaxGoals < 0 {
		v.addError("planner.max_goals", "max_goals must be non-negative")
	}
	if strings.TrimSpace(config.Planner.DefaultDomain) != config.Planner.DefaultDomain {
		v.addError("planner.default_domain", "default_domain must not have surrounding spaces")
	}
}

func (v *Validator) validateDomains(config *ServiceConfig) {
	if config.Domains.Watch && config.Domains.Dir == "" {
		v.addError("domains.watch", "watch requires domains.dir")
	}
	if config.Domains.DisableBuiltins && config.Domains.Dir == "" {
		v.addError("domains.disable_builtins", "disabling builtins requires domains.dir")
	}
}

func (v *Validator) validateServer(config *ServiceConfig) {
	if config.Server.MaxConcurrent < 0 {
		v.addError("server.max_concurrent", "max_concurrent must be non-negative")
	}
	if config.Server.Timeout < 0 {
		v.addError("server.timeout", "timeout must be non-negative")
	}
}
