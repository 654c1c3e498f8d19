// Package domains loads operator tables and serves them through a catalog.
package domains

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// Format represents a domain file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
	// FormatTOML is the TOML format.
	FormatTOML Format = "toml"
)

// FormatFromPath determines the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// DecodeDefinition parses a domain definition without validating it.
func DecodeDefinition(r io.Reader, format Format) (planning.DomainDefinition, error) {
	var def planning.DomainDefinition

	data, err := io.ReadAll(r)
	if err != nil {
		return def, fmt.Errorf("%w: failed to read domain: %v", planning.ErrDomainLoad, err)
	}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return def, fmt.Errorf("%w: invalid yaml: %v", planning.ErrDomainLoad, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return def, fmt.Errorf("%w: invalid json: %v", planning.ErrDomainLoad, err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &def)
		if err != nil {
			return def, fmt.Errorf("%w: invalid toml: %v", planning.ErrDomainLoad, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return def, fmt.Errorf("%w: unknown toml keys: %v", planning.ErrDomainLoad, undecoded)
		}
	default:
		return def, fmt.Errorf("%w: unsupported format %q", planning.ErrDomainLoad, format)
	}
	return def, nil
}

// LoadDefinition parses and validates a domain definition.
func LoadDefinition(r io.Reader, format Format) (*planning.Library, error) {
	def, err := DecodeDefinition(r, format)
	if err != nil {
		return nil, err
	}
	return planning.NewLibrary(def)
}

// LoadFile loads a domain from a file, choosing the format by extension.
func LoadFile(path string) (*planning.Library, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unsupported file extension", planning.ErrDomainLoad, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", planning.ErrDomainLoad, err)
	}
	defer f.Close()

	lib, err := LoadDefinition(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// LoadDir loads every domain file directly inside dir, in name order.
// Files with other extensions are ignored.
func LoadDir(dir string) ([]*planning.Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", planning.ErrDomainLoad, err)
	}

	var libs []*planning.Library
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatFromPath(e.Name()); !ok {
			continue
		}
		lib, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		libs = append(libs, lib)
	}
	return libs, nil
}
