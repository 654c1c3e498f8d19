package domains

import (
	"embed"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

//go:embed robot.yaml blocksworld.yaml
var builtinFS embed.FS

// Built-in domain names.
const (
	Robot       = "robot"
	BlocksWorld = "blocksworld"
)

// Builtins loads the embedded operator tables.
// A failure here means a broken build and is returned as a domain load error.
func Builtins() ([]*planning.Library, error) {
	entries, err := builtinFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", planning.ErrDomainLoad, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	libs := make([]*planning.Library, 0, len(names))
	for _, name := range names {
		f, err := builtinFS.Open(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", planning.ErrDomainLoad, err)
		}
		lib, err := LoadDefinition(f, FormatYAML)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", name, err)
		}
		libs = append(libs, lib)
	}
	return libs, nil
}

// MustBuiltin returns one embedded library by name and panics if it is missing.
// Intended for tests and examples.
func MustBuiltin(name string) *planning.Library {
	libs, err := Builtins()
	if err != nil {
		panic(err)
	}
	for _, lib := range libs {
		if lib.Name() == name {
			return lib
		}
	}
	panic(fmt.Sprintf("no builtin domain %q", name))
}
