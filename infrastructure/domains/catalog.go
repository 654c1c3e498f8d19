package domains

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
)

// Catalog implements planning.Catalog over the built-in tables and an
// optional directory of domain files. Libraries in the directory replace
// built-ins of the same name.
type Catalog struct {
	mu        sync.RWMutex
	libraries map[string]*planning.Library
	aliases   map[string]string

	dir      string
	builtins bool
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithDirectory adds a directory of domain files.
func WithDirectory(dir string) CatalogOption {
	return func(c *Catalog) {
		c.dir = dir
	}
}

// WithoutBuiltins leaves the embedded robot and blocks-world tables out.
func WithoutBuiltins() CatalogOption {
	return func(c *Catalog) {
		c.builtins = false
	}
}

// NewCatalog loads all configured domains.
func NewCatalog(opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{builtins: true}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the watched domain directory, if any.
func (c *Catalog) Dir() string {
	return c.dir
}

// Reload re-reads every source and swaps the library set atomically.
// On error the previous set stays in place.
func (c *Catalog) Reload() error {
	var libs []*planning.Library
	if c.builtins {
		b, err := Builtins()
		if err != nil {
			return err
		}
		libs = append(libs, b...)
	}
	if c.dir != "" {
		d, err := LoadDir(c.dir)
		if err != nil {
			return err
		}
		libs = append(libs, d...)
	}

	libraries, aliases, err := index(libs)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.libraries = libraries
	c.aliases = aliases
	c.mu.Unlock()

	logging.Info().
		Add(logging.Component("catalog")).
		Add(logging.Str("domains", strings.Join(sortedKeys(libraries), ","))).
		Msg("domains loaded")
	return nil
}

// Register adds or replaces a library.
func (c *Catalog) Register(lib *planning.Library) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]*planning.Library, 0, len(c.libraries)+1)
	for _, name := range sortedKeys(c.libraries) {
		if name != normalize(lib.Name()) {
			all = append(all, c.libraries[name])
		}
	}
	all = append(all, lib)

	libraries, aliases, err := index(all)
	if err != nil {
		return err
	}
	c.libraries = libraries
	c.aliases = aliases
	return nil
}

// Library returns the library registered under a name or alias.
func (c *Catalog) Library(name string) (*planning.Library, error) {
	key := normalize(name)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if canonical, ok := c.aliases[key]; ok {
		key = canonical
	}
	if lib, ok := c.libraries[key]; ok {
		return lib, nil
	}
	return nil, fmt.Errorf("%w: unknown domain %q; available domains: [%s]",
		planning.ErrLookup, name, strings.Join(sortedKeys(c.libraries), ", "))
}

// Names returns the canonical names of all registered domains, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.libraries)
}

// Libraries returns all registered libraries sorted by name.
func (c *Catalog) Libraries() []*planning.Library {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*planning.Library, 0, len(c.libraries))
	for _, name := range sortedKeys(c.libraries) {
		out = append(out, c.libraries[name])
	}
	return out
}

// index builds the name and alias maps. Later libraries replace earlier ones
// of the same name.
func index(libs []*planning.Library) (map[string]*planning.Library, map[string]string, error) {
	libraries := make(map[string]*planning.Library, len(libs))
	for _, lib := range libs {
		libraries[normalize(lib.Name())] = lib
	}

	var problems []string
	aliases := make(map[string]string)
	for name, lib := range libraries {
		for _, a := range lib.Aliases() {
			a = normalize(a)
			if _, clash := libraries[a]; clash {
				problems = append(problems, fmt.Sprintf("alias %q of %s shadows a domain name", a, name))
				continue
			}
			if other, clash := aliases[a]; clash && other != name {
				problems = append(problems, fmt.Sprintf("alias %q claimed by %s and %s", a, other, name))
				continue
			}
			aliases[a] = name
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, nil, &planning.DomainLoadError{Domain: "catalog", Problems: problems}
	}
	return libraries, aliases, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sortedKeys(m map[string]*planning.Library) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ planning.Catalog = (*Catalog)(nil)
