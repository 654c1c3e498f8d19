package planning

import (
	"fmt"
	"strings"
)

// OperatorDefinition is one row of a domain's operator table.
type OperatorDefinition struct {
	Name           string   `json:"name" yaml:"name" toml:"name"`
	Parameters     []string `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters"`
	Preconditions  []string `json:"preconditions" yaml:"preconditions" toml:"preconditions"`
	Postconditions []string `json:"postconditions" yaml:"postconditions" toml:"postconditions"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
}

// DomainDefinition is the static, versioned operator table of one domain.
type DomainDefinition struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Version     string   `json:"version" yaml:"version" toml:"version"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases"`
	// Predicates maps each predicate of the domain vocabulary to its arity.
	// When present, operator conditions and start states are checked against it.
	Predicates map[string]int       `json:"predicates,omitempty" yaml:"predicates,omitempty" toml:"predicates"`
	Operators  []OperatorDefinition `json:"operators" yaml:"operators" toml:"operators"`
}

// Library is the read-only operator collection of one domain.
// A Library is safe for concurrent use.
type Library struct {
	name        string
	version     string
	description string
	aliases     []string
	predicates  map[string]int
	templates   []*Template
	byName      map[string]*Template
}

// NewLibrary validates a domain definition and builds its library.
// All problems are reported together in a *DomainLoadError.
func NewLibrary(def DomainDefinition) (*Library, error) {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(def.Name) == "" {
		addf("name is required")
	}
	if len(def.Operators) == 0 {
		addf("at least one operator is required")
	}
	for p, arity := range def.Predicates {
		if arity < 0 {
			addf("predicate %s: negative arity %d", p, arity)
		}
	}

	lib := &Library{
		name:        def.Name,
		version:     def.Version,
		description: def.Description,
		aliases:     append([]string(nil), def.Aliases...),
		predicates:  make(map[string]int, len(def.Predicates)),
		byName:      make(map[string]*Template, len(def.Operators)),
	}
	for p, arity := range def.Predicates {
		lib.predicates[p] = arity
	}

	for i, od := range def.Operators {
		label := od.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		t, errs := lib.buildTemplate(od)
		for _, e := range errs {
			addf("operator %s: %s", label, e)
		}
		if t == nil {
			continue
		}
		if _, dup := lib.byName[t.Name]; dup {
			addf("operator %s: duplicate name", t.Name)
			continue
		}
		lib.templates = append(lib.templates, t)
		lib.byName[t.Name] = t
	}

	if len(problems) > 0 {
		return nil, &DomainLoadError{Domain: def.Name, Problems: problems}
	}
	return lib, nil
}

// MustNewLibrary is like NewLibrary but panics on invalid definitions.
func MustNewLibrary(def DomainDefinition) *Library {
	lib, err := NewLibrary(def)
	if err != nil {
		panic(err)
	}
	return lib
}

func (l *Library) buildTemplate(od OperatorDefinition) (*Template, []string) {
	var errs []string
	name := strings.TrimSpace(od.Name)
	if name == "" {
		errs = append(errs, "name is required")
	}

	params := make([]string, 0, len(od.Parameters))
	seen := make(map[string]bool, len(od.Parameters))
	for _, p := range od.Parameters {
		p = strings.TrimPrefix(strings.TrimSpace(p), variablePrefix)
		if p == "" || !argumentPattern.MatchString(p) {
			errs = append(errs, fmt.Sprintf("invalid parameter name %q", p))
			continue
		}
		if seen[p] {
			errs = append(errs, fmt.Sprintf("duplicate parameter %q", p))
			continue
		}
		seen[p] = true
		params = append(params, p)
	}

	parse := func(kind string, texts []string) []Condition {
		out := make([]Condition, 0, len(texts))
		for _, text := range texts {
			c, err := ParseCondition(text)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", kind, err))
				continue
			}
			for _, v := range c.Variables() {
				if !seen[v] {
					errs = append(errs, fmt.Sprintf("%s %s references undeclared parameter %q", kind, c, v))
				}
			}
			if len(l.predicates) > 0 {
				arity, known := l.predicates[c.Predicate]
				switch {
				case !known:
					errs = append(errs, fmt.Sprintf("%s %s uses undeclared predicate %q", kind, c, c.Predicate))
				case arity != c.Arity():
					errs = append(errs, fmt.Sprintf("%s %s: predicate %s takes %d arguments", kind, c, c.Predicate, arity))
				}
			}
			out = append(out, c)
		}
		return out
	}

	pre := parse("precondition", od.Preconditions)
	post := parse("postcondition", od.Postconditions)
	if len(od.Postconditions) == 0 {
		errs = append(errs, "at least one postcondition is required")
	}
	for _, c := range post {
		if !c.Negated && containsCondition(post, c.Negate()) {
			errs = append(errs, fmt.Sprintf("postcondition %s is both added and deleted", c))
		}
	}

	if len(errs) > 0 || name == "" {
		return nil, errs
	}
	return &Template{
		Name:           name,
		Params:         params,
		Preconditions:  pre,
		Postconditions: post,
	}, nil
}

// Name returns the domain name.
func (l *Library) Name() string { return l.name }

// Version returns the operator table version.
func (l *Library) Version() string { return l.version }

// Description returns the domain description.
func (l *Library) Description() string { return l.description }

// Aliases returns alternative domain names.
func (l *Library) Aliases() []string { return append([]string(nil), l.aliases...) }

// Templates returns the operator templates in declaration order.
func (l *Library) Templates() []*Template {
	return append([]*Template(nil), l.templates...)
}

// Names returns operator names in declaration order.
func (l *Library) Names() []string {
	names := make([]string, len(l.templates))
	for i, t := range l.templates {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the template with the given name.
func (l *Library) Lookup(name string) (*Template, bool) {
	t, ok := l.byName[name]
	return t, ok
}

// Ground looks up a template and instantiates it with the bindings.
func (l *Library) Ground(name string, b Bindings) (*Operator, error) {
	t, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: operator %q is not valid for %s; valid operators: [%s]",
			ErrLookup, name, l.name, strings.Join(l.Names(), ", "))
	}
	return t.Ground(b)
}

// Without returns a library sharing this one's templates minus the named operators.
func (l *Library) Without(names ...string) *Library {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &Library{
		name:        l.name,
		version:     l.version,
		description: l.description,
		aliases:     l.aliases,
		predicates:  l.predicates,
		byName:      make(map[string]*Template, len(l.templates)),
	}
	for _, t := range l.templates {
		if drop[t.Name] {
			continue
		}
		out.templates = append(out.templates, t)
		out.byName[t.Name] = t
	}
	return out
}

// Constants returns the concrete arguments named inside operator conditions,
// such as Table or Robot, in declaration order.
func (l *Library) Constants() []string {
	var cs []Condition
	for _, t := range l.templates {
		cs = append(cs, t.Preconditions...)
		cs = append(cs, t.Postconditions...)
	}
	return Objects(cs)
}

// Objects returns the arguments of cs that are not library constants, in
// first-appearance order. Parameters are grounded over this set.
func (l *Library) Objects(cs []Condition) []string {
	constants := make(map[string]bool)
	for _, c := range l.Constants() {
		constants[c] = true
	}
	var out []string
	for _, o := range Objects(cs) {
		if !constants[o] {
			out = append(out, o)
		}
	}
	return out
}

// Predicates returns a copy of the declared vocabulary (predicate to arity).
func (l *Library) Predicates() map[string]int {
	out := make(map[string]int, len(l.predicates))
	for k, v := range l.predicates {
		out[k] = v
	}
	return out
}

// ValidateState checks start conditions against the declared vocabulary.
// Domains without a vocabulary accept any ground condition.
func (l *Library) ValidateState(cs []Condition) error {
	if len(l.predicates) == 0 {
		return nil
	}
	for _, c := range cs {
		arity, known := l.predicates[c.Predicate]
		if !known {
			return fmt.Errorf("%w: Unknown condition '%s'", ErrInvalidState, c)
		}
		if arity != c.Arity() {
			return fmt.Errorf("%w: condition '%s' must have %d arguments", ErrInvalidState, c, arity)
		}
	}
	return nil
}

// Catalog resolves domain names to operator libraries.
// This is a repository interface - implementations are in infrastructure.
type Catalog interface {
	// Library returns the library registered under a name or alias.
	Library(name string) (*Library, error)

	// Names returns the canonical names of all registered domains.
	Names() []string
}
