package harness

import (
	"path"
	"strings"
)

// Registry holds scenarios in registration order and doubles as the
// dispatch table from scenario name to scenario.
type Registry struct {
	scenarios []Scenario
	index     map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a scenario. It returns a *ConfigurationError if the name
// is empty or already taken, or the body is nil.
func (r *Registry) Register(s Scenario) error {
	if s.Name == "" {
		return &ConfigurationError{Reason: "scenario name is required"}
	}
	if _, dup := r.index[s.Name]; dup {
		return &ConfigurationError{Scenario: s.Name, Reason: "duplicate scenario name"}
	}
	if s.Body == nil {
		return &ConfigurationError{Scenario: s.Name, Reason: "body is nil"}
	}
	if s.Expected != nil {
		s.Expected = append([]Expectation(nil), s.Expected...)
	}
	r.index[s.Name] = len(r.scenarios)
	r.scenarios = append(r.scenarios, s)
	return nil
}

// MustRegister registers each scenario and panics on the first error.
func (r *Registry) MustRegister(scenarios ...Scenario) {
	for _, s := range scenarios {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Len returns the number of registered scenarios.
func (r *Registry) Len() int { return len(r.scenarios) }

// Scenarios returns the registered scenarios in registration order.
func (r *Registry) Scenarios() []Scenario {
	return append([]Scenario(nil), r.scenarios...)
}

// Lookup returns the scenario registered under name.
func (r *Registry) Lookup(name string) (Scenario, bool) {
	i, ok := r.index[name]
	if !ok {
		return Scenario{}, false
	}
	return r.scenarios[i], true
}

// Filter returns the registered scenarios whose names match pattern.
func (r *Registry) Filter(pattern string) ([]Scenario, error) {
	return Filter(r.scenarios, pattern)
}

// Filter keeps the scenarios whose names match the glob pattern (path.Match
// syntax, so "*" stops at "/"), preserving order. A pattern also matches a
// whole group: "paging" selects "paging/default". An empty pattern keeps
// everything.
func Filter(scenarios []Scenario, pattern string) ([]Scenario, error) {
	if pattern == "" {
		return append([]Scenario(nil), scenarios...), nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &ConfigurationError{Reason: "invalid filter pattern " + pattern + ": " + err.Error()}
	}

	var out []Scenario
	for _, s := range scenarios {
		if matchName(pattern, s.Name) {
			out = append(out, s)
		}
	}
	return out, nil
}

func matchName(pattern, name string) bool {
	if ok, _ := path.Match(pattern, name); ok {
		return true
	}
	group, _, found := strings.Cut(name, "/")
	if !found {
		return false
	}
	ok, _ := path.Match(pattern, group)
	return ok
}
