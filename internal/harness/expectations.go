package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// ExpectationDoc overrides the expected lines of registered scenarios.
//
// Expectation files are YAML or CUE with the following structure:
//
//	scenarios:
//	  - name: paging/default
//	    expect:
//	      - line: "page 1"
//	      - error: { kind: NumError, message: "..." }
//	      - match: "^page \\d+$"
//	      - fresh: a
//	      - same_as: a
type ExpectationDoc struct {
	Scenarios []ScenarioExpectations `yaml:"scenarios" json:"scenarios"`
}

// ScenarioExpectations lists the expected lines for one scenario.
type ScenarioExpectations struct {
	// Name is the registered scenario name.
	Name string `yaml:"name" json:"name"`

	// Expect replaces the scenario's expected lines in order.
	// An empty list expects the scenario to produce no observations.
	Expect []ExpectSpec `yaml:"expect" json:"expect"`
}

// ExpectSpec is one expected line. Exactly one field must be set.
type ExpectSpec struct {
	Line   *string    `yaml:"line,omitempty" json:"line,omitempty"`
	Error  *ErrorSpec `yaml:"error,omitempty" json:"error,omitempty"`
	Match  *string    `yaml:"match,omitempty" json:"match,omitempty"`
	SameAs *string    `yaml:"same_as,omitempty" json:"same_as,omitempty"`
	Fresh  *string    `yaml:"fresh,omitempty" json:"fresh,omitempty"`
}

// ErrorSpec is an expected error observation.
type ErrorSpec struct {
	Kind    string `yaml:"kind" json:"kind"`
	Message string `yaml:"message" json:"message"`
}

// LoadExpectations reads an expectation file. The format follows the
// extension: .yaml and .yml are YAML, .cue is CUE.
// Unknown fields are rejected in both formats (catches typos like
// "expects:" vs "expect:").
func LoadExpectations(path string) (*ExpectationDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read expectation file: %w", err)}
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return decodeExpectations(path, data)
	case ".cue":
		jsonData, pos, err := cueToJSON(path, data)
		if err != nil {
			return nil, &LoadError{Path: path, Pos: pos, Err: err}
		}
		// JSON is YAML, so both formats share strict decoding and validation.
		return decodeExpectations(path, jsonData)
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported expectation file extension %q", ext)}
	}
}

func decodeExpectations(path string, data []byte) (*ExpectationDoc, error) {
	var doc ExpectationDoc
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to parse expectations: %w", err)}
	}

	if err := validateExpectations(&doc); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("invalid expectations: %w", err)}
	}
	return &doc, nil
}

// cueToJSON evaluates a CUE document, requires it to be concrete, and
// exports it as JSON.
func cueToJSON(path string, data []byte) ([]byte, token.Pos, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cuePos(err), fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cuePos(err), fmt.Errorf("CUE value is not concrete: %w", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, cuePos(err), fmt.Errorf("failed to export CUE: %w", err)
	}
	return out, token.NoPos, nil
}

func cuePos(err error) token.Pos {
	for _, p := range cueerrors.Positions(err) {
		if p.IsValid() {
			return p
		}
	}
	return token.NoPos
}

// validateExpectations checks that required fields are present and valid.
func validateExpectations(doc *ExpectationDoc) error {
	if len(doc.Scenarios) == 0 {
		return errors.New("scenarios list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, s := range doc.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenarios[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("scenarios[%d]: duplicate scenario %q", i, s.Name)
		}
		seen[s.Name] = true

		for j, spec := range s.Expect {
			if err := validateExpectSpec(spec); err != nil {
				return fmt.Errorf("scenarios[%d].expect[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

func validateExpectSpec(spec ExpectSpec) error {
	set := 0
	for _, present := range []bool{spec.Line != nil, spec.Error != nil, spec.Match != nil, spec.SameAs != nil, spec.Fresh != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of line, error, match, same_as, fresh is required (got %d)", set)
	}

	switch {
	case spec.Error != nil && spec.Error.Kind == "":
		return errors.New("error.kind is required")
	case spec.Match != nil:
		if _, err := regexp.Compile(*spec.Match); err != nil {
			return fmt.Errorf("match: %w", err)
		}
	case spec.SameAs != nil && *spec.SameAs == "":
		return errors.New("same_as label is required")
	case spec.Fresh != nil && *spec.Fresh == "":
		return errors.New("fresh label is required")
	}
	return nil
}

// Expectation converts a validated spec.
func (spec ExpectSpec) Expectation() Expectation {
	switch {
	case spec.Line != nil:
		return Line(*spec.Line)
	case spec.Error != nil:
		return Error(spec.Error.Kind, spec.Error.Message)
	case spec.Match != nil:
		return Match(*spec.Match)
	case spec.SameAs != nil:
		return SameAs(*spec.SameAs)
	default:
		return Fresh(*spec.Fresh)
	}
}

// Apply returns copies of scenarios with expected lines replaced by the
// document's. Scenarios the document does not name keep their own. A name
// that matches no scenario is a *ConfigurationError.
func (doc *ExpectationDoc) Apply(scenarios []Scenario) ([]Scenario, error) {
	byName := make(map[string]int, len(scenarios))
	for i, s := range scenarios {
		byName[s.Name] = i
	}

	out := append([]Scenario(nil), scenarios...)
	for _, se := range doc.Scenarios {
		i, ok := byName[se.Name]
		if !ok {
			return nil, &ConfigurationError{Scenario: se.Name, Reason: "expectations name an unknown scenario"}
		}
		expected := make([]Expectation, len(se.Expect))
		for j, spec := range se.Expect {
			expected[j] = spec.Expectation()
		}
		out[i].Expected = expected
	}
	return out, nil
}
