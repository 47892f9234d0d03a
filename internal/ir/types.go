package ir

import "fmt"

// Kind classifies an observation.
type Kind string

const (
	// KindOutput is a line written by the scenario body.
	KindOutput Kind = "output"
	// KindError is the normalized description of a body failure.
	KindError Kind = "error"
	// KindIdentity is an identity fact (a run-dependent handle token).
	KindIdentity Kind = "identity"
)

// ValidKinds defines the allowed observation kinds.
var ValidKinds = map[Kind]bool{
	KindOutput:   true,
	KindError:    true,
	KindIdentity: true,
}

// Observation is a single recorded effect of a scenario run.
// Observations are produced only by the runner and ordered by Seq.
type Observation struct {
	Seq   int64  `json:"seq"`             // Logical clock, starts at 1 per run
	Kind  Kind   `json:"kind"`            // output, error or identity
	Value string `json:"value"`           // Line text, "<Kind>: <message>", or handle token
	Label string `json:"label,omitempty"` // Name of an identity fact
}

// String renders the observation the way mismatch reports show it.
func (o Observation) String() string {
	switch o.Kind {
	case KindError:
		return "error(" + o.Value + ")"
	case KindIdentity:
		return fmt.Sprintf("identity(%s=%s)", o.Label, o.Value)
	default:
		return o.Value
	}
}

// Placeholders used in mismatches when one side has no value.
const (
	MissingValue = "<missing>" // expected a line, the run stopped short
	NoneValue    = "<none>"    // the run produced a surplus observation
)

// Mismatch records one differing position between expected and actual.
type Mismatch struct {
	Index    int    `json:"index"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// String formats the mismatch as a report line body.
func (m Mismatch) String() string {
	return fmt.Sprintf("at %d: expected %s, got %s", m.Index, m.Expected, m.Actual)
}
