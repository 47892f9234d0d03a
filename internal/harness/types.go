package harness

// Scenario is one self-contained demonstration with its expected
// observable behavior. Scenarios are values; once registered they are
// never modified.
type Scenario struct {
	// Name uniquely identifies the scenario within a registry.
	// Names use "group/case" form, e.g. "paging/default".
	Name string

	// Description is a one-line summary shown by "quirks list".
	Description string

	// Body runs the demonstration against a fresh Env.
	// A returned error or a panic becomes a single error observation.
	Body func(*Env) error

	// Expected is compared position by position with the observations.
	Expected []Expectation
}

// RunIDGenerator produces identifiers for harness runs.
type RunIDGenerator interface {
	Generate() string
}
