// Package catalog holds the demonstration scenarios run by quirks.
//
// Each file covers one group of language behavior: argument forwarding,
// identifier resolution, string identity, page parsing, method dispatch,
// naming, and enum migrations in a sandbox database. Scenarios are plain
// values; Register adds them to a harness.Registry in a fixed order.
package catalog

import "github.com/roach88/quirks/internal/harness"

// groups lists the scenario groups in registration order.
var groups = []func() []harness.Scenario{
	forwardingScenarios,
	constantsScenarios,
	interningScenarios,
	pagingScenarios,
	dispatchScenarios,
	namingScenarios,
	enumsScenarios,
}

// Scenarios returns every catalog scenario in registration order.
func Scenarios() []harness.Scenario {
	var out []harness.Scenario
	for _, group := range groups {
		out = append(out, group()...)
	}
	return out
}

// Register adds every catalog scenario to reg. It stops at the first
// configuration error.
func Register(reg *harness.Registry) error {
	for _, s := range Scenarios() {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the whole catalog.
func NewRegistry() (*harness.Registry, error) {
	reg := harness.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
