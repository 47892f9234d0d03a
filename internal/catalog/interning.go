package catalog

import (
	"strings"
	"unique"

	"github.com/roach88/quirks/internal/harness"
)

const normalString = "Normal string"

func interningScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "interning/fresh",
			Description: "converting bytes to a string allocates a new string every time",
			Body: func(env *harness.Env) error {
				b := []byte(normalString)
				s1 := string(b)
				s2 := string(b)
				env.Identify("s1", s1)
				env.Identify("s2", s2)
				env.Printf("equal: %t", s1 == s2)
				return nil
			},
			Expected: []harness.Expectation{
				harness.Fresh("s1"),
				harness.Fresh("s2"),
				harness.Line("equal: true"),
			},
		},
		{
			Name:        "interning/unique",
			Description: "unique.Make returns one canonical copy; strings.Clone gives a private one",
			Body: func(env *harness.Env) error {
				h1 := unique.Make(string([]byte(normalString)))
				h2 := unique.Make(string([]byte(normalString)))
				clone := strings.Clone(h1.Value())

				env.Identify("h1", h1.Value())
				env.Identify("h2", h2.Value())
				env.Identify("clone", clone)
				env.Printf("handles equal: %t", h1 == h2)
				env.Printf("clone equal: %t", clone == h1.Value())
				return nil
			},
			Expected: []harness.Expectation{
				harness.Fresh("interned"),
				harness.SameAs("interned"),
				harness.Fresh("clone"),
				harness.Line("handles equal: true"),
				harness.Line("clone equal: true"),
			},
		},
		{
			Name:        "interning/substring",
			Description: "slicing a string shares its backing bytes",
			Body: func(env *harness.Env) error {
				s := strings.Repeat("ab", 4)
				prefix := s[:2]
				env.Identify("s", s)
				env.Identify("prefix", prefix)
				env.Printf("prefix: %s", prefix)
				return nil
			},
			Expected: []harness.Expectation{
				harness.Fresh("s"),
				harness.SameAs("s"),
				harness.Line("prefix: ab"),
			},
		},
	}
}
