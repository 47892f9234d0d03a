package catalog

import (
	"fmt"
	"reflect"

	"github.com/roach88/quirks/internal/harness"
)

// resolvedIn is shadowed by the lexical-scope scenario.
var resolvedIn = "package"

// AmbiguousSelectorError reports a selector that names fields at the same
// embedding depth. The compiler rejects such selectors; reflection reports
// them as not found.
type AmbiguousSelectorError struct {
	Type     string
	Selector string
}

func (e *AmbiguousSelectorError) Error() string {
	return fmt.Sprintf("ambiguous selector %s.%s", e.Type, e.Selector)
}

// account and adminAccount show that promoted methods are not virtual: the
// embedded receiver resolves its own calls.
type account struct{}

func (account) auth() string { return "account.auth" }

func (a account) authentication() string { return a.auth() }

type adminAccount struct{ account }

func (adminAccount) auth() string { return "adminAccount.auth" }

type leftAuth struct{ Auth string }

type rightAuth struct{ Auth string }

type bothAuth struct {
	leftAuth
	rightAuth
}

func levelChecker() func() string {
	level := "definition"
	return func() string { return level }
}

func constantsScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "constants/lexical-scope",
			Description: "identifiers resolve to the innermost enclosing declaration",
			Body: func(env *harness.Env) error {
				env.Println(resolvedIn)
				resolvedIn := "function"
				env.Println(resolvedIn)
				{
					resolvedIn := "block"
					env.Println(resolvedIn)
				}
				env.Println(resolvedIn)
				return nil
			},
			Expected: harness.Lines("package", "function", "block", "function"),
		},
		{
			Name:        "constants/closure",
			Description: "a closure sees the scope where it was written, not where it is called",
			Body: func(env *harness.Env) error {
				level := "call site"
				check := levelChecker()
				env.Printf("caller: %s", level)
				env.Printf("closure: %s", check())
				return nil
			},
			Expected: harness.Lines("caller: call site", "closure: definition"),
		},
		{
			Name:        "constants/embedding",
			Description: "promoted methods resolve calls against the embedded type",
			Body: func(env *harness.Env) error {
				admin := adminAccount{}
				env.Printf("admin.auth() = %s", admin.auth())
				env.Printf("admin.authentication() = %s", admin.authentication())
				env.Printf("admin.account.auth() = %s", admin.account.auth())
				return nil
			},
			Expected: harness.Lines(
				"admin.auth() = adminAccount.auth",
				"admin.authentication() = account.auth",
				"admin.account.auth() = account.auth",
			),
		},
		{
			Name:        "constants/ambiguous",
			Description: "two fields at the same depth make the short selector ambiguous",
			Body: func(env *harness.Env) error {
				b := bothAuth{leftAuth{Auth: "L"}, rightAuth{Auth: "R"}}
				env.Printf("leftAuth.Auth = %s", b.leftAuth.Auth)
				env.Printf("rightAuth.Auth = %s", b.rightAuth.Auth)

				t := reflect.TypeOf(b)
				if _, ok := t.FieldByName("Auth"); !ok {
					return &AmbiguousSelectorError{Type: t.Name(), Selector: "Auth"}
				}
				env.Println("unreachable")
				return nil
			},
			Expected: []harness.Expectation{
				harness.Line("leftAuth.Auth = L"),
				harness.Line("rightAuth.Auth = R"),
				harness.Error("AmbiguousSelectorError", "ambiguous selector bothAuth.Auth"),
			},
		},
	}
}
