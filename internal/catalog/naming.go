package catalog

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/roach88/quirks/internal/harness"
)

type user struct{}

type visitor struct{}

// guest overrides how it prints, not what its type is called.
type guest struct{}

func (guest) String() string { return "Another name" }

type namedAdmin struct{}

func (namedAdmin) call() string {
	pc, _, _, _ := runtime.Caller(0)
	return shortFuncName(runtime.FuncForPC(pc).Name())
}

// shortFuncName drops the import path: "a/b/catalog.f" becomes "catalog.f".
func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func funcName(fn any) string {
	return shortFuncName(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
}

func namingScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "naming/type",
			Description: "type names through reflect and %T",
			Body: func(env *harness.Env) error {
				t := reflect.TypeOf(user{})
				env.Printf("name=%q string=%q", t.Name(), t.String())
				pt := reflect.TypeOf(&visitor{})
				env.Printf("name=%q string=%q", pt.Name(), pt.String())
				env.Printf("elem name=%q", pt.Elem().Name())
				env.Printf("%%T=%T", user{})
				return nil
			},
			Expected: harness.Lines(
				`name="user" string="catalog.user"`,
				`name="" string="*catalog.visitor"`,
				`elem name="visitor"`,
				"%T=catalog.user",
			),
		},
		{
			Name:        "naming/package",
			Description: "the import path a type was declared in",
			Body: func(env *harness.Env) error {
				path := reflect.TypeOf(user{}).PkgPath()
				env.Printf("suffix=%s", path[strings.LastIndex(path, "/")+1:])
				env.Printf("builtin pkg=%q", reflect.TypeOf(0).PkgPath())
				return nil
			},
			Expected: []harness.Expectation{
				harness.Line("suffix=catalog"),
				harness.Line(`builtin pkg=""`),
			},
		},
		{
			Name:        "naming/function",
			Description: "the running function's name from runtime.Caller",
			Body: func(env *harness.Env) error {
				env.Println(namedAdmin{}.call())
				env.Println(funcName(shortFuncName))
				env.Println(funcName(namedAdmin{}.call))
				return nil
			},
			Expected: harness.Lines(
				"catalog.namedAdmin.call",
				"catalog.shortFuncName",
				"catalog.namedAdmin.call-fm",
			),
		},
		{
			Name:        "naming/stringer",
			Description: "String changes %v but not %T",
			Body: func(env *harness.Env) error {
				g := guest{}
				env.Println(g)
				env.Printf("%T", g)
				return nil
			},
			Expected: harness.Lines("Another name", "catalog.guest"),
		},
	}
}
