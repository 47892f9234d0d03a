package catalog

import "github.com/roach88/quirks/internal/harness"

// Go has no keyword arguments or blocks. A variadic ...any list forwarded
// with args... carries all three: Options plays the keyword hash and Block
// the trailing block. Each callee picks out what it needs.

// Options stands in for keyword arguments.
type Options map[string]any

// Block stands in for a trailing block; it receives the caller's name.
type Block func(caller string)

// Admin is the object being reported on.
type Admin struct {
	Name string
}

func (a Admin) String() string { return "Admin(" + a.Name + ")" }

// splitArgs separates forwarded arguments into positional values, options
// and block.
func splitArgs(args []any) (positional []any, opts Options, block Block) {
	positional = []any{}
	for _, a := range args {
		switch v := a.(type) {
		case Options:
			opts = v
		case Block:
			block = v
		default:
			positional = append(positional, v)
		}
	}
	return positional, opts, block
}

// reportLog names its first parameter and forwards everything to three
// helpers, each of which uses a different slice of the arguments.
func reportLog(env *harness.Env, message string, args ...any) {
	env.Println(message)
	reportBefore(args...)
	consoleLogging(env, message, args...)
	errorReporting(env, message, args...)
}

// reportBefore only needs the block.
func reportBefore(args ...any) {
	if _, _, block := splitArgs(args); block != nil {
		block("reporting.before")
	}
}

// consoleLogging uses every argument. Go cannot spread a slice into a
// fixed parameter followed by a variadic one, so the object is split off
// here instead of in the signature.
func consoleLogging(env *harness.Env, message string, args ...any) {
	var object any
	if len(args) > 0 {
		object, args = args[0], args[1:]
	}
	positional, opts, block := splitArgs(args)
	env.Printf("Message <%s>: %v with args: %v and kwargs: %v with block: %t",
		message, object, positional, opts, block != nil)
}

// errorReporting forwards everything untouched.
func errorReporting(env *harness.Env, message string, args ...any) {
	provider{}.report(env, message, args...)
}

type provider struct{}

func (provider) report(env *harness.Env, _ string, _ ...any) {
	env.Println("Provider work")
}

type validator struct{ object any }

func (v validator) call(args ...any) validator {
	if _, _, block := splitArgs(args); block != nil {
		block("validator.call")
	}
	return v
}

type converter struct{ object any }

func (c converter) call(args ...any) converter {
	if _, _, block := splitArgs(args); block != nil {
		block("converter.call")
	}
	return c
}

type repo struct{ object any }

func (r repo) update(args ...any) {
	if _, _, block := splitArgs(args); block != nil {
		block("repo.update")
	}
}

// createService forwards the same arguments through every step.
func createService(env *harness.Env, object any, args ...any) {
	withObject := append([]any{object}, args...)
	reportLog(env, "starting service", withObject...)

	validator{object}.call(args...)
	converter{object}.call(args...)
	repo{object}.update(args...)

	reportLog(env, "finished service", withObject...)
}

func forwardingScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "forwarding/log",
			Description: "variadic arguments forwarded to helpers that each take what they need",
			Body: func(env *harness.Env) error {
				reportLog(env, "Test message", Admin{Name: "Alex"}, 3,
					Options{"app": true},
					Block(func(string) { env.Println("Executing this around logging") }))
				return nil
			},
			Expected: harness.Lines(
				"Test message",
				"Executing this around logging",
				"Message <Test message>: Admin(Alex) with args: [3] and kwargs: map[app:true] with block: true",
				"Provider work",
			),
		},
		{
			Name:        "forwarding/service",
			Description: "positional arguments forwarded through a service, no block",
			Body: func(env *harness.Env) error {
				createService(env, Admin{Name: "Siri"}, 2)
				return nil
			},
			Expected: harness.Lines(
				"starting service",
				"Message <starting service>: Admin(Siri) with args: [2] and kwargs: map[] with block: false",
				"Provider work",
				"finished service",
				"Message <finished service>: Admin(Siri) with args: [2] and kwargs: map[] with block: false",
				"Provider work",
			),
		},
		{
			Name:        "forwarding/service-block",
			Description: "options and block forwarded through every service step",
			Body: func(env *harness.Env) error {
				createService(env, Admin{Name: "Siri"}, 2,
					Options{"app": true},
					Block(func(caller string) { env.Printf("executed from %s", caller) }))
				return nil
			},
			Expected: harness.Lines(
				"starting service",
				"executed from reporting.before",
				"Message <starting service>: Admin(Siri) with args: [2] and kwargs: map[app:true] with block: true",
				"Provider work",
				"executed from validator.call",
				"executed from converter.call",
				"executed from repo.update",
				"finished service",
				"executed from reporting.before",
				"Message <finished service>: Admin(Siri) with args: [2] and kwargs: map[app:true] with block: true",
				"Provider work",
			),
		},
	}
}
