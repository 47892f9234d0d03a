package catalog

import (
	"net/url"
	"strconv"

	"github.com/roach88/quirks/internal/harness"
)

const defaultPage = 1

// pageIgnoringError drops the parse error and keeps Atoi's zero value.
func pageIgnoringError(params url.Values) int {
	n, _ := strconv.Atoi(params.Get("page"))
	return n
}

// pageOrDefault falls back to the default page when parsing fails.
func pageOrDefault(params url.Values) int {
	n, err := strconv.Atoi(params.Get("page"))
	if err != nil {
		return defaultPage
	}
	return n
}

// pageAtLeastDefault clamps anything below the default, including the
// zero value of a failed parse.
func pageAtLeastDefault(params url.Values) int {
	n, _ := strconv.Atoi(params.Get("page"))
	return max(n, defaultPage)
}

func mustQuery(raw string) url.Values {
	v, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func pagingScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "paging/ignored-error",
			Description: "ignoring the Atoi error turns a bad page into page 0",
			Body: func(env *harness.Env) error {
				env.Println(pageIgnoringError(mustQuery("page=a12")))
				return nil
			},
			Expected: harness.Lines("0"),
		},
		{
			Name:        "paging/default",
			Description: "a failed parse falls back to the default page",
			Body: func(env *harness.Env) error {
				for _, q := range []string{"page=a12", "page=7", ""} {
					env.Println(pageOrDefault(mustQuery(q)))
				}
				return nil
			},
			Expected: harness.Lines("1", "7", "1"),
		},
		{
			Name:        "paging/clamped",
			Description: "max(n, default) also rejects zero and negative pages",
			Body: func(env *harness.Env) error {
				for _, q := range []string{"page=a12", "page=-3", "page=5"} {
					env.Println(pageAtLeastDefault(mustQuery(q)))
				}
				return nil
			},
			Expected: harness.Lines("1", "1", "5"),
		},
		{
			Name:        "paging/invalid",
			Description: "returning the parse error surfaces the bad input",
			Body: func(env *harness.Env) error {
				params := mustQuery("page=a12")
				env.Printf("parsing page %q", params.Get("page"))
				page, err := strconv.Atoi(params.Get("page"))
				if err != nil {
					return err
				}
				env.Println(page)
				return nil
			},
			Expected: []harness.Expectation{
				harness.Line(`parsing page "a12"`),
				harness.Error("NumError", `strconv.Atoi: parsing "a12": invalid syntax`),
			},
		},
	}
}
