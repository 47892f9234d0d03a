package catalog

import (
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/quirks/internal/harness"
)

type sender interface {
	send(message string)
}

type client struct{ env *harness.Env }

func (c client) send(message string) { c.env.Println(message) }

type oauthV2Client struct{ env *harness.Env }

func (c oauthV2Client) send(message string) { c.env.Println("[OauthV2] " + message) }

// tweetService has a handful of methods and a name-keyed dispatch table
// whose fallback turns an unknown name into a tweet.
type tweetService struct {
	client sender
}

func newTweetService(c sender) *tweetService {
	return &tweetService{client: c}
}

func (s *tweetService) Post(message string) { s.client.send(message) }

func (s *tweetService) HelloWorld() { s.client.send("Hello world 8!") }

func (s *tweetService) privatePost(message string) { s.client.send(message) }

// Dispatch calls the method registered under name. Unknown names are
// posted as a sentence built from the name.
func (s *tweetService) Dispatch(name string, args ...string) {
	table := map[string]func(*tweetService, ...string){
		"post":        func(s *tweetService, a ...string) { s.Post(strings.Join(a, " ")) },
		"hello_world": func(s *tweetService, _ ...string) { s.HelloWorld() },
	}
	if fn, ok := table[name]; ok {
		fn(s, args...)
		return
	}
	s.Post(tweetFromName(name))
}

// tweetFromName turns "hello_world_10_exclamation_mark" into
// "Hello World 10 !".
func tweetFromName(name string) string {
	name = strings.ReplaceAll(name, "exclamation_mark", "!")
	words := strings.Split(name, "_")
	title := cases.Title(language.English)
	for i, w := range words {
		words[i] = title.String(w)
	}
	return strings.Join(words, " ")
}

type poster interface {
	Post(message string)
}

// tap calls each fn with s and returns s.
func tap(s *tweetService, fns ...func(*tweetService)) *tweetService {
	for _, fn := range fns {
		fn(s)
	}
	return s
}

func dispatchScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "dispatch/direct",
			Description: "the obvious way",
			Body: func(env *harness.Env) error {
				svc := newTweetService(client{env})
				svc.Post("Hello World 1!")
				svc.Post("Hello World 2!")
				svc.privatePost("Hello World 3!")
				return nil
			},
			Expected: harness.Lines("Hello World 1!", "Hello World 2!", "Hello World 3!"),
		},
		{
			Name:        "dispatch/interface",
			Description: "calling through an interface value and a type assertion",
			Body: func(env *harness.Env) error {
				var p poster = newTweetService(client{env})
				p.Post("Hello World 4!")
				if h, ok := p.(interface{ HelloWorld() }); ok {
					h.HelloWorld()
				}
				return nil
			},
			Expected: harness.Lines("Hello World 4!", "Hello world 8!"),
		},
		{
			Name:        "dispatch/method-value",
			Description: "a method value binds its receiver when evaluated",
			Body: func(env *harness.Env) error {
				svc := newTweetService(client{env})
				post := svc.Post
				post("Hello world 5!")
				svc.client = oauthV2Client{env}
				post("Hello world 6!")
				return nil
			},
			Expected: harness.Lines("Hello world 5!", "[OauthV2] Hello world 6!"),
		},
		{
			Name:        "dispatch/method-expression",
			Description: "a method expression takes the receiver as its first argument",
			Body: func(env *harness.Env) error {
				post := (*tweetService).Post
				post(newTweetService(client{env}), "Extra #8!")
				post(newTweetService(oauthV2Client{env}), "Extra #9!")
				return nil
			},
			Expected: harness.Lines("Extra #8!", "[OauthV2] Extra #9!"),
		},
		{
			Name:        "dispatch/closure",
			Description: "closures and method expressions passed to a tap helper",
			Body: func(env *harness.Env) error {
				postWith := func(message string) func(*tweetService) {
					return func(s *tweetService) { s.Post(message) }
				}
				tap(newTweetService(client{env}),
					postWith("Hello world 7!"),
					(*tweetService).HelloWorld,
				)
				return nil
			},
			Expected: harness.Lines("Hello world 7!", "Hello world 8!"),
		},
		{
			Name:        "dispatch/reflect",
			Description: "reflect.Value.Call reaches exported methods only",
			Body: func(env *harness.Env) error {
				v := reflect.ValueOf(newTweetService(client{env}))
				v.MethodByName("Post").Call([]reflect.Value{reflect.ValueOf("Hello World 11!")})
				env.Printf("privatePost visible: %t", v.MethodByName("privatePost").IsValid())
				env.Printf("exported methods: %d", v.NumMethod())
				return nil
			},
			Expected: harness.Lines("Hello World 11!", "privatePost visible: false", "exported methods: 3"),
		},
		{
			Name:        "dispatch/table",
			Description: "a dispatch table with a fallback instead of method_missing",
			Body: func(env *harness.Env) error {
				svc := newTweetService(client{env})
				svc.Dispatch("post", "Hello", "World", "1!")
				svc.Dispatch("hello_world")
				svc.Dispatch("hello_world_10_exclamation_mark")
				svc.Dispatch("yes_exclamation_mark_it_works_dont_do_it_in_production")
				return nil
			},
			Expected: harness.Lines(
				"Hello World 1!",
				"Hello world 8!",
				"Hello World 10 !",
				"Yes ! It Works Dont Do It In Production",
			),
		},
	}
}
