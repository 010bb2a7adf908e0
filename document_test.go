package graphlink_test

import (
	"strings"
	"testing"

	"github.com/perihelia/graphlink"
)

func TestParseDocument(t *testing.T) {
	src := `query GetUser($login: String!) { user(login: $login) { name } }`
	doc, err := graphlink.ParseDocument(src)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Source(), src; got != want {
		t.Errorf("got source: %q, want: %q", got, want)
	}
	if got, want := doc.Kind(), "query"; got != want {
		t.Errorf("got kind: %q, want: %q", got, want)
	}
	if got, want := doc.Name(), "GetUser"; got != want {
		t.Errorf("got name: %q, want: %q", got, want)
	}
	if doc.Normalized() == "" {
		t.Error("got empty normalized document")
	}
}

func TestParseDocument_anonymous(t *testing.T) {
	doc, err := graphlink.ParseDocument(`{ viewer { login } }`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Kind(), "query"; got != want {
		t.Errorf("got kind: %q, want: %q", got, want)
	}
	if got := doc.Name(); got != "" {
		t.Errorf("got name: %q, want: empty", got)
	}
}

func TestParseDocument_mutation(t *testing.T) {
	doc, err := graphlink.ParseDocument(`mutation AddUser { createUser(name: "x") { id } }`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Kind(), "mutation"; got != want {
		t.Errorf("got kind: %q, want: %q", got, want)
	}
	if got, want := doc.Name(), "AddUser"; got != want {
		t.Errorf("got name: %q, want: %q", got, want)
	}
}

func TestParseDocument_syntaxError(t *testing.T) {
	_, err := graphlink.ParseDocument(`query { viewer {`)
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if !strings.Contains(err.Error(), "parse document") {
		t.Errorf("got error: %v, want: parse document prefix", err)
	}
}

func TestParseDocument_noOperations(t *testing.T) {
	_, err := graphlink.ParseDocument(`fragment UserParts on User { name }`)
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
}

// Documents that differ only in formatting normalize to the same text.
func TestDocument_normalizedIsCanonical(t *testing.T) {
	a, err := graphlink.ParseDocument("query{viewer{login}}")
	if err != nil {
		t.Fatal(err)
	}
	b, err := graphlink.ParseDocument("query {\n  viewer {\n    login\n  }\n}")
	if err != nil {
		t.Fatal(err)
	}
	if a.Normalized() != b.Normalized() {
		t.Errorf("got %q and %q, want equal", a.Normalized(), b.Normalized())
	}
	if a.Source() == b.Source() {
		t.Error("sources should differ for this test to mean anything")
	}
}

func TestMustParseDocument_panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("got no panic, want: panic")
		}
	}()
	graphlink.MustParseDocument(`query {`)
}
