package transport_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/perihelia/graphlink/transport"
)

func TestNewHTTPLink_invalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{
		"",
		"/graphql",
		"graphql.example.com/query",
		"://missing-scheme",
		"http://",
	} {
		_, err := transport.NewHTTPLink(endpoint)
		if err == nil {
			t.Errorf("NewHTTPLink(%q): got error: nil, want: non-nil", endpoint)
		}
	}
}

func TestNewHTTPLink_endpoint(t *testing.T) {
	l, err := transport.NewHTTPLink("https://api.example.com/graphql?tenant=a")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := l.Endpoint(), "https://api.example.com/graphql?tenant=a"; got != want {
		t.Errorf("got endpoint: %q, want: %q", got, want)
	}
}

func TestHTTPLink_RoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		body := mustRead(req.Body)
		if got, want := body, `{"query":"{viewer{login}}"}`+"\n"; got != want {
			t.Errorf("got body: %v, want %v", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"viewer": {"login": "gopher"}}}`)
	})
	l := newTestLink(t, mux)

	resp, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindQuery,
		Query: "{viewer{login}}",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(resp.Data), `{"viewer": {"login": "gopher"}}`; got != want {
		t.Errorf("got data: %v, want: %v", got, want)
	}
	if len(resp.Errors) != 0 {
		t.Errorf("got errors: %v, want: none", resp.Errors)
	}
}

func TestHTTPLink_RoundTrip_variablesAndOperationName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		body := mustRead(req.Body)
		want := `{"query":"query GetUser($login: String!) {\n\tuser(login: $login) {\n\t\tname\n\t}\n}","variables":{"login":"gopher"},"operationName":"GetUser"}` + "\n"
		if got := body; got != want {
			t.Errorf("got body: %v, want %v", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"user": {"name": "Gopher"}}}`)
	})
	l := newTestLink(t, mux)

	_, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:          transport.KindQuery,
		Query:         "query GetUser($login: String!) {\n\tuser(login: $login) {\n\t\tname\n\t}\n}",
		OperationName: "GetUser",
		Variables:     map[string]any{"login": "gopher"},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestHTTPLink_RoundTrip_headers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		if got, want := req.Header.Get("Authorization"), "Bearer per-call"; got != want {
			t.Errorf("got Authorization: %q, want: %q", got, want)
		}
		if got, want := req.Header.Get("X-Tenant"), "acme"; got != want {
			t.Errorf("got X-Tenant: %q, want: %q", got, want)
		}
		if got, want := req.Header.Get("X-Request-Id"), "req-42"; got != want {
			t.Errorf("got X-Request-Id: %q, want: %q", got, want)
		}
		if got, want := req.Header.Get("Content-Type"), "application/json"; got != want {
			t.Errorf("got Content-Type: %q, want: %q", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"ok": true}}`)
	})
	l, err := transport.NewHTTPLink(
		"http://example.com/graphql",
		transport.WithHTTPClient(&http.Client{Transport: localRoundTripper{handler: mux}}),
		transport.WithDefaultHeaders(map[string]string{
			"Authorization": "Bearer default",
			"X-Tenant":      "acme",
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	_, err = l.RoundTrip(context.Background(), &transport.Request{
		Kind:    transport.KindQuery,
		Query:   "{ok}",
		Headers: map[string]string{"Authorization": "Bearer per-call"},
		ID:      "req-42",
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestHTTPLink_RoundTrip_errorStatusCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "important message", http.StatusInternalServerError)
	})
	l := newTestLink(t, mux)

	_, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindQuery,
		Query: "{viewer{login}}",
	})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if got, want := err.Error(), `Message: 500 Internal Server Error; body: "important message\n", Locations: []`; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}

	gqlErr := err.(transport.Errors)
	if got, want := gqlErr[0].GetCode(), transport.ErrRequestError; got != want {
		t.Errorf("got code: %v, want: %v", got, want)
	}
	if got, want := gqlErr[0].StatusCode(), http.StatusInternalServerError; got != want {
		t.Errorf("got status: %v, want: %v", got, want)
	}
	if _, ok := gqlErr[0].Extensions["internal"]; ok {
		t.Errorf("expected empty internal error")
	}
}

func TestHTTPLink_RoundTrip_errorStatusCodeDebug(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "important message", http.StatusInternalServerError)
	})
	l, err := transport.NewHTTPLink(
		"http://example.com/graphql",
		transport.WithHTTPClient(&http.Client{Transport: localRoundTripper{handler: mux}}),
		transport.WithDebug(true),
	)
	if err != nil {
		t.Fatal(err)
	}

	_, err = l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindQuery,
		Query: "{viewer{login}}",
	})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if !errors.As(err, &transport.Errors{}) {
		t.Fatal("the error type should be transport.Errors")
	}
	gqlErr := err.(transport.Errors)
	interErr := gqlErr[0].Extensions["internal"].(map[string]any)
	if got, want := interErr["request"].(map[string]any)["body"], `{"query":"{viewer{login}}"}`+"\n"; got != want {
		t.Errorf("got request body: %v, want: %v", got, want)
	}
}

func TestHTTPLink_RoundTrip_networkError(t *testing.T) {
	l, err := transport.NewHTTPLink(
		"http://example.com/graphql",
		transport.WithHTTPClient(&http.Client{
			Transport: errorRoundTripper{errors.New("connection refused")},
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	_, err = l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindQuery,
		Query: "{viewer{login}}",
	})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	gqlErr := err.(transport.Errors)
	if got, want := gqlErr[0].GetCode(), transport.ErrRequestError; got != want {
		t.Errorf("got code: %v, want: %v", got, want)
	}
	if got, want := gqlErr[0].StatusCode(), 0; got != want {
		t.Errorf("got status: %v, want: %v", got, want)
	}
}

func TestHTTPLink_RoundTrip_invalidJSONResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `not a json response`)
	})
	l := newTestLink(t, mux)

	_, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindQuery,
		Query: "{viewer{login}}",
	})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	gqlErr := err.(transport.Errors)
	if got, want := gqlErr[0].GetCode(), transport.ErrJsonDecode; got != want {
		t.Errorf("got code: %v, want: %v", got, want)
	}
}

func TestHTTPLink_RoundTrip_gzipResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		mustWrite(gz, `{"data": {"viewer": {"login": "gopher"}}}`)
		if err := gz.Close(); err != nil {
			t.Fatalf("failed to close gzip writer: %v", err)
		}
	})
	l := newTestLink(t, mux)

	resp, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindQuery,
		Query: "{viewer{login}}",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(resp.Data), `{"viewer": {"login": "gopher"}}`; got != want {
		t.Errorf("got data: %v, want: %v", got, want)
	}
}

func TestHTTPLink_RoundTrip_serverErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{
			"data": null,
			"errors": [
				{
					"message": "denied",
					"locations": [{"line": 1, "column": 10}]
				}
			]
		}`)
	})
	l := newTestLink(t, mux)

	resp, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindMutation,
		Query: `mutation { deleteUser(id: "1") { id } }`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(resp.Errors), 1; got != want {
		t.Fatalf("got %d errors, want: %d", got, want)
	}
	if got, want := resp.Errors.Error(), "Message: denied, Locations: [{Line:1 Column:10}]"; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}
	if got, want := string(resp.Data), "null"; got != want {
		t.Errorf("got data: %v, want: %v", got, want)
	}
}

func TestHTTPLink_RoundTrip_upload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		var ops struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.Unmarshal([]byte(req.FormValue("operations")), &ops); err != nil {
			t.Fatalf("failed to unmarshal operations: %v", err)
		}
		if v, ok := ops.Variables["file"]; !ok || v != nil {
			t.Errorf("got variables.file: %v, want: null", v)
		}
		if got, want := req.FormValue("map"), `{"0":["variables.file"]}`; got != want {
			t.Errorf("got map: %v, want: %v", got, want)
		}

		f, fh, err := req.FormFile("0")
		if err != nil {
			t.Fatalf("failed to read file part: %v", err)
		}
		defer func() { _ = f.Close() }()
		if got, want := fh.Filename, "note.txt"; got != want {
			t.Errorf("got filename: %q, want: %q", got, want)
		}
		if got, want := fh.Header.Get("Content-Type"), "text/plain"; got != want {
			t.Errorf("got part content type: %q, want: %q", got, want)
		}
		if got, want := mustRead(f), "file content"; got != want {
			t.Errorf("got file content: %q, want: %q", got, want)
		}

		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"upload": {"id": "1"}}}`)
	})
	l := newTestLink(t, mux)

	resp, err := l.RoundTrip(context.Background(), &transport.Request{
		Kind:  transport.KindMutation,
		Query: "mutation ($file: Upload!) { upload(file: $file) { id } }",
		Variables: map[string]any{
			"file": &transport.Upload{
				Name:        "note.txt",
				ContentType: "text/plain",
				R:           strings.NewReader("file content"),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(resp.Data), `{"upload": {"id": "1"}}`; got != want {
		t.Errorf("got data: %v, want: %v", got, want)
	}
}

func newTestLink(t *testing.T, handler http.Handler) *transport.HTTPLink {
	t.Helper()
	l, err := transport.NewHTTPLink(
		"http://example.com/graphql",
		transport.WithHTTPClient(&http.Client{
			Transport: localRoundTripper{handler: handler},
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// localRoundTripper is an http.RoundTripper that executes HTTP transactions
// by using handler directly, instead of going over an HTTP connection.
type localRoundTripper struct {
	handler http.Handler
}

func (l localRoundTripper) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	w := httptest.NewRecorder()
	l.handler.ServeHTTP(w, req)
	return w.Result(), nil
}

type errorRoundTripper struct {
	err error
}

func (e errorRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, e.err
}

func mustRead(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func mustWrite(w io.Writer, s string) {
	_, err := io.WriteString(w, s)
	if err != nil {
		panic(err)
	}
}
