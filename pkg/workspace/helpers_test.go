package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/jakechorley/google-api-wrapper/pkg/auth"
)

// route answers requests whose method matches and whose path ends with suffix
type route struct {
	method  string
	suffix  string
	handler http.HandlerFunc
}

// fakeGoogle serves every surface from one httptest server
type fakeGoogle struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes []route
	hits   []string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{t: t}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGoogle) handle(method, suffix string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, route{method: method, suffix: suffix, handler: handler})
}

// handleJSON answers with a fixed JSON body
func (f *fakeGoogle) handleJSON(method, suffix, body string) {
	f.handle(method, suffix, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	})
}

func (f *fakeGoogle) hitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.hits)
}

func (f *fakeGoogle) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits = append(f.hits, r.Method+" "+r.URL.Path)
	routes := append([]route(nil), f.routes...)
	f.mu.Unlock()

	for _, rt := range routes {
		if rt.method == r.Method && strings.HasSuffix(r.URL.Path, rt.suffix) {
			rt.handler(w, r)
			return
		}
	}
	f.t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
	writeJSON(w, http.StatusNotFound, `{"error":{"code":404,"message":"not found"}}`)
}

// session builds a session whose credential covers every surface except excluded
func (f *fakeGoogle) session(t *testing.T, opts Options, excluded ...auth.Surface) *Session {
	t.Helper()
	cred := auth.NewCredential("test", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), auth.ResolveScopes())
	cred.Excluded = excluded

	opts.ClientOptions = append(opts.ClientOptions, option.WithEndpoint(f.srv.URL+"/"))
	if opts.GmailInterval == 0 {
		opts.GmailInterval = -1
	}
	session, err := NewSession(context.Background(), cred, opts)
	require.NoError(t, err)
	return session
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}

// stubStrategy returns a fixed outcome
type stubStrategy struct {
	cred  *auth.Credential
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Acquire(ctx context.Context, req auth.Request) (*auth.Credential, error) {
	s.calls++
	return s.cred, s.err
}
