package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jakechorley/google-api-wrapper/internal/config"
)

var authURLPattern = regexp.MustCompile(`https?://\S+`)

// urlCatcher hands the first printed URL to the test
type urlCatcher struct {
	urls chan string
}

func (u *urlCatcher) Write(p []byte) (int, error) {
	if match := authURLPattern.Find(p); match != nil {
		select {
		case u.urls <- string(match):
		default:
		}
	}
	return len(p), nil
}

func testClient(tokenURL string) *config.OAuthClientConfig {
	return &config.OAuthClientConfig{Installed: &config.OAuthClient{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURI:      "https://accounts.example.com/o/oauth2/auth",
		TokenURI:     tokenURL,
	}}
}

// completeConsent plays the browser: it follows the printed URL back to the
// local redirect listener with the given query parameters.
func completeConsent(t *testing.T, urls <-chan string, params url.Values) {
	t.Helper()
	var printed string
	select {
	case printed = <-urls:
	case <-time.After(5 * time.Second):
		t.Error("authorization URL was never printed")
		return
	}

	authURL, err := url.Parse(printed)
	if err != nil {
		t.Errorf("invalid auth URL: %v", err)
		return
	}
	query := authURL.Query()
	params.Set("state", query.Get("state"))

	resp, err := http.Get(query.Get("redirect_uri") + "?" + params.Encode())
	if err != nil {
		t.Errorf("callback request failed: %v", err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func TestInteractive_NotAllowedIsNotApplicable(t *testing.T) {
	strategy := NewInteractiveStrategy(InteractiveOptions{}, zap.NewNop())
	_, err := strategy.Acquire(context.Background(), NewRequest(nil, testClient("http://unused"), false))
	assert.True(t, IsNotApplicable(err))
}

func TestInteractive_NoClientIsNotApplicable(t *testing.T) {
	strategy := NewInteractiveStrategy(InteractiveOptions{}, zap.NewNop())
	_, err := strategy.Acquire(context.Background(), NewRequest(nil, nil, true))
	assert.True(t, IsNotApplicable(err))
}

func TestInteractive_RedirectFlowSavesToken(t *testing.T) {
	var form url.Values
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"granted","refresh_token":"refresh","token_type":"Bearer","expires_in":3600,"scope":"https://www.googleapis.com/auth/drive"}`))
	}))
	defer tokenSrv.Close()

	catcher := &urlCatcher{urls: make(chan string, 1)}
	store := NewTokenStore(t.TempDir(), "google_token")
	strategy := NewInteractiveStrategy(InteractiveOptions{Prompt: catcher, Timeout: 10 * time.Second}, zap.NewNop())

	go completeConsent(t, catcher.urls, url.Values{"code": {"auth-code"}})

	cred, err := strategy.Acquire(context.Background(), NewRequest(store, testClient(tokenSrv.URL), true, SurfaceDrive))
	require.NoError(t, err)

	assert.Equal(t, StrategyInteractive, cred.Strategy)
	assert.Equal(t, "client-id", cred.ClientID)
	assert.Equal(t, []string{ScopeDrive}, cred.Scopes)
	assert.Equal(t, "auth-code", form.Get("code"))
	assert.NotEmpty(t, form.Get("code_verifier"))

	saved, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "granted", saved.Token)
	assert.Equal(t, "refresh", saved.RefreshToken)
	assert.Equal(t, tokenSrv.URL, saved.TokenURI)
	assert.Equal(t, "client-secret", saved.ClientSecret)
	assert.Equal(t, []string{ScopeDrive}, saved.Scopes)
}

func TestInteractive_AuthURLParameters(t *testing.T) {
	catcher := &urlCatcher{urls: make(chan string, 1)}
	strategy := NewInteractiveStrategy(InteractiveOptions{Prompt: catcher, Timeout: 10 * time.Second}, zap.NewNop())

	printed := make(chan url.Values, 1)
	go func() {
		raw := <-catcher.urls
		authURL, _ := url.Parse(raw)
		query := authURL.Query()
		printed <- query
		resp, err := http.Get(query.Get("redirect_uri") + "?" + url.Values{"error": {"access_denied"}, "state": {query.Get("state")}}.Encode())
		if err == nil {
			resp.Body.Close()
		}
	}()

	_, err := strategy.Acquire(context.Background(), NewRequest(nil, testClient("http://unused"), true, SurfaceGmail))
	assert.ErrorIs(t, err, ErrConsentDenied)

	query := <-printed
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Equal(t, "true", query.Get("include_granted_scopes"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))
	assert.NotEmpty(t, query.Get("state"))
	assert.Equal(t, ScopeGmailSend, query.Get("scope"))
	assert.Contains(t, query.Get("redirect_uri"), "http://127.0.0.1:")
	assert.Contains(t, query.Get("redirect_uri"), callbackPath)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	cs, err := startCallbackServer(0, "expected")
	require.NoError(t, err)
	defer cs.Close()

	resp, err := http.Get(cs.RedirectURL() + "?code=abc&state=forged")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err = cs.Wait(context.Background(), time.Second)
	assert.ErrorContains(t, err, "state mismatch")
}

func TestCallbackServer_Timeout(t *testing.T) {
	cs, err := startCallbackServer(0, "state")
	require.NoError(t, err)
	defer cs.Close()

	_, err = cs.Wait(context.Background(), 10*time.Millisecond)
	assert.ErrorContains(t, err, "authorization timeout")
}

func TestGrantedScopes_FallsBackToRequested(t *testing.T) {
	// A token without the scope extra reports the requested scopes
	assert.Equal(t, []string{ScopeDrive}, grantedScopes(&oauth2.Token{AccessToken: "x"}, []string{ScopeDrive}))
}
