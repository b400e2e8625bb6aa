package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	callbackPath = "/oauth/callback"
	authTimeout  = 5 * time.Minute
)

const callbackPage = `<html>
	<head><title>Authorization Successful</title></head>
	<body>
		<h1>Authorization successful!</h1>
		<p>You can close this window and return to the application.</p>
	</body>
</html>`

type callbackResult struct {
	code string
	err  error
}

// callbackServer receives the authorization redirect on the loopback interface
type callbackServer struct {
	listener net.Listener
	server   *http.Server
	state    string
	results  chan callbackResult
}

// startCallbackServer listens on 127.0.0.1:port; port 0 picks a free port
func startCallbackServer(port int, state string) (*callbackServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for oauth callback: %w", err)
	}

	cs := &callbackServer{
		listener: listener,
		state:    state,
		results:  make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, cs.handle)
	cs.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := cs.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cs.deliver(callbackResult{err: fmt.Errorf("callback server error: %w", err)})
		}
	}()

	return cs, nil
}

// RedirectURL is the address registered as redirect_uri
func (cs *callbackServer) RedirectURL() string {
	return fmt.Sprintf("http://%s%s", cs.listener.Addr().String(), callbackPath)
}

func (cs *callbackServer) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != cs.state {
		http.Error(w, "Authorization failed: state mismatch", http.StatusBadRequest)
		cs.deliver(callbackResult{err: fmt.Errorf("oauth callback state mismatch")})
		return
	}

	if errCode := query.Get("error"); errCode != "" {
		http.Error(w, "Authorization was not granted", http.StatusForbidden)
		if errCode == "access_denied" {
			cs.deliver(callbackResult{err: &Error{Reason: ReasonConsentDenied, Err: fmt.Errorf("user denied access")}})
			return
		}
		cs.deliver(callbackResult{err: fmt.Errorf("authorization server returned %q", errCode)})
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		cs.deliver(callbackResult{err: fmt.Errorf("no authorization code received")})
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, callbackPage)
	cs.deliver(callbackResult{code: code})
}

// deliver keeps only the first outcome; later redirects are ignored
func (cs *callbackServer) deliver(res callbackResult) {
	select {
	case cs.results <- res:
	default:
	}
}

// Wait blocks until the redirect arrives, the context ends or the timeout passes
func (cs *callbackServer) Wait(ctx context.Context, timeout time.Duration) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case res := <-cs.results:
		return res.code, res.err
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("authorization timeout after %v", timeout)
	}
}

func (cs *callbackServer) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return cs.server.Shutdown(shutdownCtx)
}
