package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/garrettladley/whoopy/internal/xhttp"
)

const shutdownTime = 5 * time.Second

// LocalCallback drives the interactive half of the flow for a terminal
// user: it listens on the loopback redirect URL, opens the consent page and
// waits for the provider to redirect back with a code.
type LocalCallback struct {
	Flow *Flow
	// Open presents the consent URL. Defaults to the platform browser.
	Open func(url string) error
	Out  io.Writer
}

type codeResult struct {
	code string
	err  error
}

func (c *LocalCallback) Run(ctx context.Context) (*Token, error) {
	redirect, err := url.Parse(c.Flow.RedirectURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse redirect url: %w", err)
	}
	if redirect.Scheme != "http" || !isLoopback(redirect.Hostname()) {
		return nil, fmt.Errorf("redirect url %q is not a loopback http url", redirect.String())
	}

	authURL, state, err := c.Flow.AuthorizationURL("")
	if err != nil {
		return nil, err
	}

	resultCh := make(chan codeResult, 1)
	server, err := startCallbackServer(redirect, state, resultCh)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTime)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	out := c.Out
	if out == nil {
		out = io.Discard
	}
	_, _ = fmt.Fprintf(out, "Opening browser for authorization...\n")
	_, _ = fmt.Fprintf(out, "If the browser doesn't open, visit:\n%s\n\n", authURL)

	open := c.Open
	if open == nil {
		open = openBrowser
	}
	if err := open(authURL); err != nil {
		_, _ = fmt.Fprintf(out, "Failed to open browser: %v\n", err)
	}

	select {
	case result := <-resultCh:
		if result.err != nil {
			return nil, result.err
		}
		return c.Flow.ExchangeCode(ctx, result.code)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func startCallbackServer(redirect *url.URL, state string, resultCh chan<- codeResult) (*http.Server, error) {
	path := redirect.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		code, err := handleCallback(w, r, state)
		select {
		case resultCh <- codeResult{code: code, err: err}:
		default:
		}
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case resultCh <- codeResult{err: fmt.Errorf("server error: %w", err)}:
			default:
			}
		}
	}()

	return server, nil
}

func handleCallback(w http.ResponseWriter, r *http.Request, state string) (string, error) {
	query := r.URL.Query()

	if !ValidateState(state, query.Get(ParamState)) {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return "", ErrStateMismatch
	}

	if errParam := query.Get(ParamError); errParam != "" {
		errDesc := query.Get(ParamErrorDescription)
		http.Error(w, fmt.Sprintf("OAuth error: %s", errDesc), http.StatusBadRequest)
		return "", &AuthorizationError{Code: ErrorCode(errParam), Description: errDesc}
	}

	code := query.Get(ParamCode)
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return "", &AuthorizationError{Code: ErrorCodeInvalidRequest, Description: "missing authorization code"}
	}

	writeSuccessHTML(w)
	return code, nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func writeSuccessHTML(w http.ResponseWriter) {
	xhttp.SetHeaderContentTypeTextHTML(w)
	_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authorization Successful</title></head>
<body>
<h1>Authorization Successful</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
