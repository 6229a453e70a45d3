package google

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// CallbackPath is the loopback redirect path.
const CallbackPath = "/callback"

// AuthFlow runs the installed-app loopback OAuth flow: it serves a one-shot
// redirect endpoint on 127.0.0.1, sends the user to the consent page and
// exchanges the returned code using PKCE.
type AuthFlow struct {
	Config *oauth2.Config
	// OpenBrowser is called with the consent URL. Nil only prints it.
	OpenBrowser func(url string) error
	// Out receives instructions for the user.
	Out io.Writer
	// ListenAddr defaults to 127.0.0.1:0.
	ListenAddr string
}

type callbackResult struct {
	code string
	err  error
}

// Run blocks until the user completes consent, ctx is done, or the flow fails.
func (f *AuthFlow) Run(ctx context.Context) (*oauth2.Token, error) {
	if f.Config == nil {
		return nil, fmt.Errorf("oauth config cannot be nil")
	}
	out := f.Out
	if out == nil {
		out = io.Discard
	}
	addr := f.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start OAuth callback listener: %w", err)
	}

	conf := *f.Config
	conf.RedirectURL = "http://" + ln.Addr().String() + CallbackPath
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.Handle(CallbackPath, callbackHandler(state, results))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(out, "Open this URL in your browser to authorize calendar access:\n\n%s\n\n", authURL)
	if f.OpenBrowser != nil {
		if err := f.OpenBrowser(authURL); err != nil {
			fmt.Fprintf(out, "Could not open a browser (%v), please open the URL manually.\n", err)
		}
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization aborted: %w", ctx.Err())
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// callbackHandler accepts the first redirect carrying the expected state.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("authorization response carried no code")
		default:
			res.code = q.Get("code")
		}

		select {
		case results <- res:
		default:
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<p>Authorization failed: %s</p>", html.EscapeString(res.err.Error()))
			return
		}
		fmt.Fprint(w, "<p>Authorization complete. You can close this window.</p>")
	})
}

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
