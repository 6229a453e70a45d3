package google

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs
type TokenProvider interface {
	// TokenSource returns a source that refreshes as needed.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)

	// HasToken checks if a token exists
	HasToken() bool
}

// FileTokenProvider provides tokens from a TokenFile and persists refreshes.
type FileTokenProvider struct {
	file *TokenFile
	conf *oauth2.Config
}

var _ TokenProvider = (*FileTokenProvider)(nil)

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider(path string, conf *oauth2.Config) *FileTokenProvider {
	return &FileTokenProvider{file: NewTokenFile(path), conf: conf}
}

// HasToken checks if the token file exists
func (p *FileTokenProvider) HasToken() bool {
	return p.file.Exists()
}

// TokenSource loads the stored token and wraps it in a refreshing source
// that writes new tokens back to disk.
func (p *FileTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := p.file.Load()
	if err != nil {
		return nil, err
	}
	base := p.conf.TokenSource(ctx, tok)
	return &savingTokenSource{base: base, file: p.file, last: tok.AccessToken}, nil
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func (p *FileTokenProvider) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := p.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(ctx, ts), nil
}

// NewHTTPClient builds an HTTP/1.1 client authorizing requests with ts.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client
}

// savingTokenSource persists a token whenever the access token changes.
type savingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	file *TokenFile
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh Google OAuth token: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.file.Save(tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
