package google

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoCredentials is returned when no credentials file exists at any
// candidate path.
var ErrNoCredentials = errors.New("no Google OAuth credentials found")

// CredentialsFileName is the file name looked for in every candidate directory.
const CredentialsFileName = "credentials.json"

// CandidateCredentialPaths returns the places searched for the OAuth client
// file, most specific first. explicit, when set, is the only candidate.
func CandidateCredentialPaths(explicit, configDir string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	var paths []string
	if configDir != "" {
		paths = append(paths, filepath.Join(configDir, CredentialsFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gcloud", CredentialsFileName),
			filepath.Join(home, ".credentials", CredentialsFileName),
			filepath.Join(home, "Downloads", CredentialsFileName),
		)
	}
	return append(paths, CredentialsFileName)
}

// FindCredentials returns the first candidate that exists.
func FindCredentials(candidates []string) (string, error) {
	for _, p := range candidates {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, looked in: %v", ErrNoCredentials, candidates)
}

// LoadOAuthConfig parses a credentials file into an OAuth2 config with the
// default scopes.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}
	return conf, nil
}
