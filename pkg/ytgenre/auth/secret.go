package auth

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ScopeYouTubeReadonly is the only scope the pipeline needs.
const ScopeYouTubeReadonly = "https://www.googleapis.com/auth/youtube.readonly"

// LoadClientSecret parses the OAuth client descriptor downloaded from the
// Google Cloud Console (the client_secret.json of a "Desktop" application)
// into an oauth2 config.
func LoadClientSecret(path string, scopes ...string) (*oauth2.Config, error) {
	if path == "" {
		return nil, errors.New("client secret path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret: %w", err)
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeYouTubeReadonly}
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid client secret: %w", err)
	}
	return cfg, nil
}
