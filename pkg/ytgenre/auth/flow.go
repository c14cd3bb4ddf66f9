package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// Flow drives one interactive OAuth grant and returns the resulting token.
// Two implementations exist: BrowserFlow (authorization code with a local
// callback server) and ConsoleFlow (device code entered on another device).
type Flow interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}
