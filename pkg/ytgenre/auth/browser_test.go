package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// syncBuffer guards the output writer because Authorize prints from its own
// goroutine in these tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBrowserFlow_RequiresClientID(t *testing.T) {
	flow := &BrowserFlow{NoBrowser: true}

	_, err := flow.Authorize(context.Background(), &oauth2.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client id is required")

	_, err = flow.Authorize(context.Background(), nil)
	require.Error(t, err)
}

func TestBrowserFlow_CallbackExchangesCode(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "granted-code", r.Form.Get("code"))
		assert.NotEmpty(t, r.Form.Get("code_verifier"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"browser-token","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh"}`))
	}))
	defer tokenServer.Close()

	cfg := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://example.test/auth",
			TokenURL: tokenServer.URL + "/token",
		},
		Scopes: []string{ScopeYouTubeReadonly},
	}

	out := &syncBuffer{}
	flow := &BrowserFlow{Out: out, NoBrowser: true}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type result struct {
		token *oauth2.Token
		err   error
	}
	done := make(chan result, 1)
	go func() {
		token, err := flow.Authorize(ctx, cfg)
		done <- result{token, err}
	}()

	consent := waitForConsentURL(t, out)
	redirect := consent.Query().Get("redirect_uri")
	state := consent.Query().Get("state")
	require.NotEmpty(t, redirect)
	require.NotEmpty(t, state)
	assert.Equal(t, "S256", consent.Query().Get("code_challenge_method"))

	resp, err := http.Get(fmt.Sprintf("%s?state=%s&code=granted-code", redirect, url.QueryEscape(state)))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "browser-token", got.token.AccessToken)
	assert.Equal(t, "refresh", got.token.RefreshToken)
}

func TestBrowserFlow_RejectsBadState(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: "https://example.test/auth", TokenURL: "https://example.test/token"},
	}

	out := &syncBuffer{}
	flow := &BrowserFlow{Out: out, NoBrowser: true}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := flow.Authorize(ctx, cfg)
		errCh <- err
	}()

	consent := waitForConsentURL(t, out)
	redirect := consent.Query().Get("redirect_uri")
	require.NotEmpty(t, redirect)

	resp, err := http.Get(redirect + "?state=forged&code=whatever")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	got := <-errCh
	require.Error(t, got)
	assert.Contains(t, got.Error(), "invalid state")
}

func TestBrowserFlow_ContextCancellation(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: "https://example.test/auth", TokenURL: "https://example.test/token"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flow := &BrowserFlow{Out: &syncBuffer{}, NoBrowser: true}
	_, err := flow.Authorize(ctx, cfg)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewPKCEPair(t *testing.T) {
	verifier, challenge, err := newPKCEPair()
	require.NoError(t, err)
	require.NotEmpty(t, verifier)

	sum := sha256.Sum256([]byte(verifier))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), challenge)

	// Each pair must be unique.
	second, _, err := newPKCEPair()
	require.NoError(t, err)
	assert.NotEqual(t, verifier, second)
}

// waitForConsentURL polls the flow's output until the printed consent URL
// appears, then parses it.
func waitForConsentURL(t *testing.T, out *syncBuffer) *url.URL {
	t.Helper()
	var raw string
	require.Eventually(t, func() bool {
		for _, line := range strings.Split(out.String(), "\n") {
			if strings.HasPrefix(line, "http") {
				raw = line
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	return parsed
}
