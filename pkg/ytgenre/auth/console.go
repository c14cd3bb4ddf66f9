package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// DefaultAuthority is the Google OpenID issuer used to discover the device
// authorization endpoint, which the client secret descriptor does not carry.
const DefaultAuthority = "https://accounts.google.com"

// ConsoleFlow performs the device-code grant: it prints a verification URL
// and a short user code, then polls the token endpoint until the user has
// approved the request on another device.
type ConsoleFlow struct {
	// Authority is the OpenID issuer; defaults to Google.
	Authority string
	// Out is where the verification URL and code are printed; defaults to
	// stdout.
	Out io.Writer
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	// Google spells the field verification_url instead of the RFC 8628 name.
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

func (r *deviceCodeResponse) verificationTarget() string {
	if r.VerificationURI != "" {
		return r.VerificationURI
	}
	return r.VerificationURL
}

type deviceTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorDesc    string `json:"error_description,omitempty"`
}

var (
	errAuthorizationPending = errors.New("authorization pending")
	errSlowDown             = errors.New("slow down")
)

func (f *ConsoleFlow) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	if cfg == nil || cfg.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	client := f.httpClient()

	deviceEndpoint, tokenEndpoint, err := f.resolveEndpoints(ctx, cfg, client)
	if err != nil {
		return nil, err
	}

	deviceResp, err := requestDeviceCode(ctx, client, deviceEndpoint, cfg)
	if err != nil {
		return nil, err
	}

	_, _ = fmt.Fprintf(f.out(), "Visit %s and enter code: %s\n", deviceResp.verificationTarget(), deviceResp.UserCode)

	interval := time.Duration(deviceResp.Interval) * time.Second
	if interval == 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(time.Duration(deviceResp.ExpiresIn) * time.Second)

	for {
		if time.Now().After(deadline) {
			return nil, errors.New("device code expired")
		}
		tokenResp, err := pollDeviceToken(ctx, client, tokenEndpoint, cfg, deviceResp.DeviceCode)
		if err != nil {
			if errors.Is(err, errSlowDown) {
				interval += 5 * time.Second
			} else if !errors.Is(err, errAuthorizationPending) {
				return nil, err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
			continue
		}
		token := &oauth2.Token{
			AccessToken:  tokenResp.AccessToken,
			RefreshToken: tokenResp.RefreshToken,
			TokenType:    tokenResp.TokenType,
			Expiry:       time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
		}
		if tokenResp.IDToken != "" {
			token = token.WithExtra(map[string]any{"id_token": tokenResp.IDToken})
		}
		return token, nil
	}
}

// resolveEndpoints prefers endpoints already present on the oauth2 config
// and falls back to OpenID discovery against the authority.
func (f *ConsoleFlow) resolveEndpoints(ctx context.Context, cfg *oauth2.Config, client *http.Client) (string, string, error) {
	deviceEndpoint := cfg.Endpoint.DeviceAuthURL
	tokenEndpoint := cfg.Endpoint.TokenURL
	if deviceEndpoint != "" && tokenEndpoint != "" {
		return deviceEndpoint, tokenEndpoint, nil
	}

	authority := f.Authority
	if authority == "" {
		authority = DefaultAuthority
	}
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), authority)
	if err != nil {
		return "", "", fmt.Errorf("failed to discover provider: %w", err)
	}
	endpoint := provider.Endpoint()
	if deviceEndpoint == "" {
		deviceEndpoint = endpoint.DeviceAuthURL
	}
	if tokenEndpoint == "" {
		tokenEndpoint = endpoint.TokenURL
	}
	if deviceEndpoint == "" {
		return "", "", errors.New("device authorization endpoint not advertised")
	}
	if tokenEndpoint == "" {
		return "", "", errors.New("token endpoint not advertised")
	}
	return deviceEndpoint, tokenEndpoint, nil
}

func (f *ConsoleFlow) out() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

func (f *ConsoleFlow) httpClient() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func requestDeviceCode(ctx context.Context, client *http.Client, endpoint string, cfg *oauth2.Config) (*deviceCodeResponse, error) {
	values := url.Values{}
	values.Set("client_id", cfg.ClientID)
	if len(cfg.Scopes) > 0 {
		values.Set("scope", strings.Join(cfg.Scopes, " "))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("device authorization failed: %s", string(body))
	}
	var payload deviceCodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func pollDeviceToken(ctx context.Context, client *http.Client, endpoint string, cfg *oauth2.Config, deviceCode string) (*deviceTokenResponse, error) {
	values := url.Values{}
	values.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")
	values.Set("device_code", deviceCode)
	values.Set("client_id", cfg.ClientID)
	if cfg.ClientSecret != "" {
		values.Set("client_secret", cfg.ClientSecret)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	var payload deviceTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		switch payload.Error {
		case "authorization_pending":
			return nil, errAuthorizationPending
		case "slow_down":
			return nil, errSlowDown
		default:
			return nil, fmt.Errorf("device token error: %s", payload.Error)
		}
	}
	return &payload, nil
}
