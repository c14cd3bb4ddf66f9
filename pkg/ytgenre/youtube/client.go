package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL is the YouTube Data API v3 endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

const defaultMaxPages = 200

type Client struct {
	rest     *resty.Client
	token    string
	maxPages int
	log      *zap.SugaredLogger
}

type Option func(*Client) error

func New(opts ...Option) (*Client, error) {
	c := &Client{
		rest: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "ytgenre"),
		maxPages: defaultMaxPages,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.token == "" {
		return nil, errors.New("token is required")
	}
	c.rest.SetAuthToken(c.token)
	return c, nil
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return errors.New("base URL is required")
		}
		c.rest.SetBaseURL(baseURL)
		return nil
	}
}

func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.rest.SetTimeout(timeout)
		return nil
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		c.rest.SetHeader("User-Agent", userAgent)
		return nil
	}
}

func WithMaxPages(maxPages int) Option {
	return func(c *Client) error {
		if maxPages <= 0 {
			return errors.New("max pages must be positive")
		}
		c.maxPages = maxPages
		return nil
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	var envelope errorEnvelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(&envelope).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return envelope.apiError(resp.StatusCode())
	}
	return nil
}
