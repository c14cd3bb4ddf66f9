// Package youtube implements the HTTP client for the YouTube Data API v3,
// with services for listing the authenticated user's subscriptions and for
// batched channel topic-category lookups.
package youtube
