package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// StoredToken is the persisted credential schema.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
}

// NewStoredToken converts an oauth2 token into the persisted form, capturing
// the ID token when the provider returned one.
func NewStoredToken(token *oauth2.Token, scopes []string) StoredToken {
	stored := StoredToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scopes:       scopes,
		Expiry:       token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		stored.IDToken = idToken
	}
	return stored
}

// Valid reports whether the token can be used as-is, with enough leeway
// left before expiry. A zero expiry means the token does not expire.
func (t StoredToken) Valid() bool {
	if t.AccessToken == "" {
		return false
	}
	return t.Expiry.IsZero() || time.Until(t.Expiry) > refreshLeeway
}

// OAuth2 converts the persisted form back into an oauth2 token.
func (t StoredToken) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
