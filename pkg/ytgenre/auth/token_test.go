package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoredToken_Valid(t *testing.T) {
	tests := []struct {
		name  string
		token StoredToken
		want  bool
	}{
		{name: "future expiry", token: StoredToken{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}, want: true},
		{name: "zero expiry never expires", token: StoredToken{AccessToken: "a"}, want: true},
		{name: "inside refresh leeway", token: StoredToken{AccessToken: "a", Expiry: time.Now().Add(30 * time.Second)}, want: false},
		{name: "expired", token: StoredToken{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}, want: false},
		{name: "no access token", token: StoredToken{Expiry: time.Now().Add(time.Hour)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Valid())
		})
	}
}
