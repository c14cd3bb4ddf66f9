package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cobra"

	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/auth"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Google credentials",
	}
	cmd.AddCommand(
		newAuthLoginCommand(),
		newAuthStatusCommand(),
		newAuthLogoutCommand(),
	)
	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize with Google and cache the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			log := newLogger(rt.verbose)
			defer func() {
				_ = log.Sync()
			}()

			oauthCfg, err := auth.LoadClientSecret(rt.ClientSecretPath())
			if err != nil {
				return err
			}
			store, err := auth.NewStore(rt.TokenStorage(), rt.TokenFile())
			if err != nil {
				return err
			}
			manager := &auth.Manager{Store: store, Flow: rt.flow(), Log: log}
			token, err := manager.Login(cmd.Context(), oauthCfg)
			if err != nil {
				return err
			}
			if token.Expiry.IsZero() {
				_, _ = fmt.Fprintln(rt.Writer(), "Authenticated.")
				return nil
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Authenticated. Token expires at %s\n", token.Expiry.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			store, err := auth.NewStore(rt.TokenStorage(), rt.TokenFile())
			if err != nil {
				return err
			}
			token, ok, err := store.Load()
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(rt.Writer(), "Not authenticated")
				return nil
			}
			if email := tokenEmail(token.IDToken); email != "" {
				_, _ = fmt.Fprintf(rt.Writer(), "Account: %s\n", email)
			}
			switch {
			case token.Expiry.IsZero():
				_, _ = fmt.Fprintln(rt.Writer(), "Authenticated (no expiry recorded)")
			case time.Now().After(token.Expiry):
				_, _ = fmt.Fprintf(rt.Writer(), "Token expired at %s", token.Expiry.UTC().Format(time.RFC3339))
				if token.RefreshToken != "" {
					_, _ = fmt.Fprint(rt.Writer(), " (will refresh on next run)")
				}
				_, _ = fmt.Fprintln(rt.Writer())
			default:
				_, _ = fmt.Fprintf(rt.Writer(), "Authenticated. Token expires at %s\n", token.Expiry.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the cached token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			store, err := auth.NewStore(rt.TokenStorage(), rt.TokenFile())
			if err != nil {
				return err
			}
			if err := store.Delete(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(rt.Writer(), "Logged out")
			return nil
		},
	}
}

// tokenEmail extracts the email claim from an ID token without verifying the
// signature. The token came straight from Google over TLS; this is display
// information, not an authorization decision.
func tokenEmail(idToken string) string {
	if idToken == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok {
		return email
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
