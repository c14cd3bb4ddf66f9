// Package auth manages OAuth authentication against Google for the ytgenre
// CLI, supporting a browser-based authorization-code flow and a console
// device-code flow, with token caching via file or keyring storage and
// transparent refresh of expiring tokens.
package auth
