// Package cmd implements the cobra command tree for the ytgenre CLI,
// including the memo-generating root command and subcommands for
// authentication, version information, and shell completion.
package cmd
