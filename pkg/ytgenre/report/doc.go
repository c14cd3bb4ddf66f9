// Package report groups classified channels by genre and renders the
// Markdown memo.
package report
