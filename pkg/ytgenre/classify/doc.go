// Package classify derives a single genre label for each subscribed channel
// from its topic-category URLs.
package classify
