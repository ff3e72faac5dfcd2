// Package storage persists scan results as JSON files in a data directory.
//
// The scraping engine itself is stateless; storage only serves the CLI, so
// a finished scan can be reconciled against a roster later and so new games
// can be reported between runs.
package storage
