// Package reconcile matches scraped player names against an uploaded club
// roster to recover birthdates.
//
// The two sources are maintained independently and disagree on formatting:
// the portal may truncate or reorder given names, and redacts some surnames
// entirely. Matching runs a fixed, ordered list of strategies (exact name,
// first given-name token, composite token containment) and the first hit
// wins. A miss is a normal outcome reported as data, never an error: not
// every scraped player appears in the uploaded roster.
package reconcile
