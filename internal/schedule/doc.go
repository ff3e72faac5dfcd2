// Package schedule resolves a league's completed-game schedule, restricted to
// the fixtures where the team of interest is the away side.
//
// Two strategies exist and are not interchangeable: the paginated HTML
// schedule view (the only source for the live season) and the portal's legacy
// spreadsheet export (preferred for archived seasons, where it is complete).
// The caller picks the strategy; the resolver never falls back silently from
// one to the other, because partial results from the wrong source must not be
// mistaken for complete results. Both strategies emit the same Game shape,
// apply the same away-team filter and sort ascending by tip-off.
package schedule
