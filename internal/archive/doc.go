// Package archive scrapes the federation portal's season archive: the
// paginated league directory and the per-league team tables.
//
// All operations take a context and an Options value (politeness delay,
// page cap, progress callback) instead of relying on process-wide state.
// Failures are isolated per league: one league's structural drift or
// exhausted-retry transport error degrades that league to an empty result
// and a counted warning, and the scan continues.
package archive
