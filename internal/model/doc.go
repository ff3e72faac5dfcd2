// Package model defines the record types the scraping engine produces:
// leagues, teams, games and players. All types are plain values created
// fresh on every scan; nothing in this package owns long-lived state.
package model
