// Package cli implements the auswaerts command line interface: scanning the
// league directory, locating a team's away games, and reconciling scraped
// player names against a club roster. The CLI is the thin collaborator on
// top of the scraping engine; all scraping behavior lives in the internal
// engine packages.
package cli
