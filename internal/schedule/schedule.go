package schedule

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mhartmann/auswaerts/internal/fetch"
	"github.com/mhartmann/auswaerts/internal/htmltable"
	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/model"
	"github.com/mhartmann/auswaerts/internal/pagination"
)

// Schedule row shape: match day, game number, date, home, away, score.
const (
	colDay = iota
	colNumber
	colDate
	colHome
	colAway
	colScore
	gameCols
)

// Report counts the degradations of one schedule resolution.
type Report struct {
	DroppedRows int  `json:"dropped_rows"`
	DriftPages  int  `json:"drift_pages"`
	Truncated   bool `json:"truncated"`
	// SchemaSuspect is the export tripwire: set when the export returned
	// rows but not one of them carried a parseable date, which is what a
	// silent upstream column reorder looks like.
	SchemaSuspect bool `json:"schema_suspect,omitempty"`
}

// Resolver fetches and decodes schedules through the shared retrying fetcher.
type Resolver struct {
	baseURL string
	fetch   *fetch.Client
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBaseURL points the resolver at a different portal root, used by tests.
func WithBaseURL(u string) Option {
	return func(r *Resolver) { r.baseURL = strings.TrimRight(u, "/") }
}

// NewResolver creates a schedule resolver.
func NewResolver(f *fetch.Client, opts ...Option) *Resolver {
	r := &Resolver{baseURL: "https://www.basketball-bund.net", fetch: f}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromHTML walks the paginated schedule view and returns the away games of
// awayTeam, deduplicated by game number and sorted by tip-off. A game can
// legitimately reappear across paginated windows; the first occurrence wins.
func (r *Resolver) FromHTML(ctx context.Context, league model.League, awayTeam string, walker pagination.Walker) ([]model.Game, Report, error) {
	awayTeam = strings.TrimSpace(awayTeam)
	if awayTeam == "" {
		return nil, Report{}, fmt.Errorf("team name filter must not be empty")
	}
	needle := strings.ToLower(awayTeam)

	var games []model.Game
	var report Report
	seen := make(map[int]bool)

	fetchPage := func(ctx context.Context, offset int) (*goquery.Document, error) {
		pageURL := fmt.Sprintf("%s/index.jsp?Action=108&liga_id=%s&saison_id=%s&defaultview=1",
			r.baseURL, url.QueryEscape(league.ID), url.QueryEscape(league.SeasonID))
		if offset > 0 {
			pageURL += fmt.Sprintf("&startrow=%d", offset)
		}
		return r.fetch.Document(ctx, pageURL)
	}

	visit := func(doc *goquery.Document, offset int) error {
		table, ok := htmltable.Find(doc, "Datum")
		if !ok {
			logger.Warn("schedule table not found, skipping page", logger.Fields{
				"liga_id": league.ID,
				"offset":  offset,
			})
			report.DriftPages++
			return nil
		}

		for _, row := range table.Rows(gameCols) {
			// Struck rows are cancelled games.
			if row.Struck(colDay) {
				continue
			}
			number, ok := coerceInt(row.Text(colNumber))
			if !ok || seen[number] {
				if !ok {
					report.DroppedRows++
				}
				continue
			}
			if !strings.Contains(strings.ToLower(row.Text(colAway)), needle) {
				continue
			}

			game, ok := decodeRow(league, row, number)
			if !ok {
				report.DroppedRows++
				logger.Incr("schedule.dropped_rows")
				continue
			}
			seen[number] = true
			games = append(games, game)
		}
		return nil
	}

	res, err := walker.Walk(ctx, fetchPage, visit)
	if err != nil {
		return nil, report, fmt.Errorf("walking schedule of league %s: %w", league.ID, err)
	}
	report.Truncated = res.Truncated

	sortByTipoff(games)
	logger.Info("schedule resolved from HTML", logger.Fields{
		"liga_id": league.ID,
		"games":   len(games),
		"pages":   res.Pages,
	})
	return games, report, nil
}

func decodeRow(league model.League, row htmltable.Row, number int) (model.Game, bool) {
	tipoff := model.ParseGameTime(row.Text(colDate))
	if tipoff.IsZero() {
		return model.Game{}, false
	}
	day, _ := coerceInt(row.Text(colDay))

	game := model.Game{
		LeagueID: league.ID,
		Day:      day,
		Number:   number,
		Tipoff:   tipoff,
		HomeTeam: row.Text(colHome),
		AwayTeam: row.Text(colAway),
		Score:    row.Text(colScore),
	}
	if id, ok := row.HrefParam(colScore, "spielplan_id=", "spielplan_id"); ok {
		game.DetailID = id
	}
	return game, true
}

func sortByTipoff(games []model.Game) {
	sort.Slice(games, func(i, j int) bool {
		return games[i].Tipoff.Before(games[j].Tipoff)
	})
}
