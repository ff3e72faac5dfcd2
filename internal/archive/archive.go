package archive

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mhartmann/auswaerts/internal/fetch"
	"github.com/mhartmann/auswaerts/internal/htmltable"
	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/model"
	"github.com/mhartmann/auswaerts/internal/pagination"
)

// DefaultBaseURL is the production portal root.
const DefaultBaseURL = "https://www.basketball-bund.net"

// League directory header signature. The portal renders several identical
// sportView tables per page; these tokens pick the right one.
var leagueHeaders = []string{"Klasse", "Alter", "Liganame"}

// Team table header signature.
var teamHeaders = []string{"Rang", "Name"}

// League row shape: class, age group, gender, district, county, name, action.
const (
	colClass = iota
	colAge
	colGender
	colDistrict
	colCounty
	colLeagueName
	colAction
	leagueCols
)

// ProgressFunc receives a progress signal after each processed page or
// league: the current index and the total known so far.
type ProgressFunc func(stage string, current, total int)

// Options carries the per-operation knobs that used to live in global state:
// politeness delay, page cap and the progress observer. The zero value means
// no delay, default page cap, no progress reporting.
type Options struct {
	Delay    time.Duration
	MaxPages int
	Progress ProgressFunc
}

func (o Options) progress(stage string, current, total int) {
	if o.Progress != nil {
		o.Progress(stage, current, total)
	}
}

// Report counts the degradations of one scan. The UI surfaces these counts
// instead of a single pass/fail verdict.
type Report struct {
	LeaguesScanned int  `json:"leagues_scanned"`
	DriftPages     int  `json:"drift_pages"`
	DroppedRows    int  `json:"dropped_rows"`
	FailedLeagues  int  `json:"failed_leagues"`
	Truncated      bool `json:"truncated"`
}

func (r *Report) merge(other Report) {
	r.LeaguesScanned += other.LeaguesScanned
	r.DriftPages += other.DriftPages
	r.DroppedRows += other.DroppedRows
	r.FailedLeagues += other.FailedLeagues
	r.Truncated = r.Truncated || other.Truncated
}

// Match is one league in which the searched team was found.
type Match struct {
	League     model.League `json:"league"`
	Teams      []model.Team `json:"teams"`
	FoundTeams []model.Team `json:"found_teams"`
}

// Client scrapes the archive area of the portal. The underlying fetch.Client
// carries the authenticated session owned by the login collaborator.
type Client struct {
	baseURL string
	fetch   *fetch.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different portal root, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient creates an archive client on top of the shared retrying fetcher.
func NewClient(f *fetch.Client, opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL, fetch: f}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Leagues enumerates every league of a season within one district, walking
// all directory pages. Other facets are wildcarded, matching the portal's
// archive search form.
func (c *Client) Leagues(ctx context.Context, seasonID, districtID string, opts Options) ([]model.League, Report, error) {
	var leagues []model.League
	var report Report

	listURL := c.baseURL + "/index.jsp?Action=106"

	fetchPage := func(ctx context.Context, offset int) (*goquery.Document, error) {
		form := url.Values{
			"saison_id":            {seasonID},
			"cbSpielklasseFilter":  {"0"},
			"cbAltersklasseFilter": {"-2"},
			"cbGeschlechtFilter":   {"0"},
			"cbBezirkFilter":       {districtID},
			"cbKreisFilter":        {"0"},
			"startrow":             {fmt.Sprintf("%d", offset)},
		}
		return c.fetch.PostFormDocument(ctx, listURL, form)
	}

	visit := func(doc *goquery.Document, offset int) error {
		table, ok := htmltable.Find(doc, leagueHeaders...)
		if !ok {
			logger.Warn("league table not found, skipping page", logger.Fields{
				"season": seasonID,
				"offset": offset,
			})
			report.DriftPages++
			logger.Incr("archive.drift_pages")
			return nil
		}

		for _, row := range table.Rows(leagueCols) {
			ligaID, ok := row.HrefParam(colAction, "Action=107", "liga_id")
			if !ok {
				report.DroppedRows++
				continue
			}
			leagues = append(leagues, model.League{
				ID:       ligaID,
				SeasonID: seasonID,
				Name:     row.Text(colLeagueName),
				Class:    row.Text(colClass),
				AgeGroup: row.Text(colAge),
				Gender:   row.Text(colGender),
				District: row.Text(colDistrict),
				County:   row.Text(colCounty),
			})
		}
		opts.progress("pages", offset, len(leagues))
		return nil
	}

	walker := pagination.Walker{MaxPages: opts.MaxPages, Delay: opts.Delay}
	res, err := walker.Walk(ctx, fetchPage, visit)
	if err != nil {
		return nil, report, fmt.Errorf("walking league directory: %w", err)
	}
	report.Truncated = res.Truncated
	report.LeaguesScanned = len(leagues)

	logger.Info("league directory scanned", logger.Fields{
		"season":  seasonID,
		"leagues": len(leagues),
		"pages":   res.Pages,
	})
	return leagues, report, nil
}

// Teams fetches the active roster of one league from its table view. Teams
// whose name cell is struck through have withdrawn and are excluded. The
// second return is false when the page no longer carries a team table.
func (c *Client) Teams(ctx context.Context, ligaID, seasonID string) ([]model.Team, bool, error) {
	pageURL := fmt.Sprintf("%s/index.jsp?Action=107&liga_id=%s&saison_id=%s",
		c.baseURL, url.QueryEscape(ligaID), url.QueryEscape(seasonID))

	doc, err := c.fetch.Document(ctx, pageURL)
	if err != nil {
		return nil, false, fmt.Errorf("fetching league table: %w", err)
	}

	table, ok := htmltable.Find(doc, teamHeaders...)
	if !ok {
		logger.Warn("team table not found", logger.Fields{"liga_id": ligaID})
		return nil, false, nil
	}

	var teams []model.Team
	for _, row := range table.Rows(2) {
		if row.Struck(1) {
			continue
		}
		name := row.Text(1)
		if name == "" {
			continue
		}
		teams = append(teams, model.Team{
			Name:     name,
			Rank:     row.Text(0),
			LeagueID: ligaID,
		})
	}
	return teams, true, nil
}

// FindTeamLeagues scans every league of the season and retains those whose
// roster contains the query as a case-insensitive substring of a team name.
// Team membership is not discoverable any other way, so this is O(leagues)
// sequential requests and the dominant latency cost of the pipeline.
func (c *Client) FindTeamLeagues(ctx context.Context, seasonID, districtID, teamQuery string, opts Options) ([]Match, Report, error) {
	teamQuery = strings.TrimSpace(teamQuery)
	if teamQuery == "" {
		return nil, Report{}, fmt.Errorf("team name filter must not be empty")
	}

	leagues, report, err := c.Leagues(ctx, seasonID, districtID, opts)
	if err != nil {
		return nil, report, err
	}

	needle := strings.ToLower(teamQuery)
	var matches []Match

	for i, league := range leagues {
		if err := ctx.Err(); err != nil {
			return matches, report, err
		}

		teams, ok, err := c.Teams(ctx, league.ID, seasonID)
		if err != nil {
			// One league's exhausted retries must not abort the scan.
			logger.Warn("skipping league after fetch failure", logger.Fields{
				"liga_id": league.ID,
				"name":    league.DisplayName(),
			})
			report.FailedLeagues++
			logger.Incr("archive.failed_leagues")
		} else if !ok {
			report.DriftPages++
		} else {
			var found []model.Team
			for _, team := range teams {
				if strings.Contains(strings.ToLower(team.Name), needle) {
					found = append(found, team)
				}
			}
			if len(found) > 0 {
				matches = append(matches, Match{
					League:     league,
					Teams:      teams,
					FoundTeams: found,
				})
				logger.Info("team found in league", logger.Fields{
					"liga_id": league.ID,
					"league":  league.DisplayName(),
				})
			}
		}

		opts.progress("leagues", i+1, len(leagues))

		if i < len(leagues)-1 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return matches, report, err
			}
		}
	}

	return matches, report, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
