package schedule

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/model"
)

// exportPath is the portal's legacy spreadsheet export servlet. The session
// key is a fixed view identifier, not a credential.
const (
	exportPath       = "/servlet/sport.dbb.export.ExcelExportErgebnissePublic"
	exportSessionKey = "sport.dbb.liga.archiv.ArchivErgebnisseView/index.jsp_"
)

// exportCols is the fixed column layout of the export: match day, game
// number, date, home team, away team, final score. Column order is the
// schema; there is no header-name guarantee. Reordering upstream is only
// caught by the date tripwire in Report.SchemaSuspect.
const exportCols = 6

// FromExport downloads the league's spreadsheet export and returns the away
// games of awayTeam, sorted by tip-off. The export is the preferred source
// for archived seasons, where the HTML view can be incomplete.
func (r *Resolver) FromExport(ctx context.Context, league model.League, awayTeam string) ([]model.Game, Report, error) {
	awayTeam = strings.TrimSpace(awayTeam)
	if awayTeam == "" {
		return nil, Report{}, fmt.Errorf("team name filter must not be empty")
	}

	exportURL := fmt.Sprintf("%s%s?liga_id=%s&saison_id=%s&sessionkey=%s",
		r.baseURL, exportPath,
		url.QueryEscape(league.ID), url.QueryEscape(league.SeasonID),
		url.QueryEscape(exportSessionKey))

	data, err := r.fetch.Bytes(ctx, exportURL)
	if err != nil {
		return nil, Report{}, fmt.Errorf("downloading export: %w", err)
	}

	rows, err := readExportRows(data)
	if err != nil {
		return nil, Report{}, fmt.Errorf("reading export for league %s: %w", league.ID, err)
	}

	games, report := decodeExportRows(rows, league, awayTeam)
	sortByTipoff(games)

	logger.Info("schedule resolved from export", logger.Fields{
		"liga_id":      league.ID,
		"games":        len(games),
		"rows":         len(rows),
		"dropped_rows": report.DroppedRows,
	})
	return games, report, nil
}

// readExportRows extracts the first sheet as raw string records.
func readExportRows(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		record := make([]string, exportCols)
		for j := 0; j < exportCols; j++ {
			record[j] = strings.TrimSpace(row.Col(j))
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// decodeExportRows applies the export's skip and coercion rules. Rows are
// skipped when match day or game number is missing, or when the match day
// carries the provisional marker. Single malformed rows are dropped and
// counted; they never abort the decode.
func decodeExportRows(rows [][]string, league model.League, awayTeam string) ([]model.Game, Report) {
	var games []model.Game
	var report Report
	needle := strings.ToLower(awayTeam)
	dateSeen := false

	for _, record := range rows {
		if len(record) < exportCols {
			continue
		}
		dayText, numberText := record[0], record[1]

		// A trailing marker on the match day means the row is provisional.
		if dayText == "" || numberText == "" || strings.HasSuffix(dayText, "*") {
			continue
		}

		day, dayOK := coerceInt(dayText)
		number, numberOK := coerceInt(numberText)
		if !dayOK || !numberOK {
			report.DroppedRows++
			continue
		}

		tipoff := model.ParseGameTime(record[2])
		if !tipoff.IsZero() {
			dateSeen = true
		}

		home := cleanTeamName(record[3])
		away := cleanTeamName(record[4])
		if !strings.Contains(strings.ToLower(away), needle) {
			continue
		}
		if tipoff.IsZero() {
			report.DroppedRows++
			logger.Incr("schedule.dropped_rows")
			continue
		}

		games = append(games, model.Game{
			LeagueID: league.ID,
			Day:      day,
			Number:   number,
			Tipoff:   tipoff,
			HomeTeam: home,
			AwayTeam: away,
			Score:    record[5],
		})
	}

	if len(rows) > 0 && !dateSeen {
		report.SchemaSuspect = true
		logger.Warn("no export row carried a parseable date", logger.Fields{
			"liga_id": league.ID,
			"rows":    len(rows),
		})
	}
	return games, report
}

// coerceInt parses a numeric export field that may arrive as a float with a
// trailing marker, e.g. "7.0*" -> 7.
func coerceInt(s string) (int, bool) {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "*")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// cleanTeamName strips whitespace and the portal's trailing markers from a
// team name before comparison.
func cleanTeamName(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "*")
}
