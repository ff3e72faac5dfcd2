package schedule

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mhartmann/auswaerts/internal/logger"
	"github.com/mhartmann/auswaerts/internal/model"
)

// guestStatsForm is the result-detail form holding the away team's roster.
const guestStatsForm = `form[name="spielerstatistikgast"]`

// GuestPlayers fetches the away-team roster from a game's result-detail
// page. The detail id comes from the schedule row's result link (Game.
// DetailID). A missing roster form is structural drift: an empty result and
// false, not an error.
func (r *Resolver) GuestPlayers(ctx context.Context, detailID, ligaID string) ([]model.Player, bool, error) {
	pageURL := fmt.Sprintf("%s/public/ergebnisDetails.jsp?type=1&spielplan_id=%s&liga_id=%s&defaultview=1",
		r.baseURL, url.QueryEscape(detailID), url.QueryEscape(ligaID))

	doc, err := r.fetch.Document(ctx, pageURL)
	if err != nil {
		return nil, false, fmt.Errorf("fetching result detail: %w", err)
	}

	form := doc.Find(guestStatsForm)
	if form.Length() == 0 {
		logger.Warn("guest roster form not found", logger.Fields{
			"spielplan_id": detailID,
			"liga_id":      ligaID,
		})
		return nil, false, nil
	}

	var players []model.Player
	form.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td.sportItemEven, td.sportItemOdd")
		if cells.Length() < 2 {
			return
		}
		lastname := strings.TrimSpace(cells.Eq(0).Text())
		firstname := strings.TrimSpace(cells.Eq(1).Text())

		// The portal repeats the column captions inside body rows.
		if lastname == "" || firstname == "" || lastname == "Nachname" || firstname == "Vorname" {
			return
		}
		players = append(players, model.NewPlayer(lastname, firstname))
	})

	return players, true, nil
}
