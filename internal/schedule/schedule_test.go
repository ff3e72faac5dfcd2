package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/mhartmann/auswaerts/internal/fetch"
	"github.com/mhartmann/auswaerts/internal/model"
	"github.com/mhartmann/auswaerts/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFixture(t *testing.T, w http.ResponseWriter, name string) {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Write(data)
}

func newResolver(srv *httptest.Server) *Resolver {
	f := fetch.New(fetch.WithBaseDelay(0), fetch.WithMaxAttempts(2))
	return NewResolver(f, WithBaseURL(srv.URL))
}

var testLeague = model.League{ID: "47900", SeasonID: "2023", Name: "Bezirksliga A"}

func TestFromHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "108", r.URL.Query().Get("Action"))
		if r.URL.Query().Get("startrow") == "10" {
			serveFixture(t, w, "schedule_page2.html")
		} else {
			serveFixture(t, w, "schedule_page1.html")
		}
	}))
	defer srv.Close()

	games, report, err := newResolver(srv).FromHTML(
		context.Background(), testLeague, "TV Heppenheim", pagination.Walker{})
	require.NoError(t, err)

	// Game 12 appears on both pages: exactly one entry survives. Game 13 is
	// struck (cancelled), game 15 has no parseable date.
	require.Len(t, games, 2)
	assert.Equal(t, 12, games[0].Number)
	assert.Equal(t, 14, games[1].Number)
	assert.True(t, games[0].Tipoff.Before(games[1].Tipoff), "games must sort by tip-off")

	assert.Equal(t, "771012", games[0].DetailID, "detail id from the result link")
	assert.Equal(t, "", games[1].DetailID, "unplayed game has no result link")

	assert.Equal(t, 1, report.DroppedRows)
	assert.False(t, report.Truncated)
	assert.Zero(t, report.DriftPages)

	for _, g := range games {
		assert.Equal(t, "47900", g.LeagueID)
		assert.Contains(t, g.AwayTeam, "Heppenheim")
	}
}

func TestFromHTMLDrift(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveFixture(t, w, "no_table.html")
	}))
	defer srv.Close()

	games, report, err := newResolver(srv).FromHTML(
		context.Background(), testLeague, "TV Heppenheim", pagination.Walker{})
	require.NoError(t, err, "drift must degrade, not fail")
	assert.Empty(t, games)
	assert.Equal(t, 1, report.DriftPages)
}

func TestFromHTMLRejectsEmptyFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, _, err := newResolver(srv).FromHTML(
		context.Background(), testLeague, "   ", pagination.Walker{})
	require.Error(t, err)
}

func TestFromHTMLCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		serveFixture(t, w, "schedule_page1.html")
	}))
	defer srv.Close()

	_, _, err := newResolver(srv).FromHTML(
		ctx, testLeague, "TV Heppenheim", pagination.Walker{Delay: time.Minute})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGuestPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "771012", r.URL.Query().Get("spielplan_id"))
		serveFixture(t, w, "game_detail.html")
	}))
	defer srv.Close()

	players, ok, err := newResolver(srv).GuestPlayers(context.Background(), "771012", "47900")
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, players, 3)
	assert.Equal(t, "Müller", players[0].Lastname)
	assert.Equal(t, "Anna", players[0].Firstname)
	assert.False(t, players[0].Redacted)

	assert.Equal(t, "Lena Marie", players[1].Firstname)

	assert.Equal(t, "W*ber", players[2].Lastname)
	assert.True(t, players[2].Redacted, "masked lastname must set the redaction flag")
}

func TestGuestPlayersDrift(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveFixture(t, w, "no_table.html")
	}))
	defer srv.Close()

	players, ok, err := newResolver(srv).GuestPlayers(context.Background(), "771012", "47900")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, players)
}
