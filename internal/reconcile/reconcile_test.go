package reconcile

import (
	"testing"

	"github.com/mhartmann/auswaerts/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *Index {
	return BuildIndex([]Entry{
		{Lastname: "Müller", Firstname: "Anna Maria", Birthdate: "01.01.2000"},
		{Lastname: "Müller", Firstname: "Katharina", Birthdate: "15.06.2001"},
		{Lastname: "Schmidt", Firstname: "Lena", Birthdate: "23.11.1999"},
	})
}

func TestResolveExact(t *testing.T) {
	ix := testIndex()

	birthdate, match := ix.Resolve(model.Player{Lastname: "Müller", Firstname: "Anna Maria"})
	assert.Equal(t, MatchExact, match)
	assert.Equal(t, "01.01.2000", birthdate)
}

func TestResolveNormalization(t *testing.T) {
	ix := testIndex()

	// Case and internal whitespace must not matter.
	birthdate, match := ix.Resolve(model.Player{Lastname: " MÜLLER ", Firstname: "anna   maria"})
	assert.Equal(t, MatchExact, match)
	assert.Equal(t, "01.01.2000", birthdate)
}

func TestResolveFirstToken(t *testing.T) {
	ix := testIndex()

	// Scraped record carries only the call-name.
	birthdate, match := ix.Resolve(model.Player{Lastname: "Müller", Firstname: "Anna"})
	assert.Equal(t, MatchFirstToken, match)
	assert.Equal(t, "01.01.2000", birthdate)
}

func TestResolveComposite(t *testing.T) {
	ix := testIndex()

	// Tokens reordered between the two sources.
	birthdate, match := ix.Resolve(model.Player{Lastname: "Müller", Firstname: "Maria Anna"})
	assert.Equal(t, MatchComposite, match)
	assert.Equal(t, "01.01.2000", birthdate)
}

func TestResolvePriorityOrder(t *testing.T) {
	// An exact entry must win over a first-token entry for the same name.
	ix := BuildIndex([]Entry{
		{Lastname: "Becker", Firstname: "Jan Philipp", Birthdate: "02.02.2002"},
		{Lastname: "Becker", Firstname: "Jan", Birthdate: "03.03.2003"},
	})

	birthdate, match := ix.Resolve(model.Player{Lastname: "Becker", Firstname: "Jan"})
	assert.Equal(t, MatchExact, match)
	assert.Equal(t, "03.03.2003", birthdate)
}

func TestResolveRedactedSkipsLookup(t *testing.T) {
	ix := testIndex()

	birthdate, match := ix.Resolve(model.Player{Lastname: "M*ller", Firstname: "Anna", Redacted: true})
	assert.Equal(t, MatchRedacted, match)
	assert.Empty(t, birthdate, "redacted players must never be resolved")
}

func TestResolveMissIsNotAnError(t *testing.T) {
	ix := testIndex()

	birthdate, match := ix.Resolve(model.Player{Lastname: "Unbekannt", Firstname: "Nina"})
	assert.Equal(t, MatchNone, match)
	assert.Empty(t, birthdate)
}

func TestBuildIndexSkipsIncompleteRows(t *testing.T) {
	ix := BuildIndex([]Entry{
		{Lastname: "Müller", Firstname: "", Birthdate: "01.01.2000"},
		{Lastname: "", Firstname: "Anna", Birthdate: "01.01.2000"},
		{Lastname: "Schmidt", Firstname: "Lena", Birthdate: ""},
	})
	assert.Zero(t, ix.Len())
}

func TestEnrich(t *testing.T) {
	ix := testIndex()
	players := []model.Player{
		model.NewPlayer("Müller", "Anna"),
		model.NewPlayer("Schmidt", "Lena Marie"),
		model.NewPlayer("W*ber", "Tina"),
		model.NewPlayer("Unbekannt", "Nina"),
	}

	report := Enrich(players, ix)

	require.Equal(t, 2, report.Resolved)
	assert.Equal(t, 1, report.Unresolved)
	assert.Equal(t, 1, report.Redacted)

	assert.Equal(t, "01.01.2000", players[0].Birthdate)

	// "Lena Marie" against roster "Lena": first token matches.
	assert.Equal(t, "23.11.1999", players[1].Birthdate)

	assert.Equal(t, model.RedactedPlaceholder, players[2].Lastname)
	assert.Empty(t, players[2].Firstname)
	assert.Empty(t, players[2].Birthdate)

	assert.Empty(t, players[3].Birthdate)
}
