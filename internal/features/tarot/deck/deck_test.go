package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatefi-backend/internal/features/tarot/models"
)

func TestDeckHas78UniqueCards(t *testing.T) {
	require.Len(t, FullDeck, 78)

	seen := make(map[string]bool, len(FullDeck))
	major, minor := 0, 0
	for _, card := range FullDeck {
		assert.False(t, seen[card.Name], "duplicate card %q", card.Name)
		seen[card.Name] = true
		switch card.Arcana {
		case "major":
			major++
		case "minor":
			minor++
		}
	}
	assert.Equal(t, 22, major)
	assert.Equal(t, 56, minor)
}

func TestDrawForDateIsDeterministic(t *testing.T) {
	dates := []string{"2024-01-01", "2024-06-15", "2025-12-31"}
	for _, date := range dates {
		card1, orientation1 := DrawForDate(date)
		card2, orientation2 := DrawForDate(date)
		assert.Equal(t, card1.Name, card2.Name, "card for %s must be stable", date)
		assert.Equal(t, orientation1, orientation2, "orientation for %s must be stable", date)
	}
}

func TestDrawForDateDiffersAcrossDates(t *testing.T) {
	// Not guaranteed in general, but these dates hash to different cards and
	// pin the generator against accidental constant output.
	cardA, _ := DrawForDate("2024-01-01")
	cardB, _ := DrawForDate("2024-01-02")
	cardC, _ := DrawForDate("2024-01-03")
	distinct := map[string]bool{cardA.Name: true, cardB.Name: true, cardC.Name: true}
	assert.Greater(t, len(distinct), 1)
}

func TestDrawForDateMatchesSeedBits(t *testing.T) {
	date := "2024-01-01"
	seed := fnv1a("fatefi-daily-" + date)

	card, orientation := DrawForDate(date)
	assert.Equal(t, FullDeck[seed%78].Name, card.Name)
	if (seed>>16)%2 == 0 {
		assert.Equal(t, models.OrientationUpright, orientation)
	} else {
		assert.Equal(t, models.OrientationReversed, orientation)
	}
}

func TestDrawRandomReturnsValidCard(t *testing.T) {
	names := make(map[string]bool, len(FullDeck))
	for _, card := range FullDeck {
		names[card.Name] = true
	}

	for i := 0; i < 20; i++ {
		card, orientation := DrawRandom()
		assert.True(t, names[card.Name])
		assert.Contains(t, []string{models.OrientationUpright, models.OrientationReversed}, orientation)
	}
}
