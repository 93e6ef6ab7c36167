// Package deck holds the 78-card tarot deck and the deterministic daily draw.
package deck

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"fatefi-backend/internal/features/tarot/models"
)

// Card describes one deck entry.
type Card struct {
	Name     string   `json:"name"`
	Arcana   string   `json:"arcana"`
	Suit     string   `json:"suit,omitempty"`
	Number   int      `json:"number"`
	Keywords []string `json:"keywords"`
}

var majorArcana = []Card{
	{Name: "The Fool", Arcana: "major", Number: 0, Keywords: []string{"beginnings", "spontaneity", "leap of faith"}},
	{Name: "The Magician", Arcana: "major", Number: 1, Keywords: []string{"manifestation", "power", "action"}},
	{Name: "The High Priestess", Arcana: "major", Number: 2, Keywords: []string{"intuition", "mystery", "inner knowledge"}},
	{Name: "The Empress", Arcana: "major", Number: 3, Keywords: []string{"abundance", "nurturing", "fertility"}},
	{Name: "The Emperor", Arcana: "major", Number: 4, Keywords: []string{"authority", "structure", "control"}},
	{Name: "The Hierophant", Arcana: "major", Number: 5, Keywords: []string{"tradition", "conformity", "institutions"}},
	{Name: "The Lovers", Arcana: "major", Number: 6, Keywords: []string{"union", "choices", "alignment"}},
	{Name: "The Chariot", Arcana: "major", Number: 7, Keywords: []string{"willpower", "victory", "determination"}},
	{Name: "Strength", Arcana: "major", Number: 8, Keywords: []string{"courage", "patience", "inner strength"}},
	{Name: "The Hermit", Arcana: "major", Number: 9, Keywords: []string{"introspection", "solitude", "guidance"}},
	{Name: "Wheel of Fortune", Arcana: "major", Number: 10, Keywords: []string{"cycles", "destiny", "turning point"}},
	{Name: "Justice", Arcana: "major", Number: 11, Keywords: []string{"fairness", "truth", "cause and effect"}},
	{Name: "The Hanged Man", Arcana: "major", Number: 12, Keywords: []string{"surrender", "new perspective", "pause"}},
	{Name: "Death", Arcana: "major", Number: 13, Keywords: []string{"transformation", "endings", "transition"}},
	{Name: "Temperance", Arcana: "major", Number: 14, Keywords: []string{"balance", "moderation", "patience"}},
	{Name: "The Devil", Arcana: "major", Number: 15, Keywords: []string{"bondage", "materialism", "shadow self"}},
	{Name: "The Tower", Arcana: "major", Number: 16, Keywords: []string{"upheaval", "chaos", "sudden change"}},
	{Name: "The Star", Arcana: "major", Number: 17, Keywords: []string{"hope", "inspiration", "renewal"}},
	{Name: "The Moon", Arcana: "major", Number: 18, Keywords: []string{"illusion", "fear", "subconscious"}},
	{Name: "The Sun", Arcana: "major", Number: 19, Keywords: []string{"joy", "success", "vitality"}},
	{Name: "Judgement", Arcana: "major", Number: 20, Keywords: []string{"rebirth", "reflection", "reckoning"}},
	{Name: "The World", Arcana: "major", Number: 21, Keywords: []string{"completion", "integration", "accomplishment"}},
}

var suits = []string{"wands", "cups", "swords", "pentacles"}

var courtRanks = []string{"Page", "Knight", "Queen", "King"}

var suitKeywords = map[string][]string{
	"wands":     {"passion", "energy", "inspiration"},
	"cups":      {"emotions", "intuition", "relationships"},
	"swords":    {"intellect", "conflict", "truth"},
	"pentacles": {"wealth", "material", "prosperity"},
}

// FullDeck is the fixed, ordered 78-card deck: 22 major arcana followed by
// the four suits built from the same templates every time.
var FullDeck = buildDeck()

func buildDeck() []Card {
	cards := make([]Card, 0, 78)
	cards = append(cards, majorArcana...)
	for _, suit := range suits {
		title := strings.ToUpper(suit[:1]) + suit[1:]
		for n := 1; n <= 10; n++ {
			name := fmt.Sprintf("%d of %s", n, title)
			if n == 1 {
				name = fmt.Sprintf("Ace of %s", title)
			}
			cards = append(cards, Card{Name: name, Arcana: "minor", Suit: suit, Number: n, Keywords: suitKeywords[suit]})
		}
		for i, rank := range courtRanks {
			cards = append(cards, Card{
				Name:     fmt.Sprintf("%s of %s", rank, title),
				Arcana:   "minor",
				Suit:     suit,
				Number:   11 + i,
				Keywords: suitKeywords[suit],
			})
		}
	}
	return cards
}

// fnv1a maps a string to a 32-bit unsigned integer, used as a deterministic
// seed for the daily draw.
func fnv1a(s string) uint32 {
	hash := uint32(0x811c9dc5)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 0x01000193
	}
	return hash
}

// DrawForDate draws the card for a given date string. The same date always
// produces the same card and orientation, across restarts and replicas.
func DrawForDate(date string) (Card, string) {
	seed := fnv1a("fatefi-daily-" + date)
	card := FullDeck[seed%uint32(len(FullDeck))]
	orientation := models.OrientationUpright
	if (seed>>16)%2 == 1 {
		orientation = models.OrientationReversed
	}
	return card, orientation
}

// DrawRandom draws a card with cryptographic randomness. Never used for the
// daily draw: it would break the one-card-per-day guarantee.
func DrawRandom() (Card, string) {
	index, err := rand.Int(rand.Reader, big.NewInt(int64(len(FullDeck))))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; fall back to
		// the first card rather than crash an ad-hoc path.
		return FullDeck[0], models.OrientationUpright
	}
	flip, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return FullDeck[index.Int64()], models.OrientationUpright
	}
	orientation := models.OrientationUpright
	if flip.Int64() == 1 {
		orientation = models.OrientationReversed
	}
	return FullDeck[index.Int64()], orientation
}
