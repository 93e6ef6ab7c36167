// Package oracle generates the daily card interpretation through an
// OpenAI-compatible chat-completions endpoint (OpenClaw), with static
// fallbacks when the service is unreachable or returns junk.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/features/tarot/models"
)

const requestTimeout = 15 * time.Second

// Interpretation is the narrative payload attached to a draw.
type Interpretation struct {
	Prediction     string `json:"prediction"`
	Narrative      string `json:"narrative"`
	ConfidenceTone string `json:"confidence_tone"`
	Disclaimer     string `json:"disclaimer"`
	MarketMood     string `json:"market_mood,omitempty"`
	KeyLevels      string `json:"key_levels,omitempty"`
	CosmicTip      string `json:"cosmic_tip,omitempty"`
}

var fallbackInterpretations = map[string]Interpretation{
	models.OrientationUpright: {
		Prediction:     "The cosmic energies suggest a rising tide — an upward momentum building beneath the surface of the markets.",
		Narrative:      "The card drawn upright channels pure ascending energy. Like a bullish candle breaking through resistance, the universe hints at gains for those bold enough to ride the wave. The stars whisper of green charts and diamond hands prevailing.",
		ConfidenceTone: "Mystically Bullish 🔮📈",
		Disclaimer:     "⚠️ This is entertainment only. Not financial advice. Always DYOR.",
	},
	models.OrientationReversed: {
		Prediction:     "Reversed energies signal turbulence ahead — the market spirits are restless and unpredictable.",
		Narrative:      "When the card falls reversed, it speaks of bearish undercurrents and hidden volatility. Like a rug pull foretold in the stars, caution is the arcana's counsel. The moon casts long shadows on tonight's charts.",
		ConfidenceTone: "Cosmically Cautious 🌙📉",
		Disclaimer:     "⚠️ This is entertainment only. Not financial advice. Always DYOR.",
	},
}

type Client struct {
	httpClient *http.Client
	url        string
	token      string
}

func NewClient(url, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		url:        url,
		token:      token,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are FateFi's mystical AI oracle. You generate symbolic tarot interpretations framed as entertainment market predictions. Your tone is dramatic, mystical, and engaging — like a crypto-native fortune teller. Always include a disclaimer that this is entertainment only and not financial advice. Respond in valid JSON format with these exact keys: prediction, narrative, confidence_tone, disclaimer."

// Interpret asks the oracle for an interpretation of the card. It never
// returns an error: any failure falls back to the static payload for the
// orientation.
func (c *Client) Interpret(ctx context.Context, cardName, orientation string) Interpretation {
	interpretation, err := c.fetch(ctx, cardName, orientation)
	if err != nil {
		logger.Warn().Err(err).Str("card", cardName).Msg("Oracle unavailable, using fallback interpretation")
		if fallback, ok := fallbackInterpretations[orientation]; ok {
			return fallback
		}
		return fallbackInterpretations[models.OrientationUpright]
	}
	return interpretation
}

func (c *Client) fetch(ctx context.Context, cardName, orientation string) (Interpretation, error) {
	payload := chatRequest{
		Model: "default",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(cardName, orientation)},
		},
		Temperature: 0.9,
		MaxTokens:   500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Interpretation{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Interpretation{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Interpretation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Interpretation{}, fmt.Errorf("oracle returned %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Interpretation{}, fmt.Errorf("oracle decode: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Interpretation{}, fmt.Errorf("oracle returned no choices")
	}

	return parseInterpretation(chat.Choices[0].Message.Content)
}

// parseInterpretation decodes the model output strictly: the content must be
// a JSON object whose required fields are all non-empty strings. Anything
// else goes to the fallback path instead of into the data model.
func parseInterpretation(content string) (Interpretation, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var interpretation Interpretation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &interpretation); err != nil {
		return Interpretation{}, fmt.Errorf("oracle content is not valid JSON: %w", err)
	}

	if interpretation.Prediction == "" || interpretation.Narrative == "" ||
		interpretation.ConfidenceTone == "" || interpretation.Disclaimer == "" {
		return Interpretation{}, fmt.Errorf("oracle content missing required fields")
	}

	return interpretation, nil
}

func buildPrompt(cardName, orientation string) string {
	return fmt.Sprintf(`Card: %s
Orientation: %s

Generate a mystical, engaging tarot interpretation framed as an entertainment market prediction.
Be dramatic and fun — like a degen crypto oracle channeling ancient wisdom.
Include references to crypto culture (diamond hands, rug pulls, moon, pump, etc.) where fitting.
Respond as valid JSON with keys: prediction, narrative, confidence_tone, disclaimer.`, cardName, orientation)
}
