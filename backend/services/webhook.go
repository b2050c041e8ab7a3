package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"country-gdp-service/backend/models"
	"country-gdp-service/backend/system"

	"github.com/dustin/go-humanize"
)

// WebhookService posts refresh summaries to a Discord webhook
type WebhookService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// DiscordEmbed represents a Discord embed object
type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

// DiscordEmbedField represents a field in a Discord embed
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// DiscordEmbedFooter represents a footer in a Discord embed
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordWebhookPayload represents a Discord webhook message
type DiscordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Content  string         `json:"content,omitempty"`
	Embeds   []DiscordEmbed `json:"embeds,omitempty"`
}

// Embed colors
const (
	ColorRed   = 0xFF0000 // Source down
	ColorGreen = 0x00FF00 // Success
)

// NewWebhookService creates a new WebhookService
func NewWebhookService() *WebhookService {
	return &WebhookService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetWebhookURL sets the Discord webhook URL
func (w *WebhookService) SetWebhookURL(url string) {
	w.webhookURL = url
	w.enabled = url != ""
}

// IsEnabled returns whether the webhook is enabled
func (w *WebhookService) IsEnabled() bool {
	return w.enabled && w.webhookURL != ""
}

// SendRefreshSummary reports a finished refresh with its top estimates
func (w *WebhookService) SendRefreshSummary(result *models.RefreshResult, top []models.Country) error {
	if !w.IsEnabled() {
		return nil
	}

	fields := []DiscordEmbedField{
		{Name: "Countries", Value: humanize.Comma(int64(result.TotalCountries)), Inline: true},
		{Name: "Refreshed At", Value: result.LastRefreshedAt.Format(time.RFC3339), Inline: true},
	}
	if len(top) > 0 {
		var lines []string
		for i, c := range top {
			lines = append(lines, fmt.Sprintf("%d. **%s** `%s`", i+1, c.Name, FormatGDP(c)))
		}
		fields = append(fields, DiscordEmbedField{Name: "Top by estimated GDP", Value: strings.Join(lines, "\n")})
	}

	embed := DiscordEmbed{
		Title:       "🌍 Countries Refreshed",
		Description: result.Message,
		Color:       ColorGreen,
		Fields:      fields,
		Footer: &DiscordEmbedFooter{
			Text: "Country GDP Service",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return w.sendEmbed(embed)
}

// SendSystemAlert sends a generic system alert
func (w *WebhookService) SendSystemAlert(title, message string, color int) error {
	if !w.IsEnabled() {
		return nil
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: message,
		Color:       color,
		Footer: &DiscordEmbedFooter{
			Text: "Country GDP Service",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return w.sendEmbed(embed)
}

// sendEmbed sends a Discord embed message
func (w *WebhookService) sendEmbed(embed DiscordEmbed) error {
	payload := DiscordWebhookPayload{
		Username: "Country GDP",
		Embeds:   []DiscordEmbed{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}

	system.Info("Discord webhook sent successfully")
	return nil
}
