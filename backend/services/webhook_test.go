package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"country-gdp-service/backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookDisabledByDefault(t *testing.T) {
	w := NewWebhookService()
	assert.False(t, w.IsEnabled())
	assert.NoError(t, w.SendRefreshSummary(&models.RefreshResult{}, nil))

	w.SetWebhookURL("")
	assert.False(t, w.IsEnabled())
}

func TestWebhookSendsRefreshSummary(t *testing.T) {
	var got DiscordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhookService()
	w.SetWebhookURL(srv.URL)
	require.True(t, w.IsEnabled())

	result := &models.RefreshResult{
		Message:         "Refresh completed",
		TotalCountries:  250,
		LastRefreshedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	top := []models.Country{
		{Name: "Ghana", EstimatedGDP: decimal.NewNullDecimal(decimal.RequireFromString("3038416.5"))},
		{Name: "Nigeria", EstimatedGDP: decimal.NewNullDecimal(decimal.NewFromInt(1200))},
	}

	require.NoError(t, w.SendRefreshSummary(result, top))

	assert.Equal(t, "Country GDP", got.Username)
	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]
	assert.Equal(t, "Refresh completed", embed.Description)
	assert.Equal(t, ColorGreen, embed.Color)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "250", embed.Fields[0].Value)
	assert.Equal(t, "2026-03-01T12:00:00Z", embed.Fields[1].Value)
	assert.Equal(t, "1. **Ghana** `3,038,416.5`\n2. **Nigeria** `1,200`", embed.Fields[2].Value)
}

func TestWebhookReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	w := NewWebhookService()
	w.SetWebhookURL(srv.URL)

	err := w.SendRefreshSummary(&models.RefreshResult{Message: "Refresh completed"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
