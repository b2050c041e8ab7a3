package services

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"country-gdp-service/backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGRendererWritesSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "nested", "summary.png")
	r, err := NewPNGRenderer(path)
	require.NoError(t, err)
	assert.Equal(t, path, r.Path())

	top := make([]models.Country, 0, 7)
	for i := 0; i < 7; i++ {
		top = append(top, models.Country{
			Name:         "Country",
			EstimatedGDP: decimal.NewNullDecimal(decimal.NewFromInt(int64(1000 * (7 - i)))),
		})
	}

	err = r.Render(Summary{Total: 250, Top: top, RefreshedAt: time.Now()})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, SummaryWidth, img.Bounds().Dx())
	assert.Equal(t, SummaryHeight, img.Bounds().Dy())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".summary-*.png"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPNGRendererOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.png")
	r, err := NewPNGRenderer(path)
	require.NoError(t, err)

	require.NoError(t, r.Render(Summary{RefreshedAt: time.Now()}))
	require.NoError(t, r.Render(Summary{Total: 1, RefreshedAt: time.Now()}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPNGRendererFailsOnUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	r, err := NewPNGRenderer(filepath.Join(blocker, "summary.png"))
	require.NoError(t, err)

	assert.Error(t, r.Render(Summary{RefreshedAt: time.Now()}))
}

func TestFormatGDP(t *testing.T) {
	tests := []struct {
		name string
		gdp  decimal.NullDecimal
		want string
	}{
		{name: "null", gdp: decimal.NullDecimal{}, want: "n/a"},
		{name: "zero", gdp: decimal.NewNullDecimal(decimal.Zero), want: "0"},
		{name: "grouped", gdp: decimal.NewNullDecimal(decimal.RequireFromString("1234567.891")), want: "1,234,567.89"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatGDP(models.Country{EstimatedGDP: tc.gdp}))
		})
	}
}
