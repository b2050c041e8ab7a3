package services

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"country-gdp-service/backend/models"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Summary image geometry
const (
	SummaryWidth  = 1200
	SummaryHeight = 630
	SummaryTopN   = 5
)

var (
	summaryBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	summaryInk        = color.RGBA{0x11, 0x18, 0x27, 0xff}
)

// Summary is the input of one summary image render
type Summary struct {
	Total       int64
	Top         []models.Country
	RefreshedAt time.Time
}

// SummaryRenderer produces the summary artifact
type SummaryRenderer interface {
	Render(summary Summary) error
}

// PNGRenderer draws the summary as a PNG file on disk
type PNGRenderer struct {
	path    string
	bold    *opentype.Font
	regular *opentype.Font
}

func NewPNGRenderer(path string) (*PNGRenderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	return &PNGRenderer{path: path, bold: bold, regular: regular}, nil
}

// Path is where the image is written
func (r *PNGRenderer) Path() string {
	return r.path
}

func (r *PNGRenderer) Render(summary Summary) error {
	// Faces hold glyph caches and are not shared between renders
	title, err := newFace(r.bold, 36)
	if err != nil {
		return err
	}
	defer title.Close()
	body, err := newFace(r.regular, 24)
	if err != nil {
		return err
	}
	defer body.Close()
	heading, err := newFace(r.regular, 22)
	if err != nil {
		return err
	}
	defer heading.Close()
	row, err := newFace(r.regular, 18)
	if err != nil {
		return err
	}
	defer row.Close()

	img := image.NewRGBA(image.Rect(0, 0, SummaryWidth, SummaryHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(summaryBackground), image.Point{}, draw.Src)

	drawText(img, title, 40, 60, "Countries Summary")
	drawText(img, body, 40, 110, fmt.Sprintf("Total countries: %d", summary.Total))
	drawText(img, body, 40, 145, "Last refreshed: "+summary.RefreshedAt.UTC().Format(time.RFC3339))
	drawText(img, heading, 40, 200, fmt.Sprintf("Top %d by estimated GDP", SummaryTopN))

	y := 240
	for i, c := range summary.Top {
		if i == SummaryTopN {
			break
		}
		drawText(img, row, 60, y, fmt.Sprintf("%d. %s - %s", i+1, c.Name, FormatGDP(c)))
		y += 34
	}

	return writePNG(r.path, img)
}

// FormatGDP renders an estimate with thousands separators and at most 2 decimals
func FormatGDP(c models.Country) string {
	if !c.EstimatedGDP.Valid {
		return "n/a"
	}
	return humanize.CommafWithDigits(c.EstimatedGDP.Decimal.InexactFloat64(), 2)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.0fpt face: %w", size, err)
	}
	return face, nil
}

func drawText(dst draw.Image, face font.Face, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(summaryInk),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// writePNG replaces path atomically so readers never see a partial image
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}
