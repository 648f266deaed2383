// Package summary renders the refresh summary image
package summary

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Image dimensions
const (
	Width  = 800
	Height = 600
)

const (
	marginX  = 20
	rowStart = 220
	rowStep  = 30
)

// line is one piece of text placed on the image
type line struct {
	text string
	face font.Face
	y    int
}

// PNGRenderer draws the summary as a PNG file at a fixed path
type PNGRenderer struct {
	path   string
	logger logger.Logger

	mu      sync.Mutex
	title   font.Face
	heading font.Face
	body    font.Face
	row     font.Face
}

// NewPNGRenderer creates a renderer writing to path
func NewPNGRenderer(path string, log logger.Logger) (*PNGRenderer, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	r := &PNGRenderer{path: path, logger: log}
	faces := []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&r.title, bold, 24},
		{&r.heading, bold, 20},
		{&r.body, regular, 18},
		{&r.row, regular, 16},
	}
	for _, f := range faces {
		face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create font face: %w", err)
		}
		*f.dst = face
	}

	return r, nil
}

// Path returns where the image is written
func (r *PNGRenderer) Path() string {
	return r.path
}

// Render draws the summary and replaces the image file
func (r *PNGRenderer) Render(ctx context.Context, summary entity.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := r.draw(summary)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	if err := writeFileAtomic(r.path, buf.Bytes()); err != nil {
		return err
	}

	r.logger.Info("Summary image written", logger.Fields{
		"path":  r.path,
		"bytes": buf.Len(),
		"total": summary.Total,
	})
	return nil
}

// Lines returns the text rows of the summary in drawing order
func Lines(summary entity.Summary) []string {
	texts := []string{
		"Country Data Summary",
		fmt.Sprintf("Total Countries: %d", summary.Total),
		fmt.Sprintf("Last Refreshed: %s", entity.FormatTimestamp(summary.RefreshedAt)),
		"Top 5 Countries by GDP:",
	}
	for _, c := range summary.Top {
		texts = append(texts, fmt.Sprintf("%s: $%.2f", c.Name, c.GDPOrZero()))
	}
	return texts
}

func (r *PNGRenderer) draw(summary entity.Summary) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	texts := Lines(summary)
	lines := []line{
		{texts[0], r.title, 50},
		{texts[1], r.body, 100},
		{texts[2], r.body, 140},
		{texts[3], r.heading, 180},
	}
	for i, text := range texts[4:] {
		lines = append(lines, line{text, r.row, rowStart + i*rowStep})
	}

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black)}
	for _, l := range lines {
		drawer.Face = l.face
		drawer.Dot = fixed.P(marginX, l.y)
		drawer.DrawString(l.text)
	}

	return img
}

// writeFileAtomic replaces path with data through a temporary file in the same directory
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp image: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace image: %w", err)
	}

	return nil
}
