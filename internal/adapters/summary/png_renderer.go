package summary

import (
	"bytes"
	"context"
	"countryfx/internal/domain"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 1200
	canvasHeight = 600

	titleSize = 36
	bodySize  = 20

	marginX   = 20
	titleY    = 20
	totalY    = 80
	refreshY  = 120
	headerY   = 170
	firstRowY = 210
	rowStep   = 34

	TimestampLayout = "2006-01-02 15:04:05Z"
	DefaultPath     = "cache/summary.png"
)

// Line is one piece of text placed on the canvas. Y is the top of the text box.
type Line struct {
	Text  string
	Y     int
	Title bool
}

// PNGRenderer draws the summary image and writes it to a fixed path.
type PNGRenderer struct {
	path  string
	title font.Face
	body  font.Face
}

func (r *PNGRenderer) Path() string { return r.path }

func (r *PNGRenderer) Render(ctx context.Context, total int64, top []domain.Country, refreshedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, line := range Layout(total, top, refreshedAt) {
		face := r.body
		if line.Title {
			face = r.title
		}
		drawText(img, face, marginX, line.Y, line.Text)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}

	if err := writeFileAtomic(r.path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write image %q: %w", r.path, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it into place,
// so readers see either the previous image or the new one.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Layout returns the text lines of the summary in drawing order.
func Layout(total int64, top []domain.Country, refreshedAt time.Time) []Line {
	lines := []Line{
		{Text: "Countries Summary", Y: titleY, Title: true},
		{Text: fmt.Sprintf("Total countries: %d", total), Y: totalY},
		{Text: "Last refresh (UTC): " + refreshedAt.UTC().Format(TimestampLayout), Y: refreshY},
		{Text: "Top 5 by Estimated GDP:", Y: headerY},
	}
	for i, c := range top {
		lines = append(lines, Line{
			Text: fmt.Sprintf("%d. %s — %s", i+1, c.Name, FormatGDP(c.EstimatedGDP)),
			Y:    firstRowY + i*rowStep,
		})
	}
	return lines
}

// FormatGDP renders a value with thousands separators and two decimals, or "N/A".
func FormatGDP(v decimal.NullDecimal) string {
	if !v.Valid {
		return "N/A"
	}

	rounded := v.Decimal.Round(2)
	abs := rounded.Abs()
	fixedStr := abs.StringFixed(2)
	frac := fixedStr[strings.IndexByte(fixedStr, '.')+1:]

	out := humanize.BigComma(abs.Truncate(0).BigInt()) + "." + frac
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}

func drawText(dst draw.Image, face font.Face, x, top int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, top+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func NewPNGRenderer(path string) (*PNGRenderer, error) {
	if path == "" {
		path = DefaultPath
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	title, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("failed to create title face: %w", err)
	}
	body, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: bodySize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("failed to create body face: %w", err)
	}

	return &PNGRenderer{path: path, title: title, body: body}, nil
}
