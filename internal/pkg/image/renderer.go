// Package image converts a HTML page into a PNG screenshot.
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// ErrNoTarget is returned when screenshotting a target container with an empty ID.
var ErrNoTarget = errors.New("a target container ID is required")

// Renderer knows how to take a screenshot from a HTML input and writes it as PNG.
type Renderer struct {
	options

	l *slog.Logger
}

// New builds an image [Renderer] from HTML.
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "image")),
	}
}

// Render a PNG image as a full-page screenshot from a HTML input [io.Reader].
func (r *Renderer) Render(ctx context.Context, dest io.Writer, source io.Reader) error {
	return r.render(ctx, dest, source, "")
}

// RenderTarget renders a PNG image as a screenshot of the page element with the given ID,
// e.g. the container of a single chart target.
func (r *Renderer) RenderTarget(ctx context.Context, dest io.Writer, source io.Reader, id string) error {
	if id == "" {
		return ErrNoTarget
	}

	return r.render(ctx, dest, source, id)
}

func (r *Renderer) render(ctx context.Context, dest io.Writer, source io.Reader, id string) error {
	screenshot, err := r.screenshot(ctx, source, id)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	_, err = dest.Write(screenshot)
	if err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	r.l.Info("screenshot rendered", slog.String("target", id), slog.Int("bytes", len(screenshot)))

	return nil
}

func (r *Renderer) screenshot(parent context.Context, reader io.Reader, id string) ([]byte, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	const qualityPNG = 100 // 100 to force PNG

	var screenshot []byte
	capture := chromedp.FullScreenshot(&screenshot, qualityPNG)
	if id != "" {
		capture = chromedp.Screenshot("#"+id, &screenshot, chromedp.ByQuery, chromedp.NodeVisible)
	}

	// inline SVG uses '#' in colors: the page is base64-encoded so that the data URL has no fragment
	err = chromedp.Run(ctx,
		chromedp.Emulate(device.Info{
			Height:    r.Height,
			Width:     r.Width,
			Landscape: true,
		}),
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString(content)),
		chromedp.Sleep(r.SleepDuration), // we need to wait some time to get the rendering done
		capture,
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}
