package image //nolint:revive // it's okay for an internal package to use this name

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fredbi/csvviz/internal/pkg/config"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestMain(m *testing.M) {
	os.Setenv("CHROME_FLAGS", "--no-sandbox")
	os.Exit(m.Run())
}

func TestOptions(t *testing.T) {
	r := New()
	assert.Equal(t, defaultHeight, r.Height)
	assert.Equal(t, defaultWidth, r.Width)
	assert.Equal(t, defaultWait, r.SleepDuration)

	r = New(WithHeight(600), WithWidth(800), WithSleep(10*time.Millisecond))
	assert.Equal(t, int64(600), r.Height)
	assert.Equal(t, int64(800), r.Width)
	assert.Equal(t, 10*time.Millisecond, r.SleepDuration)

	r = New(WithHeight(-1), WithWidth(0), WithSleep(0))
	assert.Equal(t, defaultHeight, r.Height, "invalid options are ignored")
	assert.Equal(t, defaultWidth, r.Width)
	assert.Equal(t, defaultWait, r.SleepDuration)

	r = New(WithScreenshot(config.Screenshot{Width: 1000, Sleep: "250ms"}))
	assert.Equal(t, defaultHeight, r.Height)
	assert.Equal(t, int64(1000), r.Width)
	assert.Equal(t, 250*time.Millisecond, r.SleepDuration)
}

func TestRenderFailingReader(t *testing.T) {
	r := New()
	errExpected := errors.New("read failure")
	dest := &bytes.Buffer{}

	err := r.Render(context.Background(), dest, &failingReader{err: errExpected})
	require.Error(t, err)
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "read content")
}

func TestRenderTargetRequiresID(t *testing.T) {
	r := New()

	err := r.RenderTarget(context.Background(), &bytes.Buffer{}, strings.NewReader("<html></html>"), "")
	require.ErrorIs(t, err, ErrNoTarget)
}

func TestRenderFailingWriter(t *testing.T) {
	skipIfNoBrowser(t)

	r := New()
	html := `<html><body><p>hello</p></body></html>`
	errExpected := errors.New("write failure")

	err := r.Render(context.Background(), &failingWriter{err: errExpected}, strings.NewReader(html))
	require.Error(t, err)
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "writing screenshot")
}

func TestRenderSimpleHTML(t *testing.T) {
	skipIfNoBrowser(t)

	r := New()
	html := `<!DOCTYPE html><html><body style="background:white"><h1>Test</h1></body></html>`
	dest := &bytes.Buffer{}

	require.NoError(t, r.Render(context.Background(), dest, strings.NewReader(html)))

	output := dest.Bytes()
	require.NotEmpty(t, output)
	assert.True(t, bytes.HasPrefix(output, pngMagic),
		"output does not start with PNG magic bytes, got %x", output[:min(4, len(output))])
}

func TestRenderTarget(t *testing.T) {
	skipIfNoBrowser(t)

	r := New(WithSleep(100 * time.Millisecond))
	html := `<!DOCTYPE html><html><body>
<div id="chart"><svg width="200" height="100"><rect width="200" height="100" fill="#1f77b4"/></svg></div>
</body></html>`

	dest := &bytes.Buffer{}
	require.NoError(t, r.RenderTarget(context.Background(), dest, strings.NewReader(html), "chart"))
	assert.True(t, bytes.HasPrefix(dest.Bytes(), pngMagic))
}

func TestRenderEmptyHTML(t *testing.T) {
	skipIfNoBrowser(t)

	r := New()
	dest := &bytes.Buffer{}

	require.NoError(t, r.Render(context.Background(), dest, strings.NewReader("")))

	// Should still produce a valid PNG (blank page screenshot)
	assert.True(t, bytes.HasPrefix(dest.Bytes(), pngMagic),
		"expected valid PNG output even for empty HTML")
}

func TestRenderCanceled(t *testing.T) {
	skipIfNoBrowser(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Render(ctx, &bytes.Buffer{}, strings.NewReader("<html></html>"))
	require.Error(t, err)
}

// helpers

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func skipIfNoBrowser(t *testing.T) {
	t.Helper()
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium browser found, skipping integration test")
}
