package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/loader"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestNewCommand(t *testing.T) {
	cli := NewCommand()
	require.NotNil(t, cli)
	assert.NotNil(t, cli.L)
	// Verify defaults from registerFlags
	assert.Empty(t, cli.Config)
	assert.Equal(t, "-", cli.OutputFile)
	assert.Zero(t, cli.Timeout)
}

func TestInferHTMLFile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"output.png", "output.html"},
		{"output.html", "output.html"},
		{"output", "output.html"},
		{"path/to/output.png", "path/to/output.html"},
		{"output.svg", "output.html"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, inferHTMLFile(tt.input))
		})
	}
}

func TestInferImageFile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"output.html", "output.png"},
		{"output.png", "output.png"},
		{"output", "output.png"},
		{"path/to/output.html", "path/to/output.png"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, inferImageFile(tt.input))
		})
	}
}

func TestSetConfigOverrides(t *testing.T) {
	t.Run("flags override the environment", func(t *testing.T) {
		cfg := &config.Config{}
		cli := &Command{
			DataDir: "flags",
			Format:  "svg",
			Strict:  true,
			Target:  "chart",
			L:       newTestLogger(),
		}

		require.NoError(t, cli.setConfig(cfg, environment{DataDir: "env", Format: "echarts"}))

		assert.Equal(t, "flags", cfg.BaseDir)
		assert.Equal(t, config.FormatSVG, cfg.Render.Format)
		assert.True(t, cfg.IsStrict)
		assert.Equal(t, "chart", cfg.Render.Screenshot.Target)
	})

	t.Run("environment overrides the config", func(t *testing.T) {
		cfg := &config.Config{BaseDir: "config", Render: config.Rendering{Format: config.FormatSVG}}
		cli := &Command{L: newTestLogger()}

		require.NoError(t, cli.setConfig(cfg, environment{DataDir: "env", Format: "echarts"}))

		assert.Equal(t, "env", cfg.BaseDir)
		assert.Equal(t, config.FormatECharts, cfg.Render.Format)
		assert.False(t, cfg.IsStrict)
	})

	t.Run("unknown format", func(t *testing.T) {
		cli := &Command{Format: "pdf", L: newTestLogger()}

		require.Error(t, cli.setConfig(&config.Config{}, environment{}))
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CSVVIZ_DATA_DIR", "/data")
	t.Setenv("CSVVIZ_FORMAT", "echarts")
	t.Setenv("CSVVIZ_TIMEOUT", "30s")

	env, err := loadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/data", env.DataDir)
	assert.Equal(t, "echarts", env.Format)
	assert.Equal(t, 30*time.Second, env.Timeout)

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("CSVVIZ_TIMEOUT", "soon")

		_, err := loadEnv()
		require.Error(t, err)
	})
}

func TestSetConfigOutputToStdout(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "-",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg, environment{}))

	// When no output file specified, HTML goes to stdout
	assert.Equal(t, "-", cfg.Outputs.HTMLFile)
}

func TestSetConfigOutputFile(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "results.png",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg, environment{}))

	assert.Equal(t, "results.html", cfg.Outputs.HTMLFile)
	assert.Empty(t, cfg.Outputs.PngFile)
}

func TestSetConfigOutputFileWithPng(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "results.html",
		Png:        true,
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg, environment{}))

	assert.Equal(t, "results.html", cfg.Outputs.HTMLFile)
	assert.Equal(t, "results.png", cfg.Outputs.PngFile)
}

func TestSetConfigTempHTML(t *testing.T) {
	cfg := &config.Config{
		Outputs: config.Output{
			PngFile: "output.png",
		},
	}
	cli := &Command{
		L: newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg, environment{}))

	assert.True(t, cfg.Outputs.IsTemp)
	assert.NotEmpty(t, cfg.Outputs.HTMLFile)
	assert.True(t, strings.Contains(cfg.Outputs.HTMLFile, "csvviz"),
		"expected temp file name to contain 'csvviz', got %q", cfg.Outputs.HTMLFile)

	// Clean up temp file
	os.Remove(cfg.Outputs.HTMLFile)
}

func TestPrepareConfig(t *testing.T) {
	t.Run("from a file", func(t *testing.T) {
		cli := &Command{
			Config: lessonsPath("csvviz.yaml"),
			L:      newTestLogger(),
		}

		cfg, cleanup, err := cli.prepareConfig(environment{})
		require.NoError(t, err)
		defer cleanup()

		require.NotNil(t, cfg)
		assert.Equal(t, config.FormatECharts, cfg.Render.Format)
		assert.Equal(t, lessonsPath(), cfg.BaseDir)
	})

	t.Run("built-in lessons", func(t *testing.T) {
		cli := &Command{L: newTestLogger()}

		cfg, cleanup, err := cli.prepareConfig(environment{})
		require.NoError(t, err)
		defer cleanup()

		assert.Len(t, cfg.Charts, 6)
	})

	t.Run("missing file", func(t *testing.T) {
		cli := &Command{
			Config: "/nonexistent/config.yaml",
			L:      newTestLogger(),
		}

		_, cleanup, err := cli.prepareConfig(environment{})
		require.Error(t, err)
		assert.Nil(t, cleanup)
	})
}

func TestExecuteHTMLOutput(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "output.html")

	cli := &Command{
		DataDir:    lessonsPath(),
		OutputFile: outFile,
		L:          newTestLogger(),
	}

	require.NoError(t, cli.Execute([]string{}...))

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	html := string(content)

	for _, target := range []string{"demo-2", "demo-4", "demo-5", "chart"} {
		assert.Contains(t, html, `<div id="`+target+`" class="target">`)
	}
	assert.Equal(t, 6, strings.Count(html, "<svg"))
}

func TestExecuteSelectedCharts(t *testing.T) {
	var out bytes.Buffer
	cli := &Command{
		DataDir:    lessonsPath(),
		OutputFile: "-",
		L:          newTestLogger(),
		stdout:     &out,
	}

	require.NoError(t, cli.Execute("top-gas", "stocks"))

	html := out.String()
	assert.Equal(t, 2, strings.Count(html, "<svg"))
	assert.Contains(t, html, `<div id="chart" class="target">`)
	assert.NotContains(t, html, `<div id="demo-2" class="target">`)

	t.Run("unknown chart", func(t *testing.T) {
		require.Error(t, cli.Execute("pie"))
	})
}

func TestExecuteECharts(t *testing.T) {
	var out bytes.Buffer
	cli := &Command{
		Config: lessonsPath("csvviz.yaml"),
		L:      newTestLogger(),
		stdout: &out,
	}

	require.NoError(t, cli.Execute([]string{}...))
	assert.Contains(t, out.String(), "echarts")
	assert.NotContains(t, out.String(), "<svg")
}

func TestExecuteDump(t *testing.T) {
	var out, dump bytes.Buffer
	cli := &Command{
		DataDir: lessonsPath(),
		Dump:    true,
		L:       newTestLogger(),
		stdout:  &out,
		stderr:  &dump,
	}

	require.NoError(t, cli.Execute("gas-dots"))
	assert.Contains(t, dump.String(), "gas-dots")
	assert.Contains(t, dump.String(), "California")
}

func TestExecuteMissingData(t *testing.T) {
	cli := &Command{
		DataDir:    t.TempDir(),
		OutputFile: filepath.Join(t.TempDir(), "output.html"),
		L:          newTestLogger(),
	}

	require.Error(t, cli.Execute([]string{}...))
}

func TestExecuteTimeout(t *testing.T) {
	cli := &Command{
		DataDir: lessonsPath(),
		Timeout: time.Nanosecond,
		L:       newTestLogger(),
		stdout:  &bytes.Buffer{},
	}

	require.ErrorIs(t, cli.Execute([]string{}...), context.DeadlineExceeded)
}

func TestReport(t *testing.T) {
	t.Run("as tables", func(t *testing.T) {
		var out bytes.Buffer
		cli := &Command{
			DataDir: lessonsPath(),
			Report:  true,
			L:       newTestLogger(),
			stdout:  &out,
		}

		require.NoError(t, cli.Execute("top-gas"))

		report := out.String()
		assert.Contains(t, report, "energy")
		assert.Contains(t, report, "gas")
		assert.Contains(t, report, "1 datasets")
	})

	t.Run("as JSON", func(t *testing.T) {
		var out bytes.Buffer
		cli := &Command{
			DataDir: lessonsPath(),
			Report:  true,
			IsJSON:  true,
			L:       newTestLogger(),
			stdout:  &out,
		}

		require.NoError(t, cli.Execute("stocks"))

		var report loader.LoadingReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, 5, report.NumberOfDatasets)
		require.Len(t, report.Datasets, 5)
		assert.Equal(t, "aapl", report.Datasets[0].ID)
	})
}

func TestGenerateConfig(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "generated.yaml")

	cli := &Command{
		Config:         outFile,
		GenerateConfig: true,
		L:              newTestLogger(),
	}

	require.NoError(t, cli.Execute(
		lessonsPath("data", "state_energy_prices.csv"),
		lessonsPath("data", "AAPL.csv"),
	))

	// Verify it loads as a valid config
	cfg, err := config.Load(outFile)
	require.NoError(t, err)
	require.Len(t, cfg.Datasets, 2)
	require.Len(t, cfg.Charts, 2)
	assert.Equal(t, config.KindBars, cfg.Charts[0].Kind)
	assert.Equal(t, config.KindLines, cfg.Charts[1].Kind)

	t.Run("missing input", func(t *testing.T) {
		cli := &Command{
			Config:         filepath.Join(t.TempDir(), "generated.yaml"),
			GenerateConfig: true,
			L:              newTestLogger(),
		}

		require.Error(t, cli.Execute("/nonexistent/file.csv"))
	})
}

// helpers

func newTestLogger() *slog.Logger {
	return slog.Default().With(slog.String("module", "test"))
}

func lessonsPath(elems ...string) string {
	return filepath.Join(append([]string{"..", "..", "examples", "lessons"}, elems...)...)
}
