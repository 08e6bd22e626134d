// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/fredbi/csvviz/internal/pkg/chart"
	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/image"
	"github.com/fredbi/csvviz/internal/pkg/loader"
	"github.com/fredbi/csvviz/internal/pkg/organizer"
)

// Command holds command line flags and executes the csvviz command.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag
// and environment configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files.
//
// Positional arguments select the charts to render. With -init, they are the CSV sources
// to inspect in order to generate a starter configuration.
type Command struct {
	Config         string
	DataDir        string
	OutputFile     string
	Format         string
	Target         string
	Timeout        time.Duration
	IsJSON         bool
	Report         bool
	Png            bool
	Strict         bool
	Dump           bool
	GenerateConfig bool
	L              *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L:      slog.Default().With(slog.String("module", "main")),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	ctx, cancel := c.context(env)
	defer cancel()

	if c.GenerateConfig {
		return c.generate(ctx, args)
	}

	cfg, cleanup, err := c.prepareConfig(env)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.SelectCharts(args...); err != nil {
		return fmt.Errorf("selecting charts: %w", err)
	}

	if c.Report {
		// just want to report about the content of the datasets
		return c.report(ctx, cfg)
	}

	// 1. load datasets and build a chart page
	page, err := c.buildPage(ctx, cfg)
	if err != nil {
		return err
	}

	// 2. render the page as HTML, possibly to stdout, possibly to temp file
	htmlWriter, htmlCloser, err := c.getWriter(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}

	render := page.Render
	if cfg.Render.Format == config.FormatECharts {
		render = page.RenderECharts
	}

	if err := render(htmlWriter); err != nil {
		htmlCloser()
		return fmt.Errorf("rendering page: %w", err)
	}

	htmlCloser()
	c.L.Info("page rendered", slog.String("format", string(cfg.Render.Format)), slog.String("output", cfg.Outputs.HTMLFile))

	if cfg.Outputs.PngFile == "" {
		// html only: we're done
		return nil
	}

	// 3. convert the HTML page to a PNG image, possibly to stdout
	return c.screenshot(ctx, cfg)
}

func (c *Command) screenshot(ctx context.Context, cfg *config.Config) error {
	htmlReader, htmlCloser, err := getReader(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	pngWriter, pngCloser, err := c.getWriter(cfg.Outputs.PngFile, "PNG")
	if err != nil {
		return err
	}
	defer pngCloser()

	r := image.New(image.WithScreenshot(cfg.Render.Screenshot))

	if target := cfg.Render.Screenshot.Target; target != "" {
		err = r.RenderTarget(ctx, pngWriter, htmlReader, target)
	} else {
		err = r.Render(ctx, pngWriter, htmlReader)
	}

	if err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     "",
		OutputFile: "-",
		Format:     "",
		Timeout:    0,
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file (defaults to the built-in lessons)")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.DataDir, "data", defaults.DataDir, "directory to resolve relative dataset sources")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "file output or - for standard output")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "file output or - for standard output (shorthand)")
	flag.StringVar(&c.Format, "format", defaults.Format, "page format: svg or echarts")
	flag.StringVar(&c.Target, "target", defaults.Target, "restrict the PNG screenshot to a target container")
	flag.DurationVar(&c.Timeout, "timeout", defaults.Timeout, "abort loading and rendering after this duration")
	flag.BoolVar(&c.Report, "r", defaults.Report, "report dataset contents only, no rendering (shorthand)")
	flag.BoolVar(&c.Report, "report", defaults.Report, "report dataset contents only")
	flag.BoolVar(&c.IsJSON, "json", defaults.IsJSON, "report as JSON")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flag.BoolVar(&c.Strict, "strict", defaults.Strict, "fail on charts without any data")
	flag.BoolVar(&c.Dump, "dump", defaults.Dump, "dump the organized data to standard error")
	flag.BoolVar(&c.GenerateConfig, "init", defaults.GenerateConfig, "generate a config from the CSV files passed as arguments")
}

func (c *Command) context(env environment) (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = env.Timeout
	}

	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}

	return context.WithTimeout(context.Background(), timeout)
}

func (c *Command) prepareConfig(env environment) (cfg *config.Config, cleanup func(), err error) {
	if c.Config == "" {
		cfg, err = config.LoadDefaults()
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg, env); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if cfg.Outputs.IsTemp && !c.Report {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, err
	}

	return cfg, func() {}, err
}

// apply environment then CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config, env environment) error {
	env.apply(cfg)

	cfg.IsStrict = cfg.IsStrict || c.Strict

	if c.DataDir != "" {
		cfg.BaseDir = c.DataDir
	}

	if c.Format != "" {
		cfg.Render.Format = config.Format(c.Format)
	}

	if cfg.Render.Format == "" {
		cfg.Render.Format = config.FormatSVG
	}

	if !cfg.Render.Format.IsValid() {
		return fmt.Errorf("unknown format %q (should be one of %v)", cfg.Render.Format, []config.Format{config.FormatSVG, config.FormatECharts})
	}

	if c.Target != "" {
		cfg.Render.Screenshot.Target = c.Target
	}

	if c.OutputFile != "" && c.OutputFile != "-" {
		// an outfile is defined: infer the PNG file from the HTML file provided
		cfg.Outputs.HTMLFile = inferHTMLFile(c.OutputFile)
		if cfg.Outputs.PngFile == "" && c.Png {
			cfg.Outputs.PngFile = inferImageFile(cfg.Outputs.HTMLFile)
		}
	}

	if c.Report {
		return nil
	}

	switch {
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile == "":
		c.L.Info("output sent to standard output as HTML, no PNG image rendered")
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}
		cfg.Outputs.HTMLFile = "-"
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile != "":
		c.L.Info("HTML generated as a temporary file to produce PNG")
		tmp, err := os.CreateTemp("", "csvviz.*.html")
		if err != nil {
			return err
		}
		cfg.Outputs.HTMLFile = tmp.Name()
		cfg.Outputs.IsTemp = true
		_ = tmp.Close()
	}

	return nil
}

// loadDatasets loads the datasets used by the selected charts.
func (c *Command) loadDatasets(ctx context.Context, cfg *config.Config) (*loader.Loader, error) {
	ids := cfg.UsedDatasets()
	datasets := make([]config.Dataset, 0, len(ids))
	for _, id := range ids {
		dataset, _ := cfg.GetDataset(id)
		datasets = append(datasets, dataset)
	}

	l := loader.New(cfg)
	t0 := time.Now()
	if err := l.LoadAll(ctx, datasets...); err != nil {
		return nil, fmt.Errorf("loading datasets: %w", err)
	}
	c.L.Info("loaded input datasets", slog.Duration("duration", time.Since(t0)))

	return l, nil
}

func (c *Command) buildPage(ctx context.Context, cfg *config.Config) (*chart.Page, error) {
	// 1. load the datasets used by the selected charts
	l, err := c.loadDatasets(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. transform the data of each chart according to the configuration
	o := organizer.New(cfg)
	scenario, err := o.Scenarize(l.Datasets())
	if err != nil {
		return nil, fmt.Errorf("organizing charts: %w", err)
	}

	if c.Dump {
		spew.Fdump(c.errOutput(), scenario)
	}

	// 3. build a page with this visualization scenario
	builder := chart.New(cfg, scenario)
	page, err := builder.BuildPage()
	if err != nil {
		return nil, fmt.Errorf("building page: %w", err)
	}

	return page, nil
}

// generate writes a starter configuration inferred from CSV sources, to the config file or to standard output.
func (c *Command) generate(ctx context.Context, sources []string) error {
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	l := loader.New(nil)
	datasets := make([]config.Dataset, 0, len(sources))
	for _, source := range sources {
		datasets = append(datasets, config.Dataset{ID: source, Source: source})
	}

	if err := l.LoadAll(ctx, datasets...); err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	cfg := config.Generate(loader.Infer(l.Datasets()...))

	file := c.Config
	if file == "" {
		file = "-"
	}

	w, closer, err := c.getWriter(file, "config")
	if err != nil {
		return err
	}
	defer closer()

	if err := cfg.EncodeYAML(w); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	c.L.Info("config generated",
		slog.String("config", file),
		slog.Int("datasets", len(cfg.Datasets)),
		slog.Int("charts", len(cfg.Charts)),
	)

	return nil
}

func (c *Command) output() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}

	return c.stdout
}

func (c *Command) errOutput() io.Writer {
	if c.stderr == nil {
		return os.Stderr
	}

	return c.stderr
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func (c *Command) getWriter(file, kind string) (wrt io.Writer, cleanup func(), err error) {
	if file == "-" {
		return c.output(), func() {}, nil
	}

	f, err := os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = f.Close()
	}

	return f, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	image, _ := strings.CutSuffix(base, ext)

	return image + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	image, _ := strings.CutSuffix(base, ext)

	return image + ".png"
}
