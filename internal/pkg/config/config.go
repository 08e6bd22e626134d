package config

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fredbi/csvviz/internal/pkg/timefmt"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for csvviz.
type Config struct {
	Name     string
	IsStrict bool   `mapstructure:"-"`
	BaseDir  string `mapstructure:"-"` // BaseDir resolves relative dataset sources
	Render   Rendering
	Outputs  Output `mapstructure:"-"`
	Datasets []Dataset
	Charts   []Chart

	datasetIndex map[string]Dataset
	chartIndex   map[string]Chart
}

// GetDataset retrieves a dataset definition by its ID.
func (c Config) GetDataset(id string) (Dataset, bool) {
	v, ok := c.datasetIndex[id]

	return v, ok
}

// GetChart retrieves a chart definition by its ID.
func (c Config) GetChart(id string) (Chart, bool) {
	v, ok := c.chartIndex[id]

	return v, ok
}

// ResolveSource returns the location of a dataset source, relative to the base directory of the configuration.
//
// Standard input ("-") and URLs are returned unchanged.
func (c Config) ResolveSource(source string) string {
	switch {
	case source == "-":
		return source
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return source
	case filepath.IsAbs(source) || c.BaseDir == "":
		return source
	default:
		return filepath.Join(c.BaseDir, source)
	}
}

// SelectCharts restricts the configured charts to the given IDs, in the configured order.
//
// An empty list of IDs keeps all charts.
func (c *Config) SelectCharts(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if _, ok := c.chartIndex[id]; !ok {
			return fmt.Errorf("unknown chart %q (should be one of %v)", id, c.chartIDs())
		}
	}

	c.Charts = slices.DeleteFunc(c.Charts, func(chart Chart) bool {
		return !slices.Contains(ids, chart.ID)
	})

	return nil
}

// UsedDatasets returns the IDs of all datasets referenced by at least one chart, in configuration order.
func (c Config) UsedDatasets() []string {
	used := make(map[string]struct{})
	for _, chart := range c.Charts {
		for _, id := range chart.DatasetIDs() {
			used[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(used))
	for _, dataset := range c.Datasets {
		if _, ok := used[dataset.ID]; ok {
			ids = append(ids, dataset.ID)
		}
	}

	return ids
}

func (c Config) chartIDs() []string {
	ids := make([]string, 0, len(c.Charts))
	for _, chart := range c.Charts {
		ids = append(ids, chart.ID)
	}

	return ids
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (IsStrict, BaseDir, Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Rendering holds page rendering settings.
type Rendering struct {
	Title      string
	Theme      string
	Format     Format
	Screenshot Screenshot
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Sleep  string
	Target string // Target restricts the screenshot to a single chart container
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Output holds the resolved output file paths for HTML and PNG rendering.
type Output struct {
	HTMLFile string
	PngFile  string
	IsTemp   bool
}

// Dataset defines a delimited text source to load and how to coerce its fields.
type Dataset struct {
	ID        string
	Title     string
	Source    string
	Delimiter string
	Coerce    []Coercion
}

// Comma returns the field delimiter of the dataset. It defaults to ','.
func (d Dataset) Comma() rune {
	if d.Delimiter == "" {
		return ','
	}

	if d.Delimiter == `\t` {
		return '\t'
	}

	return []rune(d.Delimiter)[0]
}

// Coercion converts a field from its raw string to a typed value.
type Coercion struct {
	Field  string
	Type   FieldType
	Layout string // strftime-like layout for dates, e.g. "%Y-%m-%d"
}

// Chart defines a single chart: which data to use, how to transform it and how to draw it.
type Chart struct {
	ID          string
	Title       string
	Target      string // Target is the ID of the page container receiving the chart
	Kind        ChartKind
	Dataset     string
	Series      SeriesSource
	Filter      Filter
	Sort        Sort
	Top         int `validate:"gte=0"`
	Fields      []string
	Category    string
	Value       string
	Date        string
	Orientation Orientation
	Color       string
	Palette     []string
	Geometry    Geometry
	Glyph       Glyph
	Domain      Domain
	XAxis       Axis
	YAxis       Axis
	Legend      Legend
}

// DatasetIDs returns the IDs of the datasets this chart depends on.
func (c Chart) DatasetIDs() []string {
	if len(c.Series.Datasets) > 0 {
		return c.Series.Datasets
	}

	if c.Dataset == "" {
		return nil
	}

	return []string{c.Dataset}
}

// IsHorizontal tells if a bar chart is drawn with horizontal bars.
func (c Chart) IsHorizontal() bool {
	return c.Orientation == OrientationHorizontal
}

// SeriesSource tells how to build the series of a multi-series chart.
//
// Either each dataset in Datasets becomes a series (e.g. one file per stock symbol),
// or each column in Columns of the chart dataset becomes a series (e.g. one column per region).
type SeriesSource struct {
	Datasets []string
	Columns  []string
}

// Filter keeps records whose Field value is one of In.
type Filter struct {
	Field string
	In    []string
}

// IsEmpty reports whether no filter is configured.
func (f Filter) IsEmpty() bool {
	return f.Field == ""
}

// Sort orders records by a numeric or date field.
type Sort struct {
	Field string
	Order Order
}

// Geometry defines the drawing area of a chart.
type Geometry struct {
	Width       float64 `validate:"gte=0"`
	Height      float64 `validate:"gte=0"`
	Margin      Margin
	Padding     float64 `validate:"gte=0,lt=1"`
	Origin      float64
	StrokeWidth float64 `validate:"gte=0"`
}

// InnerWidth is the width of the drawing area, inside margins.
func (g Geometry) InnerWidth() float64 {
	return g.Width - g.Margin.Left - g.Margin.Right
}

// InnerHeight is the height of the drawing area, inside margins.
func (g Geometry) InnerHeight() float64 {
	return g.Height - g.Margin.Top - g.Margin.Bottom
}

// Margin around the drawing area.
type Margin struct {
	Top    float64 `validate:"gte=0"`
	Right  float64 `validate:"gte=0"`
	Bottom float64 `validate:"gte=0"`
	Left   float64 `validate:"gte=0"`
}

// Glyph defines index-based placement for dots and blocks.
//
// For dots: cx = i*Slot + Offset, cy = Position, r = value*Multiplier.
//
// For blocks: x = i*Slot + Offset, width = Size, y = Position - value*Multiplier, height = value*Multiplier.
type Glyph struct {
	Slot       float64
	Offset     float64
	Position   float64
	Size       float64 `validate:"gte=0"`
	Multiplier float64
}

// Domain fixes the endpoints of the value scale. Unset endpoints are computed from the data extent.
type Domain struct {
	Min  *float64
	Max  *float64
	Nice bool
}

// Axis configures the rendering of an axis.
type Axis struct {
	Label    string
	Ticks    int `validate:"gte=0"`
	Format   string // one of "currency", "dollar", "plain", "year" or a strftime-like layout for dates
	Interval string // calendar interval of time ticks: "year", "month", "week", "day"
	Every    int    `validate:"gte=0"`
	Rotate   float64
}

// Legend configures the legend of multi-series charts.
type Legend struct {
	Show      bool
	Swatch    Swatch
	RowHeight float64 `validate:"gte=0"`
}

// Load a configuration file from the local file system.
//
// Relative dataset sources are resolved against the directory of the configuration file.
func Load(file string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	dir := filepath.Dir(file)
	fsys := os.DirFS(dir)
	pth := filepath.Join(".", filepath.Base(file))

	cfg, err := load(fsys, pth, &Config{Render: defaults.Render})
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = dir

	return cfg, nil
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
//
// The default configuration reproduces the "fundamentals" and "stocks" lessons.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

// loadDefaults loads the default configuration from embedded FS.
func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

// Decode a configuration from raw YAML content.
func Decode(content []byte) (*Config, error) {
	return decode(content, &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	return decode(content, cfg)
}

func decode(content []byte, cfg *Config) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}

	if err := mapstructure.Decode(raw, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.datasetIndex = make(map[string]Dataset, len(c.Datasets))
	c.chartIndex = make(map[string]Chart, len(c.Charts))

	if c.Render.Format == "" {
		c.Render.Format = FormatSVG
	}
	if !c.Render.Format.IsValid() {
		return fmt.Errorf("invalid render: unknown format %q (should be one of %v)", c.Render.Format, []Format{FormatSVG, FormatECharts})
	}

	if err := c.validateDatasets(); err != nil {
		return err
	}

	return c.validateCharts()
}

func (c *Config) validateDatasets() error {
	for i, v := range c.Datasets {
		if v.ID == "" {
			return fmt.Errorf("invalid datasets: empty ID found: datasets[%d]", i)
		}
		if _, ok := c.datasetIndex[v.ID]; ok {
			return fmt.Errorf("invalid datasets: duplicate ID key found: %s", v.ID)
		}
		if v.Source == "" {
			return fmt.Errorf("invalid datasets: empty source: datasets.%s.source", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}

		for j, coercion := range v.Coerce {
			if err := validateCoercion(coercion); err != nil {
				return fmt.Errorf("invalid dataset: datasets.%s.coerce[%d]: %w", v.ID, j, err)
			}
		}

		c.Datasets[i] = v
		c.datasetIndex[v.ID] = v
	}

	return nil
}

func validateCoercion(v Coercion) error {
	if v.Field == "" {
		return errors.New("empty field")
	}

	if !v.Type.IsValid() {
		return fmt.Errorf("unknown type %q for field %q", v.Type, v.Field)
	}

	if v.Type == TypeDate && v.Layout != "" {
		if _, err := timefmt.Layout(v.Layout); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateCharts() error {
	validate := validator.New()

	var err error
	for i, v := range c.Charts {
		if v.ID == "" {
			return fmt.Errorf("invalid charts: empty ID found: charts[%d]", i)
		}
		if _, ok := c.chartIndex[v.ID]; ok {
			return fmt.Errorf("invalid charts: duplicate ID key found: %s", v.ID)
		}

		v, err = c.validateChart(v)
		if err != nil {
			return err
		}

		if err := validate.Struct(v); err != nil {
			return fmt.Errorf("invalid chart: charts.%s: %w", v.ID, err)
		}

		c.Charts[i] = v
		c.chartIndex[v.ID] = v
	}

	return nil
}

func (c *Config) validateChart(v Chart) (vv Chart, err error) {
	if v.Title == "" {
		v.Title = titleize(v.ID)
	}

	if v.Target == "" {
		v.Target = v.ID
	}

	if !v.Kind.IsValid() {
		return vv, fmt.Errorf("invalid chart: unknown kind charts.%s.kind=%q (should be one of %v)", v.ID, v.Kind, AllChartKinds())
	}

	if len(v.Series.Datasets) == 0 && v.Dataset == "" {
		return vv, fmt.Errorf("invalid chart: a dataset or series datasets must be specified: charts.%s.dataset", v.ID)
	}

	if v.Dataset != "" {
		if _, ok := c.datasetIndex[v.Dataset]; !ok {
			return vv, fmt.Errorf("invalid chart: dataset ID not found charts.%s.dataset=%s", v.ID, v.Dataset)
		}
	}

	for j, ref := range v.Series.Datasets {
		if _, ok := c.datasetIndex[ref]; !ok {
			return vv, fmt.Errorf("invalid chart: dataset ID not found charts.%s.series.datasets[%d]=%s", v.ID, j, ref)
		}
	}

	if len(v.Series.Columns) > 0 && v.Dataset == "" {
		return vv, fmt.Errorf("invalid chart: series columns require a dataset: charts.%s.dataset", v.ID)
	}

	if v.Value == "" && len(v.Series.Columns) == 0 {
		return vv, fmt.Errorf("invalid chart: a value field is required: charts.%s.value", v.ID)
	}

	if !v.Sort.Order.IsValid() {
		return vv, fmt.Errorf("invalid chart: unknown sort order charts.%s.sort.order=%q", v.ID, v.Sort.Order)
	}

	if !v.Filter.IsEmpty() && len(v.Filter.In) == 0 {
		return vv, fmt.Errorf("invalid chart: filter requires a list of values: charts.%s.filter.in", v.ID)
	}

	switch v.Kind {
	case KindBars:
		if v.Category == "" {
			return vv, fmt.Errorf("invalid chart: a category field is required for bars: charts.%s.category", v.ID)
		}
		switch v.Orientation {
		case "":
			v.Orientation = OrientationVertical
		case OrientationVertical, OrientationHorizontal:
		default:
			return vv, fmt.Errorf("invalid chart: unknown orientation charts.%s.orientation=%q", v.ID, v.Orientation)
		}
	case KindLines:
		if v.Date == "" {
			return vv, fmt.Errorf("invalid chart: a date field is required for lines: charts.%s.date", v.ID)
		}
		if len(v.Series.Datasets) == 0 && len(v.Series.Columns) == 0 {
			return vv, fmt.Errorf("invalid chart: series datasets or columns are required for lines: charts.%s.series", v.ID)
		}
	}

	for _, axis := range []Axis{v.XAxis, v.YAxis} {
		if err := validateAxis(axis); err != nil {
			return vv, fmt.Errorf("invalid chart: charts.%s: %w", v.ID, err)
		}
	}

	if v.Domain.Min != nil && v.Domain.Max != nil && *v.Domain.Min == *v.Domain.Max {
		return vv, fmt.Errorf("invalid chart: degenerate domain [%g,%g]: charts.%s.domain", *v.Domain.Min, *v.Domain.Max, v.ID)
	}

	return withDefaults(v), nil
}

func validateAxis(a Axis) error {
	switch a.Interval {
	case "", "year", "month", "week", "day", "hour", "minute", "second":
	default:
		return fmt.Errorf("unknown tick interval %q", a.Interval)
	}

	switch a.Format {
	case "", "currency", "dollar", "plain", "year":
		return nil
	default:
		_, err := timefmt.Layout(a.Format)

		return err
	}
}

// withDefaults fills unset geometry with the dimensions used by the lessons.
func withDefaults(v Chart) Chart {
	g := &v.Geometry
	if g.Width == 0 && g.Height == 0 {
		switch v.Kind {
		case KindDots, KindBlocks:
			g.Width, g.Height = 400, 100
		case KindBars:
			g.Width, g.Height = 700, 380
			if g.Margin == (Margin{}) {
				g.Margin = Margin{Top: 30, Right: 30, Bottom: 80, Left: 70}
			}
		case KindLines:
			g.Width, g.Height = 700, 400
			if g.Margin == (Margin{}) {
				g.Margin = Margin{Top: 30, Right: 160, Bottom: 80, Left: 80}
			}
		}
	}

	gl := &v.Glyph
	switch v.Kind {
	case KindDots:
		gl.Slot = defaultFloat(gl.Slot, 60)
		gl.Offset = defaultFloat(gl.Offset, 30)
		gl.Position = defaultFloat(gl.Position, 50)
		gl.Multiplier = defaultFloat(gl.Multiplier, 5)
	case KindBlocks:
		gl.Slot = defaultFloat(gl.Slot, 60)
		gl.Offset = defaultFloat(gl.Offset, 10)
		gl.Size = defaultFloat(gl.Size, 20)
		gl.Position = defaultFloat(gl.Position, g.Height)
		gl.Multiplier = defaultFloat(gl.Multiplier, 300)
	case KindLines:
		g.StrokeWidth = defaultFloat(g.StrokeWidth, 2)
	}

	if v.Color == "" && v.Kind != KindLines {
		v.Color = "steelblue"
	}

	if v.Legend.RowHeight == 0 {
		v.Legend.RowHeight = 20
	}

	if v.Legend.Swatch == "" {
		v.Legend.Swatch = SwatchRect
	}

	return v
}

func defaultFloat(in, def float64) float64 {
	if in == 0 {
		return def
	}

	return in
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
