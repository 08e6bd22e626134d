package chart

// Theme constants from go-echarts.
const (
	ThemeRoma = "roma"
)

// Option configures a [Chart].
type Option func(*options)

type options struct {
	Title      string
	Subtitle   string
	XAxisLabel string
	YAxisLabel string
	Theme      string
	ShowLegend bool
	Horizontal bool
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithSubtitle sets the chart subtitle (typically the dataset source).
func WithSubtitle(subtitle string) Option {
	return func(c *options) {
		c.Subtitle = subtitle
	}
}

// WithTheme sets the color theme of interactive charts.
func WithTheme(theme string) Option {
	return func(c *options) {
		if theme != "" {
			c.Theme = theme
		}
	}
}

// WithLegend enables or disables the legend.
func WithLegend(show bool) Option {
	return func(c *options) {
		c.ShowLegend = show
	}
}

// WithXAxisLabel sets the X-axis label text.
func WithXAxisLabel(xlabel string) Option {
	return func(c *options) {
		c.XAxisLabel = xlabel
	}
}

// WithYAxisLabel sets the Y-axis label text.
func WithYAxisLabel(ylabel string) Option {
	return func(c *options) {
		c.YAxisLabel = ylabel
	}
}

// WithHorizontal enables or disables horizontal bar orientation.
func WithHorizontal(enabled bool) Option {
	return func(c *options) {
		c.Horizontal = enabled
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme: ThemeRoma,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
