// Package svg encodes rendered figures as SVG documents and assembles them into HTML pages.
package svg

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	svgo "github.com/ajstarks/svgo"

	"github.com/fredbi/csvviz/internal/pkg/render"
)

// Encode writes a figure as a standalone SVG document.
//
// The document scales to its container while preserving its aspect ratio. Layers are drawn in order,
// inside a group translated by the top-left margins. Coordinates are rounded to the pixel,
// except for path data, which keeps fractional coordinates.
func Encode(w io.Writer, fig *render.Figure) error {
	ew := &errWriter{w: w}
	canvas := svgo.New(ew)

	width, height := pixel(fig.Width), pixel(fig.Height)
	attrs := []string{
		fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height),
		`preserveAspectRatio="xMidYMid meet"`,
	}
	if fig.ID != "" {
		attrs = append(attrs, attr("id", fig.ID))
	}
	if fig.Class != "" {
		attrs = append(attrs, attr("class", fig.Class))
	}

	canvas.Startraw(attrs...)
	canvas.Group(translate(fig.Margin.Left, fig.Margin.Top))

	for _, layer := range fig.Layers {
		encodeShape(canvas, layer)
	}
	encodeShape(canvas, fig.Decorations())

	canvas.Gend()
	canvas.End()

	return ew.err
}

func encodeShape(canvas *svgo.SVG, shape render.Shape) {
	switch s := shape.(type) {
	case render.Group:
		attrs := make([]string, 0, 3)
		if s.ID != "" {
			attrs = append(attrs, attr("id", s.ID))
		}
		if s.Class != "" {
			attrs = append(attrs, attr("class", s.Class))
		}
		if s.TX != 0 || s.TY != 0 {
			attrs = append(attrs, translate(s.TX, s.TY))
		}

		canvas.Group(attrs...)
		for _, child := range s.Children {
			encodeShape(canvas, child)
		}
		canvas.Gend()
	case render.Circle:
		if !finite(s.CX, s.CY, s.R) {
			raw(canvas, "circle", s.Style, "cx", s.CX, "cy", s.CY, "r", s.R)

			return
		}

		canvas.Circle(pixel(s.CX), pixel(s.CY), pixel(s.R), styleAttrs(s.Style)...)
	case render.Rect:
		if !finite(s.X, s.Y, s.Width, s.Height) {
			raw(canvas, "rect", s.Style, "x", s.X, "y", s.Y, "width", s.Width, "height", s.Height)

			return
		}

		canvas.Rect(pixel(s.X), pixel(s.Y), pixel(s.Width), pixel(s.Height), styleAttrs(s.Style)...)
	case render.Line:
		if !finite(s.X1, s.Y1, s.X2, s.Y2) {
			raw(canvas, "line", s.Style, "x1", s.X1, "y1", s.Y1, "x2", s.X2, "y2", s.Y2)

			return
		}

		canvas.Line(pixel(s.X1), pixel(s.Y1), pixel(s.X2), pixel(s.Y2), styleAttrs(s.Style)...)
	case render.Path:
		canvas.Path(s.D, styleAttrs(s.Style)...)
	case render.Text:
		attrs := styleAttrs(s.Style)
		if s.Rotate != 0 {
			attrs = append(attrs, fmt.Sprintf(`transform="rotate(%s %d %d)"`, number(s.Rotate), pixel(s.X), pixel(s.Y)))
		}

		canvas.Text(pixel(s.X), pixel(s.Y), s.Text, attrs...)
	}
}

// raw writes an element with non-finite coordinates, which cannot be represented as pixels.
func raw(canvas *svgo.SVG, element string, style render.Style, pairs ...any) {
	fmt.Fprintf(canvas.Writer, "<%s", element)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(canvas.Writer, ` %s="%s"`, pairs[i], number(pairs[i+1].(float64)))
	}
	for _, a := range styleAttrs(style) {
		fmt.Fprintf(canvas.Writer, " %s", a)
	}
	fmt.Fprintln(canvas.Writer, " />")
}

func styleAttrs(s render.Style) []string {
	attrs := make([]string, 0, 8)

	if s.Fill != "" {
		attrs = append(attrs, attr("fill", s.Fill))
	}
	if s.Stroke != "" {
		attrs = append(attrs, attr("stroke", s.Stroke))
	}
	if s.StrokeWidth != 0 {
		attrs = append(attrs, attr("stroke-width", number(s.StrokeWidth)))
	}
	if s.Class != "" {
		attrs = append(attrs, attr("class", s.Class))
	}
	if s.FontSize != 0 {
		attrs = append(attrs, attr("font-size", number(s.FontSize)))
	}
	if s.FontWeight != "" {
		attrs = append(attrs, attr("font-weight", s.FontWeight))
	}
	if s.Anchor != "" {
		attrs = append(attrs, attr("text-anchor", s.Anchor))
	}
	if s.Baseline != "" {
		attrs = append(attrs, attr("dominant-baseline", s.Baseline))
	}

	return attrs
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func translate(x, y float64) string {
	return fmt.Sprintf(`transform="translate(%s,%s)"`, number(x), number(y))
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pixel(v float64) int {
	return int(math.Round(v))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// errWriter retains the first write error, since the SVG canvas does not report any.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}

	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}

	return n, err
}
