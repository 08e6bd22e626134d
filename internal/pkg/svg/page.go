package svg

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/fredbi/csvviz/internal/pkg/render"
)

//go:embed page.html.tmpl
var pageTemplate string

var tpl = template.Must(template.New("page").Parse(pageTemplate))

const xmlPrologue = `<?xml version="1.0"?>`

// Page is an HTML document holding drawing containers, each receiving inline SVG figures.
//
// A [Page] knows how to [Page.Render] as HTML.
type Page struct {
	Title   string
	targets []*Target
	index   map[string]*Target
}

// Target is a drawing container of a [Page], identified by its ID.
type Target struct {
	ID      string
	figures []*render.Figure
}

// NewPage creates a new empty page with the given title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
		index: make(map[string]*Target),
	}
}

// Target returns the container with the given ID, creating it on first use.
//
// Containers are rendered in the order they were first requested.
func (p *Page) Target(id string) *Target {
	if t, ok := p.index[id]; ok {
		return t
	}

	t := &Target{ID: id}
	p.targets = append(p.targets, t)
	p.index[id] = t

	return t
}

// Targets returns all containers of the page, in order.
func (p *Page) Targets() []*Target {
	return p.targets
}

// Append a figure to the container.
func (t *Target) Append(fig *render.Figure) {
	t.figures = append(t.figures, fig)
}

// Figures held by the container, in order.
func (t *Target) Figures() []*render.Figure {
	return t.figures
}

type targetData struct {
	ID      string
	Figures []template.HTML
}

// Render writes the page HTML to the given writer, with all figures inlined as SVG.
func (p *Page) Render(w io.Writer) error {
	data := struct {
		Title   string
		Targets []targetData
	}{
		Title:   p.Title,
		Targets: make([]targetData, 0, len(p.targets)),
	}

	for _, t := range p.targets {
		td := targetData{
			ID:      t.ID,
			Figures: make([]template.HTML, 0, len(t.figures)),
		}

		for _, fig := range t.figures {
			var buf bytes.Buffer
			if err := Encode(&buf, fig); err != nil {
				return fmt.Errorf("encoding figure %q: %w", fig.ID, err)
			}

			// the SVG is generated with all text and attributes escaped
			td.Figures = append(td.Figures, template.HTML(inline(buf.String()))) //nolint:gosec
		}

		data.Targets = append(data.Targets, td)
	}

	return tpl.Execute(w, data)
}

// inline strips the XML prologue, which is not needed when embedding SVG in HTML.
func inline(doc string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(doc), xmlPrologue))
}
