package render

// Shape is a drawing primitive: [Circle], [Rect], [Line], [Path], [Text] or [Group].
//
// Coordinates are expressed in pixels, relative to the enclosing group.
type Shape interface {
	shape()
}

// Style holds the presentation attributes of a shape. Empty attributes are not rendered.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Class       string
	FontSize    float64
	FontWeight  string
	Anchor      string // text-anchor: "start", "middle" or "end"
	Baseline    string // dominant-baseline, e.g. "middle"
}

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Circle primitive.
type Circle struct {
	CX, CY, R float64
	Style
}

// Rect primitive.
type Rect struct {
	X, Y, Width, Height float64
	Style
}

// Line primitive.
type Line struct {
	X1, Y1, X2, Y2 float64
	Style
}

// Path primitive.
//
// Points are the data points the path goes through. D is the SVG path data.
type Path struct {
	Points []Point
	D      string
	Style
}

// Text primitive. A non-zero Rotate turns the text around its anchor point, in degrees.
type Text struct {
	X, Y   float64
	Text   string
	Rotate float64
	Style
}

// Group of shapes, translated by (TX, TY).
type Group struct {
	ID       string
	Class    string
	TX, TY   float64
	Children []Shape
}

func (Circle) shape() {}
func (Rect) shape()   {}
func (Line) shape()   {}
func (Path) shape()   {}
func (Text) shape()   {}
func (Group) shape()  {}

// Layer groups a homogeneous collection of shapes.
func Layer[S Shape](class string, shapes []S) Group {
	g := Group{
		Class:    class,
		Children: make([]Shape, 0, len(shapes)),
	}

	for _, s := range shapes {
		g.Children = append(g.Children, s)
	}

	return g
}

// Append shapes to the group.
func (g *Group) Append(shapes ...Shape) {
	g.Children = append(g.Children, shapes...)
}
