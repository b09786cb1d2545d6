package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/matzehuels/twofish/pkg/scene"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

const (
	defaultMargin = 10.0
	strokeWidth   = 0.5
	labelSize     = 8.0
)

var (
	// ErrUnsupportedFormat is returned for formats other than svg and pdf.
	ErrUnsupportedFormat = errors.New("diagram: unsupported format")

	// ErrEmptyScene is returned when no node has a resolved position.
	ErrEmptyScene = errors.New("diagram: nothing to draw")
)

var (
	shapeFill      = canvas.Hex("#ffffff")
	shapeStroke    = canvas.Hex("#1f2933")
	backplateFill  = canvas.Hex("#e4e7eb")
	backplateEdge  = canvas.Hex("#9aa5b1")
	groupStroke    = canvas.Hex("#3e4c59")
	unresolvedEdge = canvas.Hex("#d64545")
	transparent    = color.RGBA{0, 0, 0, 0}
)

// Options configures rendering.
type Options struct {
	// Format is FormatSVG (default) or FormatPDF.
	Format string
	// Scale multiplies every coordinate. Zero means 1.
	Scale float64
	// Margin is the blank border around the drawing. Zero means 10.
	Margin float64
	// Labels writes each node id inside its shape. It needs a font: FontFile
	// when set, otherwise the system sans-serif face.
	Labels bool
	// FontFile is a TTF or OTF file used for labels.
	FontFile string
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	o.Format = strings.ToLower(o.Format)
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Margin <= 0 {
		o.Margin = defaultMargin
	}
	return o
}

// Render draws the scene and returns the encoded document.
func Render(s *scene.Scene, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if opts.Format != FormatSVG && opts.Format != FormatPDF {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}

	items := collect(s)
	if len(items) == 0 {
		return nil, ErrEmptyScene
	}
	frame := extent(items)

	var face *canvas.FontFace
	if opts.Labels {
		f, err := loadFace(opts.FontFile, labelSize*opts.Scale)
		if err != nil {
			return nil, err
		}
		face = f
	}

	width := (frame.Width + 2*opts.Margin) * opts.Scale
	height := (frame.Height + 2*opts.Margin) * opts.Scale

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	d := drawer{
		ctx:   ctx,
		scale: opts.Scale,
		dx:    opts.Margin - frame.X,
		dy:    opts.Margin - frame.Y,
		face:  face,
	}
	for _, it := range items {
		d.draw(it)
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatPDF:
		w := pdf.New(&buf, width, height, nil)
		c.RenderTo(w)
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("write pdf: %w", err)
		}
	default:
		w := svg.New(&buf, width, height, nil)
		c.RenderTo(w)
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("write svg: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// item is one drawable node with its effective rectangle.
type item struct {
	id       string
	kind     scene.Kind
	rect     scene.Rect
	resolved bool
}

// collect returns the drawable nodes in paint order: backgrounds first,
// then leaves in scene order, then group outlines on top. A leaf missing a
// position on some axis is drawn at 0 on that axis with a red outline.
func collect(s *scene.Scene) []item {
	var backs, leaves, groups []item
	for _, n := range s.Nodes() {
		r, ok := n.Rect()
		it := item{id: n.ID, kind: n.Kind, rect: r, resolved: ok}
		switch {
		case n.Kind == scene.KindBackground && ok:
			backs = append(backs, it)
		case n.Kind == scene.KindGroup && ok:
			groups = append(groups, it)
		case !n.IsRelation():
			leaves = append(leaves, it)
		}
	}
	out := append(backs, leaves...)
	return append(out, groups...)
}

func extent(items []item) scene.Rect {
	r := items[0].rect
	for _, it := range items[1:] {
		r = r.Union(it.rect)
	}
	return r
}

type drawer struct {
	ctx    *canvas.Context
	scale  float64
	dx, dy float64
	face   *canvas.FontFace
}

func (d drawer) draw(it item) {
	x := (it.rect.X + d.dx) * d.scale
	y := (it.rect.Y + d.dy) * d.scale
	w := it.rect.Width * d.scale
	h := it.rect.Height * d.scale

	d.ctx.SetStrokeWidth(strokeWidth * d.scale)
	d.ctx.SetDashes(0)
	d.ctx.SetStrokeColor(shapeStroke)
	d.ctx.SetFillColor(shapeFill)
	if !it.resolved {
		d.ctx.SetStrokeColor(unresolvedEdge)
	}

	switch it.kind {
	case scene.KindBackground:
		d.ctx.SetFillColor(backplateFill)
		d.ctx.SetStrokeColor(backplateEdge)
		d.ctx.DrawPath(x, y, canvas.RoundedRectangle(w, h, math.Min(4*d.scale, math.Min(w, h)/4)))
		return
	case scene.KindGroup:
		d.ctx.SetFillColor(transparent)
		d.ctx.SetStrokeColor(groupStroke)
		d.ctx.SetDashes(0, 3*d.scale, 2*d.scale)
		d.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
		return
	case scene.KindEllipse:
		d.ctx.DrawPath(x+w/2, y+h/2, canvas.Ellipse(w/2, h/2))
	case scene.KindLine, scene.KindArrow:
		d.line(it.kind, x, y, w, h)
	case scene.KindText:
		d.ctx.SetFillColor(transparent)
		d.ctx.SetDashes(0, 1*d.scale, 1*d.scale)
		d.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
	default:
		d.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
	}

	if d.face != nil {
		text := canvas.NewTextLine(d.face, it.id, canvas.Center)
		d.ctx.DrawText(x+w/2, y+h/2, text)
	}
}

// line draws a diagonal across the bounding box. Arrows get a head at the
// far corner.
func (d drawer) line(kind scene.Kind, x, y, w, h float64) {
	d.ctx.SetFillColor(transparent)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(w, h)
	d.ctx.DrawPath(x, y, p)
	if kind != scene.KindArrow || (w == 0 && h == 0) {
		return
	}

	size := 4 * d.scale
	angle := math.Atan2(h, w)
	head := &canvas.Path{}
	head.MoveTo(0, 0)
	head.LineTo(-size*math.Cos(angle-math.Pi/6), -size*math.Sin(angle-math.Pi/6))
	head.MoveTo(0, 0)
	head.LineTo(-size*math.Cos(angle+math.Pi/6), -size*math.Sin(angle+math.Pi/6))
	d.ctx.DrawPath(x+w, y+h, head)
}

func loadFace(path string, size float64) (*canvas.FontFace, error) {
	family := canvas.NewFontFamily("labels")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("load font %s: %w", path, err)
		}
	} else if err := family.LoadSystemFont("sans-serif", canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load system font: %w", err)
	}
	return family.Face(size*ptPerMM, shapeStroke, canvas.FontRegular, canvas.FontNormal), nil
}

// ptPerMM converts canvas units to font points.
const ptPerMM = 72 / 25.4
