package scene

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// elementTemplateSource holds one text/template body per element kind. Each
// renders a single self-contained tag; attribute order is canonical and
// fixed, matching the contract that two content-identical elements always
// serialize byte-identically.
var elementTemplateSource = map[ElementKind]string{
	KindRect: `<rect x="{{num .Rect.X}}" y="{{num .Rect.Y}}" width="{{num .Rect.W}}" height="{{num .Rect.H}}"` +
		`{{if gt .Rect.RX 0.0}} rx="{{num .Rect.RX}}"{{end}}{{styleAttrs .Rect.Style}}{{transformAttr .Rect.Transform}}/>`,
	KindCircle: `<circle cx="{{num .Circle.CX}}" cy="{{num .Circle.CY}}" r="{{num .Circle.R}}"` +
		`{{styleAttrs .Circle.Style}}{{transformAttr .Circle.Transform}}/>`,
	KindEllipse: `<ellipse cx="{{num .Ellipse.CX}}" cy="{{num .Ellipse.CY}}" rx="{{num .Ellipse.RX}}" ry="{{num .Ellipse.RY}}"` +
		`{{styleAttrs .Ellipse.Style}}{{transformAttr .Ellipse.Transform}}/>`,
	KindLine: `<line x1="{{num .Line.X1}}" y1="{{num .Line.Y1}}" x2="{{num .Line.X2}}" y2="{{num .Line.Y2}}"` +
		` stroke="{{.Line.Style.Stroke}}" stroke-width="{{num .Line.Style.StrokeWidth}}"{{transformAttr .Line.Transform}}/>`,
	KindPath: `<path d="{{.Path.D}}"{{styleAttrs .Path.Style}}{{transformAttr .Path.Transform}}/>`,
	KindPolygon: `<polygon points="{{pointsAttr .Polygon.Points}}"` +
		`{{styleAttrs .Polygon.Style}}{{transformAttr .Polygon.Transform}}/>`,
	KindText: `<text x="{{num .Text.X}}" y="{{num .Text.Y}}" font-family="{{.Text.Font}}" font-size="{{num .Text.Size}}"` +
		` font-weight="{{.Text.Weight}}" text-anchor="{{.Text.Anchor}}" fill="{{fillOr .Text.Style "#000"}}"` +
		`{{transformAttr .Text.Transform}}>{{escapeText .Text.Content}}</text>`,
	KindImage: `<image x="{{num .Image.X}}" y="{{num .Image.Y}}" width="{{num .Image.W}}" height="{{num .Image.H}}"` +
		` href="{{escapeText .Image.Href}}"{{transformAttr .Image.Transform}}/>`,
	KindDiamond: `<polygon points="{{diamondPoints .Diamond}}"{{styleAttrs .Diamond.Style}}{{transformAttr .Diamond.Transform}}/>`,
	KindGroup:   `<g{{transformAttr .Group.Transform}}>{{range .Group.Children}}{{renderElement .}}{{end}}</g>`,
	KindGraph:   `<g class="graph">{{range .Graph.Edges}}{{renderEdge .}}{{end}}{{range .Graph.Nodes}}{{renderNode .}}{{end}}</g>`,
	KindNode:    `{{renderNode .Node.GraphNode}}`,
	KindEdge:    `{{renderEdge .Edge.GraphEdge}}`,
}

var tmplFuncs template.FuncMap

func init() {
	tmplFuncs = sprig.FuncMap()
	tmplFuncs["num"] = FormatNum
	tmplFuncs["styleAttrs"] = styleAttrs
	tmplFuncs["transformAttr"] = transformAttr
	tmplFuncs["pointsAttr"] = pointsAttr
	tmplFuncs["fillOr"] = fillOr
	tmplFuncs["escapeText"] = escapeText
	tmplFuncs["diamondPoints"] = diamondPoints
	tmplFuncs["renderElement"] = Serialize
	tmplFuncs["renderNode"] = renderGraphNode
	tmplFuncs["renderEdge"] = renderGraphEdge
}

// Serialize renders a single element to its canonical SVG-like tag text.
// Both the content hash (package identity) and the patch stream's svg
// fields (package diff) use this as their source of truth, so two elements
// with identical fields always produce identical text.
func Serialize(el Element) string {
	src, ok := elementTemplateSource[el.Kind]
	if !ok {
		return ""
	}
	tmpl := template.Must(template.New(fmt.Sprintf("element-%d", el.Kind)).Funcs(tmplFuncs).Parse(src))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, el); err != nil {
		return ""
	}
	return buf.String()
}

const graphNodeTemplate = `<g class="node"><rect x="{{num .BoxX}}" y="{{num .BoxY}}" ` +
	`width="{{num .W}}" height="{{num .H}}"{{styleAttrs .Style}}/><text x="{{num .CX}}" y="{{num .CY}}" ` +
	`text-anchor="middle">{{escapeText .Label}}</text></g>`

// graphNodeView adds the precomputed top-left corner so the template stays
// free of arithmetic.
type graphNodeView struct {
	GraphNode
	BoxX, BoxY float64
}

func renderGraphNode(n GraphNode) string {
	view := graphNodeView{GraphNode: n, BoxX: n.CX - n.W/2, BoxY: n.CY - n.H/2}
	tmpl := template.Must(template.New("graph-node").Funcs(tmplFuncs).Parse(graphNodeTemplate))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return ""
	}
	return buf.String()
}

const graphEdgeTemplate = `<line x1="{{num .FromX}}" y1="{{num .FromY}}" x2="{{num .ToX}}" y2="{{num .ToY}}" ` +
	`stroke="{{fillOr .Style "#000"}}" stroke-width="{{num .Style.StrokeWidth}}"/>`

func renderGraphEdge(e GraphEdge) string {
	tmpl := template.Must(template.New("graph-edge").Funcs(tmplFuncs).Parse(graphEdgeTemplate))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, e); err != nil {
		return ""
	}
	return buf.String()
}

const documentTemplate = `<svg width="{{num .Pixels}}" height="{{num .Pixels}}"{{if .HasFill}} style="background:{{.Fill}}"{{end}}>` +
	`{{if or .Gradients .Filters .Symbols}}<defs>{{range .Gradients}}{{renderGradient .}}{{end}}` +
	`{{range .Filters}}{{renderFilter .}}{{end}}{{range .Symbols}}{{renderSymbol .}}{{end}}{{hasEdges .Elements}}</defs>{{end}}` +
	`{{range .Elements}}{{renderElement .}}{{end}}</svg>`

// SerializeDocument renders the full scene document: opening tag, an
// optional definitions block, then every element in order.
func SerializeDocument(doc Document) string {
	funcs := template.FuncMap{}
	for k, v := range tmplFuncs {
		funcs[k] = v
	}
	funcs["renderGradient"] = renderGradient
	funcs["renderFilter"] = renderFilter
	funcs["renderSymbol"] = renderSymbol
	funcs["hasEdges"] = func(els []Element) string {
		for _, el := range els {
			if el.Kind == KindGraph && len(el.Graph.Edges) > 0 {
				return arrowMarkers()
			}
		}
		return ""
	}
	tmpl := template.Must(template.New("document").Funcs(funcs).Parse(documentTemplate))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return ""
	}
	return buf.String()
}

func arrowMarkers() string {
	return `<marker id="arrow-end" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0 0L10 5L0 10z"/></marker>`
}

func renderGradient(g Gradient) string {
	if g.Kind == "radial" {
		return fmt.Sprintf(`<radialGradient id="%s"><stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/></radialGradient>`,
			g.ID, g.FromColor, g.ToColor)
	}
	return fmt.Sprintf(`<linearGradient id="%s" x1="0%%" y1="0%%" x2="100%%" y2="0%%"><stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/></linearGradient>`,
		g.ID, g.FromColor, g.ToColor)
}

func renderFilter(f Filter) string {
	return fmt.Sprintf(`<filter id="%s"><feDropShadow dx="%s" dy="%s" stdDeviation="%s" flood-color="%s"/></filter>`,
		f.ID, FormatNum(f.DX), FormatNum(f.DY), FormatNum(f.Blur), f.Color)
}

func renderSymbol(s Symbol) string {
	var inner strings.Builder
	for _, c := range s.Children {
		inner.WriteString(Serialize(c))
	}
	vb := ""
	if s.HasViewBox {
		vb = fmt.Sprintf(` viewBox="%s"`, s.ViewBox)
	}
	return fmt.Sprintf(`<symbol id="%s"%s>%s</symbol>`, s.ID, vb, inner.String())
}

// FormatNum renders f the same way the serialized templates do, so the diff
// engine's attribute value strings match what a full re-serialization would
// have produced.
func FormatNum(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
}

func styleAttrs(s Style) string {
	var b strings.Builder
	if s.HasFill {
		fmt.Fprintf(&b, ` fill="%s"`, s.Fill)
	}
	if s.HasStroke {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, s.Stroke, FormatNum(s.StrokeWidth))
	}
	if s.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%s"`, FormatNum(s.Opacity))
	}
	if s.HasFilter {
		fmt.Fprintf(&b, ` filter="url(#%s)"`, s.Filter)
	}
	return b.String()
}

func transformAttr(t string) string {
	if t == "" {
		return ""
	}
	return fmt.Sprintf(` transform="%s"`, t)
}

func pointsAttr(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = FormatNum(p.X) + "," + FormatNum(p.Y)
	}
	return strings.Join(parts, " ")
}

func diamondPoints(d Diamond) string {
	pts := []Point{
		{X: d.CX, Y: d.CY - d.H/2},
		{X: d.CX + d.W/2, Y: d.CY},
		{X: d.CX, Y: d.CY + d.H/2},
		{X: d.CX - d.W/2, Y: d.CY},
	}
	return pointsAttr(pts)
}

func fillOr(s Style, def string) string {
	if s.HasFill {
		return s.Fill
	}
	return def
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
