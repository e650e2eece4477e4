// Package sld renders OGC Styled Layer Descriptor 1.1.0 documents for CAR
// themes.
//
// Output is a pure function of its input: no timestamps, no map iteration,
// fixed element order. The same request always yields byte-identical XML.
package sld

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/terrabrasil/carkit/internal/catalog"
)

// Style holds the fixed symbolizer parameters shared by every theme.
type Style struct {
	PolygonStrokeWidth float64
	FillOpacity        float64
	PointSize          float64
	PointStrokeWidth   float64
}

// DefaultStyle returns the standard CAR symbology.
func DefaultStyle() Style {
	return Style{
		PolygonStrokeWidth: 0.8,
		FillOpacity:        0.7,
		PointSize:          6,
		PointStrokeWidth:   1.5,
	}
}

// Request describes one styled layer.
type Request struct {
	Name   string // layer name, the theme's canonical name
	Title  string // human-readable title
	Kind   catalog.GeometryKind
	Fill   *catalog.Color // nil: outline only (polygons) or stroke color (points)
	Stroke catalog.Color
}

// ForTheme builds a request for a catalog theme drawn as kind.
func ForTheme(def catalog.ThemeDefinition, kind catalog.GeometryKind) Request {
	return Request{
		Name:   def.Name,
		Title:  def.Label,
		Kind:   kind,
		Fill:   def.Fill,
		Stroke: def.Stroke,
	}
}

// Generator renders SLD documents with a fixed style.
type Generator struct {
	style Style
}

// NewGenerator creates a generator. Zero-valued style fields take the
// DefaultStyle value.
func NewGenerator(style Style) *Generator {
	def := DefaultStyle()
	if style.PolygonStrokeWidth <= 0 {
		style.PolygonStrokeWidth = def.PolygonStrokeWidth
	}
	if style.FillOpacity <= 0 || style.FillOpacity > 1 {
		style.FillOpacity = def.FillOpacity
	}
	if style.PointSize <= 0 {
		style.PointSize = def.PointSize
	}
	if style.PointStrokeWidth <= 0 {
		style.PointStrokeWidth = def.PointStrokeWidth
	}
	return &Generator{style: style}
}

// Style returns the effective style.
func (g *Generator) Style() Style {
	return g.style
}

var defaultGenerator = NewGenerator(DefaultStyle())

// Generate renders req with the default style.
func Generate(req Request) ([]byte, error) {
	return defaultGenerator.Generate(req)
}

// Generate renders a standalone SLD document for one layer.
func (g *Generator) Generate(req Request) ([]byte, error) {
	r, err := g.rule(singleSymbolRule, nil, req)
	if err != nil {
		return nil, err
	}

	us := userStyle{
		Name:             req.Name,
		FeatureTypeStyle: featureTypeStyle{Rules: []rule{r}},
	}
	if req.Title != "" {
		us.Description = &description{Title: req.Title}
	}

	return encode(newDocument(req.Name, us))
}

func (g *Generator) rule(name string, desc *description, req Request) (rule, error) {
	if !req.Stroke.Valid() {
		return rule{}, &InvalidColorError{Field: "stroke", Value: string(req.Stroke)}
	}
	if req.Fill != nil && !req.Fill.Valid() {
		return rule{}, &InvalidColorError{Field: "fill", Value: string(*req.Fill)}
	}

	r := rule{Name: name, Description: desc}
	switch req.Kind {
	case catalog.KindPolygon:
		r.PolygonSymbolizer = g.polygon(req)
	case catalog.KindPoint:
		r.PointSymbolizer = g.point(req)
	default:
		return rule{}, &UnsupportedGeometryKindError{Kind: string(req.Kind)}
	}
	return r, nil
}

func (g *Generator) polygon(req Request) *polygonSymbolizer {
	ps := &polygonSymbolizer{
		Stroke: &stroke{Params: []svgParameter{
			{Name: "stroke", Value: colorValue(req.Stroke)},
			{Name: "stroke-width", Value: formatNumber(g.style.PolygonStrokeWidth)},
			{Name: "stroke-linejoin", Value: "bevel"},
		}},
	}
	if req.Fill != nil {
		ps.Fill = &fill{Params: []svgParameter{
			{Name: "fill", Value: colorValue(*req.Fill)},
			{Name: "fill-opacity", Value: formatNumber(g.style.FillOpacity)},
		}}
	}
	return ps
}

func (g *Generator) point(req Request) *pointSymbolizer {
	fillColor := req.Stroke
	if req.Fill != nil {
		fillColor = *req.Fill
	}

	return &pointSymbolizer{Graphic: graphic{
		Mark: mark{
			WellKnownName: "circle",
			Fill: &fill{Params: []svgParameter{
				{Name: "fill", Value: colorValue(fillColor)},
			}},
			Stroke: &stroke{Params: []svgParameter{
				{Name: "stroke", Value: colorValue(req.Stroke)},
				{Name: "stroke-width", Value: formatNumber(g.style.PointStrokeWidth)},
			}},
		},
		Size: formatNumber(g.style.PointSize),
	}}
}

func encode(doc styledLayerDescriptor) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func colorValue(c catalog.Color) string {
	return "#" + c.Hex()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
