package sld

import "encoding/xml"

// SLD 1.1.0 document structure. Element names carry their prefix literally
// so the output uses the conventional se: prefix instead of per-element
// xmlns declarations.

const (
	nsSLD            = "http://www.opengis.net/sld"
	nsSE             = "http://www.opengis.net/se"
	nsOGC            = "http://www.opengis.net/ogc"
	nsXLink          = "http://www.w3.org/1999/xlink"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation   = "http://www.opengis.net/sld http://schemas.opengis.net/sld/1.1.0/StyledLayerDescriptor.xsd"
	sldVersion       = "1.1.0"
	singleSymbolRule = "Single symbol"
)

type styledLayerDescriptor struct {
	XMLName        xml.Name   `xml:"StyledLayerDescriptor"`
	Xmlns          string     `xml:"xmlns,attr"`
	XmlnsSE        string     `xml:"xmlns:se,attr"`
	XmlnsOGC       string     `xml:"xmlns:ogc,attr"`
	XmlnsXLink     string     `xml:"xmlns:xlink,attr"`
	XmlnsXSI       string     `xml:"xmlns:xsi,attr"`
	Version        string     `xml:"version,attr"`
	SchemaLocation string     `xml:"xsi:schemaLocation,attr"`
	NamedLayer     namedLayer `xml:"NamedLayer"`
}

type namedLayer struct {
	Name      string    `xml:"se:Name"`
	UserStyle userStyle `xml:"UserStyle"`
}

type userStyle struct {
	Name             string           `xml:"se:Name"`
	Description      *description     `xml:"se:Description,omitempty"`
	FeatureTypeStyle featureTypeStyle `xml:"se:FeatureTypeStyle"`
}

type description struct {
	Title string `xml:"se:Title"`
}

type featureTypeStyle struct {
	Rules []rule `xml:"se:Rule"`
}

type rule struct {
	Name              string             `xml:"se:Name"`
	Description       *description       `xml:"se:Description,omitempty"`
	PolygonSymbolizer *polygonSymbolizer `xml:"se:PolygonSymbolizer,omitempty"`
	PointSymbolizer   *pointSymbolizer   `xml:"se:PointSymbolizer,omitempty"`
}

type polygonSymbolizer struct {
	Fill   *fill   `xml:"se:Fill,omitempty"`
	Stroke *stroke `xml:"se:Stroke,omitempty"`
}

type pointSymbolizer struct {
	Graphic graphic `xml:"se:Graphic"`
}

type graphic struct {
	Mark mark   `xml:"se:Mark"`
	Size string `xml:"se:Size"`
}

type mark struct {
	WellKnownName string  `xml:"se:WellKnownName"`
	Fill          *fill   `xml:"se:Fill,omitempty"`
	Stroke        *stroke `xml:"se:Stroke,omitempty"`
}

type fill struct {
	Params []svgParameter `xml:"se:SvgParameter"`
}

type stroke struct {
	Params []svgParameter `xml:"se:SvgParameter"`
}

type svgParameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

func newDocument(layerName string, us userStyle) styledLayerDescriptor {
	return styledLayerDescriptor{
		Xmlns:          nsSLD,
		XmlnsSE:        nsSE,
		XmlnsOGC:       nsOGC,
		XmlnsXLink:     nsXLink,
		XmlnsXSI:       nsXSI,
		Version:        sldVersion,
		SchemaLocation: schemaLocation,
		NamedLayer: namedLayer{
			Name:      layerName,
			UserStyle: us,
		},
	}
}
