package geo

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// wktNode is one KEYWORD[...] element of a WKT definition.
type wktNode struct {
	Keyword  string
	Values   []string // quoted strings and numbers, in order
	Children []*wktNode
}

func (n *wktNode) child(keyword string) *wktNode {
	for _, c := range n.Children {
		if c.Keyword == keyword {
			return c
		}
	}
	return nil
}

// find searches the subtree depth-first.
func (n *wktNode) find(keyword string) *wktNode {
	if n.Keyword == keyword {
		return n
	}
	for _, c := range n.Children {
		if f := c.find(keyword); f != nil {
			return f
		}
	}
	return nil
}

func (n *wktNode) name() string {
	if len(n.Values) == 0 {
		return ""
	}
	return n.Values[0]
}

type wktParser struct {
	src string
	pos int
}

func parseWKT(src string) (*wktNode, error) {
	p := &wktParser{src: src}
	node, err := p.node()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, &WKTSyntaxError{Offset: p.pos, Reason: "trailing content"}
	}
	return node, nil
}

func (p *wktParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *wktParser) node() (*wktNode, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && (isWKTLetter(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return nil, &WKTSyntaxError{Offset: p.pos, Reason: "expected keyword"}
	}
	n := &wktNode{Keyword: strings.ToUpper(p.src[start:p.pos])}

	p.skipSpace()
	if p.pos >= len(p.src) || (p.src[p.pos] != '[' && p.src[p.pos] != '(') {
		// bare keyword such as AXIS direction NORTH
		n.Values = append(n.Values, n.Keyword)
		n.Keyword = ""
		return n, nil
	}
	closer := byte(']')
	if p.src[p.pos] == '(' {
		closer = ')'
	}
	p.pos++

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, &WKTSyntaxError{Offset: p.pos, Reason: "unterminated element " + n.Keyword}
		}

		switch c := p.src[p.pos]; {
		case c == '"':
			s, err := p.quoted()
			if err != nil {
				return nil, err
			}
			n.Values = append(n.Values, s)
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			n.Values = append(n.Values, p.number())
		case isWKTLetter(c):
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			if child.Keyword == "" {
				n.Values = append(n.Values, child.Values...)
			} else {
				n.Children = append(n.Children, child)
			}
		default:
			return nil, &WKTSyntaxError{Offset: p.pos, Reason: "unexpected character " + strconv.QuoteRune(rune(c))}
		}

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, &WKTSyntaxError{Offset: p.pos, Reason: "unterminated element " + n.Keyword}
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return n, nil
		default:
			return nil, &WKTSyntaxError{Offset: p.pos, Reason: "expected ',' or closing bracket"}
		}
	}
}

func (p *wktParser) quoted() (string, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		if c == '"' {
			// doubled quote escapes a quote
			if p.pos < len(p.src) && p.src[p.pos] == '"' {
				sb.WriteByte('"')
				p.pos++
				continue
			}
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
	return "", &WKTSyntaxError{Offset: p.pos, Reason: "unterminated string"}
}

func (p *wktParser) number() string {
	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte("+-.0123456789eE", p.src[p.pos]) >= 0 {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isWKTLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

var (
	plainEPSG = regexp.MustCompile(`(?i)^\s*(?:EPSG\s*:\s*)?(\d{4,5})\s*$`)
	utmName   = regexp.MustCompile(`(?i)UTM[\s_]*zone[\s_]*(\d{1,2})\s*([NS])?`)
)

// ParsePRJ reads a .prj file: OGC or ESRI WKT1, or a bare "EPSG:nnnn".
func ParsePRJ(data []byte) (CRS, error) {
	src := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	if src == "" {
		return CRS{}, &WKTSyntaxError{Reason: "empty definition"}
	}

	if m := plainEPSG.FindStringSubmatch(src); m != nil {
		code, _ := strconv.Atoi(m[1])
		return CRSFromEPSG(code)
	}

	root, err := parseWKT(src)
	if err != nil {
		return CRS{}, err
	}

	// An EPSG authority on the root is authoritative when we know the code.
	if code := authorityCode(root); code != 0 {
		if c, err := CRSFromEPSG(code); err == nil {
			return c, nil
		}
	}

	switch root.Keyword {
	case "GEOGCS":
		return geographicFromWKT(root)
	case "PROJCS":
		return projectedFromWKT(root)
	default:
		return CRS{}, &UnsupportedCRSError{Name: root.name(), Reason: "unsupported WKT root " + root.Keyword}
	}
}

func authorityCode(n *wktNode) int {
	auth := n.child("AUTHORITY")
	if auth == nil || len(auth.Values) < 2 || !strings.EqualFold(auth.Values[0], "EPSG") {
		return 0
	}
	code, err := strconv.Atoi(strings.TrimSpace(auth.Values[1]))
	if err != nil {
		return 0
	}
	return code
}

func datumFromWKT(n *wktNode) (Datum, bool) {
	candidates := []string{n.name()}
	if d := n.find("DATUM"); d != nil {
		candidates = append(candidates, d.name())
		if s := d.child("SPHEROID"); s != nil {
			candidates = append(candidates, s.name())
		}
	}

	for _, c := range candidates {
		name := strings.ToLower(strings.NewReplacer("_", "", " ", "", "-", "").Replace(c))
		switch {
		case strings.Contains(name, "sirgas"):
			return SIRGAS2000, true
		case strings.Contains(name, "sad69") || strings.Contains(name, "southamerican1969") || strings.Contains(name, "sad1969"):
			return SAD69, true
		case strings.Contains(name, "wgs84") || strings.Contains(name, "wgs1984"):
			return DatumWGS84, true
		}
	}
	return Datum{}, false
}

func geographicFromWKT(root *wktNode) (CRS, error) {
	datum, ok := datumFromWKT(root)
	if !ok {
		return CRS{}, &UnsupportedCRSError{Name: root.name(), Reason: "unknown datum"}
	}
	c := CRS{Name: root.name(), Datum: datum}
	c.EPSG = identifyEPSG(c)
	return c, nil
}

func projectedFromWKT(root *wktNode) (CRS, error) {
	geog := root.child("GEOGCS")
	if geog == nil {
		return CRS{}, &UnsupportedCRSError{Name: root.name(), Reason: "projected CRS without GEOGCS"}
	}
	datum, ok := datumFromWKT(geog)
	if !ok {
		return CRS{}, &UnsupportedCRSError{Name: root.name(), Reason: "unknown datum"}
	}

	proj := root.child("PROJECTION")
	if proj == nil || !strings.Contains(strings.ToLower(proj.name()), "transverse_mercator") {
		// some writers omit parameters but keep the zone in the name
		if m := utmName.FindStringSubmatch(root.name()); m != nil && proj == nil {
			zone, _ := strconv.Atoi(m[1])
			tm := UTM(zone, strings.EqualFold(m[2], "S"))
			return finishProjected(root.name(), datum, tm), nil
		}
		method := ""
		if proj != nil {
			method = proj.name()
		}
		return CRS{}, &UnsupportedCRSError{Name: root.name(), Reason: "unsupported projection " + strconv.Quote(method)}
	}

	if unit := root.child("UNIT"); unit != nil && len(unit.Values) > 1 {
		if f, err := strconv.ParseFloat(unit.Values[1], 64); err == nil && f != 1 {
			return CRS{}, &UnsupportedCRSError{Name: root.name(), Reason: "linear unit is not metre"}
		}
	}

	tm := TransverseMercator{ScaleFactor: 1}
	for _, c := range root.Children {
		if c.Keyword != "PARAMETER" || len(c.Values) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(c.Values[1], 64)
		if err != nil {
			return CRS{}, &WKTSyntaxError{Reason: "parameter " + c.Values[0] + ": " + err.Error()}
		}
		switch strings.ToLower(c.Values[0]) {
		case "latitude_of_origin":
			tm.LatOrigin = v
		case "central_meridian", "longitude_of_center":
			tm.CentralMeridian = v
		case "scale_factor":
			tm.ScaleFactor = v
		case "false_easting":
			tm.FalseEasting = v
		case "false_northing":
			tm.FalseNorthing = v
		}
	}
	return finishProjected(root.name(), datum, tm), nil
}

func finishProjected(name string, datum Datum, tm TransverseMercator) CRS {
	c := CRS{Name: name, Datum: datum, Projection: &tm}
	c.EPSG = identifyEPSG(c)
	return c
}
