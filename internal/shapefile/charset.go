package shapefile

import (
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset decodes raw DBF text. SICAR writes ISO-8859-1 tables, usually
// without a .cpg, so undeclared text that is not valid UTF-8 is read as
// Latin-1.
type Charset struct {
	name string            // canonical declaration, "" when undeclared
	dec  *encoding.Decoder // nil: UTF-8
}

// UTF8 is the charset of a table declared as UTF-8.
func UTF8() Charset {
	return Charset{name: "UTF-8", dec: encoding.Nop.NewDecoder()}
}

// CharsetFromCPG interprets the content of a .cpg file. A nil or empty
// declaration yields the detecting charset.
func CharsetFromCPG(cpg []byte) Charset {
	name := strings.ToUpper(strings.TrimSpace(string(cpg)))
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)

	switch name {
	case "":
		return Charset{}
	case "UTF8", "65001":
		return UTF8()
	case "ISO88591", "LATIN1", "88591", "28591":
		return Charset{name: "ISO-8859-1", dec: charmap.ISO8859_1.NewDecoder()}
	case "1252", "CP1252", "WINDOWS1252", "ANSI1252":
		return Charset{name: "windows-1252", dec: charmap.Windows1252.NewDecoder()}
	case "850", "CP850", "IBM850":
		return Charset{name: "IBM850", dec: charmap.CodePage850.NewDecoder()}
	default:
		return Charset{}
	}
}

// Name returns the canonical name of the declared encoding, or "" for the
// detecting charset.
func (c Charset) Name() string {
	return c.name
}

// Decode converts a raw DBF value to UTF-8.
func (c Charset) Decode(raw string) string {
	dec := c.dec
	if dec == nil {
		if utf8.ValidString(raw) {
			return raw
		}
		dec = charmap.ISO8859_1.NewDecoder()
	}
	out, err := dec.String(raw)
	if err != nil {
		return raw
	}
	return out
}

// maxFieldSize is the widest DBF character field.
const maxFieldSize = 254

// Transcode returns a copy of the layer with every attribute converted to
// UTF-8 through cs. Character fields grow to fit the longer encoding; a
// value that would still exceed 254 bytes is cut at a rune boundary.
func (l *Layer) Transcode(cs Charset) *Layer {
	out := *l
	out.Fields = append([]shp.Field(nil), l.Fields...)
	out.Features = make([]Feature, len(l.Features))
	for i, f := range l.Features {
		attrs := make([]string, len(f.Attributes))
		for j, raw := range f.Attributes {
			v := cs.Decode(raw)
			if j < len(out.Fields) && out.Fields[j].Fieldtype == 'C' {
				v = truncateUTF8(v, maxFieldSize)
				if len(v) > int(out.Fields[j].Size) {
					out.Fields[j].Size = uint8(len(v))
				}
			}
			attrs[j] = v
		}
		out.Features[i] = Feature{Geometry: f.Geometry, Attributes: attrs}
	}
	return &out
}

// WidenFields returns a's fields with every size raised to the matching
// field of b, so values of both layers fit. Layouts must already agree.
func WidenFields(a, b []shp.Field) []shp.Field {
	out := append([]shp.Field(nil), a...)
	for i := range out {
		if i < len(b) && b[i].Size > out[i].Size {
			out[i].Size = b[i].Size
		}
	}
	return out
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
