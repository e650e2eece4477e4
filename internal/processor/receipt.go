package processor

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/terrabrasil/carkit/internal/shapefile"
)

// receiptPattern matches a SICAR registration code: state, 7-digit IBGE
// municipality code and 32 hex digits, optionally dotted in blocks of four.
var receiptPattern = regexp.MustCompile(`(?i)(?:^|[^A-Z0-9])([A-Z]{2}-\d{7}-[0-9A-F]{4}(?:\.?[0-9A-F]{4}){7})(?:[^0-9A-F]|$)`)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// receiptAttributes are the DBF columns SICAR stores the code in.
var receiptAttributes = []string{"recibo", "cod_imovel"}

// findReceipt searches, in order, the source archive name, companion text
// files, entry names and finally the attribute tables of decoded layers.
func findReceipt(sourceName string, companions map[string][]byte, entries []string, layers []decodedLayer) *string {
	if code := matchReceipt(path.Base(sourceName)); code != "" {
		return &code
	}

	names := make([]string, 0, len(companions))
	for name := range companions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if code := matchReceipt(string(companions[name])); code != "" {
			return &code
		}
	}

	for _, name := range entries {
		if code := matchReceipt(name); code != "" {
			return &code
		}
	}

	for _, l := range layers {
		if code := receiptFromLayer(l.layer, l.charset); code != "" {
			return &code
		}
	}
	return nil
}

func matchReceipt(s string) string {
	m := receiptPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

func receiptFromLayer(layer *shapefile.Layer, cs shapefile.Charset) string {
	if layer == nil {
		return ""
	}
	for _, column := range receiptAttributes {
		i := layer.FieldIndex(column)
		if i < 0 {
			continue
		}
		for _, f := range layer.Features {
			if i >= len(f.Attributes) || f.Attributes[i] == "" {
				continue
			}
			v := cs.Decode(f.Attributes[i])
			if code := matchReceipt(v); code != "" {
				return code
			}
			return strings.Trim(unsafeFilename.ReplaceAllString(v, "_"), "_")
		}
	}
	return ""
}
