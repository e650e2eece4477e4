package processor

import (
	"archive/zip"
	"fmt"

	"github.com/terrabrasil/carkit/internal/catalog"
	"github.com/terrabrasil/carkit/internal/identify"
	"github.com/terrabrasil/carkit/internal/logger"
	"github.com/terrabrasil/carkit/internal/shapefile"
)

// themeLayer is one output layer: every layer part assigned to the same
// output name, merged.
type themeLayer struct {
	theme   catalog.ThemeDefinition
	name    string
	layer   *shapefile.Layer
	charset shapefile.Charset
	cpg     []byte
	sources []layerPart

	transcoded bool // attributes were rewritten as UTF-8
}

// mergeLayers folds sorted parts into output layers. A later part of an
// already seen output is appended when its layout agrees and skipped
// otherwise.
//
// Parts read through different charsets cannot share one .cpg, so the
// first such merge rewrites the whole output layer as UTF-8, and every
// part after it is transcoded on the way in:
//
//	Reserva_Legal_Proposta_a.dbf + .cpg "ISO-8859-1"
//	Reserva_Legal_Proposta_b.dbf + .cpg "UTF-8"
//	  -> Reserva_Legal/Reserva_Legal_Proposta.dbf + .cpg "UTF-8"
func (p *Processor) mergeLayers(parts []layerPart, res *Result, log logger.Logger) []*themeLayer {
	var out []*themeLayer
	byName := make(map[string]*themeLayer)

	for _, part := range parts {
		basename := part.src.job.cand.Basename

		tl, seen := byName[part.name]
		if !seen {
			tl = &themeLayer{
				theme:   part.theme,
				name:    part.name,
				layer:   part.layer,
				charset: part.src.charset,
				cpg:     part.src.job.cand.Parts[identify.ExtCPG],
				sources: []layerPart{part},
			}
			byName[part.name] = tl
			out = append(out, tl)
			continue
		}

		if !tl.layer.SameSchema(part.layer) {
			p.skipLayer(res, log, basename, fmt.Sprintf("duplicate of theme %s with a different layout", tl.theme.Name))
			continue
		}

		incoming := part.layer
		if !tl.transcoded && tl.charset.Name() != part.src.charset.Name() {
			tl.layer = tl.layer.Transcode(tl.charset)
			tl.charset, tl.cpg, tl.transcoded = shapefile.UTF8(), []byte(utf8CPG), true
			log.Debug("output layer transcoded", map[string]interface{}{
				"theme":    tl.name,
				"basename": basename,
				"charset":  part.src.charset.Name(),
			})
		}
		if tl.transcoded {
			incoming = incoming.Transcode(part.src.charset)
		}

		merged := *tl.layer
		merged.Fields = shapefile.WidenFields(tl.layer.Fields, incoming.Fields)
		merged.Features = append(append([]shapefile.Feature(nil), tl.layer.Features...), incoming.Features...)
		merged.Nulls += incoming.Nulls
		merged.Deleted += incoming.Deleted
		tl.layer = &merged
		tl.sources = append(tl.sources, part)
		log.Debug("layers merged", map[string]interface{}{
			"theme":    tl.name,
			"basename": basename,
		})
	}
	return out
}

// utf8CPG is written for output layers transcoded to UTF-8.
const utf8CPG = "UTF-8"

// archiveWriter records every written path in the result. The first
// write error sticks and is reported by close.
type archiveWriter struct {
	zw  *zip.Writer
	res *Result
	err error
}

func (w *archiveWriter) add(name string, data []byte) {
	if w.err != nil {
		return
	}
	// no timestamps, so equal input yields equal output
	f, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		w.err = err
		return
	}
	if _, err := f.Write(data); err != nil {
		w.err = err
		return
	}
	w.res.GeneratedFiles = append(w.res.GeneratedFiles, name)
}

func (w *archiveWriter) close() error {
	if err := w.zw.Close(); err != nil && w.err == nil {
		w.err = err
	}
	return w.err
}
