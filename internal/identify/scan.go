package identify

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// Shapefile part extensions, lower-case.
const (
	ExtSHP = ".shp"
	ExtDBF = ".dbf"
	ExtSHX = ".shx"
	ExtPRJ = ".prj"
	ExtCPG = ".cpg"
)

// PartExtensions lists the shapefile parts carried from input to output,
// in output order.
var PartExtensions = []string{ExtSHP, ExtSHX, ExtDBF, ExtPRJ, ExtCPG}

var companionExtensions = map[string]bool{
	".txt":  true,
	".xml":  true,
	".json": true,
	".csv":  true,
	".html": true,
}

// Candidate is a group of archive entries sharing a directory and basename.
type Candidate struct {
	Basename string            // name without directory and extension, as found
	Path     string            // archive path without extension
	Parts    map[string][]byte // keyed by lower-case extension
}

// Has reports whether the candidate carries the given part.
func (c *Candidate) Has(ext string) bool {
	_, ok := c.Parts[ext]
	return ok
}

// Complete reports whether both geometry and attribute parts are present.
func (c *Candidate) Complete() bool {
	return c.Has(ExtSHP) && c.Has(ExtDBF)
}

// Inventory is the shapefile content of an archive.
type Inventory struct {
	// Candidates holds every group with a .shp part, in archive order.
	Candidates []*Candidate
	// Companions holds non-shapefile text entries by archive path.
	Companions map[string][]byte
	// EntryNames lists every entry path seen, nested archives included.
	EntryNames []string
}

// Complete returns the candidates usable as layers.
func (inv *Inventory) Complete() []*Candidate {
	var out []*Candidate
	for _, c := range inv.Candidates {
		if c.Complete() {
			out = append(out, c)
		}
	}
	return out
}

// Incomplete returns candidates with a .shp but no .dbf.
func (inv *Inventory) Incomplete() []*Candidate {
	var out []*Candidate
	for _, c := range inv.Candidates {
		if !c.Complete() {
			out = append(out, c)
		}
	}
	return out
}

// Basenames returns the basenames of complete candidates, in archive order.
func (inv *Inventory) Basenames() []string {
	var out []string
	for _, c := range inv.Complete() {
		out = append(out, c.Basename)
	}
	return out
}

// ScanOptions bounds archive scanning.
type ScanOptions struct {
	// MaxEntryBytes caps the decompressed size of a single entry (0: no cap).
	MaxEntryBytes int64
}

type scanner struct {
	opts   ScanOptions
	inv    *Inventory
	groups map[string]*Candidate
	order  []string
}

// Scan reads the archive into memory, grouping shapefile parts by path.
// SICAR ships one inner ZIP per layer, so nested .zip entries are opened
// and scanned one level deep.
func Scan(r *zip.Reader, opts ScanOptions) (*Inventory, error) {
	s := &scanner{
		opts:   opts,
		inv:    &Inventory{Companions: make(map[string][]byte)},
		groups: make(map[string]*Candidate),
	}

	if err := s.scan(r, "", true); err != nil {
		return nil, err
	}

	for _, key := range s.order {
		if c := s.groups[key]; c.Has(ExtSHP) {
			s.inv.Candidates = append(s.inv.Candidates, c)
		}
	}
	return s.inv, nil
}

func (s *scanner) scan(r *zip.Reader, prefix string, nested bool) error {
	for _, f := range r.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") || ignored(name) {
			continue
		}

		full := prefix + name
		s.inv.EntryNames = append(s.inv.EntryNames, full)

		ext := strings.ToLower(path.Ext(name))
		switch {
		case ext == ".zip" && nested:
			data, err := s.read(f, full)
			if err != nil {
				return err
			}
			inner, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				return &ArchiveError{Entry: full, Err: err}
			}
			if err := s.scan(inner, strings.TrimSuffix(full, path.Ext(full))+"/", false); err != nil {
				return err
			}

		case isPart(ext):
			data, err := s.read(f, full)
			if err != nil {
				return err
			}
			s.addPart(full, ext, data)

		case companionExtensions[ext]:
			data, err := s.read(f, full)
			if err != nil {
				return err
			}
			s.inv.Companions[full] = data
		}
	}
	return nil
}

func (s *scanner) addPart(full, ext string, data []byte) {
	stem := strings.TrimSuffix(full, path.Ext(full))
	key := strings.ToLower(stem)

	c, ok := s.groups[key]
	if !ok {
		c = &Candidate{
			Basename: path.Base(stem),
			Path:     stem,
			Parts:    make(map[string][]byte),
		}
		s.groups[key] = c
		s.order = append(s.order, key)
	}
	c.Parts[ext] = data
}

func (s *scanner) read(f *zip.File, full string) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, &ArchiveError{Entry: full, Err: err}
	}
	defer rc.Close()

	var src io.Reader = rc
	if s.opts.MaxEntryBytes > 0 {
		src = io.LimitReader(rc, s.opts.MaxEntryBytes+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &ArchiveError{Entry: full, Err: err}
	}
	if s.opts.MaxEntryBytes > 0 && int64(len(data)) > s.opts.MaxEntryBytes {
		return nil, &ArchiveError{Entry: full, Err: fmt.Errorf("entry exceeds %d bytes", s.opts.MaxEntryBytes)}
	}
	return data, nil
}

func isPart(ext string) bool {
	for _, p := range PartExtensions {
		if ext == p {
			return true
		}
	}
	return false
}

func ignored(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") || strings.Contains(name, "/__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), ".")
}
