package car

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// ArchiveFetcher downloads the raw archive of a CAR registration.
type ArchiveFetcher interface {
	FetchArchive(ctx context.Context, carCode string) ([]byte, error)
}

// ArchiveSink delivers a processed archive.
type ArchiveSink interface {
	ReturnArchive(ctx context.Context, filename string, data []byte) error
}

// FetcherFunc adapts a function to ArchiveFetcher.
type FetcherFunc func(ctx context.Context, carCode string) ([]byte, error)

func (f FetcherFunc) FetchArchive(ctx context.Context, carCode string) ([]byte, error) {
	return f(ctx, carCode)
}

// SinkFunc adapts a function to ArchiveSink.
type SinkFunc func(ctx context.Context, filename string, data []byte) error

func (f SinkFunc) ReturnArchive(ctx context.Context, filename string, data []byte) error {
	return f(ctx, filename, data)
}

// Service runs fetch, process and deliver for one registration.
type Service struct {
	fetcher   ArchiveFetcher
	processor Processor
	sink      ArchiveSink
}

// NewService wires the three stages together.
func NewService(fetcher ArchiveFetcher, processor Processor, sink ArchiveSink) *Service {
	return &Service{fetcher: fetcher, processor: processor, sink: sink}
}

// Run fetches the archive of carCode, processes it and hands the result
// to the sink. Nothing reaches the sink when processing fails.
func (s *Service) Run(ctx context.Context, carCode string) (*Result, error) {
	raw, err := s.fetcher.FetchArchive(ctx, carCode)
	if err != nil {
		return nil, fmt.Errorf("fetch archive %s: %w", carCode, err)
	}

	res, out, err := s.processor.ProcessNamed(ctx, carCode+".zip", raw)
	if err != nil {
		return nil, err
	}

	if err := s.sink.ReturnArchive(ctx, res.Filename(), out); err != nil {
		return res, fmt.Errorf("deliver %s: %w", res.Filename(), err)
	}
	return res, nil
}

// HTTPSink streams the archive as a file download.
type HTTPSink struct {
	W http.ResponseWriter
}

func (s HTTPSink) ReturnArchive(_ context.Context, filename string, data []byte) error {
	h := s.W.Header()
	h.Set("Content-Type", "application/zip")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	s.W.WriteHeader(http.StatusOK)

	_, err := s.W.Write(data)
	return err
}

// FileSink writes the archive into Dir under its delivery name.
type FileSink struct {
	Dir string
}

func (s FileSink) ReturnArchive(_ context.Context, filename string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, filepath.Base(filename)), data, 0o644)
}

// FileFetcher reads archives from Dir, named <carCode>.zip.
type FileFetcher struct {
	Dir string
}

func (f FileFetcher) FetchArchive(_ context.Context, carCode string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.Dir, filepath.Base(carCode)+".zip"))
}
