package paysplit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// Loader produces the payroll frame document.
type Loader interface {
	Load(ctx context.Context) (*goquery.Document, error)
}

// Source produces a PaySplit record, either by scraping a document or from a
// fixed sample.
type Source interface {
	PaySplit(ctx context.Context) (PaySplit, error)
}

// FileLoader reads a saved frame document from disk.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(ctx context.Context) (*goquery.Document, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, l.Path)
		}
		return nil, err
	}
	return ReaderLoader{HTML: data}.Load(ctx)
}

// ReaderLoader parses a frame document already held in memory.
type ReaderLoader struct {
	HTML []byte
}

func (l ReaderLoader) Load(ctx context.Context) (*goquery.Document, error) {
	if len(bytes.TrimSpace(l.HTML)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrSourceUnavailable)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(l.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing payroll document: %w", err)
	}
	return doc, nil
}

// DocumentSource scrapes a PaySplit out of a loaded document.
type DocumentSource struct {
	Loader Loader
}

func NewDocumentSource(loader Loader) *DocumentSource {
	return &DocumentSource{Loader: loader}
}

func (s *DocumentSource) PaySplit(ctx context.Context) (PaySplit, error) {
	doc, err := s.Loader.Load(ctx)
	if err != nil {
		return PaySplit{}, err
	}
	return Extract(doc)
}

// FixtureSource always yields the same record.
type FixtureSource struct {
	Record PaySplit
}

func NewFixtureSource() *FixtureSource {
	return &FixtureSource{Record: SampleRecord()}
}

func (s *FixtureSource) PaySplit(ctx context.Context) (PaySplit, error) {
	return s.Record, nil
}
