package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"paysplit/internal/domain/payslip"
	"paysplit/internal/domain/paysplit"
	cryptoutil "paysplit/internal/platform/crypto"
	"paysplit/internal/platform/metrics"
)

type Service struct {
	source    paysplit.Source
	renderer  *payslip.Renderer
	outputDir string
	crypto    *cryptoutil.Service
	metrics   *metrics.Collector
}

func NewService(source paysplit.Source, renderer *payslip.Renderer, outputDir string, crypto *cryptoutil.Service, collector *metrics.Collector) *Service {
	return &Service{
		source:    source,
		renderer:  renderer,
		outputDir: outputDir,
		crypto:    crypto,
		metrics:   collector,
	}
}

// Dispatch runs one extraction cycle for the requested action. A cycle either
// completes or fails as a whole; nothing is written on failure.
func (s *Service) Dispatch(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp, err := s.dispatch(ctx, req)
	s.metrics.RecordCommand(string(req.Action), err)
	if err != nil {
		slog.Warn("command failed", "action", req.Action, "err", err, "durationMs", time.Since(start).Milliseconds())
		return Response{}, err
	}
	slog.Info("command completed", "action", req.Action, "file", resp.FileName, "durationMs", time.Since(start).Milliseconds())
	return resp, nil
}

func (s *Service) dispatch(ctx context.Context, req Request) (Response, error) {
	if !req.Action.Valid() {
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	split, err := s.sourceFor(req).PaySplit(ctx)
	if err != nil {
		return Response{}, err
	}

	switch req.Action {
	case ActionParse:
		return Response{Action: req.Action, PaySplit: &split}, nil
	default:
		name, path, err := s.save(split)
		if err != nil {
			return Response{}, err
		}
		return Response{Action: req.Action, FileName: name, FilePath: path}, nil
	}
}

func (s *Service) sourceFor(req Request) paysplit.Source {
	if req.Document != "" {
		return paysplit.NewDocumentSource(paysplit.ReaderLoader{HTML: []byte(req.Document)})
	}
	return s.source
}

// Render extracts from the given source (or the configured one when nil) and
// returns the PDF bytes with their file name, without saving.
func (s *Service) Render(ctx context.Context, source paysplit.Source) (string, []byte, error) {
	if source == nil {
		source = s.source
	}
	split, err := source.PaySplit(ctx)
	if err != nil {
		return "", nil, err
	}
	data, err := s.renderer.Render(split)
	if err != nil {
		return "", nil, err
	}
	return payslip.FileName(&split), data, nil
}

func (s *Service) save(split paysplit.PaySplit) (string, string, error) {
	data, err := s.renderer.Render(split)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", "", err
	}
	name := payslip.FileName(&split)
	path := filepath.Join(s.outputDir, name)

	if s.crypto.Configured() {
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return "", "", err
		}
		path += ".enc"
		if err := os.WriteFile(path, encrypted, 0o600); err != nil {
			return "", "", err
		}
		return name, path, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return name, path, nil
}
