// Package pipeline turns extracted books into output files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-extract-books/config"
	"github.com/aluiziolira/go-extract-books/models"
)

// ErrNilSource is returned by Run when the pipeline has nothing to read from.
var ErrNilSource = errors.New("pipeline: nil source")

// Source produces the extraction result for an input document.
type Source interface {
	ScrapeFile(ctx context.Context, path string) (*models.ExtractionResult, error)
}

// Recorder receives run-level metrics. *scraper.Metrics satisfies it.
type Recorder interface {
	AddWritten(n int)
	SetRunDuration(d time.Duration)
	WriteTextfile(filename string) error
}

// WriterFactory builds the output writer once extraction has succeeded.
type WriterFactory func(format, filename string) (OutputWriter, error)

// Report summarises a finished run.
type Report struct {
	Result      *models.ExtractionResult
	OutputFiles []string
	MetricsFile string
	Duration    time.Duration
}

// Pipeline runs read -> extract -> serialize -> write once.
type Pipeline struct {
	cfg       *config.Config
	source    Source
	recorder  Recorder
	newWriter WriterFactory
}

// NewPipeline builds a pipeline. recorder may be nil.
func NewPipeline(cfg *config.Config, source Source, recorder Recorder) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		source:    source,
		recorder:  recorder,
		newWriter: NewWriter,
	}
}

// WithWriterFactory replaces the writer constructor.
func (p *Pipeline) WithWriterFactory(factory WriterFactory) *Pipeline {
	p.newWriter = factory
	return p
}

// Run extracts the configured input and writes every successful record.
// The output file is only created after extraction has finished.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.source == nil {
		return nil, ErrNilSource
	}
	start := time.Now()

	result, err := p.source.ScrapeFile(ctx, p.cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", p.cfg.InputFile, err)
	}

	slog.Info("extraction complete",
		slog.Int("listings", result.ListingCount),
		slog.Int("books", len(result.Books)),
		slog.Int("skipped", len(result.Failures)),
	)

	files, err := p.write(result.Books)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Result:      result,
		OutputFiles: files,
		Duration:    time.Since(start),
	}

	if p.recorder != nil {
		p.recorder.AddWritten(len(result.Books))
		p.recorder.SetRunDuration(report.Duration)
		if p.cfg.MetricsFile != "" {
			if err := p.recorder.WriteTextfile(p.cfg.MetricsFile); err != nil {
				return nil, err
			}
			report.MetricsFile = p.cfg.MetricsFile
		}
	}

	return report, nil
}

func (p *Pipeline) write(books []*models.Book) ([]string, error) {
	writer, err := p.newWriter(p.cfg.OutputFormat, p.cfg.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("create writer: %w", err)
	}

	if err := writer.Write(books); err != nil {
		if closeErr := writer.Close(); closeErr != nil {
			slog.Error("close writer", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("write records: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return nil, fmt.Errorf("output validation: %w", err)
	}
	return writer.Files(), nil
}
