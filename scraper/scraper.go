package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aluiziolira/go-extract-books/config"
	"github.com/aluiziolira/go-extract-books/models"
	"github.com/gocolly/colly/v2"
)

// Scraper wraps a colly collector that reads listing documents from disk.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	extractor *Extractor
	Metrics   *Metrics

	batch   *batch
	loadErr error

	handlersOnce sync.Once
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if err := cfg.Placeholders.Validate(); err != nil {
		return nil, fmt.Errorf("placeholders: %w", err)
	}

	collector := colly.NewCollector(colly.AllowURLRevisit())
	collector.MaxBodySize = 0
	collector.WithTransport(fileTransport{})

	metrics := NewMetrics()
	return &Scraper{
		cfg:       cfg,
		collector: collector,
		extractor: NewExtractor(cfg.Placeholders, metrics),
		Metrics:   metrics,
	}, nil
}

// ScrapeFile extracts every listing from the document at path. An empty path
// means the configured input file.
func (s *Scraper) ScrapeFile(ctx context.Context, path string) (*models.ExtractionResult, error) {
	if path == "" {
		path = s.cfg.InputFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}
	target := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return s.Run(ctx, target.String())
}

// Run loads the document at target and extracts its listings.
func (s *Scraper) Run(ctx context.Context, target string) (*models.ExtractionResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.configureHandlers()

	s.batch = s.extractor.newBatch()
	s.loadErr = nil
	defer func() {
		s.batch = nil
	}()

	if err := s.collector.Visit(target); err != nil {
		if s.loadErr != nil {
			return nil, fmt.Errorf("load %s: %w", target, s.loadErr)
		}
		return nil, fmt.Errorf("load %s: %w", target, err)
	}

	return s.batch.finish(), nil
}

func (s *Scraper) configureHandlers() {
	s.handlersOnce.Do(func() {
		s.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			slog.Debug("loading document", slog.String("url", r.URL.String()))
		})

		s.collector.OnResponse(func(r *colly.Response) {
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				s.Metrics.ObserveLoad(time.Since(start))
			}
			slog.Debug("document loaded", slog.Int("bytes", len(r.Body)))
		})

		s.collector.OnError(func(r *colly.Response, err error) {
			statusCode := 0
			if r != nil {
				statusCode = r.StatusCode
			}
			s.loadErr = classifyError(err, statusCode)
			slog.Error("document load error",
				slog.String("category", errorTypeLabel(s.loadErr)),
				slog.Any("error", err),
			)
		})

		s.collector.OnHTML(ListingSelector, func(e *colly.HTMLElement) {
			if s.batch == nil {
				return
			}
			s.batch.add(e.DOM)
		})
	})
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound{Err: err}
	}
	if errors.Is(err, fs.ErrPermission) {
		return ErrForbidden{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		}
	}

	return err
}

// fileTransport serves file:// requests straight from disk. Every body is
// reported as HTML so the collector always runs its OnHTML callbacks.
type fileTransport struct{}

func (fileTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "file" {
		return nil, fmt.Errorf("unsupported scheme %q", req.URL.Scheme)
	}
	body, err := os.ReadFile(filepath.FromSlash(req.URL.Path))
	if err != nil {
		return nil, err
	}
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.0",
		ProtoMajor:    1,
		Header:        http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
