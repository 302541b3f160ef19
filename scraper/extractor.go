package scraper

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-extract-books/config"
	"github.com/aluiziolira/go-extract-books/models"
	"github.com/aluiziolira/go-extract-books/parser"
)

// Extractor turns listing nodes into book records, substituting placeholders
// for everything the markup does not carry.
type Extractor struct {
	placeholders config.Placeholders
	metrics      *Metrics
}

// NewExtractor builds an extractor for the given placeholder set. metrics may be nil.
func NewExtractor(placeholders config.Placeholders, metrics *Metrics) *Extractor {
	return &Extractor{
		placeholders: placeholders,
		metrics:      metrics,
	}
}

// Extract parses document text and extracts every listing in document order.
// Listings that fail are reported in the result's Failures, never as the error.
func (x *Extractor) Extract(text string) (*models.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return x.ExtractSelection(doc.Selection), nil
}

// ExtractSelection extracts the listings found beneath root.
func (x *Extractor) ExtractSelection(root *goquery.Selection) *models.ExtractionResult {
	b := x.newBatch()
	root.Find(ListingSelector).Each(func(_ int, item *goquery.Selection) {
		b.add(item)
	})
	return b.finish()
}

// Listing extracts one listing node. idx is the listing's 1-based position
// among all listing nodes and becomes the book ID.
func (x *Extractor) Listing(idx int, item *goquery.Selection) (*models.Book, error) {
	title, err := requiredAttr(item, TitleSelector, "title", "title")
	if err != nil {
		return nil, err
	}
	author, err := requiredText(item, AuthorSelector, "author")
	if err != nil {
		return nil, err
	}
	cover, err := requiredAttr(item, CoverSelector, "src", "cover")
	if err != nil {
		return nil, err
	}
	description, err := requiredText(item, DescriptionSelector, "description")
	if err != nil {
		return nil, err
	}

	p := x.placeholders
	rating, err := optionalDecimal(item, RatingSelector, "rating", p.DefaultRating)
	if err != nil {
		return nil, err
	}
	price, err := optionalDecimal(item, PriceSelector, "price", p.DefaultPrice)
	if err != nil {
		return nil, err
	}

	return &models.Book{
		ID:            idx,
		Title:         title,
		Author:        parser.NormalizeAuthor(author),
		Cover:         parser.NormalizeCover(cover),
		Description:   parser.EscapeDescription(description),
		AudioURL:      p.AudioURL,
		Duration:      p.Duration,
		Category:      p.Category,
		Tags:          append([]string(nil), p.Tags...),
		Rating:        rating,
		Price:         price,
		ListenCount:   parser.ListenCount(p.ListenCountBase, p.ListenCountStep, idx),
		Language:      p.Language,
		TotalTimeSecs: p.TotalTimeSecs,
		Chapters:      x.chapters(),
	}, nil
}

func (x *Extractor) chapters() []models.Chapter {
	p := x.placeholders
	out := make([]models.Chapter, len(p.ChapterTitles))
	for i, title := range p.ChapterTitles {
		out[i] = models.Chapter{
			ID:            i + 1,
			Title:         title,
			AudioURL:      p.AudioURL,
			Duration:      p.ChapterDuration,
			ChapterNumber: i + 1,
		}
	}
	return out
}

// batch accumulates successes and failures for one document.
type batch struct {
	x      *Extractor
	idx    int
	result *models.ExtractionResult
}

func (x *Extractor) newBatch() *batch {
	return &batch{
		x: x,
		result: &models.ExtractionResult{
			StartTime:    time.Now(),
			ErrorsByType: make(map[string]int),
		},
	}
}

func (b *batch) add(item *goquery.Selection) {
	b.idx++
	b.result.ListingCount++

	book, err := b.x.Listing(b.idx, item)
	if err != nil {
		label := errorTypeLabel(err)
		b.result.Failures = append(b.result.Failures, models.ListingFailure{Index: b.idx, Err: err})
		b.result.ErrorsByType[label]++
		b.x.metrics.IncListing("failed")
		b.x.metrics.IncFailure(label)
		slog.Warn("skipping listing",
			slog.Int("index", b.idx),
			slog.String("reason", label),
			slog.Any("error", err),
		)
		return
	}

	b.result.Books = append(b.result.Books, book)
	b.x.metrics.IncListing("extracted")
}

func (b *batch) finish() *models.ExtractionResult {
	b.result.EndTime = time.Now()
	slog.Debug("extraction finished",
		slog.Int("listings", b.result.ListingCount),
		slog.Int("books", len(b.result.Books)),
		slog.Int("failures", len(b.result.Failures)),
	)
	return b.result
}

func requiredAttr(item *goquery.Selection, selector, attr, field string) (string, error) {
	node := item.Find(selector).First()
	if node.Length() == 0 {
		return "", ErrMissingField{Field: field, Selector: selector}
	}
	value, ok := node.Attr(attr)
	if !ok {
		return "", ErrMissingField{Field: field, Selector: selector + "[" + attr + "]"}
	}
	return value, nil
}

func requiredText(item *goquery.Selection, selector, field string) (string, error) {
	node := item.Find(selector).First()
	if node.Length() == 0 {
		return "", ErrMissingField{Field: field, Selector: selector}
	}
	return node.Text(), nil
}

// optionalDecimal falls back to def only when the node is absent or blank.
func optionalDecimal(item *goquery.Selection, selector, field string, def float64) (float64, error) {
	node := item.Find(selector).First()
	if node.Length() == 0 {
		return def, nil
	}
	text := node.Text()
	v, err := parser.OptionalDecimal(text, def)
	if err != nil {
		return 0, ErrMalformedNumber{Field: field, Text: strings.TrimSpace(text), Err: err}
	}
	return v, nil
}
