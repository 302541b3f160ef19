package scraper

import (
	"testing"

	"github.com/aluiziolira/go-extract-books/config"
	"github.com/aluiziolira/go-extract-books/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, doc string) *models.ExtractionResult {
	t.Helper()
	x := NewExtractor(config.DefaultPlaceholders(), nil)
	result, err := x.Extract(doc)
	require.NoError(t, err)
	return result
}

func TestExtractWellFormedListing(t *testing.T) {
	l := wellFormed(1)
	l.Author = "\n   Ziqing Zhu  \n"
	l.Description = "  He said \"hi\"\nthen left  "

	result := extract(t, buildDocument(l))
	require.Len(t, result.Books, 1)
	require.Empty(t, result.Failures)

	book := result.Books[0]
	assert.Equal(t, 1, book.ID)
	assert.Equal(t, "Book 1", book.Title)
	assert.Equal(t, "Ziqing Zhu", book.Author)
	assert.Equal(t, "https://example.com/cover-1.jpg", book.Cover)
	assert.Equal(t, `He said \"hi\"\nthen left`, book.Description)
	assert.Equal(t, 4.5, book.Rating)
	assert.Equal(t, 12.5, book.Price)
	assert.Equal(t, 1100, book.ListenCount)

	assert.Equal(t, "/src/audio/googleStitchUI_demo.wav", book.AudioURL)
	assert.Equal(t, 3600, book.Duration)
	assert.Equal(t, 3600, book.TotalTimeSecs)
	assert.Equal(t, "未分類", book.Category)
	assert.Equal(t, []string{"未分類"}, book.Tags)
	assert.Equal(t, "中文", book.Language)
	require.Len(t, book.Chapters, 3)
	for i, ch := range book.Chapters {
		assert.Equal(t, i+1, ch.ID)
		assert.Equal(t, i+1, ch.ChapterNumber)
		assert.Equal(t, 1200, ch.Duration)
		assert.Equal(t, book.AudioURL, ch.AudioURL)
	}
	assert.Equal(t, "第二章", book.Chapters[1].Title)
}

func TestExtractIDsTrackSourcePosition(t *testing.T) {
	broken := wellFormed(2)
	broken.NoAuthor = true

	result := extract(t, buildDocument(wellFormed(1), broken, wellFormed(3)))
	require.Len(t, result.Books, 2)
	assert.Equal(t, 1, result.Books[0].ID)
	assert.Equal(t, 3, result.Books[1].ID)
	assert.Equal(t, "Book 3", result.Books[1].Title)
	assert.Equal(t, 1300, result.Books[1].ListenCount)

	assert.Equal(t, 3, result.ListingCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Index)
	assert.ErrorAs(t, result.Failures[0].Err, &ErrMissingField{})
	assert.Equal(t, 1, result.ErrorsByType["missing_author"])
}

func TestExtractSkipsListingsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*listing)
		label  string
	}{
		{name: "no title link", mutate: func(l *listing) { l.NoTitle = true }, label: "missing_title"},
		{name: "no title attribute", mutate: func(l *listing) { l.NoTitleAttr = true }, label: "missing_title"},
		{name: "no author", mutate: func(l *listing) { l.NoAuthor = true }, label: "missing_author"},
		{name: "no cover", mutate: func(l *listing) { l.NoCover = true }, label: "missing_cover"},
		{name: "no description", mutate: func(l *listing) { l.NoDescription = true }, label: "missing_description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := wellFormed(2)
			tt.mutate(&broken)

			result := extract(t, buildDocument(wellFormed(1), broken, wellFormed(3)))
			require.Len(t, result.Books, 2)
			for _, book := range result.Books {
				assert.NotEqual(t, "Book 2", book.Title)
				assert.NotEqual(t, 2, book.ID)
			}
			assert.Equal(t, "Book 1", result.Books[0].Title)
			assert.Equal(t, "Book 3", result.Books[1].Title)
			assert.Equal(t, 1, result.ErrorsByType[tt.label])
		})
	}
}

func TestExtractOptionalNumbers(t *testing.T) {
	tests := []struct {
		name       string
		rating     *string
		price      *string
		wantSkip   bool
		wantRating float64
		wantPrice  float64
	}{
		{name: "both present", rating: text("4.5"), price: text("9.99"), wantRating: 4.5, wantPrice: 9.99},
		{name: "rating absent", rating: nil, price: text("1"), wantRating: 4.0, wantPrice: 1},
		{name: "rating empty", rating: text(""), price: text("1"), wantRating: 4.0, wantPrice: 1},
		{name: "rating whitespace", rating: text("  \n "), price: text("1"), wantRating: 4.0, wantPrice: 1},
		{name: "price absent", rating: text("3"), price: nil, wantRating: 3, wantPrice: 0},
		{name: "price empty", rating: text("3"), price: text(""), wantRating: 3, wantPrice: 0},
		{name: "rating non numeric", rating: text("great"), price: text("1"), wantSkip: true},
		{name: "price non numeric", rating: text("3"), price: text("NT$300"), wantSkip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := wellFormed(1)
			l.Rating = tt.rating
			l.Price = tt.price

			result := extract(t, buildDocument(l))
			if tt.wantSkip {
				assert.Empty(t, result.Books)
				require.Len(t, result.Failures, 1)
				assert.ErrorAs(t, result.Failures[0].Err, &ErrMalformedNumber{})
				return
			}
			require.Len(t, result.Books, 1)
			assert.Equal(t, tt.wantRating, result.Books[0].Rating)
			assert.Equal(t, tt.wantPrice, result.Books[0].Price)
		})
	}
}

func TestExtractUsesConfiguredPlaceholders(t *testing.T) {
	p := config.DefaultPlaceholders()
	p.AudioURL = "/audio/sample.mp3"
	p.ChapterTitles = []string{"Intro", "Outro"}
	p.ChapterDuration = 90
	p.DefaultRating = 3.0
	p.ListenCountBase = 0
	p.ListenCountStep = 10

	l := wellFormed(1)
	l.Rating = nil

	result, err := NewExtractor(p, nil).Extract(buildDocument(l))
	require.NoError(t, err)
	require.Len(t, result.Books, 1)

	book := result.Books[0]
	assert.Equal(t, "/audio/sample.mp3", book.AudioURL)
	assert.Equal(t, 3.0, book.Rating)
	assert.Equal(t, 10, book.ListenCount)
	require.Len(t, book.Chapters, 2)
	assert.Equal(t, "Outro", book.Chapters[1].Title)
	assert.Equal(t, 90, book.Chapters[1].Duration)
	assert.Equal(t, "/audio/sample.mp3", book.Chapters[0].AudioURL)
}

func TestExtractNoListings(t *testing.T) {
	result := extract(t, "<html><body><p>nothing here</p></body></html>")
	assert.Empty(t, result.Books)
	assert.Empty(t, result.Failures)
	assert.Zero(t, result.ListingCount)
}

func TestExtractCountsMetrics(t *testing.T) {
	metrics := NewMetrics()
	broken := wellFormed(2)
	broken.NoCover = true

	_, err := NewExtractor(config.DefaultPlaceholders(), metrics).Extract(buildDocument(wellFormed(1), broken))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ListingsTotal.WithLabelValues("extracted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ListingsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FailuresTotal.WithLabelValues("missing_cover")))
}
