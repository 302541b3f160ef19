package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldKind tells the serializer how a field value must be emitted.
type FieldKind int

const (
	// KindText is plain data that gets wrapped in single quotes.
	KindText FieldKind = iota
	// KindNumber is a formatted numeric literal emitted as-is.
	KindNumber
	// KindLiteral is source text that already carries its own quoting or brackets.
	KindLiteral
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field is one named, kind-tagged value of a serialized record.
type Field struct {
	Name  string
	Kind  FieldKind
	Value string
}

// Fields returns the record's fields in output order.
func (b *Book) Fields() []Field {
	return []Field{
		{Name: "id", Kind: KindNumber, Value: strconv.Itoa(b.ID)},
		{Name: "title", Kind: KindText, Value: b.Title},
		{Name: "author", Kind: KindText, Value: b.Author},
		{Name: "cover", Kind: KindText, Value: b.Cover},
		{Name: "description", Kind: KindText, Value: b.Description},
		{Name: "audioUrl", Kind: KindLiteral, Value: QuoteLiteral(b.AudioURL)},
		{Name: "duration", Kind: KindNumber, Value: strconv.Itoa(b.Duration)},
		{Name: "category", Kind: KindLiteral, Value: QuoteLiteral(b.Category)},
		{Name: "tags", Kind: KindLiteral, Value: ListLiteral(b.Tags)},
		{Name: "rating", Kind: KindNumber, Value: FormatDecimal(b.Rating)},
		{Name: "price", Kind: KindNumber, Value: FormatDecimal(b.Price)},
		{Name: "listenCount", Kind: KindNumber, Value: strconv.Itoa(b.ListenCount)},
		{Name: "language", Kind: KindLiteral, Value: QuoteLiteral(b.Language)},
		{Name: "totalTimeSecs", Kind: KindNumber, Value: strconv.Itoa(b.TotalTimeSecs)},
		{Name: "chapters", Kind: KindLiteral, Value: ChaptersLiteral(b.Chapters)},
	}
}

// QuoteLiteral wraps s in single quotes without escaping.
func QuoteLiteral(s string) string {
	return "'" + s + "'"
}

// ListLiteral renders values as a bracketed list of quoted strings.
func ListLiteral(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = QuoteLiteral(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ChaptersLiteral renders the chapter table as one array literal.
func ChaptersLiteral(chapters []Chapter) string {
	parts := make([]string, len(chapters))
	for i, c := range chapters {
		parts[i] = fmt.Sprintf("{ id: %d, title: %s, audioUrl: %s, duration: %d, chapterNumber: %d }",
			c.ID, QuoteLiteral(c.Title), QuoteLiteral(c.AudioURL), c.Duration, c.ChapterNumber)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// FormatDecimal renders v with at least one fractional digit, so 4 becomes "4.0".
func FormatDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
