package pipeline

import (
	"strings"

	"github.com/aluiziolira/go-extract-books/models"
)

// Serialize renders books as a single `this.books = [ ... ];` statement.
// Every object block ends with a comma, the last one included.
func Serialize(books []*models.Book) string {
	var b strings.Builder
	b.WriteString("this.books = [\n")
	for _, book := range books {
		writeBook(&b, book)
	}
	b.WriteString("];")
	return b.String()
}

func writeBook(b *strings.Builder, book *models.Book) {
	b.WriteString("  {\n")
	for _, f := range book.Fields() {
		b.WriteString("    ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(renderField(f))
		b.WriteString(",\n")
	}
	b.WriteString("  },\n")
}

func renderField(f models.Field) string {
	switch f.Kind {
	case models.KindText:
		return models.QuoteLiteral(f.Value)
	default:
		return f.Value
	}
}
