package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/aluiziolira/go-extract-books/config"
	"github.com/aluiziolira/go-extract-books/models"
)

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(books []*models.Book) error
	Close() error
	Validate() error
	Files() []string
}

// NewWriter returns the writer for format. A dual writer puts its JSON file
// next to filename with a .json extension.
func NewWriter(format, filename string) (OutputWriter, error) {
	switch format {
	case config.FormatTS:
		return NewTSWriter(filename)
	case config.FormatJSON:
		return NewJSONWriter(filename)
	case config.FormatCSV:
		return NewCSVWriter(filename)
	case config.FormatDual:
		jsonFilename := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".json"
		return NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// TSWriter collects books and writes them as one TypeScript assignment on Close.
type TSWriter struct {
	filename string
	file     *os.File
	books    []*models.Book
	closed   bool
	mu       sync.Mutex
}

// NewTSWriter creates the output file.
func NewTSWriter(filename string) (*TSWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create ts file: %w", err)
	}

	return &TSWriter{
		filename: filename,
		file:     f,
	}, nil
}

// Write queues books for the final statement.
func (tw *TSWriter) Write(books []*models.Book) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return fmt.Errorf("ts writer closed")
	}
	tw.books = append(tw.books, books...)
	return nil
}

// Close serializes the queued books and closes the file.
func (tw *TSWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return nil
	}
	tw.closed = true

	if _, err := tw.file.WriteString(Serialize(tw.books)); err != nil {
		tw.file.Close()
		return fmt.Errorf("write ts file: %w", err)
	}
	return tw.file.Close()
}

// Validate ensures the file has content.
func (tw *TSWriter) Validate() error {
	return validateNonEmpty(tw.filename, "ts")
}

// Files returns the path written by the writer.
func (tw *TSWriter) Files() []string {
	return []string{tw.filename}
}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	filename string
	file     *os.File
	writer   *csv.Writer
	mu       sync.Mutex
}

var csvHeader = []string{
	"id", "title", "author", "cover", "description", "rating", "price",
	"listen_count", "audio_url", "duration", "category", "tags", "language",
	"total_time_secs", "chapters",
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		filename: filename,
		file:     f,
		writer:   writer,
	}, nil
}

// Write appends books to the CSV output.
func (cw *CSVWriter) Write(books []*models.Book) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, book := range books {
		record := []string{
			strconv.Itoa(book.ID),
			book.Title,
			book.Author,
			book.Cover,
			book.Description,
			models.FormatDecimal(book.Rating),
			models.FormatDecimal(book.Price),
			strconv.Itoa(book.ListenCount),
			book.AudioURL,
			strconv.Itoa(book.Duration),
			book.Category,
			strings.Join(book.Tags, "|"),
			book.Language,
			strconv.Itoa(book.TotalTimeSecs),
			strconv.Itoa(len(book.Chapters)),
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	return validateNonEmpty(cw.filename, "csv")
}

// Files returns the path written by the writer.
func (cw *CSVWriter) Files() []string {
	return []string{cw.filename}
}

// JSONWriter writes all records as one indented JSON array.
type JSONWriter struct {
	filename string
	file     *os.File
	books    []*models.Book
	closed   bool
	mu       sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	return &JSONWriter{
		filename: filename,
		file:     f,
		books:    []*models.Book{},
	}, nil
}

// Write queues books for the array.
func (jw *JSONWriter) Write(books []*models.Book) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.closed {
		return fmt.Errorf("json writer closed")
	}
	jw.books = append(jw.books, books...)
	return nil
}

// Close encodes the array and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.closed {
		return nil
	}
	jw.closed = true

	buffer := bufio.NewWriter(jw.file)
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jw.books); err != nil {
		jw.file.Close()
		return fmt.Errorf("encode json records: %w", err)
	}
	if err := buffer.Flush(); err != nil {
		jw.file.Close()
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	return validateNonEmpty(jw.filename, "json")
}

// Files returns the path written by the writer.
func (jw *JSONWriter) Files() []string {
	return []string{jw.filename}
}

func validateNonEmpty(filename, kind string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("stat %s file: %w", kind, err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("%s file is empty", kind)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
