package config

import (
	"fmt"
	"math"
	"strings"
)

// Output formats understood by the pipeline.
const (
	FormatTS   = "ts"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatDual = "dual"
)

// Placeholders is the synthetic asset set attached to every extracted book.
type Placeholders struct {
	AudioURL        string
	Duration        int
	Category        string
	Tags            []string
	Language        string
	TotalTimeSecs   int
	ChapterTitles   []string
	ChapterDuration int
	DefaultRating   float64
	DefaultPrice    float64
	ListenCountBase int
	ListenCountStep int
}

// Config holds extractor configuration.
type Config struct {
	InputFile    string `env:"EXTRACT_INPUT"`
	OutputFile   string `env:"EXTRACT_OUTPUT"`
	OutputFormat string `env:"EXTRACT_FORMAT"` // ts, json, csv, or dual
	MetricsFile  string `env:"EXTRACT_METRICS_FILE"`
	Verbose      bool   `env:"EXTRACT_VERBOSE"`
	Placeholders Placeholders
}

// DefaultPlaceholders returns the demo asset set used by the audiobook front-end.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		AudioURL:        "/src/audio/googleStitchUI_demo.wav",
		Duration:        3600,
		Category:        "未分類",
		Tags:            []string{"未分類"},
		Language:        "中文",
		TotalTimeSecs:   3600,
		ChapterTitles:   []string{"第一章", "第二章", "第三章"},
		ChapterDuration: 1200,
		DefaultRating:   4.0,
		DefaultPrice:    0,
		ListenCountBase: 1000,
		ListenCountStep: 100,
	}
}

// DefaultConfig returns the fixed paths and placeholders of a bare invocation.
func DefaultConfig() *Config {
	return &Config{
		InputFile:    "mock-data.html",
		OutputFile:   "book_data.ts",
		OutputFormat: FormatTS,
		MetricsFile:  "",
		Verbose:      false,
		Placeholders: DefaultPlaceholders(),
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputFile) == "" {
		return fmt.Errorf("input file cannot be empty")
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	switch c.OutputFormat {
	case FormatTS, FormatJSON, FormatCSV, FormatDual:
	default:
		return fmt.Errorf("output format must be ts, json, csv, or dual")
	}
	if c.MetricsFile != "" && c.MetricsFile == c.OutputFile {
		return fmt.Errorf("metrics file %q collides with output file", c.MetricsFile)
	}
	return c.Placeholders.Validate()
}

// Validate checks the placeholder asset set.
func (p Placeholders) Validate() error {
	if p.AudioURL == "" {
		return fmt.Errorf("placeholder audio URL cannot be empty")
	}
	if p.Duration <= 0 {
		return fmt.Errorf("placeholder duration must be positive")
	}
	if p.TotalTimeSecs <= 0 {
		return fmt.Errorf("placeholder total time must be positive")
	}
	if len(p.ChapterTitles) == 0 {
		return fmt.Errorf("placeholder chapter titles cannot be empty")
	}
	if p.ChapterDuration <= 0 {
		return fmt.Errorf("placeholder chapter duration must be positive")
	}
	if math.IsNaN(p.DefaultRating) || math.IsInf(p.DefaultRating, 0) {
		return fmt.Errorf("default rating must be finite")
	}
	if math.IsNaN(p.DefaultPrice) || math.IsInf(p.DefaultPrice, 0) {
		return fmt.Errorf("default price must be finite")
	}
	if p.ListenCountBase < 0 || p.ListenCountStep < 0 {
		return fmt.Errorf("listen count base and step cannot be negative")
	}
	return nil
}
