// Package models defines data structures for the extractor.
package models

import "time"

// Chapter is one entry of the placeholder chapter table attached to every book.
type Chapter struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	AudioURL      string `json:"audioUrl"`
	Duration      int    `json:"duration"`
	ChapterNumber int    `json:"chapterNumber"`
}

// Book is the record extracted from one listing node.
type Book struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Cover         string    `json:"cover"`
	Description   string    `json:"description"`
	AudioURL      string    `json:"audioUrl"`
	Duration      int       `json:"duration"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	Rating        float64   `json:"rating"`
	Price         float64   `json:"price"`
	ListenCount   int       `json:"listenCount"`
	Language      string    `json:"language"`
	TotalTimeSecs int       `json:"totalTimeSecs"`
	Chapters      []Chapter `json:"chapters"`
}

// ListingFailure records a listing that was skipped during extraction.
type ListingFailure struct {
	Index int
	Err   error
}

// ExtractionResult holds the outcome of one extraction run.
type ExtractionResult struct {
	Books        []*Book
	Failures     []ListingFailure
	ListingCount int
	StartTime    time.Time
	EndTime      time.Time
	ErrorsByType map[string]int
}
