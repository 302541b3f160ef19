package scraper

import (
	"fmt"
	"html"
	"strings"
)

type listing struct {
	Title       string
	Author      string
	Cover       string
	Description string
	Rating      *string
	Price       *string

	NoTitle       bool
	NoTitleAttr   bool
	NoAuthor      bool
	NoCover       bool
	NoDescription bool
}

func text(s string) *string {
	return &s
}

func wellFormed(n int) listing {
	return listing{
		Title:       fmt.Sprintf("Book %d", n),
		Author:      fmt.Sprintf("Author %d", n),
		Cover:       fmt.Sprintf("https://example.com/cover-%d.jpg?width=200", n),
		Description: fmt.Sprintf("Description %d", n),
		Rating:      text("4.5"),
		Price:       text("12.50"),
	}
}

func (l listing) html() string {
	var b strings.Builder
	b.WriteString(`<div class="listItem-box">`)
	if !l.NoTitle {
		if l.NoTitleAttr {
			b.WriteString(`<h4><a href="/book">untitled</a></h4>`)
		} else {
			fmt.Fprintf(&b, `<h4><a href="/book" title="%s">%s</a></h4>`, html.EscapeString(l.Title), html.EscapeString(l.Title))
		}
	}
	if !l.NoAuthor {
		fmt.Fprintf(&b, `<div class="contributor-info">by <a href="/author">%s</a></div>`, html.EscapeString(l.Author))
	}
	if !l.NoCover {
		fmt.Fprintf(&b, `<img itemprop="image" src="%s" />`, html.EscapeString(l.Cover))
	}
	if !l.NoDescription {
		fmt.Fprintf(&b, `<p class="description">%s</p>`, html.EscapeString(l.Description))
	}
	if l.Rating != nil {
		fmt.Fprintf(&b, `<span class="avg-rating">%s</span>`, html.EscapeString(*l.Rating))
	}
	if l.Price != nil {
		fmt.Fprintf(&b, `<div class="price"><span class="price">%s</span></div>`, html.EscapeString(*l.Price))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func buildDocument(listings ...listing) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>Books</title></head><body><section class="list">`)
	for _, l := range listings {
		b.WriteString(l.html())
	}
	b.WriteString(`</section></body></html>`)
	return b.String()
}
