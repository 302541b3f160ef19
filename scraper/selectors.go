package scraper

// CSS selectors for the book listing markup.
const (
	ListingSelector     = ".listItem-box"
	TitleSelector       = "h4 a"
	AuthorSelector      = ".contributor-info a"
	CoverSelector       = `img[itemprop="image"]`
	DescriptionSelector = "p.description"
	RatingSelector      = ".avg-rating"
	PriceSelector       = ".price .price"
)
