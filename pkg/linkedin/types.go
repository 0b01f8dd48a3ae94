// Package linkedin defines the data model produced by the feed scraper.
package linkedin

// FeedScrapeResult is the report assembled from one scrape run of a
// company's posts page. It is built once by the scraper and not mutated
// afterwards.
type FeedScrapeResult struct {
	CompanyName string       `json:"company_name"`
	Timestamp   string       `json:"timestamp"`
	SourceURL   string       `json:"source_url"`
	Posts       []PostRecord `json:"posts"`
}

// PostRecord holds the extracted data for a single feed post. Count fields
// are decimal digit strings with "0" substituted when the page does not
// render the count.
type PostRecord struct {
	PostText    string          `json:"post_text"`
	Likes       string          `json:"likes"`
	Comments    string          `json:"comments"`
	Shares      string          `json:"shares"`
	ImageURLs   []string        `json:"image_urls"`
	VideoURLs   []string        `json:"video_urls"`
	TopComments []CommentRecord `json:"top_comments"`
}

// CommentRecord is a single extracted comment.
type CommentRecord struct {
	CommentText string `json:"comment_text"`
	Likes       string `json:"likes"`
}

// UnextractableText is stored in PostRecord.PostText when the post body
// cannot be located under any known selector.
const UnextractableText = "[unextractable]"

// DigitRun returns the decimal digits of s concatenated, or "0" when s
// contains none. Count spans render values like "12 comments" or
// "1,024 reposts"; thousands separators are dropped with the rest of the
// non-digit characters.
func DigitRun(s string) string {
	var digits []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) == 0 {
		return "0"
	}
	return string(digits)
}
