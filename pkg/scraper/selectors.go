package scraper

// Selectors for the feed page's known structural variants. LinkedIn renders
// posts under several container classes depending on the post type, so post
// discovery walks an ordered fallback chain and later selectors only add
// elements the earlier ones missed.
var postSelectors = []string{
	"div.feed-shared-update-v2",
	"div.feed-shared-update",
	"div.feed-shared-article",
	"div.feed-shared-external-video",
	"div.feed-shared-text",
}

const (
	// Post body, primary and fallback tried as one combined query.
	selPostBody = "span.break-words, div.feed-shared-update-v2__description"

	// Toggle that expands truncated post text.
	selSeeMore = "button.feed-shared-inline-show-more-text__see-more-less-toggle"

	// Reaction total rendered next to the post.
	selReactions = "span.social-details-social-counts__reactions-count"

	// Inline count spans (comments / reposts) hidden from screen readers.
	selHiddenCounts = `span[aria-hidden="true"]`

	// Affordance that reveals the comment list.
	selCommentsButton = `button[aria-label*="comments"]`

	// Control that loads the next chunk of comments.
	selLoadMoreComments = `button[class*="load-more-comments-button"]`

	// One rendered comment.
	selCommentItem = `div[class*="comments-comment-item"]`

	// Comment body and reaction count within a comment item.
	selCommentText  = "span.comments-comment-item__main-content"
	selCommentLikes = "button.comments-comment-social-bar__reactions-count span"
)

// Media class candidates, tried in order per tag.
var (
	imageClasses = []string{"feed-shared-image__image", "feed-shared-image__img"}
	videoClasses = []string{"feed-shared-video__video", "feed-shared-video__player"}
)

// Inline stub LinkedIn substitutes for lazily loaded media.
const lazyLoadStubPrefix = "data:image/gif;base64"
