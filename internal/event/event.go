// Package event defines the data model shared by the pipeline, the store,
// and the dashboard: raw tweets as fetched from X, and the structured
// financial events derived from them.
package event

// RawPost is a single original tweet as returned by the X API. It is
// persisted verbatim and never mutated after fetch.
type RawPost struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Text      string `json:"text"`
}

// Classification is the four-field result of one LLM classification call,
// before any vocabulary coercion.
type Classification struct {
	EventType     string `json:"event_type"`
	CountryRegion string `json:"country_region"`
	Impact        string `json:"impact"`
	Explanation   string `json:"explanation"`
}

// StructuredEvent merges one RawPost with its classification. One file per
// pipeline run holds a JSON array of these, in fetch order.
type StructuredEvent struct {
	TweetID        string `json:"tweet_id"`
	TweetCreatedAt string `json:"tweet_created_at"`
	TweetText      string `json:"tweet_text"`
	EventType      string `json:"event_type"`
	CountryRegion  string `json:"country_region"`
	Impact         string `json:"impact"`
	Explanation    string `json:"explanation"`
}

// Merge builds a StructuredEvent from a raw post and its (already coerced)
// classification.
func Merge(p RawPost, c Classification) StructuredEvent {
	return StructuredEvent{
		TweetID:        p.ID,
		TweetCreatedAt: p.CreatedAt,
		TweetText:      p.Text,
		EventType:      c.EventType,
		CountryRegion:  c.CountryRegion,
		Impact:         c.Impact,
		Explanation:    c.Explanation,
	}
}
