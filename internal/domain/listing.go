package domain

// ListingRecord is the normalized, externally-stable shape of one
// accommodation result. Field names are contractual for the JSON binding.
// String fields fall back to "Unknown" when the source metadata is absent;
// a record is never rejected for missing optional metadata.
type ListingRecord struct {
	Title           string  `json:"title"`
	Kind            string  `json:"type"`
	Description     string  `json:"description"`
	Price           string  `json:"price"`
	City            string  `json:"city"`
	Rating          string  `json:"rating"`
	ReviewsCount    string  `json:"reviews_count"`
	ImageURL        string  `json:"image_url"`
	WebURL          string  `json:"web_url"`
	SimilarityScore float64 `json:"similarity_score"`
}

// TurnResult is what one orchestrated conversational turn returns to the
// caller: the retrieved listings (possibly empty), the session identifier
// (existing or freshly minted), and the assistant's natural-language text
// when the model answered directly.
type TurnResult struct {
	Listings      []ListingRecord `json:"places"`
	SessionID     string          `json:"session_id"`
	AssistantText string          `json:"answer,omitempty"`
}
