package domain

import "context"

// SearchHit is one raw result from the vector index: the indexed document
// text, its string-keyed metadata (no typed schema enforced by the index),
// and the native distance of the match. Similarity score is derived as
// 1 - distance by the retrieval layer.
type SearchHit struct {
	Document string
	Metadata map[string]string
	Distance float64
}

// VectorIndex defines the interface for the similarity-search backend
type VectorIndex interface {
	Query(ctx context.Context, text string, k int) ([]SearchHit, error)
}
