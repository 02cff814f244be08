package service

import (
	"context"
	"sort"
	"strings"

	"github.com/khesht/khesht-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// defaultResultLimit caps retrieval for conversational brevity
const defaultResultLimit = 3

// ClassifierFunc derives a listing category from its free-text document.
// This is a best-effort heuristic, not authoritative catalog metadata.
type ClassifierFunc func(document string) string

// KeywordClassifier returns a classifier that picks keywordKind when the
// keyword appears anywhere in the document (case-insensitive) and otherKind
// otherwise.
func KeywordClassifier(keyword, keywordKind, otherKind string) ClassifierFunc {
	keyword = strings.ToLower(keyword)
	return func(document string) string {
		if strings.Contains(strings.ToLower(document), keyword) {
			return keywordKind
		}
		return otherKind
	}
}

// DefaultClassifier covers the catalog's two categories
var DefaultClassifier = KeywordClassifier("lodge", "lodge", "villa")

// Retriever turns a free-text query into ranked, normalized listing records
// backed by a precomputed vector index. It performs no live scraping and no
// model calls of its own.
type Retriever struct {
	index    domain.VectorIndex
	classify ClassifierFunc
	baseURL  string
}

// NewRetriever creates a new similarity retriever
func NewRetriever(index domain.VectorIndex, classify ClassifierFunc, catalogBaseURL string) *Retriever {
	if classify == nil {
		classify = DefaultClassifier
	}
	return &Retriever{
		index:    index,
		classify: classify,
		baseURL:  catalogBaseURL,
	}
}

// Query returns up to limit listings ordered by descending similarity score.
// Retrieval is advisory: any index failure yields an empty result set so the
// conversational turn can still complete.
func (r *Retriever) Query(ctx context.Context, text string, limit int) []domain.ListingRecord {
	if limit <= 0 {
		limit = defaultResultLimit
	}

	hits, err := r.index.Query(ctx, text, limit)
	if err != nil {
		log.Warn().Err(err).Str("query", text).Msg("vector index query failed, returning no listings")
		return nil
	}

	listings := make([]domain.ListingRecord, 0, len(hits))
	for _, hit := range hits {
		listings = append(listings, normalizeHit(hit, r.classify, r.baseURL))
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].SimilarityScore > listings[j].SimilarityScore
	})

	return listings
}
