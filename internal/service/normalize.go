package service

import "github.com/khesht/khesht-api/internal/domain"

// metadataFallback is the defined fallback for absent string metadata
const metadataFallback = "Unknown"

// normalizeHit maps one raw vector index hit onto the stable external
// listing shape. Pure mapping, no I/O. Every field gets either real metadata
// or its fallback value; a record is never dropped for sparse metadata.
func normalizeHit(hit domain.SearchHit, classify ClassifierFunc, baseURL string) domain.ListingRecord {
	return domain.ListingRecord{
		Title:        metadataOr(hit.Metadata, "title"),
		Kind:         classify(hit.Document),
		Description:  hit.Document,
		Price:        metadataOr(hit.Metadata, "min_price"),
		City:         metadataOr(hit.Metadata, "city"),
		Rating:       metadataOr(hit.Metadata, "rating"),
		ReviewsCount: metadataOr(hit.Metadata, "reviews_count"),
		ImageURL:     metadataOr(hit.Metadata, "image_url"),
		WebURL:       webURL(baseURL, hit.Metadata),
		// Scores above 1.0 are possible when the index reports a negative
		// distance. The score is a ranking signal, not a probability, so it
		// is left unclamped.
		SimilarityScore: 1 - hit.Distance,
	}
}

func metadataOr(metadata map[string]string, key string) string {
	if v, ok := metadata[key]; ok && v != "" {
		return v
	}
	return metadataFallback
}

// webURL joins the catalog base URL with the relative listing path stored
// in metadata
func webURL(baseURL string, metadata map[string]string) string {
	path, ok := metadata["url"]
	if !ok || path == "" {
		return metadataFallback
	}
	return baseURL + path
}
