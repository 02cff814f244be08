package service

import (
	"testing"

	"github.com/khesht/khesht-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeHit_FullMetadata(t *testing.T) {
	hit := domain.SearchHit{
		Document: "A quiet lodge by the river",
		Metadata: map[string]string{
			"title":         "River Lodge",
			"min_price":     "1200000",
			"city":          "Rasht",
			"rating":        "4.8",
			"reviews_count": "31",
			"image_url":     "https://cdn.example.com/1.jpg",
			"url":           "/room/1",
		},
		Distance: 0.25,
	}

	record := normalizeHit(hit, DefaultClassifier, "https://jajiga.com")

	assert.Equal(t, "River Lodge", record.Title)
	assert.Equal(t, "lodge", record.Kind)
	assert.Equal(t, "A quiet lodge by the river", record.Description)
	assert.Equal(t, "1200000", record.Price)
	assert.Equal(t, "Rasht", record.City)
	assert.Equal(t, "4.8", record.Rating)
	assert.Equal(t, "31", record.ReviewsCount)
	assert.Equal(t, "https://cdn.example.com/1.jpg", record.ImageURL)
	assert.Equal(t, "https://jajiga.com/room/1", record.WebURL)
	assert.InDelta(t, 0.75, record.SimilarityScore, 1e-9)
}

func TestNormalizeHit_MissingMetadataFallsBack(t *testing.T) {
	hit := domain.SearchHit{
		Document: "A seaside villa",
		Metadata: map[string]string{},
		Distance: 0.5,
	}

	record := normalizeHit(hit, DefaultClassifier, "https://jajiga.com")

	assert.Equal(t, "Unknown", record.Title)
	assert.Equal(t, "villa", record.Kind)
	assert.Equal(t, "A seaside villa", record.Description)
	assert.Equal(t, "Unknown", record.Price)
	assert.Equal(t, "Unknown", record.City)
	assert.Equal(t, "Unknown", record.Rating)
	assert.Equal(t, "Unknown", record.ReviewsCount)
	assert.Equal(t, "Unknown", record.ImageURL)
	assert.Equal(t, "Unknown", record.WebURL)
}

func TestNormalizeHit_NilMetadata(t *testing.T) {
	record := normalizeHit(domain.SearchHit{Document: "doc"}, DefaultClassifier, "")
	assert.Equal(t, "Unknown", record.Title)
	assert.Equal(t, "Unknown", record.WebURL)
}

func TestNormalizeHit_NegativeDistanceUnclamped(t *testing.T) {
	record := normalizeHit(domain.SearchHit{Document: "doc", Distance: -0.1}, DefaultClassifier, "")
	assert.InDelta(t, 1.1, record.SimilarityScore, 1e-9)
}
