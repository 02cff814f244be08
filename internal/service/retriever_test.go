package service

import (
	"context"
	"errors"
	"testing"

	"github.com/khesht/khesht-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetriever_Query_OrdersByDescendingScore(t *testing.T) {
	index := new(MockVectorIndex)
	retriever := NewRetriever(index, nil, "https://jajiga.com")

	ctx := context.Background()
	index.On("Query", ctx, "villa", 5).Return([]domain.SearchHit{
		{Document: "villa one", Metadata: map[string]string{"title": "One"}, Distance: 0.5},
		{Document: "villa two", Metadata: map[string]string{"title": "Two"}, Distance: 0.1},
		{Document: "villa three", Metadata: map[string]string{"title": "Three"}, Distance: 0.3},
	}, nil)

	listings := retriever.Query(ctx, "villa", 5)

	require.Len(t, listings, 3)
	assert.Equal(t, "Two", listings[0].Title)
	assert.Equal(t, "Three", listings[1].Title)
	assert.Equal(t, "One", listings[2].Title)
	for i := 1; i < len(listings); i++ {
		assert.GreaterOrEqual(t, listings[i-1].SimilarityScore, listings[i].SimilarityScore)
	}
}

func TestRetriever_Query_BackendErrorYieldsEmpty(t *testing.T) {
	index := new(MockVectorIndex)
	retriever := NewRetriever(index, nil, "https://jajiga.com")

	ctx := context.Background()
	index.On("Query", ctx, "villa", 3).Return(nil, errors.New("index unreachable"))

	listings := retriever.Query(ctx, "villa", 3)
	assert.Empty(t, listings)
}

func TestRetriever_Query_NoMatches(t *testing.T) {
	index := new(MockVectorIndex)
	retriever := NewRetriever(index, nil, "https://jajiga.com")

	ctx := context.Background()
	index.On("Query", ctx, "villa", 3).Return([]domain.SearchHit{}, nil)

	listings := retriever.Query(ctx, "villa", 3)
	assert.Empty(t, listings)
}

func TestRetriever_Query_DefaultLimit(t *testing.T) {
	index := new(MockVectorIndex)
	retriever := NewRetriever(index, nil, "https://jajiga.com")

	ctx := context.Background()
	index.On("Query", ctx, "villa", defaultResultLimit).Return([]domain.SearchHit{}, nil)

	retriever.Query(ctx, "villa", 0)
	index.AssertExpectations(t)
}

func TestKeywordClassifier(t *testing.T) {
	classify := KeywordClassifier("lodge", "lodge", "villa")

	assert.Equal(t, "lodge", classify("A charming lodge in the mountains"))
	assert.Equal(t, "lodge", classify("A charming LODGE in the mountains"))
	assert.Equal(t, "villa", classify("A seaside house with a pool"))
	assert.Equal(t, "villa", classify(""))
}
