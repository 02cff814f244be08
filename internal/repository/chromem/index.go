package chromem

import (
	"context"
	"fmt"

	"github.com/khesht/khesht-api/internal/config"
	"github.com/khesht/khesht-api/internal/domain"
	"github.com/philippgille/chromem-go"
)

// Index wraps a persistent chromem-go collection holding the accommodation
// catalog embeddings
type Index struct {
	col *chromem.Collection
}

// OpenAIEmbedding returns the embedding function used for both indexing and
// querying (text-embedding-3-small).
func OpenAIEmbedding(apiKey string) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOpenAI(apiKey, chromem.EmbeddingModelOpenAI3Small)
}

// NewIndex opens (or creates) the persistent vector index at cfg.Path
func NewIndex(cfg config.VectorStoreConfig, embedding chromem.EmbeddingFunc) (*Index, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, nil, embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", cfg.Collection, err)
	}

	return &Index{col: col}, nil
}

// Query embeds the text and returns the k nearest catalog documents.
// chromem reports cosine similarity; the rest of the pipeline works in
// distance terms, so the score is converted here.
func (i *Index) Query(ctx context.Context, text string, k int) ([]domain.SearchHit, error) {
	count := i.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := i.col.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, domain.SearchHit{
			Document: r.Content,
			Metadata: r.Metadata,
			Distance: 1 - float64(r.Similarity),
		})
	}
	return hits, nil
}

// Upsert indexes (or re-indexes) one catalog document
func (i *Index) Upsert(ctx context.Context, id, document string, metadata map[string]string) error {
	if err := i.col.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  document,
		Metadata: metadata,
	}); err != nil {
		return fmt.Errorf("failed to index document %s: %w", id, err)
	}
	return nil
}

// Count returns the number of indexed documents
func (i *Index) Count() int {
	return i.col.Count()
}
