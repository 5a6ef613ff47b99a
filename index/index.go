package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/w-h-a/rag/document"
	"github.com/w-h-a/rag/embedder"
	"github.com/w-h-a/rag/store"
)

// Result is one similarity search hit. Distance is 1 - Similarity.
type Result struct {
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	Similarity float64        `json:"similarity"`
	Distance   float64        `json:"distance"`
}

// Index pairs an embedding gateway with a backing store. The store strategy
// is fixed for the life of the process; see rag.SelectStore for selection.
type Index struct {
	embedder embedder.Embedder
	store    store.Store
}

// AddDocuments embeds every chunk in batches, assigns fresh ids, and persists
// the records. An embedding failure aborts the whole call; nothing embedded
// in a failing call reaches the store.
func (i *Index) AddDocuments(ctx context.Context, chunks []document.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Content)
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %d chunks: %w", len(chunks), err)
	}

	records := make([]store.Record, 0, len(chunks))

	for idx, chunk := range chunks {
		records = append(records, store.Record{
			Id:        uuid.New().String(),
			Content:   chunk.Content,
			Embedding: vectors[idx],
			Metadata: map[string]any{
				"source":      chunk.Source,
				"title":       chunk.Title,
				"chunk_index": chunk.ChunkIndex,
			},
		})
	}

	if err := i.store.Add(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store %d records: %w", len(records), err)
	}

	return len(records), nil
}

// SimilaritySearch returns up to k stored chunks ordered by descending cosine
// similarity to the query. An empty index yields an empty result, not an
// error.
func (i *Index) SimilaritySearch(ctx context.Context, query string, k int) ([]Result, error) {
	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	records, err := i.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	results := make([]Result, 0, len(records))
	for _, rec := range records {
		similarity := float64(rec.Score)
		results = append(results, Result{
			Content:    rec.Content,
			Metadata:   rec.Metadata,
			Similarity: similarity,
			Distance:   1 - similarity,
		})
	}

	return results, nil
}

func (i *Index) Clear(ctx context.Context) error {
	return i.store.Clear(ctx)
}

func (i *Index) Count(ctx context.Context) (int, error) {
	return i.store.Count(ctx)
}

func New(e embedder.Embedder, s store.Store) *Index {
	return &Index{
		embedder: e,
		store:    s,
	}
}
