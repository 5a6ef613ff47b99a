package store

import "context"

// Store persists embedded chunks and answers k-nearest-neighbor queries by
// cosine similarity. Records are append-only; the only removal is Clear.
type Store interface {
	Add(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, limit int) ([]Record, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}
