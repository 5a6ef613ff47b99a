package embedder

import "context"

// Embedder turns text into fixed-dimensionality vectors. EmbedBatch must
// group its inputs into small batches rather than submitting the whole corpus
// at once; vectors come back in input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Batch splits texts into groups of at most size. Providers issue one group
// at a time so a resource-constrained embedding backend never sees an
// unbounded burst.
func Batch(texts []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	var batches [][]string
	for start := 0; start < len(texts); start += size {
		batches = append(batches, texts[start:min(start+size, len(texts))])
	}

	return batches
}
