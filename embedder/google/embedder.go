package google

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/rag/embedder"
	"golang.org/x/sync/errgroup"
	genaiopt "google.golang.org/api/option"
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.options.Model)
	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errors.New("no response from Google")
	}

	return rsp.Embedding.Values, nil
}

// EmbedBatch fans out within each batch under a concurrency limit and walks
// the batches sequentially. The API embeds one content at a time.
func (e *googleEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))

	offset := 0
	for _, batch := range embedder.Batch(texts, e.options.BatchSize) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.options.BatchSize)

		for i, text := range batch {
			idx := offset + i
			g.Go(func() error {
				vec, err := e.Embed(gctx, text)
				if err != nil {
					return err
				}
				vectors[idx] = vec
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		offset += len(batch)
	}

	return vectors, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	e.client = client

	return e
}
