package ingest

import (
	"context"
	"log/slog"

	"github.com/w-h-a/rag/chunker"
	"github.com/w-h-a/rag/document"
	"github.com/w-h-a/rag/index"
)

// Report summarizes one ingestion call: what loaded, what the chunker
// produced, and which inputs were passed over and why.
type Report struct {
	DocumentsLoaded int                `json:"documents_loaded"`
	ChunksCreated   int                `json:"chunks_created"`
	Skipped         []document.Skipped `json:"skipped,omitempty"`
}

type Service struct {
	chunker chunker.Chunker
	index   *index.Index
}

// IngestDirectory loads every supported file under dir and indexes it.
// Individual unreadable files are skipped and reported; the call fails only
// when nothing loads or indexing itself fails.
func (s *Service) IngestDirectory(ctx context.Context, dir string) (Report, error) {
	docs, skipped, err := document.LoadDirectory(dir)
	if err != nil {
		return Report{Skipped: skipped}, err
	}

	for _, skip := range skipped {
		slog.WarnContext(ctx, "skipped file during ingestion", "path", skip.Path, "reason", skip.Reason)
	}

	report, err := s.IngestDocuments(ctx, docs)
	report.Skipped = skipped

	return report, err
}

// IngestDocuments chunks the documents in order and adds every chunk to the
// index in one batch.
func (s *Service) IngestDocuments(ctx context.Context, docs []document.Document) (Report, error) {
	chunks := s.chunker.SplitDocuments(docs)

	added, err := s.index.AddDocuments(ctx, chunks)
	if err != nil {
		return Report{DocumentsLoaded: len(docs)}, err
	}

	return Report{
		DocumentsLoaded: len(docs),
		ChunksCreated:   added,
	}, nil
}

func New(c chunker.Chunker, idx *index.Index) *Service {
	return &Service{
		chunker: c,
		index:   idx,
	}
}
