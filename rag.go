package rag

import (
	"context"
	"log/slog"
	"time"

	"github.com/w-h-a/rag/chunker"
	"github.com/w-h-a/rag/conversation"
	"github.com/w-h-a/rag/document"
	"github.com/w-h-a/rag/embedder"
	"github.com/w-h-a/rag/generator"
	"github.com/w-h-a/rag/index"
	"github.com/w-h-a/rag/internal/service/answer"
	"github.com/w-h-a/rag/internal/service/ingest"
	"github.com/w-h-a/rag/store"
)

// RAG is the process-scoped facade over the pipeline. Construct it once,
// before accepting traffic; the backing store strategy it is built with is
// fixed for the life of the process.
type RAG struct {
	index         *index.Index
	conversations *conversation.Manager
	answer        *answer.Service
	ingest        *ingest.Service
}

// SelectStore makes the one-time backend choice: the remote store when it can
// be constructed, otherwise the local fallback. The decision is never
// retried per call.
func SelectStore(remote func() (store.Store, error), local func() store.Store) store.Store {
	if remote != nil {
		st, err := remote()
		if err == nil {
			slog.Info("using remote vector store")
			return st
		}
		slog.Warn("remote vector store unavailable; falling back to in-process store", "error", err)
	}

	return local()
}

// Ingestion

func (r *RAG) IngestDirectory(ctx context.Context, dir string) (ingest.Report, error) {
	return r.ingest.IngestDirectory(ctx, dir)
}

func (r *RAG) IngestDocuments(ctx context.Context, docs []document.Document) (ingest.Report, error) {
	return r.ingest.IngestDocuments(ctx, docs)
}

// Query

func (r *RAG) Answer(ctx context.Context, question string, sessionId string) (answer.Response, error) {
	return r.answer.Answer(ctx, question, sessionId)
}

func (r *RAG) Search(ctx context.Context, query string, k int) ([]index.Result, error) {
	return r.index.SimilaritySearch(ctx, query, k)
}

func (r *RAG) ClearIndex(ctx context.Context) error {
	return r.index.Clear(ctx)
}

func (r *RAG) IndexCount(ctx context.Context) (int, error) {
	return r.index.Count(ctx)
}

// Sessions

func (r *RAG) CreateSession(id string) string {
	return r.conversations.CreateSession(id)
}

func (r *RAG) SessionContext(id string, includeSystemPreamble bool) []conversation.Message {
	return r.conversations.Context(id, includeSystemPreamble)
}

func (r *RAG) SessionSummary(id string) string {
	return r.conversations.Summary(id)
}

func (r *RAG) SessionStats(id string) (conversation.Stats, bool) {
	return r.conversations.Stats(id)
}

func (r *RAG) SessionIds() []string {
	return r.conversations.SessionIds()
}

func (r *RAG) ClearSession(id string) {
	r.conversations.ClearSession(id)
}

func (r *RAG) DeleteSession(id string) {
	r.conversations.DeleteSession(id)
}

func (r *RAG) CleanupSessions(maxAge time.Duration) int {
	return r.conversations.CleanupOlderThan(maxAge)
}

func (r *RAG) UpdateContextConfig(maxContextLength int, maxTokens int) {
	r.conversations.UpdateConfig(maxContextLength, maxTokens)
}

func (r *RAG) ContextConfig() conversation.Config {
	return r.conversations.Config()
}

// Close is the explicit teardown hook. Index snapshots are write-through, so
// there is nothing buffered to flush today; callers should still defer it.
func (r *RAG) Close() error {
	return nil
}

// New wires the pipeline in dependency order: index over the chosen store,
// conversation manager, then the services that accept traffic.
func New(
	e embedder.Embedder,
	gen generator.Generator,
	st store.Store,
	c chunker.Chunker,
	conversationOpts ...conversation.Option,
) *RAG {
	idx := index.New(e, st)

	conversations := conversation.NewManager(conversationOpts...)

	r := &RAG{
		index:         idx,
		conversations: conversations,
		answer:        answer.New(idx, conversations, gen),
		ingest:        ingest.New(c, idx),
	}

	return r
}
