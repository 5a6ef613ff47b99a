package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/w-h-a/rag/store"
)

// snapshot is the durable form of the whole store: parallel sequences plus
// the collection tag, rewritten in full on every mutation.
type snapshot struct {
	CollectionName string           `json:"collection_name"`
	Documents      []string         `json:"documents"`
	Embeddings     [][]float32      `json:"embeddings"`
	Metadatas      []map[string]any `json:"metadatas"`
	Ids            []string         `json:"ids"`
}

type memoryStore struct {
	options store.Options
	records []store.Record
	mtx     sync.RWMutex
}

func (s *memoryStore) Add(ctx context.Context, records []store.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, rec := range records {
		cpy := make([]float32, len(rec.Embedding))
		copy(cpy, rec.Embedding)
		rec.Embedding = cpy

		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}

		s.records = append(s.records, rec)
	}

	s.flush(ctx)

	return nil
}

func (s *memoryStore) Search(ctx context.Context, vector []float32, limit int) ([]store.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]store.Record, 0, len(s.records))

	for _, rec := range s.records {
		rec.Score = float32(store.CosineSimilarity(vector, rec.Embedding))
		candidates = append(candidates, rec)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.records = nil

	s.flush(ctx)

	return nil
}

func (s *memoryStore) Count(ctx context.Context) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.records), nil
}

// flush rewrites the snapshot file. Failures leave the durable copy stale and
// are logged; in-memory state stays authoritative for the running process.
// Callers hold the write lock.
func (s *memoryStore) flush(ctx context.Context) {
	if len(s.options.SnapshotPath) == 0 {
		return
	}

	snap := snapshot{
		CollectionName: s.options.Collection,
		Documents:      make([]string, 0, len(s.records)),
		Embeddings:     make([][]float32, 0, len(s.records)),
		Metadatas:      make([]map[string]any, 0, len(s.records)),
		Ids:            make([]string, 0, len(s.records)),
	}

	for _, rec := range s.records {
		snap.Documents = append(snap.Documents, rec.Content)
		snap.Embeddings = append(snap.Embeddings, rec.Embedding)
		snap.Metadatas = append(snap.Metadatas, rec.Metadata)
		snap.Ids = append(snap.Ids, rec.Id)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		slog.ErrorContext(ctx, "failed to serialize vector store snapshot", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.options.SnapshotPath), 0o755); err != nil {
		slog.ErrorContext(ctx, "failed to create snapshot directory", "path", s.options.SnapshotPath, "error", err)
		return
	}

	if err := os.WriteFile(s.options.SnapshotPath, data, 0o644); err != nil {
		slog.ErrorContext(ctx, "failed to write vector store snapshot", "path", s.options.SnapshotPath, "error", err)
	}
}

// load restores prior state from the snapshot file. A missing or corrupt
// snapshot means starting empty, never a fatal error.
func (s *memoryStore) load() {
	if len(s.options.SnapshotPath) == 0 {
		return
	}

	data, err := os.ReadFile(s.options.SnapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read vector store snapshot; starting empty", "path", s.options.SnapshotPath, "error", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("corrupt vector store snapshot; starting empty", "path", s.options.SnapshotPath, "error", err)
		return
	}

	if len(snap.Ids) != len(snap.Documents) || len(snap.Ids) != len(snap.Embeddings) || len(snap.Ids) != len(snap.Metadatas) {
		slog.Warn("inconsistent vector store snapshot; starting empty", "path", s.options.SnapshotPath)
		return
	}

	for i := range snap.Ids {
		s.records = append(s.records, store.Record{
			Id:        snap.Ids[i],
			Content:   snap.Documents[i],
			Metadata:  snap.Metadatas[i],
			Embedding: snap.Embeddings[i],
		})
	}

	slog.Info("restored vector store snapshot", "path", s.options.SnapshotPath, "records", len(s.records))
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		mtx:     sync.RWMutex{},
	}

	s.load()

	return s
}
