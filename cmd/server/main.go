package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/w-h-a/rag"
	"github.com/w-h-a/rag/chunker"
	"github.com/w-h-a/rag/chunker/boundary"
	"github.com/w-h-a/rag/conversation"
	"github.com/w-h-a/rag/embedder"
	googleembedder "github.com/w-h-a/rag/embedder/google"
	openaiembedder "github.com/w-h-a/rag/embedder/openai"
	"github.com/w-h-a/rag/generator"
	anthropicgenerator "github.com/w-h-a/rag/generator/anthropic"
	openaigenerator "github.com/w-h-a/rag/generator/openai"
	"github.com/w-h-a/rag/store"
	"github.com/w-h-a/rag/store/memory"
	"github.com/w-h-a/rag/store/postgres"
	"github.com/w-h-a/rag/store/qdrant"
)

var (
	cfg struct {
		// Server config
		Address string `help:"Address to serve on" default:":8080"`

		// Embedder config
		EmbedderProvider string `help:"Embedding provider (openai or google)" default:"openai"`
		EmbedderKey      string `help:"API key for the embedder" env:"EMBEDDER_API_KEY" default:""`
		EmbedderModel    string `help:"Model identifier for embeddings" default:"text-embedding-3-small"`
		VectorSize       int    `help:"Dimensionality of the embedding model" default:"1536"`

		// Generator config
		GeneratorProvider string `help:"Chat provider (openai or anthropic)" default:"openai"`
		GeneratorKey      string `help:"API key for the generator" env:"GENERATOR_API_KEY" default:""`
		GeneratorModel    string `help:"Model identifier for chat completions" default:"gpt-4o-mini"`

		// Store config
		QdrantLocation   string `help:"Qdrant base URL; empty skips the remote backend" default:""`
		QdrantKey        string `help:"Qdrant API key" env:"QDRANT_API_KEY" default:""`
		PostgresLocation string `help:"Postgres DSN; empty skips the pgvector backend" default:""`
		Collection       string `help:"Collection name for stored vectors" default:"documents"`
		SnapshotPath     string `help:"Snapshot file for the in-process store" default:"data/vector_store.json"`

		// Chunking config
		ChunkSize int `help:"Target chunk size in characters" default:"500"`
		Overlap   int `help:"Chunk overlap in characters" default:"50"`

		// Conversation config
		MaxContextLength int `help:"Messages kept per session" default:"10"`
		MaxTokens        int `help:"Estimated token budget per session" default:"4000"`

		// Maintenance config
		SessionMaxAgeHours int `help:"Sessions idle longer than this are swept; 0 disables" default:"0"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	var e embedder.Embedder
	switch cfg.EmbedderProvider {
	case "google":
		e = googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	default:
		e = openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.EmbedderKey),
			embedder.WithModel(cfg.EmbedderModel),
		)
	}

	var gen generator.Generator
	switch cfg.GeneratorProvider {
	case "anthropic":
		gen = anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.GeneratorModel),
		)
	default:
		gen = openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.GeneratorKey),
			generator.WithModel(cfg.GeneratorModel),
		)
	}

	st := rag.SelectStore(remoteStore(), func() store.Store {
		return memory.NewStore(
			store.WithCollection(cfg.Collection),
			store.WithSnapshotPath(cfg.SnapshotPath),
		)
	})

	overlap := cfg.Overlap
	if overlap >= cfg.ChunkSize {
		overlap = cfg.ChunkSize / 2
	}

	c := boundary.NewChunker(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(overlap),
	)

	r := rag.New(
		e,
		gen,
		st,
		c,
		conversation.WithMaxContextLength(cfg.MaxContextLength),
		conversation.WithMaxTokens(cfg.MaxTokens),
	)
	defer r.Close()

	if cfg.SessionMaxAgeHours > 0 {
		go sweepSessions(r, time.Duration(cfg.SessionMaxAgeHours)*time.Hour)
	}

	router := mux.NewRouter()
	registerRoutes(router, r)

	slog.Info("serving", "address", cfg.Address)

	if err := http.ListenAndServe(cfg.Address, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// remoteStore returns a constructor for whichever external backend is
// configured, or nil when neither is.
func remoteStore() func() (store.Store, error) {
	if len(cfg.QdrantLocation) > 0 {
		return func() (store.Store, error) {
			return qdrant.NewStore(
				store.WithLocation(cfg.QdrantLocation),
				store.WithApiKey(cfg.QdrantKey),
				store.WithCollection(cfg.Collection),
				store.WithVectorSize(cfg.VectorSize),
			)
		}
	}

	if len(cfg.PostgresLocation) > 0 {
		return func() (store.Store, error) {
			return postgres.NewStore(
				store.WithLocation(cfg.PostgresLocation),
				store.WithCollection(cfg.Collection),
				store.WithVectorSize(cfg.VectorSize),
			)
		}
	}

	return nil
}

func sweepSessions(r *rag.RAG, maxAge time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if removed := r.CleanupSessions(maxAge); removed > 0 {
			slog.Info("swept idle sessions", "removed", removed)
		}
	}
}
