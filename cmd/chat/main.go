package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/rag"
	"github.com/w-h-a/rag/chunker"
	"github.com/w-h-a/rag/chunker/boundary"
	"github.com/w-h-a/rag/embedder"
	openaiembedder "github.com/w-h-a/rag/embedder/openai"
	"github.com/w-h-a/rag/generator"
	openaigenerator "github.com/w-h-a/rag/generator/openai"
	"github.com/w-h-a/rag/store"
	"github.com/w-h-a/rag/store/memory"
)

var (
	cfg struct {
		// Document config
		Documents string `help:"Directory of documents to ingest on startup" default:""`

		// Embedder config
		EmbedderKey   string `help:"API key for the embedder" env:"EMBEDDER_API_KEY" default:""`
		EmbedderModel string `help:"Model identifier for embeddings" default:"text-embedding-3-small"`

		// Generator config
		GeneratorKey   string `help:"API key for the generator" env:"GENERATOR_API_KEY" default:""`
		GeneratorModel string `help:"Model identifier for chat completions" default:"gpt-4o-mini"`

		// Store config
		SnapshotPath string `help:"Snapshot file for the in-process store" default:"data/vector_store.json"`

		// Chunking config
		ChunkSize int `help:"Target chunk size in characters" default:"500"`
		Overlap   int `help:"Chunk overlap in characters" default:"50"`

		// Session config
		SessionId string `help:"Optional fixed session identifier" default:""`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	e := openaiembedder.NewEmbedder(
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
	)

	gen := openaigenerator.NewGenerator(
		generator.WithApiKey(cfg.GeneratorKey),
		generator.WithModel(cfg.GeneratorModel),
	)

	st := memory.NewStore(
		store.WithSnapshotPath(cfg.SnapshotPath),
	)

	overlap := cfg.Overlap
	if overlap >= cfg.ChunkSize {
		overlap = cfg.ChunkSize / 2
	}

	c := boundary.NewChunker(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(overlap),
	)

	r := rag.New(e, gen, st, c)
	defer r.Close()

	if len(cfg.Documents) > 0 {
		report, err := r.IngestDirectory(ctx, cfg.Documents)
		if err != nil {
			log.Fatalf("failed to ingest %s: %v", cfg.Documents, err)
		}
		fmt.Printf("Ingested %d documents (%d chunks)", report.DocumentsLoaded, report.ChunksCreated)
		if len(report.Skipped) > 0 {
			fmt.Printf(", skipped %d files", len(report.Skipped))
		}
		fmt.Println()
	}

	sessionId := r.CreateSession(cfg.SessionId)
	fmt.Printf("Session: %s\n", sessionId)
	fmt.Println("Ask a question and press enter. An empty line exits.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			continue
		}
		input = strings.TrimSpace(input)
		if len(input) == 0 {
			fmt.Println("Goodbye!")
			return
		}

		rsp, err := r.Answer(ctx, input, sessionId)
		if err != nil {
			fmt.Println("Error answering question:", err)
			continue
		}

		fmt.Println(rsp.Answer)
		for _, source := range rsp.Sources {
			fmt.Printf("  [%s] similarity %.3f\n", source.Source, source.Similarity)
		}
		fmt.Println("---")
	}
}
