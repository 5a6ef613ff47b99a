package chunker

import "github.com/w-h-a/rag/document"

// Chunker splits raw text into retrieval-sized pieces.
type Chunker interface {
	Split(text string) []string
	SplitDocuments(docs []document.Document) []document.Chunk
}
