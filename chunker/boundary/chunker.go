package boundary

import (
	"strings"

	"github.com/w-h-a/rag/chunker"
	"github.com/w-h-a/rag/document"
)

type boundaryChunker struct {
	options chunker.Options
}

// Split produces overlapping pieces of roughly ChunkSize runes, ending each
// piece at the sentence or paragraph boundary nearest the proposed cut when
// one exists inside the window. Offsets are rune-based so a cut never lands
// inside a UTF-8 sequence. Callers must keep Overlap < ChunkSize.
func (c *boundaryChunker) Split(text string) []string {
	runes := []rune(text)

	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + c.options.ChunkSize

		if end < len(runes) {
			if cut := lastBreak(runes, start, end); cut > start {
				end = cut
			}
		}

		sliceEnd := min(end, len(runes))

		piece := strings.TrimSpace(string(runes[start:sliceEnd]))
		if len(piece) > 0 {
			chunks = append(chunks, piece)
		}

		next := end - c.options.Overlap
		if next <= start {
			// a boundary can land close to start; never step backwards
			next = end
		}
		start = next
	}

	return chunks
}

// SplitDocuments chunks every document in order, tagging each chunk with its
// position within its parent and the parent's position in the batch.
func (c *boundaryChunker) SplitDocuments(docs []document.Document) []document.Chunk {
	var chunks []document.Chunk

	for docIdx, doc := range docs {
		for chunkIdx, piece := range c.Split(doc.Content) {
			chunks = append(chunks, document.Chunk{
				Content:    piece,
				Source:     doc.Source,
				Title:      doc.Title,
				Type:       doc.Type,
				ChunkIndex: chunkIdx,
				DocIndex:   docIdx,
			})
		}
	}

	return chunks
}

// lastBreak scans [start, end) backwards for the last sentence end or
// paragraph break and returns the offset just past it, or -1. When both
// exist the one closer to end wins.
func lastBreak(runes []rune, start, end int) int {
	cut := -1

	for i := end - 1; i > start; i-- {
		if runes[i] == '.' {
			cut = i + 1
			break
		}
	}

	for i := end - 2; i > start; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			if i+2 > cut {
				cut = i + 2
			}
			break
		}
	}

	return cut
}

func NewChunker(opts ...chunker.Option) chunker.Chunker {
	options := chunker.NewOptions(opts...)

	return &boundaryChunker{
		options: options,
	}
}
