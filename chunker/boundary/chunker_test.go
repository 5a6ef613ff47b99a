package boundary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/rag/chunker"
	"github.com/w-h-a/rag/document"
)

func TestSplitBreaksAtSentenceBoundary(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(20), chunker.WithOverlap(5))

	chunks := c.Split("Cats are mammals. Dogs are mammals too.")

	require.NotEmpty(t, chunks)
	assert.Equal(t, "Cats are mammals.", chunks[0])
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "too."))

	for _, chunk := range chunks {
		assert.Equal(t, chunk, strings.TrimSpace(chunk))
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitPrefersBoundaryClosestToEnd(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(20), chunker.WithOverlap(0))

	chunks := c.Split("alpha. beta\n\ngamma delta epsilon zeta eta theta")

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "alpha. beta", chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "gamma"))
}

func TestSplitTerminatesWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100)

	c := NewChunker(chunker.WithChunkSize(50), chunker.WithOverlap(10))

	chunks := c.Split(text)

	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
		assert.Contains(t, text, chunk)
	}

	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestSplitIsDeterministic(t *testing.T) {
	text := "One sentence here. Another sentence there.\n\nA new paragraph with more words in it. And a tail."

	c := NewChunker(chunker.WithChunkSize(30), chunker.WithOverlap(8))

	first := c.Split(text)
	second := c.Split(text)

	assert.Equal(t, first, second)
}

func TestSplitEmptyInput(t *testing.T) {
	c := NewChunker()

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\t  "))
}

func TestSplitShortInputIsOneChunk(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(500), chunker.WithOverlap(50))

	chunks := c.Split("Just a short note.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Just a short note.", chunks[0])
}

func TestSplitDocumentsTagsPositions(t *testing.T) {
	docs := []document.Document{
		{Content: "First doc sentence one. First doc sentence two.", Source: "a.txt", Title: "a", Type: document.TypeText},
		{Content: "Second doc only.", Source: "b.md", Title: "b", Type: document.TypeMarkdown},
	}

	c := NewChunker(chunker.WithChunkSize(30), chunker.WithOverlap(5))

	chunks := c.SplitDocuments(docs)

	require.NotEmpty(t, chunks)

	lastDoc := 0
	seenSecond := false
	for _, chunk := range chunks {
		assert.GreaterOrEqual(t, chunk.DocIndex, lastDoc)
		lastDoc = chunk.DocIndex

		switch chunk.DocIndex {
		case 0:
			assert.Equal(t, "a.txt", chunk.Source)
			assert.Equal(t, document.TypeText, chunk.Type)
		case 1:
			seenSecond = true
			assert.Equal(t, "b.md", chunk.Source)
			assert.Equal(t, document.TypeMarkdown, chunk.Type)
		}
	}
	assert.True(t, seenSecond)

	// chunk indices restart per document and count up from zero
	byDoc := map[int][]int{}
	for _, chunk := range chunks {
		byDoc[chunk.DocIndex] = append(byDoc[chunk.DocIndex], chunk.ChunkIndex)
	}
	for _, indices := range byDoc {
		for i, idx := range indices {
			assert.Equal(t, i, idx)
		}
	}
}
