package answer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/rag/conversation"
	"github.com/w-h-a/rag/generator"
	"github.com/w-h-a/rag/index"
	getsafe "github.com/w-h-a/rag/util/get_safe"
)

const (
	defaultTopK = 5

	defaultSystemPrompt = "You are a question answering assistant. Answer using the document context below and the conversation so far. Cite nothing the context does not support; when the context is insufficient, say so."

	contextDelimiter = "\n\n---\n\n"
)

// Source identifies a document chunk an answer drew on.
type Source struct {
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// Response is a completed answer plus its citations.
type Response struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	SessionId string   `json:"session_id,omitempty"`
}

type Service struct {
	index         *index.Index
	conversations *conversation.Manager
	generator     generator.Generator
	topK          int
	systemPrompt  string
}

// Answer retrieves the chunks most similar to the question, folds in the
// session's rolling summary when a session id is present, asks the chat
// model, and records the exchange back into the session. Recording is best
// effort; the answer survives even if history cannot.
func (s *Service) Answer(ctx context.Context, question string, sessionId string) (Response, error) {
	if len(strings.TrimSpace(question)) == 0 {
		return Response{}, errors.New("question is required")
	}

	results, err := s.index.SimilaritySearch(ctx, question, s.topK)
	if err != nil {
		return Response{}, err
	}

	sources := make([]Source, 0, len(results))
	for _, result := range results {
		sources = append(sources, Source{
			Source:     getsafe.String(result.Metadata, "source"),
			Title:      getsafe.String(result.Metadata, "title"),
			Similarity: result.Similarity,
		})
	}

	var summary string
	if len(sessionId) > 0 {
		summary = s.conversations.Summary(sessionId)
	}

	prompt := s.buildPrompt(results, summary, question)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Response{}, fmt.Errorf("generation failed: %w", err)
	}

	if len(sessionId) > 0 {
		s.record(ctx, sessionId, question, reply, sources)
	}

	return Response{
		Answer:    reply,
		Sources:   sources,
		SessionId: sessionId,
	}, nil
}

func (s *Service) buildPrompt(results []index.Result, summary string, question string) string {
	var sb bytes.Buffer

	sb.WriteString(s.systemPrompt)

	sb.WriteString("\n\nDocument context:\n")
	if len(results) == 0 {
		sb.WriteString("(no matching documents)\n")
	} else {
		blocks := make([]string, 0, len(results))
		for _, result := range results {
			blocks = append(blocks, fmt.Sprintf("Source: %s\n%s", getsafe.String(result.Metadata, "source"), result.Content))
		}
		sb.WriteString(strings.Join(blocks, contextDelimiter))
		sb.WriteString("\n")
	}

	if len(summary) > 0 {
		sb.WriteString("\nConversation so far:\n")
		sb.WriteString(summary)
		sb.WriteString("\n")
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString("\n\nAnswer:")

	return sb.String()
}

func (s *Service) record(ctx context.Context, sessionId string, question string, reply string, sources []Source) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "failed to record conversation turn", "session_id", sessionId, "panic", r)
		}
	}()

	s.conversations.AddMessage(sessionId, conversation.RoleUser, question, nil)

	var metadata map[string]any
	if len(sources) > 0 {
		metadata = map[string]any{"sources": sources}
	}

	s.conversations.AddMessage(sessionId, conversation.RoleAssistant, reply, metadata)
}

func New(idx *index.Index, conversations *conversation.Manager, gen generator.Generator) *Service {
	return &Service{
		index:         idx,
		conversations: conversations,
		generator:     gen,
		topK:          defaultTopK,
		systemPrompt:  defaultSystemPrompt,
	}
}
