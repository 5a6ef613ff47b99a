package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const summaryWindow = 5

type session struct {
	id           string
	messages     []Message
	createdAt    time.Time
	lastAccessed time.Time
}

// Manager owns every session and its messages. One lock serializes writes
// across the session map; readers get snapshot-consistent copies.
type Manager struct {
	options  Options
	sessions map[string]*session
	mtx      sync.RWMutex
}

// CreateSession registers a new empty session, generating an id when none is
// supplied. Creating an id that already exists returns it unchanged.
func (m *Manager) CreateSession(id string) string {
	if len(strings.TrimSpace(id)) == 0 {
		id = uuid.New().String()
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.ensure(id)

	return id
}

// AddMessage appends a message to the session, auto-creating the session when
// the id is unknown. The lenient create is deliberate: callers carry opaque
// session ids and the first message is allowed to open the conversation.
// Trimming runs after every append.
func (m *Manager) AddMessage(sessionId string, role string, content string, metadata map[string]any) Message {
	msg := Message{
		Id:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	s := m.ensure(sessionId)

	s.messages = append(s.messages, msg)
	s.lastAccessed = msg.Timestamp

	m.trim(s)

	return msg
}

// Context returns up to MaxContextLength of the session's most recent
// messages, oldest first, optionally prefixed with the synthesized system
// preamble. An unknown session yields an empty window, not an error.
func (m *Manager) Context(sessionId string, includeSystemPreamble bool) []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.window(sessionId, 0, includeSystemPreamble)
}

// RecentContext is Context with the last excludeLast messages dropped first,
// used to keep the in-flight exchange out of its own look-back window.
func (m *Manager) RecentContext(sessionId string, excludeLast int) []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.window(sessionId, excludeLast, false)
}

// Summary renders the session's last few messages as "role: content" lines
// for direct inclusion in a prompt. Long content is truncated.
func (m *Manager) Summary(sessionId string) string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	s, exists := m.sessions[sessionId]
	if !exists || len(s.messages) == 0 {
		return ""
	}

	recent := s.messages
	if len(recent) > summaryWindow {
		recent = recent[len(recent)-summaryWindow:]
	}

	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		content := msg.Content
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, content))
	}

	return strings.Join(lines, "\n")
}

// UpdateConfig swaps the trimming tunables. Existing sessions are not
// re-trimmed until their next append.
func (m *Manager) UpdateConfig(maxContextLength int, maxTokens int) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if maxContextLength > 0 {
		m.options.MaxContextLength = maxContextLength
	}
	if maxTokens > 0 {
		m.options.MaxTokens = maxTokens
	}
}

func (m *Manager) Config() Config {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return Config{
		MaxContextLength: m.options.MaxContextLength,
		MaxTokens:        m.options.MaxTokens,
	}
}

// ClearSession empties the message list but keeps the session record and its
// creation timestamp alive.
func (m *Manager) ClearSession(sessionId string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if s, exists := m.sessions[sessionId]; exists {
		s.messages = nil
		s.lastAccessed = time.Now().UTC()
	}
}

// DeleteSession removes the session entirely. Deleting an unknown session is
// a no-op.
func (m *Manager) DeleteSession(sessionId string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	delete(m.sessions, sessionId)
}

// CleanupOlderThan removes sessions whose last access predates the cutoff and
// reports how many were removed.
func (m *Manager) CleanupOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	m.mtx.Lock()
	defer m.mtx.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.lastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

func (m *Manager) Stats(sessionId string) (Stats, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	s, exists := m.sessions[sessionId]
	if !exists {
		return Stats{}, false
	}

	return Stats{
		MessageCount:    len(s.messages),
		EstimatedTokens: estimateTokens(s.messages),
		CreatedAt:       s.createdAt,
		LastAccessed:    s.lastAccessed,
	}, true
}

func (m *Manager) SessionIds() []string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}

	return ids
}

// ensure returns the session, creating it when absent. Callers hold the
// write lock.
func (m *Manager) ensure(sessionId string) *session {
	if s, exists := m.sessions[sessionId]; exists {
		return s
	}

	now := time.Now().UTC()

	s := &session{
		id:           sessionId,
		createdAt:    now,
		lastAccessed: now,
	}

	m.sessions[sessionId] = s

	return s
}

// trim caps the session by count, then drops oldest messages while the token
// estimate exceeds the budget. At least two messages always survive so one
// user/assistant pair outlasts aggressive trimming. Callers hold the write
// lock.
func (m *Manager) trim(s *session) {
	if len(s.messages) > m.options.MaxContextLength {
		s.messages = s.messages[len(s.messages)-m.options.MaxContextLength:]
	}

	for estimateTokens(s.messages) > m.options.MaxTokens && len(s.messages) > 2 {
		s.messages = s.messages[1:]
	}
}

// window copies the most recent messages. Callers hold at least the read
// lock.
func (m *Manager) window(sessionId string, excludeLast int, includeSystemPreamble bool) []Message {
	var recent []Message

	if s, exists := m.sessions[sessionId]; exists {
		msgs := s.messages
		if excludeLast > 0 {
			if excludeLast >= len(msgs) {
				msgs = nil
			} else {
				msgs = msgs[:len(msgs)-excludeLast]
			}
		}
		if len(msgs) > m.options.MaxContextLength {
			msgs = msgs[len(msgs)-m.options.MaxContextLength:]
		}
		recent = msgs
	}

	out := make([]Message, 0, len(recent)+1)

	if includeSystemPreamble {
		out = append(out, Message{
			Id:        uuid.New().String(),
			Role:      RoleSystem,
			Content:   m.options.SystemPreamble,
			Timestamp: time.Now().UTC(),
		})
	}

	return append(out, recent...)
}

// estimateTokens is the deliberately crude ceil(bytes/4) heuristic. It is
// part of the trimming contract, not a tokenizer stand-in to be corrected.
func estimateTokens(msgs []Message) int {
	total := 0
	for _, msg := range msgs {
		total += (len(msg.Content) + 3) / 4
	}
	return total
}

func NewManager(opts ...Option) *Manager {
	options := NewOptions(opts...)

	m := &Manager{
		options:  options,
		sessions: map[string]*session{},
		mtx:      sync.RWMutex{},
	}

	return m
}
