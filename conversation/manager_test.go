package conversation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextReturnsMostRecentWindow(t *testing.T) {
	m := NewManager(WithMaxContextLength(10), WithMaxTokens(100000))

	id := m.CreateSession("s1")
	for i := range 12 {
		m.AddMessage(id, RoleUser, fmt.Sprintf("message %d", i), nil)
	}

	window := m.Context(id, false)
	require.Len(t, window, 10)

	assert.Equal(t, "message 2", window[0].Content)
	assert.Equal(t, "message 11", window[9].Content)

	for i := 1; i < len(window); i++ {
		assert.False(t, window[i].Timestamp.Before(window[i-1].Timestamp))
	}
}

func TestTrimByTokenBudget(t *testing.T) {
	// each message estimates to 25 tokens; budget fits three
	m := NewManager(WithMaxContextLength(100), WithMaxTokens(75))

	id := m.CreateSession("")
	content := strings.Repeat("x", 100)

	for range 6 {
		m.AddMessage(id, RoleUser, content, nil)
	}

	stats, exists := m.Stats(id)
	require.True(t, exists)
	assert.Equal(t, 3, stats.MessageCount)
	assert.LessOrEqual(t, stats.EstimatedTokens, 75)
}

func TestTrimKeepsAtLeastTwoMessages(t *testing.T) {
	m := NewManager(WithMaxContextLength(100), WithMaxTokens(10))

	id := m.CreateSession("")
	huge := strings.Repeat("y", 1000)

	m.AddMessage(id, RoleUser, huge, nil)
	m.AddMessage(id, RoleAssistant, huge, nil)
	m.AddMessage(id, RoleUser, huge, nil)

	stats, exists := m.Stats(id)
	require.True(t, exists)
	assert.Equal(t, 2, stats.MessageCount)
	assert.Greater(t, stats.EstimatedTokens, 10)
}

func TestAddMessageAutoCreatesSession(t *testing.T) {
	m := NewManager()

	m.AddMessage("ghost", RoleUser, "hello?", nil)

	stats, exists := m.Stats("ghost")
	require.True(t, exists)
	assert.Equal(t, 1, stats.MessageCount)
}

func TestContextUnknownSession(t *testing.T) {
	m := NewManager()

	assert.Empty(t, m.Context("nope", false))

	window := m.Context("nope", true)
	require.Len(t, window, 1)
	assert.Equal(t, RoleSystem, window[0].Role)
	assert.NotEmpty(t, window[0].Content)
}

func TestRecentContextExcludesLast(t *testing.T) {
	m := NewManager(WithMaxContextLength(10))

	id := m.CreateSession("")
	for i := range 5 {
		m.AddMessage(id, RoleUser, fmt.Sprintf("m%d", i), nil)
	}

	window := m.RecentContext(id, 2)
	require.Len(t, window, 3)
	assert.Equal(t, "m2", window[2].Content)

	assert.Empty(t, m.RecentContext(id, 5))
	assert.Empty(t, m.RecentContext(id, 9))
}

func TestSummaryTruncatesAndWindows(t *testing.T) {
	m := NewManager()

	id := m.CreateSession("")

	long := strings.Repeat("a", 150)
	m.AddMessage(id, RoleUser, "first", nil)
	for range 4 {
		m.AddMessage(id, RoleUser, "middle", nil)
	}
	m.AddMessage(id, RoleAssistant, long, nil)

	summary := m.Summary(id)
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 5)

	assert.NotContains(t, summary, "first")
	assert.Equal(t, "assistant: "+strings.Repeat("a", 100)+"...", lines[4])
}

func TestSummaryEmptySession(t *testing.T) {
	m := NewManager()

	assert.Empty(t, m.Summary("unknown"))

	id := m.CreateSession("")
	assert.Empty(t, m.Summary(id))
}

func TestUpdateConfigAppliesOnNextAppend(t *testing.T) {
	m := NewManager(WithMaxContextLength(10), WithMaxTokens(100000))

	id := m.CreateSession("")
	for i := range 5 {
		m.AddMessage(id, RoleUser, fmt.Sprintf("m%d", i), nil)
	}

	m.UpdateConfig(3, 100000)

	// no retroactive re-trim
	stats, _ := m.Stats(id)
	assert.Equal(t, 5, stats.MessageCount)

	m.AddMessage(id, RoleUser, "m5", nil)

	stats, _ = m.Stats(id)
	assert.Equal(t, 3, stats.MessageCount)

	cfg := m.Config()
	assert.Equal(t, 3, cfg.MaxContextLength)
	assert.Equal(t, 100000, cfg.MaxTokens)
}

func TestClearSessionKeepsRecord(t *testing.T) {
	m := NewManager()

	id := m.CreateSession("keepme")
	m.AddMessage(id, RoleUser, "hello", nil)

	before, _ := m.Stats(id)

	m.ClearSession(id)

	stats, exists := m.Stats(id)
	require.True(t, exists)
	assert.Zero(t, stats.MessageCount)
	assert.Equal(t, before.CreatedAt, stats.CreatedAt)
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	m := NewManager()

	id := m.CreateSession("bye")
	m.DeleteSession(id)

	_, exists := m.Stats(id)
	assert.False(t, exists)

	// deleting again is a no-op
	m.DeleteSession(id)
	m.DeleteSession("never-existed")
}

func TestCleanupOldSessions(t *testing.T) {
	m := NewManager()

	m.CreateSession("a")
	m.CreateSession("b")

	assert.Zero(t, m.CleanupOlderThan(24*time.Hour))
	assert.Len(t, m.SessionIds(), 2)

	// a cutoff in the future sweeps everything
	assert.Equal(t, 2, m.CleanupOlderThan(-time.Hour))
	assert.Empty(t, m.SessionIds())
}

func TestCreateSessionGeneratesId(t *testing.T) {
	m := NewManager()

	id := m.CreateSession("")
	assert.NotEmpty(t, id)

	// creating an existing id returns it unchanged
	assert.Equal(t, id, m.CreateSession(id))
	assert.Len(t, m.SessionIds(), 1)
}

func TestTokenEstimateIsCeilOfQuarterBytes(t *testing.T) {
	m := NewManager()

	id := m.CreateSession("")
	m.AddMessage(id, RoleUser, "abcde", nil) // 5 bytes -> 2 tokens

	stats, _ := m.Stats(id)
	assert.Equal(t, 2, stats.EstimatedTokens)
}
