package store

import "time"

// Record is one stored (text, embedding, metadata) triple. Score is only
// populated on records returned from Search.
type Record struct {
	Id        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
	Score     float32
	CreatedAt time.Time
}
