package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarityIdentity(t *testing.T) {
	vec := []float32{0.3, 0.5, 0.2}

	assert.InDelta(t, 1.0, CosineSimilarity(vec, vec), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityMismatchedLengths(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 2}

	assert.Equal(t, 0.0, CosineSimilarity(a, b))
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}

	assert.Equal(t, 0.0, CosineSimilarity(a, b))
}

func TestCosineSimilarityOpposite(t *testing.T) {
	a := []float32{1, 1}
	b := []float32{-1, -1}

	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}
