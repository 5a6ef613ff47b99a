package qdrant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusUnmarshalsBareString(t *testing.T) {
	var env qdrantEnvelope[[]qdrantPointResult]

	body := `{"status":"OK","result":[{"id":"abc","score":0.92,"payload":{"content":"hi"}}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &env))

	assert.Equal(t, "ok", env.Status.State)
	require.Len(t, env.Result, 1)
	assert.Equal(t, "abc", env.Result[0].Id)
	assert.InDelta(t, 0.92, env.Result[0].Score, 1e-9)
}

func TestStatusUnmarshalsErrorObject(t *testing.T) {
	var status qdrantStatus

	require.NoError(t, json.Unmarshal([]byte(`{"error":"collection not found"}`), &status))

	assert.Equal(t, "error", status.State)
	assert.Equal(t, "collection not found", status.Error)
}

func TestCountResult(t *testing.T) {
	var env qdrantEnvelope[qdrantCountResult]

	require.NoError(t, json.Unmarshal([]byte(`{"status":"ok","result":{"count":42}}`), &env))

	assert.Equal(t, 42, env.Result.Count)
}
