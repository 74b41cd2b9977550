package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshal(t *testing.T) {
	e := New(TypeTurnStep, "abc", map[string]interface{}{"node": "router"})

	raw, err := Marshal(e)
	require.NoError(t, err)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeTurnStep, got.EventType())
	assert.Equal(t, "abc", got.SessionID())
	assert.Equal(t, "router", got.Payload()["node"])
	assert.True(t, e.Timestamp().Equal(got.Timestamp()))
}
