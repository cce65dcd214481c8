package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDRoundTrip(t *testing.T) {
	id := NewTraceID()
	assert.Len(t, id, 26)

	ctx := WithTraceID(context.Background(), id)
	assert.Equal(t, id, GetTraceID(ctx))
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestNewTraceIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewTraceID(), NewTraceID())
}
