package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/testutil"
)

func TestMockLogger_Records(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("summary refreshed", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "summary refreshed", messages[0].Message)

	logger.Clear()
	assert.Empty(t, logger.GetMessages())

	logger.Error("agent unreachable")
	assert.True(t, logger.HasMessage("error", "agent unreachable"))
	assert.False(t, logger.HasMessage("info", "agent unreachable"))
	assert.Equal(t, 1, logger.Count("error"))
}

func TestMockLogger_ChildrenShareSink(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("chat").With(logging.String("conversation", "c-1"))

	child.Warn("request already in flight", logging.Int("attempt", 2))

	entry, ok := root.Find("warn", "in flight")
	require.True(t, ok)
	assert.Equal(t, "chat", entry.Logger)
	v, ok := entry.Field("conversation")
	require.True(t, ok)
	assert.Equal(t, "c-1", v)
	v, _ = entry.Field("attempt")
	assert.Equal(t, 2, v)
}

func TestMockLogger_SatisfiesInterface(t *testing.T) {
	var l logging.Logger = testutil.NewMockLogger()
	assert.NotPanics(t, func() { l.Debug("x") })
}
