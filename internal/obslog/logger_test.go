package obslog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerFiltersByLevelAndComponent(t *testing.T) {
	l := New(8)
	l.SetMinLevel(LevelWarning)

	l.Log(ComponentCompile, LevelDebug, "should be filtered by level", nil)
	l.Log(ComponentCompile, LevelError, "should pass", nil)

	l.SetEnabled(ComponentEngine, false)
	l.Log(ComponentEngine, LevelError, "should be filtered by component", nil)

	entries := l.Snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, "should pass", entries[0].Message)
}

func TestLoggerRingBufferWraps(t *testing.T) {
	l := New(64) // New clamps capacity below 64; request exactly the floor.
	for i := 0; i < 64+10; i++ {
		l.Logf(ComponentSystem, LevelInfo, "entry %d", i)
	}
	entries := l.Snapshot()
	require.Len(t, entries, 64)
	require.Equal(t, "entry 10", entries[0].Message)
	require.Equal(t, "entry 73", entries[len(entries)-1].Message)
}

func TestLoggerClear(t *testing.T) {
	l := New(8)
	l.Log(ComponentParse, LevelInfo, "x", nil)
	l.Clear()
	require.Nil(t, l.Snapshot())
}
