package transcript

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "transcript.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndRecent(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Save("dim the lights", "Dimming hallway lights.", []string{"add -g Hall -n Dimmer"}, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.Save("show temperature", "", nil, 0)
	require.NoError(t, err)

	entries, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first; same-second inserts fall back to id ordering, so just
	// assert both questions are present.
	questions := []string{entries[0].Question, entries[1].Question}
	assert.Contains(t, questions, "dim the lights")
	assert.Contains(t, questions, "show temperature")

	for _, e := range entries {
		if e.Question == "dim the lights" {
			assert.Equal(t, []string{"add -g Hall -n Dimmer"}, e.Commands)
			assert.Equal(t, 1, e.ToolCalls)
			assert.Equal(t, "Dimming hallway lights.", e.Explanation)
		} else {
			assert.Empty(t, e.Commands)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := s.Save("q", "", nil, 0)
		require.NoError(t, err)
	}

	entries, err := s.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "transcript.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
