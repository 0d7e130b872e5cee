package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	fb, err := NewFileBackend(filepath.Join(dir, "files"))
	require.NoError(t, err)
	sb, err := NewSQLiteBackend(filepath.Join(dir, "db", "organiser.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sb.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   fb,
		"sqlite": sb,
	}
}

func TestBackends_GetSet(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Set("k", []byte(`{"v":1}`)))
			got, err := b.Get("k")
			require.NoError(t, err)
			assert.Equal(t, `{"v":1}`, string(got))

			require.NoError(t, b.Set("k", []byte(`{"v":2}`)))
			got, err = b.Get("k")
			require.NoError(t, err)
			assert.Equal(t, `{"v":2}`, string(got))
		})
	}
}

func TestBackends_RoundTripState(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(b, WithIDs(NewSequenceIDs(name)))
			s.Initialize()
			populate(t, s)

			reloaded := New(b)
			reloaded.Initialize()
			assert.Equal(t, s.State(), reloaded.State())
		})
	}
}

func TestFileBackend_WritesAtomically(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, fb.Set(DefaultKey, []byte(`{}`)))
	assert.Equal(t, filepath.Join(dir, DefaultKey+".json"), fb.Path(DefaultKey))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be renamed away")
	assert.Equal(t, DefaultKey+".json", entries[0].Name())
}

func TestFileBackend_RejectsUnsafeKeys(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "  ", "../escape", "a/b", `a\b`} {
		assert.Error(t, fb.Set(key, []byte("x")), "key %q", key)
		_, err := fb.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestSQLiteBackend_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(DefaultKey, []byte(`{"tasks":[]}`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.Get(DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, string(got))
	assert.Equal(t, path, second.Path())
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	m := NewMemoryBackend()
	in := []byte("abc")
	require.NoError(t, m.Set("k", in))
	in[0] = 'z'

	out, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
	out[0] = 'y'

	again, _ := m.Get("k")
	assert.Equal(t, "abc", string(again))
}
