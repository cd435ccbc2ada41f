package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	plain, err := NewFileStore(t.TempDir(), false)
	require.NoError(t, err)
	packed, err := NewFileStore(t.TempDir(), true)
	require.NoError(t, err)

	return map[string]Store{
		"file":      plain,
		"file+gzip": packed,
		"memory":    NewMemoryStore(),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			_, err := s.Load(ctx, "desktop")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, "desktop", []byte(`{"password":"admin"}`)))
			got, err := s.Load(ctx, "desktop")
			require.NoError(t, err)
			assert.JSONEq(t, `{"password":"admin"}`, string(got))

			require.NoError(t, s.Save(ctx, "desktop", []byte(`{"password":"next"}`)))
			got, err = s.Load(ctx, "desktop")
			require.NoError(t, err)
			assert.JSONEq(t, `{"password":"next"}`, string(got))

			require.NoError(t, s.Delete(ctx, "desktop"))
			_, err = s.Load(ctx, "desktop")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NoError(t, s.Delete(ctx, "desktop"))
		})
	}
}

func TestInvalidKeys(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
				assert.ErrorIs(t, s.Save(ctx, key, []byte("x")), ErrInvalidKey, key)
				_, err := s.Load(ctx, key)
				assert.ErrorIs(t, err, ErrInvalidKey, key)
			}
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewFileStore(t.TempDir(), false)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Save(ctx, "desktop", []byte("x")), context.Canceled)
	_, err = s.Load(ctx, "desktop")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStoreCompressionIsTransparent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	payload := bytes.Repeat([]byte(`{"id":"f1","name":"a.txt"}`), 100)

	packed, err := NewFileStore(dir, true)
	require.NoError(t, err)
	require.NoError(t, packed.Save(ctx, "desktop", payload))

	raw, err := os.ReadFile(packed.Path("desktop"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, gzipMagic))
	assert.Less(t, len(raw), len(payload))

	plain, err := NewFileStore(dir, false)
	require.NoError(t, err)
	got, err := plain.Load(ctx, "desktop")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir, false)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, "desktop", []byte("x")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "desktop.json", entries[0].Name())
}

func TestNewFileStore(t *testing.T) {
	_, err := NewFileStore("", false)
	assert.Error(t, err)

	nested := filepath.Join(t.TempDir(), "a", "b")
	_, err = NewFileStore(nested, false)
	require.NoError(t, err)
	assert.DirExists(t, nested)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", data))
	data[0] = 'z'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'z'
	again, _ := s.Load(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
	assert.Equal(t, 1, s.Len())
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(Options{Backend: "s3"})
	assert.Error(t, err)
}
