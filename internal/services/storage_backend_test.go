package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalBlobStoreRoundTrip(t *testing.T) {
	store := NewLocalBlobStore(t.TempDir())
	require.Equal(t, "local", store.Name())

	key := "uploads/9000000001.jpg"

	ok, err := store.Exists(context.Background(), key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Upload(context.Background(), key, strings.NewReader("jpeg-bytes")))

	ok, err = store.Exists(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)

	rc, err := store.Download(context.Background(), key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), key))
	ok, err = store.Exists(context.Background(), key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocalBlobStoreOverwrite(t *testing.T) {
	store := NewLocalBlobStore(t.TempDir())
	key := "idcards/9000000001.pdf"

	require.NoError(t, store.Upload(context.Background(), key, strings.NewReader("first")))
	require.NoError(t, store.Upload(context.Background(), key, strings.NewReader("second")))

	rc, err := store.Download(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestLocalBlobStoreFilePath(t *testing.T) {
	base := t.TempDir()
	store := NewLocalBlobStore(base)

	// The server mounts this path as the static uploads directory.
	dir, err := store.FilePath("uploads")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "uploads"), dir)

	_, err = store.FilePath("../outside")
	require.Error(t, err)
}

func TestLocalBlobStoreRejectsTraversal(t *testing.T) {
	store := NewLocalBlobStore(t.TempDir())

	err := store.Upload(context.Background(), "../outside.txt", strings.NewReader("x"))
	require.Error(t, err)

	_, err = store.Download(context.Background(), "uploads/../../etc/passwd")
	require.Error(t, err)
}
