package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Create a blob
	blobName := "runs/report-001.csv"
	data := []byte("strategy,mae,rmse\nmean,1.25,1.58\n")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	// Verify file exists on disk
	expectedPath := filepath.Join(tmpDir, "runs", "report-001.csv")
	_, err = os.Stat(expectedPath)
	require.NoError(t, err)

	// 2. Open and read back
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, data, got)

	// 3. List
	blobName2 := "runs/report-002.csv"
	w2, err := store.Create(ctx, blobName2)
	require.NoError(t, err)
	require.NoError(t, w2.Close())

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, blobName2}, names)

	// 4. Delete
	err = store.Delete(ctx, blobName)
	require.NoError(t, err)

	namesAfter, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName2}, namesAfter)

	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing blob is not an error
	require.NoError(t, store.Delete(ctx, blobName))
}

func TestLocalStore_CreateIsAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	w, err := store.Create(ctx, "partial.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("half-written"))
	require.NoError(t, err)

	// Until Close, the final name must not exist and List must not surface temp files.
	_, err = store.Open(ctx, "partial.csv")
	require.ErrorIs(t, err, ErrNotFound)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, w.Close())

	blob, err := store.Open(ctx, "partial.csv")
	require.NoError(t, err)
	require.NoError(t, blob.Close())
}

func TestLocalStore_Put(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	data := []byte("a,b\n1,2\n")
	require.NoError(t, store.Put(ctx, "tiny.csv", data))

	blob, err := store.Open(ctx, "tiny.csv")
	require.NoError(t, err)
	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, data, got)
	require.NoError(t, blob.Close())
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("age,income\n23,50000\n")
	require.NoError(t, store.Put(ctx, "datasets/health.csv", data))

	blob, err := store.Open(ctx, "datasets/health.csv")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, data, got)
	require.NoError(t, blob.Close())

	// Streaming create
	w, err := store.Create(ctx, "datasets/other.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("x\n1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "datasets/")
	require.NoError(t, err)
	require.Equal(t, []string{"datasets/health.csv", "datasets/other.csv"}, names)

	require.NoError(t, store.Delete(ctx, "datasets/health.csv"))

	_, err = store.Open(ctx, "datasets/health.csv")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_OpenSnapshotsContents(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "v.csv", []byte("one")))

	blob, err := store.Open(ctx, "v.csv")
	require.NoError(t, err)
	defer blob.Close()

	// Overwrite after Open; the opened blob must keep serving the old bytes.
	require.NoError(t, store.Put(ctx, "v.csv", []byte("two")))

	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, "one", string(got))
}
