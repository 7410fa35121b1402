package transfers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/hashx"
	"github.com/adelorme/partage/internal/logging"
	"github.com/adelorme/partage/internal/server/blob"
	"github.com/adelorme/partage/internal/server/repositories/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *files.MemoryRepository, *blob.MemoryStore) {
	t.Helper()
	repo := files.NewMemoryRepository()
	blobs := blob.NewMemoryStore()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(repo, blobs, logger, 24*time.Hour), repo, blobs
}

func TestAccept_AssignsSequentialOffsets(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	chunks := [][]byte{[]byte("first"), []byte("second"), []byte("third")}
	for i, c := range chunks {
		// deliberately bogus hints; the server must ignore them
		offset, err := s.Accept(ctx, key, int64(100+i), hashx.Sum(c), c)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), offset)
	}

	st, err := s.Status(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Offset)
	assert.Equal(t, hashx.Sum([]byte("third")), st.Hash)
	assert.Equal(t, int64(16), st.BytesTotal)
}

func TestAccept_HashMismatchPersistsNothing(t *testing.T) {
	s, _, blobs := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	_, err = s.Accept(ctx, key, 1, "deadbeef", []byte("payload"))
	assert.ErrorIs(t, err, common.ErrHashMismatch)

	assert.Equal(t, 0, blobs.Len())
	_, err = s.Status(ctx, key)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAccept_PayloadTooLarge(t *testing.T) {
	s, _, blobs := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	big := make([]byte, common.MaxChunkSize+1)
	_, err = s.Accept(ctx, key, 1, hashx.Sum(big), big)
	assert.ErrorIs(t, err, common.ErrPayloadTooLarge)
	assert.Equal(t, 0, blobs.Len())
}

func TestAccept_DuplicateRetryIsNoOp(t *testing.T) {
	s, _, blobs := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	data := []byte("chunk")
	offset, err := s.Accept(ctx, key, 1, hashx.Sum(data), data)
	require.NoError(t, err)
	require.Equal(t, int64(1), offset)

	// same logical chunk re-sent after a lost ack
	offset, err = s.Accept(ctx, key, 1, hashx.Sum(data), data)
	require.NoError(t, err)
	assert.Equal(t, int64(1), offset)

	// the retry must not leave a second blob behind
	assert.Equal(t, 1, blobs.Len())
}

func TestAccept_IdenticalConsecutiveChunks(t *testing.T) {
	s, _, blobs := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	// a zero-filled file produces byte-identical chunks; each claims the
	// next offset and must be stored as its own part
	data := make([]byte, 1024)
	for i := 1; i <= 3; i++ {
		offset, err := s.Accept(ctx, key, int64(i), hashx.Sum(data), data)
		require.NoError(t, err)
		assert.Equal(t, int64(i), offset)
	}

	st, err := s.Status(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Offset)
	assert.Equal(t, int64(3*1024), st.BytesTotal)
	assert.Equal(t, 3, blobs.Len())
}

func TestAccept_UnknownSession(t *testing.T) {
	s, _, _ := newService(t)

	_, err := s.Accept(context.Background(), "nope", 1, hashx.Sum([]byte("x")), []byte("x"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFinalize_PublishesAndCloses(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	data := []byte("0123456789")
	_, err = s.Accept(ctx, key, 1, hashx.Sum(data), data)
	require.NoError(t, err)

	before := time.Now()
	id, expiresAt, err := s.Finalize(ctx, key, "ten.bin", "1h", 5)
	require.NoError(t, err)
	assert.Len(t, string(id), 8)
	assert.WithinDuration(t, before.Add(time.Hour), expiresAt, 5*time.Second)

	// session is closed for further chunks
	_, err = s.Accept(ctx, key, 2, hashx.Sum(data), data)
	assert.ErrorIs(t, err, common.ErrNotFound)

	file, parts, err := s.Info(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ten.bin", file.Name)
	assert.Equal(t, int64(10), file.TotalSize)
	require.Len(t, parts, 1)
	assert.Equal(t, int64(10), parts[0].Size)

	rc, err := s.OpenPart(ctx, parts[0].Identifier)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data, got)
}

func TestFinalize_Defaults(t *testing.T) {
	s, repo, _ := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	before := time.Now()
	id, expiresAt, err := s.Finalize(ctx, key, "f", "", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), expiresAt, 5*time.Second)

	file, _, err := repo.GetByIdentifier(ctx, id, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(common.DefaultMaxDownloads), file.MaxDownloads)
}

func TestFinalize_InvalidExpiry(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	key, _, err := s.Open(ctx)
	require.NoError(t, err)

	_, _, err = s.Finalize(ctx, key, "f", "1w", 5)
	assert.ErrorIs(t, err, common.ErrInvalidExpiry)
}

func TestFinalize_UnknownSession(t *testing.T) {
	s, _, _ := newService(t)

	_, _, err := s.Finalize(context.Background(), "nope", "f", "1h", 5)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, _, blobs := newService(t)
	ctx := context.Background()

	err := s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	key, _, err := s.Open(ctx)
	require.NoError(t, err)
	data := []byte("bytes")
	_, err = s.Accept(ctx, key, 1, hashx.Sum(data), data)
	require.NoError(t, err)
	id, _, err := s.Finalize(ctx, key, "f", "1h", 5)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))
	assert.Equal(t, 0, blobs.Len())

	_, _, err = s.Info(ctx, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
