package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/hashx"
	"github.com/adelorme/partage/internal/logging"
	"github.com/adelorme/partage/internal/server/blob"
	"github.com/adelorme/partage/internal/server/httpapi"
	"github.com/adelorme/partage/internal/server/repositories/files"
	"github.com/adelorme/partage/internal/server/transfers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := transfers.NewService(files.NewMemoryRepository(), blob.NewMemoryStore(), logger, 24*time.Hour)
	ts := httptest.NewServer(httpapi.NewServer("", svc, logger).Routes())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestOpenStatusSendChunk(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sess, err := c.Open(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.SecretKey)
	assert.Greater(t, sess.ExpiredAt, time.Now().Unix())

	first := []byte("hello, ")
	offset, err := c.SendChunk(ctx, sess.SecretKey, 1, hashx.Sum(first), first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), offset)

	second := []byte("world")
	offset, err = c.SendChunk(ctx, sess.SecretKey, 2, hashx.Sum(second), second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), offset)

	st, err := c.Status(ctx, sess.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Offset)
	assert.Equal(t, hashx.Sum(second), st.Hash)
	assert.Equal(t, int64(len(second)), st.FileSize)
	assert.Equal(t, int64(len(first)+len(second)), st.BytesTotal)
}

func TestFinalizeInfoFetch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sess, err := c.Open(ctx)
	require.NoError(t, err)

	data := []byte("payload")
	_, err = c.SendChunk(ctx, sess.SecretKey, 1, hashx.Sum(data), data)
	require.NoError(t, err)

	pub, err := c.Finalize(ctx, sess.SecretKey, "notes.txt", "1h", 5)
	require.NoError(t, err)
	require.Len(t, pub.Identifier, 8)

	info, err := c.FileInfo(ctx, pub.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", info.File.Name)
	assert.Equal(t, int64(len(data)), info.File.FileSize)
	require.Len(t, info.Parts, 1)

	got, err := c.FetchPart(ctx, info.Parts[0].Identifier)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestStatusUnknownKey(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Status(context.Background(), "no-such-key")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSendChunkHashMismatch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sess, err := c.Open(ctx)
	require.NoError(t, err)

	_, err = c.SendChunk(ctx, sess.SecretKey, 1, "bogus", []byte("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hash")
}

func TestSendChunkTooLarge(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sess, err := c.Open(ctx)
	require.NoError(t, err)

	big := make([]byte, common.MaxChunkSize+1)
	_, err = c.SendChunk(ctx, sess.SecretKey, 1, hashx.Sum(big), big)
	assert.True(t, errors.Is(err, common.ErrPayloadTooLarge))
}

func TestDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sess, err := c.Open(ctx)
	require.NoError(t, err)

	data := []byte("gone soon")
	_, err = c.SendChunk(ctx, sess.SecretKey, 1, hashx.Sum(data), data)
	require.NoError(t, err)

	pub, err := c.Finalize(ctx, sess.SecretKey, "f", "", 0)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, sess.SecretKey))

	_, err = c.FileInfo(ctx, pub.Identifier)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
