package sweeper

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
	"github.com/adelorme/partage/internal/server/transfers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSweepOnce_CollectsExpired(t *testing.T) {
	repo := files.NewMemoryRepository()
	blobs := blob.NewMemoryStore()
	svc := transfers.NewService(repo, blobs, discardLogger(), 24*time.Hour)
	ctx := context.Background()

	// expired file: finalized with a negative-offset expiry via direct repo access
	key, _, err := svc.Open(ctx)
	require.NoError(t, err)
	data := []byte("stale")
	_, err = svc.Accept(ctx, key, 1, hashx.Sum(data), data)
	require.NoError(t, err)
	require.NoError(t, repo.Finalize(ctx, key, "gone1234", "old.bin", time.Now().Add(-time.Minute), 5))

	// live file: must survive the sweep
	liveKey, _, err := svc.Open(ctx)
	require.NoError(t, err)
	liveData := []byte("fresh")
	_, err = svc.Accept(ctx, liveKey, 1, hashx.Sum(liveData), liveData)
	require.NoError(t, err)
	liveID, _, err := svc.Finalize(ctx, liveKey, "new.bin", "1h", 5)
	require.NoError(t, err)

	New(repo, blobs, discardLogger(), time.Second).SweepOnce(ctx)

	// expired file unreachable, blob gone
	_, _, err = svc.Info(ctx, "gone1234")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 1, blobs.Len())

	// live file untouched
	_, parts, err := svc.Info(ctx, liveID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	_, err = svc.OpenPart(ctx, parts[0].Identifier)
	assert.NoError(t, err)
}

func TestSweepOnce_CollectsAbandonedSessions(t *testing.T) {
	repo := files.NewMemoryRepository()
	blobs := blob.NewMemoryStore()
	// tiny TTL: the session expires right after the first chunk lands
	svc := transfers.NewService(repo, blobs, discardLogger(), 30*time.Millisecond)
	ctx := context.Background()

	key, _, err := svc.Open(ctx)
	require.NoError(t, err)
	data := []byte("orphan")
	_, err = svc.Accept(ctx, key, 1, hashx.Sum(data), data)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	// a late chunk cannot sneak into the expired session and leak its blob
	// past the sweep
	late := []byte("late")
	_, err = svc.Accept(ctx, key, 2, hashx.Sum(late), late)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 1, blobs.Len())

	New(repo, blobs, discardLogger(), time.Second).SweepOnce(ctx)

	_, err = svc.Status(ctx, key)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, blobs.Len())
}

func TestRun_StopsOnCancel(t *testing.T) {
	repo := files.NewMemoryRepository()
	blobs := blob.NewMemoryStore()
	s := New(repo, blobs, discardLogger(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
