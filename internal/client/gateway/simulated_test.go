package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFastSim(opts ...SimOption) *Simulated {
	return NewSimulated(append([]SimOption{WithLatency(0, 0, 0)}, opts...)...)
}

func TestSimulated_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newFastSim()

	folder, err := s.CreateFolder(ctx, "  Tower A ", "north lot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(folder.Ref, "demo-folder-"))
	assert.Equal(t, "Tower A", folder.Name)
	assert.Empty(t, folder.ID)

	ref, err := s.UploadFile(ctx, folder.Ref, models.Payload{Name: "a.pdf", Data: []byte("x"), Size: 1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "demo-file-"))
	assert.True(t, s.Exists(ref))

	require.NoError(t, s.DeleteFile(ctx, ref))
	assert.False(t, s.Exists(ref))

	// already absent
	require.NoError(t, s.DeleteFile(ctx, ref))

	ref2, err := s.UploadFile(ctx, folder.Ref, models.Payload{Name: "b.pdf", Data: []byte("y"), Size: 1})
	require.NoError(t, err)
	require.NoError(t, s.DeleteFolder(ctx, folder.Ref))
	assert.False(t, s.Exists(folder.Ref))
	assert.False(t, s.Exists(ref2))
}

func TestSimulated_CreateFolder_InvalidName(t *testing.T) {
	_, err := newFastSim().CreateFolder(context.Background(), "   ", "")
	require.ErrorIs(t, err, ErrInvalidName)
	require.ErrorIs(t, err, ErrCreationFailed)
}

func TestSimulated_UploadUnknownFolder(t *testing.T) {
	_, err := newFastSim().UploadFile(context.Background(), "nope", models.Payload{Name: "a", Data: []byte("a")})
	require.ErrorIs(t, err, ErrUploadFailed)
	require.ErrorIs(t, err, ErrInvalidRef)
}

func TestSimulated_UploadUnreadablePayload(t *testing.T) {
	ctx := context.Background()
	s := newFastSim()
	folder, err := s.CreateFolder(ctx, "v", "")
	require.NoError(t, err)

	_, err = s.UploadFile(ctx, folder.Ref, models.Payload{Name: "gone", Path: t.TempDir() + "/missing.bin"})
	require.ErrorIs(t, err, ErrUploadFailed)
}

func TestSimulated_Failer(t *testing.T) {
	ctx := context.Background()
	s := newFastSim(WithFailer(func(op Op, target string) bool {
		return op == OpUploadFile && target == "bad.pdf"
	}))
	folder, err := s.CreateFolder(ctx, "v", "")
	require.NoError(t, err)

	_, err = s.UploadFile(ctx, folder.Ref, models.Payload{Name: "bad.pdf", Data: []byte("x")})
	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "simulated network error")

	_, err = s.UploadFile(ctx, folder.Ref, models.Payload{Name: "good.pdf", Data: []byte("x")})
	require.NoError(t, err)
}

func TestSimulated_FailureRateOne(t *testing.T) {
	s := newFastSim(WithFailureRate(1))

	_, err := s.CreateFolder(context.Background(), "v", "")
	require.ErrorIs(t, err, ErrCreationFailed)
	require.ErrorIs(t, err, ErrBackendUnavailable)

	require.ErrorIs(t, s.DeleteFile(context.Background(), "x"), ErrDeleteFailed)
	require.ErrorIs(t, s.DeleteFolder(context.Background(), "x"), ErrDeleteFailed)
}

func TestSimulated_HonorsContextWhileSleeping(t *testing.T) {
	s := NewSimulated(WithLatency(time.Hour, time.Hour, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.CreateFolder(ctx, "v", "")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithLatencyScale(t *testing.T) {
	s := NewSimulated(WithLatencyScale(time.Second))
	assert.Equal(t, 500*time.Millisecond, s.createLatency)
	assert.Equal(t, time.Second, s.uploadLatency)
	assert.Equal(t, 300*time.Millisecond, s.deleteLatency)
}
