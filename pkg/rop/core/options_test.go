package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_DefaultDiscards(t *testing.T) {
	log := Logger(context.Background())
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), log)
	Logger(ctx).DebugContext(ctx, "hello", "node", "create")

	assert.Same(t, log, Logger(ctx))
	assert.Contains(t, buf.String(), "msg=hello node=create")
}

func TestLogger_NilFallsBack(t *testing.T) {
	ctx := WithLogger(context.Background(), nil)
	assert.NotNil(t, Logger(ctx))
}

func TestObserver(t *testing.T) {
	assert.Nil(t, GetObserver(context.Background()))

	var got []string
	obs := ObserverFunc(func(_ context.Context, kind string, err error, _ time.Duration) {
		got = append(got, kind+":"+err.Error())
	})

	ctx := WithObserver(context.Background(), obs)
	GetObserver(ctx).Observe(ctx, "fail", errors.New("boom"), time.Millisecond)

	assert.Equal(t, []string{"fail:boom"}, got)
}
