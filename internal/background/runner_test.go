package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunner_RunsAndLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	runner := NewRunner(zap.New(core), time.Second)

	var ran atomic.Int32
	runner.Go("ok", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	runner.Go("fails", func(context.Context) error {
		ran.Add(1)
		return errors.New("boom")
	})
	runner.Go("panics", func(context.Context) error {
		ran.Add(1)
		panic("unexpected")
	})

	require.NoError(t, runner.Wait(context.Background()))
	assert.EqualValues(t, 3, ran.Load())
	assert.Equal(t, 2, logs.FilterMessage("background task failed").Len())
}

func TestRunner_TaskContextHasDeadline(t *testing.T) {
	runner := NewRunner(nil, 50*time.Millisecond)
	var hadDeadline atomic.Bool
	runner.Go("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, runner.Wait(context.Background()))
	assert.True(t, hadDeadline.Load())
}

func TestRunner_WaitHonoursContext(t *testing.T) {
	runner := NewRunner(nil, time.Minute)
	release := make(chan struct{})
	runner.Go("blocked", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, runner.Wait(ctx), context.DeadlineExceeded)
	close(release)
	require.NoError(t, runner.Wait(context.Background()))
}
