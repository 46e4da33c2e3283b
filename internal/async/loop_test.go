package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startLoop runs a fresh loop in the background and stops it at cleanup.
func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func settle(t *testing.T, l *Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, l.Settle(ctx))
}

func TestLoop_RunsTasksInPostOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 0; i < 5; i++ {
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	settle(t, l)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_DoWaitsForTask(t *testing.T) {
	l := startLoop(t)

	ran := false
	require.NoError(t, l.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_SettleOnIdleLoopReturnsImmediately(t *testing.T) {
	l := NewLoop()
	require.NoError(t, l.Settle(context.Background()))
}

func TestLoop_PanickingTaskStopsLoop(t *testing.T) {
	l := NewLoop()
	l.Post(func() { panic("boom") })

	err := l.Run(context.Background())

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.True(t, l.Closed())
	assert.False(t, l.Post(func() {}), "closed loop must reject new tasks")
}

func TestLoop_CloseStopsRun(t *testing.T) {
	l := NewLoop()
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	l.Close()
	l.Close()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrLoopClosed))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestLoop_DoOnClosedLoop(t *testing.T) {
	l := NewLoop()
	l.Close()
	err := l.Do(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrLoopClosed)
}
