package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Get_coalescesConcurrentLoads(t *testing.T) {
	c := New[int](time.Minute)

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]int, callers)
	started := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			v, err := c.Get(context.Background(), "k", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	for i := 0; i < callers; i++ {
		<-started
	}
	time.Sleep(20 * time.Millisecond) // let every caller join the in-flight load
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}

	// served from cache
	v, err := c.Get(context.Background(), "k", func(context.Context) (int, error) {
		t.Fatal("load should not be called")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCache_Get_expires(t *testing.T) {
	c := New[string](time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	var calls int
	load := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	_, _ = c.Get(context.Background(), "k", load)
	_, _ = c.Get(context.Background(), "k", load)
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Second)
	_, _ = c.Get(context.Background(), "k", load)
	assert.Equal(t, 2, calls)
}

func TestCache_Get_errorsAreNotCached(t *testing.T) {
	c := New[int](time.Minute)
	errBoom := errors.New("boom")

	_, err := c.Get(context.Background(), "k", func(context.Context) (int, error) { return 0, errBoom })
	assert.Equal(t, errBoom, err)
	assert.Equal(t, 0, c.Len())

	v, err := c.Get(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCache_Invalidate(t *testing.T) {
	c := New[int](time.Minute)
	n := 0
	load := func(context.Context) (int, error) {
		n++
		return n, nil
	}

	v, _ := c.Get(context.Background(), "a", load)
	assert.Equal(t, 1, v)
	_, _ = c.Get(context.Background(), "b", load)

	c.Invalidate("a")
	v, _ = c.Get(context.Background(), "a", load)
	assert.Equal(t, 3, v)
	v, _ = c.Get(context.Background(), "b", load)
	assert.Equal(t, 2, v)

	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestCache_Invalidate_duringLoad(t *testing.T) {
	c := New[int](time.Minute)
	loading := make(chan struct{})
	release := make(chan struct{})

	done := make(chan int)
	go func() {
		v, _ := c.Get(context.Background(), "k", func(context.Context) (int, error) {
			close(loading)
			<-release
			return 1, nil
		})
		done <- v
	}()

	<-loading
	c.Invalidate("k")
	close(release)
	assert.Equal(t, 1, <-done)

	// the stale load result was not stored
	v, err := c.Get(context.Background(), "k", func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestCache_Get_contextCancelled(t *testing.T) {
	c := New[int](time.Minute)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "k", func(context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCache_zeroTTLOnlyCoalesces(t *testing.T) {
	c := New[int](0)
	n := 0
	load := func(context.Context) (int, error) {
		n++
		return n, nil
	}
	_, _ = c.Get(context.Background(), "k", load)
	_, _ = c.Get(context.Background(), "k", load)
	assert.Equal(t, 2, n)
}
