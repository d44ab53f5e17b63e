package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(ttl time.Duration) (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemory(context.Background(), ttl, 0)
	c.now = clock.Now
	return c, clock
}

func TestMemory_SetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("Pune", 42)
	v, err := c.Get("Pune")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = c.Get("Delhi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Expiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("Pune", "ranking")
	clock.Advance(30 * time.Second)
	_, err := c.Get("Pune")
	require.NoError(t, err)

	clock.Advance(31 * time.Second)
	_, err = c.Get("Pune")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_CustomTTL(t *testing.T) {
	c, clock := newTestCache(time.Hour)

	c.Set("Pune", 1, time.Second)
	clock.Advance(2 * time.Second)
	_, err := c.Get("Pune")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Delete(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("Pune", 1)
	c.Delete("Pune")
	c.Delete("missing")
	_, err := c.Get("Pune")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_GetOrSet(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) (any, error) {
		calls++
		return "fresh", nil
	}

	v, err := c.GetOrSet(ctx, "Pune", fn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	v, err = c.GetOrSet(ctx, "Pune", fn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, calls)
}

func TestMemory_GetOrSetErrorNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()

	_, err := c.GetOrSet(ctx, "Pune", func(context.Context) (any, error) {
		return nil, errors.New("db down")
	})
	require.EqualError(t, err, "db down")
	assert.Equal(t, 0, c.Len())
}

func TestMemory_GetOrSetSkipsStoreAfterDelete(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()

	v, err := c.GetOrSet(ctx, "Pune", func(context.Context) (any, error) {
		// An invalidation lands while the old value is being computed.
		c.Delete("Pune")
		return "old", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old", v)

	_, err = c.Get("Pune")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err = c.GetOrSet(ctx, "Pune", func(context.Context) (any, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	v, err = c.Get("Pune")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestMemory_GetOrSetDeleteOtherKeyKeepsStore(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, err := c.GetOrSet(context.Background(), "Pune", func(context.Context) (any, error) {
		c.Delete("Delhi")
		return 1, nil
	})
	require.NoError(t, err)

	v, err := c.Get("Pune")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMemory_GetOrSetConcurrentMissesShareLoad(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		calls int
	)
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(context.Context) (any, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		return "ranking", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.GetOrSet(ctx, "Pune", fn)
	}()
	<-started
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.GetOrSet(ctx, "Pune", fn)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, r := range results {
		assert.Equal(t, "ranking", r)
	}
}

func TestMemory_SweepRemovesExpired(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2, time.Hour)
	clock.Advance(2 * time.Minute)
	c.sweep()

	_, loaded := c.m.Load("a")
	assert.False(t, loaded)
	_, loaded = c.m.Load("b")
	assert.True(t, loaded)
}

func TestMemory_ExpirerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewMemory(ctx, time.Millisecond, time.Millisecond)
	c.Set("a", 1)
	cancel()

	require.Eventually(t, func() bool {
		_, err := c.Get("a")
		return errors.Is(err, ErrNotFound)
	}, time.Second, 5*time.Millisecond)
}
