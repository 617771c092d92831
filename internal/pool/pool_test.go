package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeedsMinSize(t *testing.T) {
	var created atomic.Int32
	p, err := New(5, func() (int, error) {
		return int(created.Add(1)), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, p.Available())
	assert.Equal(t, int32(5), created.Load())
}

func TestNew_CreatorFailureAbortsConstruction(t *testing.T) {
	boom := errors.New("cannot open connection")
	calls := 0
	p, err := New(3, func() (int, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return calls, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Nil(t, p)
}

func TestAcquire_ReusesFreeItems(t *testing.T) {
	var created atomic.Int32
	p, err := New(2, func() (int, error) {
		return int(created.Add(1)), nil
	})
	require.NoError(t, err)

	item, err := p.Acquire()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Available())

	item.Release()
	assert.Equal(t, 2, p.Available())
	assert.Equal(t, int32(2), created.Load(), "no overflow item should have been created")
}

func TestAcquire_OverflowsBeyondMinSize(t *testing.T) {
	p, err := New(1, func() (string, error) {
		return "conn", nil
	})
	require.NoError(t, err)

	first, err := p.Acquire()
	require.NoError(t, err)
	second, err := p.Acquire()
	require.NoError(t, err)

	// Both leases are live even though minSize is 1.
	assert.Equal(t, "conn", first.Value())
	assert.Equal(t, "conn", second.Value())
	assert.Equal(t, 0, p.Available())

	first.Release()
	second.Release()
	assert.Equal(t, 1, p.Available(), "resting capacity stays capped at minSize")
}

func TestAcquire_OverflowCreatorFailure(t *testing.T) {
	boom := errors.New("backend down")
	healthy := true
	p, err := New(1, func() (int, error) {
		if !healthy {
			return 0, boom
		}
		return 42, nil
	})
	require.NoError(t, err)

	item, err := p.Acquire()
	require.NoError(t, err)
	defer item.Release()

	healthy = false
	_, err = p.Acquire()
	assert.ErrorIs(t, err, boom)
}

func TestRelease_IsIdempotent(t *testing.T) {
	p, err := New(1, func() (int, error) { return 7, nil })
	require.NoError(t, err)

	item, err := p.Acquire()
	require.NoError(t, err)

	item.Release()
	item.Release()
	item.Release()

	assert.Equal(t, 1, p.Available(), "repeated Release must not duplicate the item")
}

func TestPool_ConcurrentAcquireRelease(t *testing.T) {
	var created atomic.Int32
	p, err := New(5, func() (int, error) {
		return int(created.Add(1)), nil
	})
	require.NoError(t, err)

	const workers = 15

	acquired := make(chan *Item[int], workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := p.Acquire()
			assert.NoError(t, err)
			acquired <- item
		}()
	}
	wg.Wait()
	close(acquired)

	// All 15 leases are outstanding, so nothing is free and the pool had to
	// overflow past its minimum.
	assert.Equal(t, 0, p.Available())
	assert.GreaterOrEqual(t, created.Load(), int32(15))

	// No item is duplicated across leases.
	seen := make(map[int]bool)
	items := make([]*Item[int], 0, workers)
	for item := range acquired {
		assert.False(t, seen[item.Value()], "item %d handed out twice", item.Value())
		seen[item.Value()] = true
		items = append(items, item)
	}

	for _, item := range items {
		item.Release()
	}

	assert.Equal(t, 5, p.Available(), "free list is capped at minSize after all releases")
}

func TestPool_ReleaseOnPanicPath(t *testing.T) {
	p, err := New(1, func() (int, error) { return 1, nil })
	require.NoError(t, err)

	func() {
		defer func() { _ = recover() }()
		item, err := p.Acquire()
		require.NoError(t, err)
		defer item.Release()
		panic("caller failure after acquiring")
	}()

	assert.Equal(t, 1, p.Available(), "deferred Release must run on panic")
}
