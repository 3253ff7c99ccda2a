package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Egor213/LogVault/internal/metrics"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SameNameSameInstance(t *testing.T) {
	hub := store.NewHub(store.Deps{Counters: metrics.NewTestCounters()})
	defer hub.Close()

	a1 := hub.App("orders")
	a2 := hub.App("orders")
	b := hub.App("billing")

	require.NotNil(t, a1)
	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
}

func TestHub_ConcurrentLookupMaterializesOnce(t *testing.T) {
	hub := store.NewHub(store.Deps{Counters: metrics.NewTestCounters()})
	defer hub.Close()

	const goroutines = 32
	coords := make([]*store.Coordinator, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			coords[i] = hub.App("same-app")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, coords[0], coords[i])
	}
}

func TestHub_DispatchAfterClose(t *testing.T) {
	hub := store.NewHub(store.Deps{Counters: metrics.NewTestCounters()})
	hub.App("a")
	hub.Close()

	resp := hub.Dispatch(context.Background(), "a", protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathLogs,
		Body:   protocol.QueryInput{},
	})

	require.False(t, resp.OK)
	assert.Equal(t, protocol.CodeServiceUnavailable, resp.Error.Code)

	assert.Nil(t, hub.App("b"))

	// Close is idempotent.
	hub.Close()
}
