package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewTyped[string]()
	a, b := bus.Subscribe(), bus.Subscribe()
	bus.Publish("markov")
	assert.Equal(t, "markov", <-a)
	assert.Equal(t, "markov", <-b)
	bus.Unsubscribe(a)
	_, ok := <-a
	assert.False(t, ok)
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := NewTypedBuffered[int](2)
	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}
	assert.Equal(t, uint64(3), bus.Dropped())
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
}

func TestCloseClosesSubscriptions(t *testing.T) {
	bus := NewTyped[int]()
	ch := bus.Subscribe()
	bus.Close()
	_, ok := <-ch
	require.False(t, ok)

	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
	bus.Publish(1)
	assert.NotPanics(t, func() { bus.Unsubscribe(ch) })
	assert.NotPanics(t, bus.Close)
}
