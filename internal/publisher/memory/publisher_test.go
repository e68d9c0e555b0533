package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_RecordsIDs(t *testing.T) {
	t.Parallel()

	p := New()
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "sub-1"))
	require.NoError(t, p.Publish(ctx, "sub-2"))

	assert.Equal(t, []string{"sub-1", "sub-2"}, p.Published())
	require.NoError(t, p.Close())
}

func TestPublisher_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	p := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = p.Publish(context.Background(), "sub-"+strconv.Itoa(n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, p.Published(), 20)
}
