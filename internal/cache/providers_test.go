package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFormatsCompositeFields(t *testing.T) {
	assert.Equal(t, "model-a|384|local", Key("model-a", 384, "local"))
}

func TestGetOrCreateBuildsOnce(t *testing.T) {
	c, err := NewProviderCache[int]()
	require.NoError(t, err)

	var builds int32
	build := func() (int, error) {
		atomic.AddInt32(&builds, 1)
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCreate("k", build)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestGetOrCreateAllowsRetryAfterBuildFailure(t *testing.T) {
	c, err := NewProviderCache[int]()
	require.NoError(t, err)

	_, err = c.GetOrCreate("k", func() (int, error) { return 0, errors.New("boom") })
	require.Error(t, err)

	v, err := c.GetOrCreate("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
