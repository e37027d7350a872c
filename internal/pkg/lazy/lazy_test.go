package lazy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_BuildsOnce(t *testing.T) {
	var calls int32
	v := New(func() int {
		return int(atomic.AddInt32(&calls, 1))
	})

	assert.False(t, v.Loaded())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 1, v.Get())
		}()
	}
	wg.Wait()

	assert.True(t, v.Loaded())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestValue_Reload(t *testing.T) {
	n := 0
	v := New(func() int {
		n++
		return n
	})

	assert.Equal(t, 1, v.Get())
	assert.Equal(t, 1, v.Get())
	assert.Equal(t, 2, v.Reload())
	assert.Equal(t, 2, v.Get())
}
