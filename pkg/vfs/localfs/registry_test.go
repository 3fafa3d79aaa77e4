package localfs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

func TestRegistryRoot(t *testing.T) {
	r := NewRegistry("/data")

	assert.Equal(t, vfs.Handle(0), r.Root())

	path, err := r.Resolve(r.Root())
	require.NoError(t, err)
	assert.Equal(t, "/data", path)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryIntern(t *testing.T) {
	t.Run("MintsMonotonically", func(t *testing.T) {
		r := NewRegistry("/data")

		first := r.Intern("/data/a")
		second := r.Intern("/data/b")

		assert.Equal(t, vfs.Handle(1), first)
		assert.Equal(t, vfs.Handle(2), second)
	})

	t.Run("IsIdempotent", func(t *testing.T) {
		r := NewRegistry("/data")

		first := r.Intern("/data/file.txt")
		second := r.Intern("/data/file.txt")

		assert.Equal(t, first, second)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("RootPathKeepsHandleZero", func(t *testing.T) {
		r := NewRegistry("/data")

		assert.Equal(t, vfs.Handle(0), r.Intern("/data"))
	})

	t.Run("RoundTripsThroughResolve", func(t *testing.T) {
		r := NewRegistry("/data")

		h := r.Intern("/data/deep/nested/path")
		path, err := r.Resolve(h)

		require.NoError(t, err)
		assert.Equal(t, "/data/deep/nested/path", path)
	})
}

func TestRegistryResolveUnknownHandle(t *testing.T) {
	r := NewRegistry("/data")

	_, err := r.Resolve(vfs.Handle(999))
	assert.ErrorIs(t, err, vfs.ErrNotFound)
}

func TestRegistryConcurrentIntern(t *testing.T) {
	const goroutines = 64

	r := NewRegistry("/data")

	var wg sync.WaitGroup
	handles := make([]vfs.Handle, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = r.Intern("/data/contended")
		}(i)
	}
	wg.Wait()

	// Exactly one handle was minted; every caller saw the same value.
	for i := 1; i < goroutines; i++ {
		assert.Equal(t, handles[0], handles[i])
	}
	assert.Equal(t, 2, r.Len())
}

func TestRegistryConcurrentDistinctPaths(t *testing.T) {
	const goroutines = 32

	r := NewRegistry("/data")

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Intern(fmt.Sprintf("/data/file-%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines+1, r.Len())

	// The bijection holds: every path resolves back to itself.
	for i := 0; i < goroutines; i++ {
		path := fmt.Sprintf("/data/file-%d", i)
		h := r.Intern(path)
		resolved, err := r.Resolve(h)
		require.NoError(t, err)
		assert.Equal(t, path, resolved)
	}
}
