package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/treeview/internal/session"
)

func TestExpandedSetToggle(t *testing.T) {
	set := session.NewExpandedSet()

	require.True(t, set.Toggle("/srv/project/src"))
	assert.True(t, set.Contains("/srv/project/src"))
	assert.True(t, set.Contains("/srv/project/src/"), "paths are compared in cleaned form")

	require.False(t, set.Toggle("/srv/project/src"))
	assert.False(t, set.Contains("/srv/project/src"))
	assert.Equal(t, 0, set.Len())
}

func TestExpandedSetAddRemoveClear(t *testing.T) {
	set := session.NewExpandedSet()
	set.Add("/a")
	set.Add("/a")
	set.Add("/b")
	assert.Equal(t, 2, set.Len())

	set.Remove("/a")
	assert.False(t, set.Contains("/a"))
	assert.True(t, set.Contains("/b"))

	set.Remove("/missing")
	set.Clear()
	assert.Equal(t, 0, set.Len())
}

func TestSnapshotIsIsolated(t *testing.T) {
	set := session.NewExpandedSet()
	set.Add("/b")
	set.Add("/a")

	snapshot := set.Snapshot()
	set.Remove("/a")
	set.Add("/c")

	assert.True(t, snapshot.Contains("/a"))
	assert.False(t, snapshot.Contains("/c"))
	assert.Equal(t, []string{"/a", "/b"}, snapshot.Paths())
}

func TestExpandedSetConcurrentToggles(t *testing.T) {
	set := session.NewExpandedSet()
	var waitGroup sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for iteration := 0; iteration < 100; iteration++ {
				set.Toggle("/shared")
				_ = set.Snapshot().Contains("/shared")
			}
		}()
	}
	waitGroup.Wait()
	assert.False(t, set.Contains("/shared"), "an even number of toggles leaves the path collapsed")
}
