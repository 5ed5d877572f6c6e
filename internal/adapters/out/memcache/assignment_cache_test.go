package memcache_test

import (
	"testing"

	"courieragent/internal/adapters/out/memcache"
	"courieragent/internal/core/domain/model/assignment"
	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignment(t *testing.T, status assignment.Status) *assignment.Assignment {
	t.Helper()

	origin, err := assignment.NewWaypoint("pickup", "Warehouse 4", "12 Dock Rd", nil, "")
	require.NoError(t, err)
	destination, err := assignment.NewWaypoint("dropoff", "Customer", "7 Hill St", nil, "")
	require.NoError(t, err)

	a, err := assignment.NewAssignment(
		kernel.NewUUID(), assignment.ItemTransfer, status, origin, destination, assignment.Details{})
	require.NoError(t, err)
	return a
}

func TestAssignmentCache(t *testing.T) {
	t.Run("get on empty cache returns not found", func(t *testing.T) {
		cache := memcache.NewAssignmentCache()

		_, err := cache.Get(kernel.NewUUID())

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("replace all keeps order and serves gets", func(t *testing.T) {
		cache := memcache.NewAssignmentCache()
		first := newAssignment(t, assignment.Assigned)
		second := newAssignment(t, assignment.Pending)

		cache.ReplaceAll([]*assignment.Assignment{first, second})

		all := cache.All()
		require.Len(t, all, 2)
		assert.True(t, all[0].IsEqual(first))
		assert.True(t, all[1].IsEqual(second))

		got, err := cache.Get(second.ID())
		require.NoError(t, err)
		assert.True(t, got.IsEqual(second))
	})

	t.Run("replace all drops previous entries", func(t *testing.T) {
		cache := memcache.NewAssignmentCache()
		old := newAssignment(t, assignment.Assigned)
		cache.ReplaceAll([]*assignment.Assignment{old})

		fresh := newAssignment(t, assignment.InProgress)
		cache.ReplaceAll([]*assignment.Assignment{fresh})

		_, err := cache.Get(old.ID())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Len(t, cache.All(), 1)
	})

	t.Run("put replaces an existing entry without duplicating it", func(t *testing.T) {
		cache := memcache.NewAssignmentCache()
		a := newAssignment(t, assignment.Assigned)
		cache.Put(a)
		cache.Put(a)

		assert.Len(t, cache.All(), 1)
	})

	t.Run("nil assignments are ignored", func(t *testing.T) {
		cache := memcache.NewAssignmentCache()
		cache.Put(nil)
		cache.ReplaceAll([]*assignment.Assignment{nil})

		assert.Empty(t, cache.All())
	})
}
