package node

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegisteredServicesAddRemove(t *testing.T) {
	r := NewRegisteredServices()
	id := uuid.New()

	r.Add(id, "handle-a")
	require.Equal(t, 1, r.Refcount(id))
	require.Equal(t, 1, r.Len())

	cleaned := false
	r.Remove(id, func(h interface{}) {
		cleaned = true
		require.Equal(t, "handle-a", h)
	})

	require.True(t, cleaned)
	require.Equal(t, 0, r.Refcount(id))
	require.Equal(t, 0, r.Len())
}

func TestRegisteredServicesAddFatalOnDuplicate(t *testing.T) {
	r := NewRegisteredServices()
	id := uuid.New()
	r.Add(id, "first")

	require.Panics(t, func() {
		r.Add(id, "second")
	})
}

func TestRegisteredServicesRemoveFatalOnMissing(t *testing.T) {
	r := NewRegisteredServices()
	require.Panics(t, func() {
		r.Remove(uuid.New(), nil)
	})
}

func TestRegisteredServicesAddOrIncrementsExisting(t *testing.T) {
	r := NewRegisteredServices()
	id := uuid.New()

	opens := 0
	openFn := func() (interface{}, error) {
		opens++
		return "opened", nil
	}

	h1, err := r.AddOr(id, openFn, nil)
	require.NoError(t, err)
	require.Equal(t, "opened", h1)
	require.Equal(t, 1, opens)
	require.Equal(t, 1, r.Refcount(id))

	h2, err := r.AddOr(id, openFn, nil)
	require.NoError(t, err)
	require.Equal(t, "opened", h2)
	require.Equal(t, 1, opens, "second AddOr on an existing entry must not re-open")
	require.Equal(t, 2, r.Refcount(id))
}

func TestRegisteredServicesAddOrRefcountInvariant(t *testing.T) {
	r := NewRegisteredServices()
	id := uuid.New()

	_, err := r.AddOr(id, func() (interface{}, error) { return "h", nil }, nil)
	require.NoError(t, err)
	_, err = r.AddOr(id, func() (interface{}, error) { return "h", nil }, nil)
	require.NoError(t, err)

	r.Remove(id, nil)
	require.Equal(t, 1, r.Refcount(id))

	cleaned := false
	r.Remove(id, func(interface{}) { cleaned = true })
	require.True(t, cleaned)
	require.Equal(t, 0, r.Refcount(id))
}
