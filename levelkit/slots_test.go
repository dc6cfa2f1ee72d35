package levelkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinifold/levels/abi"
)

func TestSlotsInsertGetRemove(t *testing.T) {
	var s Slots[string]

	a := s.Insert("a")
	b := s.Insert("b")
	assert.True(t, a.IsLive())
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())

	v, err := s.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	v, err = s.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(a)
	assert.ErrorIs(t, err, ErrStaleHandle)
}

func TestSlotsReuseBumpsGeneration(t *testing.T) {
	var s Slots[int]

	first := s.Insert(1)
	_, err := s.Remove(first)
	require.NoError(t, err)

	second := s.Insert(2)
	assert.Equal(t, first.Index(), second.Index())
	assert.Greater(t, second.Generation(), first.Generation())

	_, err = s.Get(first)
	assert.ErrorIs(t, err, ErrStaleHandle, "use after free must be detected")

	v, err := s.Get(second)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSlotsRejectsSentinels(t *testing.T) {
	var s Slots[int]
	s.Insert(1)

	tests := []struct {
		name string
		h    abi.Handle
		want error
	}{
		{"void", abi.Void, ErrVoidHandle},
		{"null", abi.Null, ErrNullHandle},
		{"error", abi.Error, ErrCrashedHandle},
		{"out of range", abi.NewHandle(99, 1), ErrUnknownHandle},
		{"zero generation", abi.NewHandle(0, 0), ErrNullHandle},
		{"invalid generation", abi.NewHandle(1, 0), ErrUnknownHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Get(tt.h)
			assert.ErrorIs(t, err, tt.want)

			_, err = s.Remove(tt.h)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 1, s.Len())
}

func TestSlotsDoubleRemove(t *testing.T) {
	var s Slots[int]
	h := s.Insert(5)

	_, err := s.Remove(h)
	require.NoError(t, err)
	_, err = s.Remove(h)
	assert.ErrorIs(t, err, ErrStaleHandle)
	assert.Equal(t, 0, s.Len())
}
