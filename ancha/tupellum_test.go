package ancha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTupellumOfVectorsRoundTrip(t *testing.T) {
	vecStrategy := NewVector[byte, byte, struct{}](NewDirectCopy[byte, struct{}]())
	strategy := NewTupellum[[]byte, []byte, struct{}](vecStrategy, vecStrategy)

	origin := PairOrigin[[]byte, []byte]{
		A: []byte{1, 2, 3},
		B: []byte{4, 5, 6, 7},
	}

	var r Reserve
	require.NoError(t, strategy.Reserve(&origin, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&origin, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	require.Equal(t, r.Size, end.Offset())
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)

	a := ViewVector[byte](buf, 0)
	require.Equal(t, []byte{1, 2, 3}, a.AsSlice())

	b := ViewVector[byte](buf, alignUp(a.Behind(), AlignOf[uint64]()))
	require.Equal(t, []byte{4, 5, 6, 7}, b.AsSlice())
}

func TestTupellumDelegatesAlignmentToA(t *testing.T) {
	// A is a byte vector (align 1), B a uint64 vector (align 8): the
	// pair itself must not insert its own padding, only A's and B's
	// own entry alignment should appear.
	aStrategy := NewVector[byte, byte, struct{}](NewDirectCopy[byte, struct{}]())
	bStrategy := NewVector[uint64, uint64, struct{}](NewDirectCopy[uint64, struct{}]())
	strategy := NewTupellum[[]byte, []uint64, struct{}](aStrategy, bStrategy)

	origin := PairOrigin[[]byte, []uint64]{
		A: []byte{1, 2, 3},
		B: []uint64{9, 10},
	}

	var r Reserve
	require.NoError(t, strategy.Reserve(&origin, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&origin, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	require.Equal(t, r.Size, end.Offset())
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)

	a := ViewVector[byte](buf, 0)
	require.Equal(t, []byte{1, 2, 3}, a.AsSlice())

	bOff := alignUp(a.Behind(), AlignOf[uint64]())
	b := ViewVector[uint64](buf, bOff)
	require.Equal(t, []uint64{9, 10}, b.AsSlice())
}
