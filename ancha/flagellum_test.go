package ancha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildFlagellum(t *testing.T, origin []uint64) []byte {
	strategy := NewFlagellum[uint64, struct{}](NewStaticAsDyn[uint64, uint64, struct{}](NewDirectCopy[uint64, struct{}]()))
	var r Reserve
	require.NoError(t, strategy.Reserve(&origin, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&origin, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	require.Equal(t, r.Size, end.Offset())
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	return buf
}

func TestFlagellumRoundTrip(t *testing.T) {
	buf := buildFlagellum(t, []uint64{1, 2, 3})

	node := ViewFlagellumHead(buf, 0)
	var got []uint64
	for {
		got = append(got, *(*uint64)(Slot[uint64](Cursor{Buf: buf, Off: node.PayloadOffset()})))
		next, ok := node.Next()
		if !ok {
			break
		}
		node = next
	}
	require.Equal(t, []uint64{1, 2, 3}, got)
}

func TestFlagellumSingleNodeHasNullNext(t *testing.T) {
	buf := buildFlagellum(t, []uint64{42})
	node := ViewFlagellumHead(buf, 0)
	_, ok := node.Next()
	require.False(t, ok)
}
