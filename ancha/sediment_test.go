package ancha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// varBytes is a minimal DynStrategy for a length-prefixed byte run,
// used by tests that need a variable-size element without reaching
// for the zstd-backed CompressedBytes strategy.
type varBytes struct{}

func (varBytes) Reserve(origin *[]byte, ctx struct{}, r *Reserve) error {
	Add[uint64](r, 1)
	Add[byte](r, len(*origin))
	return nil
}

func (varBytes) Anchize(origin *[]byte, ctx struct{}, cur Cursor) (Cursor, error) {
	cur = Align[uint64](cur)
	*Slot[uint64](cur) = uint64(len(*origin))
	cur = Behind[uint64](cur, 1)
	copy(cur.Buf[cur.Off:], *origin)
	return Cursor{Buf: cur.Buf, Off: cur.Off + len(*origin)}, nil
}

func (varBytes) Deanchize(cur Cursor) (Cursor, error) {
	cur = Align[uint64](cur)
	n := int(*Slot[uint64](cur))
	cur = Behind[uint64](cur, 1)
	return Cursor{Buf: cur.Buf, Off: cur.Off + n}, nil
}

func (varBytes) view(buf []byte, off int) []byte {
	n := int(*Slot[uint64](Cursor{Buf: buf, Off: off}))
	start := off + SizeOf[uint64]()
	return buf[start : start+n]
}

func buildSediment(t *testing.T, origin [][]byte) ([]byte, SedimentAncha[[]byte, struct{}]) {
	strategy := NewSediment[[]byte, struct{}](varBytes{})
	var r Reserve
	require.NoError(t, strategy.Reserve(&origin, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&origin, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	require.Equal(t, r.Size, end.Offset())
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	return buf, strategy
}

func TestSedimentRoundTrip(t *testing.T) {
	origin := [][]byte{[]byte(""), []byte("foo"), []byte("bar")}
	buf, _ := buildSediment(t, origin)

	view := ViewSediment(buf, 0)
	require.Equal(t, 3, view.Len())

	var vb varBytes
	var got [][]byte
	view.Each(func(elemOff int) int {
		elemOff = alignUp(elemOff, AlignOf[uint64]())
		got = append(got, append([]byte{}, vb.view(buf, elemOff)...))
		n := int(*Slot[uint64](Cursor{Buf: buf, Off: elemOff}))
		return elemOff + SizeOf[uint64]() + n
	})

	require.Equal(t, [][]byte{[]byte(""), []byte("foo"), []byte("bar")}, got)
}

func TestSedimentEmpty(t *testing.T) {
	buf, _ := buildSediment(t, nil)
	view := ViewSediment(buf, 0)
	require.Equal(t, 0, view.Len())
}

// TestSedimentHeterogeneousSizes stresses the alignment-at-entry
// discipline with payloads of size 1, 2, 3, 7 and 8 bytes packed back
// to back with no per-element header beyond each element's own.
func TestSedimentHeterogeneousSizes(t *testing.T) {
	origin := [][]byte{
		make([]byte, 1),
		make([]byte, 2),
		make([]byte, 3),
		make([]byte, 7),
		make([]byte, 8),
	}
	for i := range origin {
		for j := range origin[i] {
			origin[i][j] = byte(i*10 + j)
		}
	}
	buf, _ := buildSediment(t, origin)
	view := ViewSediment(buf, 0)

	var vb varBytes
	i := 0
	view.Each(func(elemOff int) int {
		elemOff = alignUp(elemOff, AlignOf[uint64]())
		got := vb.view(buf, elemOff)
		require.Equal(t, origin[i], got)
		n := int(*Slot[uint64](Cursor{Buf: buf, Off: elemOff}))
		i++
		return elemOff + SizeOf[uint64]() + n
	})
	require.Equal(t, len(origin), i)
}
