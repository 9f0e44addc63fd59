package ancha

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func addrToOffset(buf []byte, addr uint64) int {
	base := uintptr(unsafe.Pointer(&buf[0]))
	return int(uintptr(addr) - base)
}

func buildVecMap(t *testing.T, origin VecMapOrigin[uint32, uint64]) ([]byte, VecMapAncha[uint32, uint32, uint64, struct{}]) {
	strategy := NewVecMap[uint32, uint32, uint64, struct{}](
		NewDirectCopy[uint32, struct{}](),
		NewStaticAsDyn[uint64, uint64, struct{}](NewDirectCopy[uint64, struct{}]()),
	)
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

func TestVecMapRoundTrip(t *testing.T) {
	origin := VecMapOrigin[uint32, uint64]{
		Keys:   []uint32{1, 2, 3},
		Values: []uint64{10, 20, 30},
	}
	buf, _ := buildVecMap(t, origin)

	view := ViewVecMap[uint32](buf, 0)
	require.Equal(t, 3, view.Len())

	ptr, ok := view.Find(Equals[uint32](2))
	require.True(t, ok)
	off := addrToOffset(buf, ptr)
	require.Equal(t, uint64(20), *(*uint64)(unsafe.Pointer(&buf[off])))

	_, ok = view.Find(Equals[uint32](99))
	require.False(t, ok)
}

func TestVecMapEmpty(t *testing.T) {
	origin := VecMapOrigin[uint32, uint64]{}
	buf, _ := buildVecMap(t, origin)
	view := ViewVecMap[uint32](buf, 0)
	require.Equal(t, 0, view.Len())
	_, ok := view.Find(Any[uint32])
	require.False(t, ok)
}

func TestVecMapEntriesWalksAllEntries(t *testing.T) {
	origin := VecMapOrigin[uint32, uint64]{
		Keys:   []uint32{5, 6, 7},
		Values: []uint64{50, 60, 70},
	}
	buf, _ := buildVecMap(t, origin)
	view := ViewVecMap[uint32](buf, 0)
	seen := map[uint32]bool{}
	for _, e := range view.Entries() {
		seen[e.Key] = true
	}
	require.Equal(t, map[uint32]bool{5: true, 6: true, 7: true}, seen)
}

func buildArrMap(t *testing.T, values []uint64, size int) ([]byte, ArrMapAncha[uint64, struct{}]) {
	strategy := NewArrMap[uint64, struct{}](size, NewStaticAsDyn[uint64, uint64, struct{}](NewDirectCopy[uint64, struct{}]()))
	var r Reserve
	require.NoError(t, strategy.Reserve(&values, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&values, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	require.Equal(t, r.Size, end.Offset())
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	return buf, strategy
}

func TestArrMapRoundTrip(t *testing.T) {
	buf, _ := buildArrMap(t, []uint64{100, 200, 300}, 3)
	view := ViewArrMap(buf, 0, 3)
	require.Equal(t, 3, view.Size())

	ptr, err := view.Slot(1)
	require.NoError(t, err)
	off := addrToOffset(buf, ptr)
	require.Equal(t, uint64(200), *(*uint64)(unsafe.Pointer(&buf[off])))

	_, err = view.Slot(3)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

// TestArrMapSharedSentinelSlots exercises a map where several slots
// carry the same sentinel value — a fixed-slot map never dedupes
// storage the way the shared DAG does, so each slot gets its own
// independently-anchized copy even when the origin values are equal.
func TestArrMapSharedSentinelSlots(t *testing.T) {
	buf, _ := buildArrMap(t, []uint64{0, 0, 42, 0}, 4)
	view := ViewArrMap(buf, 0, 4)
	for _, i := range []int{0, 1, 3} {
		ptr, err := view.Slot(i)
		require.NoError(t, err)
		off := addrToOffset(buf, ptr)
		require.Equal(t, uint64(0), *(*uint64)(unsafe.Pointer(&buf[off])))
	}
	ptr, err := view.Slot(2)
	require.NoError(t, err)
	off := addrToOffset(buf, ptr)
	require.Equal(t, uint64(42), *(*uint64)(unsafe.Pointer(&buf[off])))
}
