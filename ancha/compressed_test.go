package ancha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressedBytesRoundTrip(t *testing.T) {
	strategy := NewCompressedBytes[struct{}]()
	origin := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox jumps over the lazy dog")

	var r Reserve
	require.NoError(t, strategy.Reserve(&origin, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&origin, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	require.Equal(t, r.Size, end.Offset())
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)

	view := ViewCompressedBytes(buf, 0)
	require.Equal(t, len(origin), view.UncompressedLen())
	require.Less(t, view.CompressedLen(), len(origin))

	got, err := view.Decompress()
	require.NoError(t, err)
	require.Equal(t, origin, got)
}

func TestCompressedBytesEmpty(t *testing.T) {
	strategy := NewCompressedBytes[struct{}]()
	origin := []byte{}

	var r Reserve
	require.NoError(t, strategy.Reserve(&origin, struct{}{}, &r))
	buf := AlignedBuffer(r.Size, r.MaxAlign)
	_, err := strategy.Anchize(&origin, struct{}{}, Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)
	_, err = strategy.Deanchize(Cursor{Buf: buf, Off: 0})
	require.NoError(t, err)

	view := ViewCompressedBytes(buf, 0)
	require.Equal(t, 0, view.UncompressedLen())
	got, err := view.Decompress()
	require.NoError(t, err)
	require.Empty(t, got)
}
