package ancha

import "github.com/klauspost/compress/zstd"

// CompressedBytes is the DynStrategy for a []byte origin element
// stored zstd-compressed inline: { compressedLen uint64, uncompressedLen
// uint64, compressed[0..compressedLen] }. The uncompressed length lets
// a reader pre-size its decompression buffer instead of growing it.
//
// Grounded on the teacher's zc/engine.go and subengine/engine.go
// compressData/decompressData helpers (themselves near-duplicates of
// each other, per their own "copied from dbflat.compress.go" comment):
// this strategy is the one place that zstd-encode-then-length-prefix
// pattern lives in this repo, reachable from any Sediment or Vector
// element slot that wants its payload compressed.
type CompressedBytes[Ctx any] struct {
	Level zstd.EncoderLevel
}

// NewCompressedBytes builds a CompressedBytes strategy at the
// teacher's chosen compression level (SpeedBetterCompression).
func NewCompressedBytes[Ctx any]() CompressedBytes[Ctx] {
	return CompressedBytes[Ctx]{Level: zstd.SpeedBetterCompression}
}

func (c CompressedBytes[Ctx]) compress(raw []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.Level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// Reserve recompresses origin to learn the exact compressed length.
// zstd is deterministic for a fixed level and input, so this matches
// the length Anchize will produce for the same origin — the
// recomputation cost is the price of keeping Reserve a pure function
// of origin rather than caching compressor state across passes.
func (c CompressedBytes[Ctx]) Reserve(origin *[]byte, ctx Ctx, r *Reserve) error {
	compressed, err := c.compress(*origin)
	if err != nil {
		return err
	}
	Add[uint64](r, 2)
	Add[byte](r, len(compressed))
	return nil
}

func (c CompressedBytes[Ctx]) Anchize(origin *[]byte, ctx Ctx, cur Cursor) (Cursor, error) {
	compressed, err := c.compress(*origin)
	if err != nil {
		return cur, err
	}
	cur = Align[uint64](cur)
	*Slot[uint64](cur) = uint64(len(compressed))
	cur = Behind[uint64](cur, 1)
	*Slot[uint64](cur) = uint64(len(*origin))
	cur = Behind[uint64](cur, 1)
	copy(cur.Buf[cur.Off:], compressed)
	return Cursor{Buf: cur.Buf, Off: cur.Off + len(compressed)}, nil
}

func (c CompressedBytes[Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	cur = Align[uint64](cur)
	n := int(*Slot[uint64](cur))
	cur = Behind[uint64](cur, 1)
	cur = Behind[uint64](cur, 1)
	return Cursor{Buf: cur.Buf, Off: cur.Off + n}, nil
}

// CompressedBytesView reads a deanchized CompressedBytes blob. Unlike
// every other view in this package, Decompress allocates: there is no
// way to view zstd-compressed bytes in place, so this component trades
// the engine's usual zero-copy guarantee for a smaller buffer, by
// caller's choice, at the one boundary where that tradeoff is opted
// into explicitly.
type CompressedBytesView struct {
	buf []byte
	off int
}

// ViewCompressedBytes wraps buf at off as a CompressedBytes blob.
func ViewCompressedBytes(buf []byte, off int) CompressedBytesView {
	return CompressedBytesView{buf: buf, off: off}
}

func (v CompressedBytesView) CompressedLen() int {
	return int(*Slot[uint64](Cursor{Buf: v.buf, Off: v.off}))
}

func (v CompressedBytesView) UncompressedLen() int {
	return int(*Slot[uint64](Behind[uint64](Cursor{Buf: v.buf, Off: v.off}, 1)))
}

func (v CompressedBytesView) dataOff() int {
	return v.off + 2*SizeOf[uint64]()
}

// Decompress returns the original bytes, pre-sized from the stored
// uncompressed length.
func (v CompressedBytesView) Decompress() ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	src := v.buf[v.dataOff() : v.dataOff()+v.CompressedLen()]
	return dec.DecodeAll(src, make([]byte, 0, v.UncompressedLen()))
}

// Behind reports the offset immediately following this blob.
func (v CompressedBytesView) Behind() int {
	return v.dataOff() + v.CompressedLen()
}
