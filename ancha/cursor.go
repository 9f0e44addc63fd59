package ancha

import "unsafe"

// Cursor is a linear, single-threaded write/read position inside a
// caller-owned buffer. Unlike the originating design's raw pointer, a
// Cursor carries the backing slice itself, since Go has no notion of a
// pointer that outlives its slice's lifetime tracking.
type Cursor struct {
	Buf []byte
	Off int
}

// Offset reports the cursor's position relative to the buffer base.
func (c Cursor) Offset() int { return c.Off }

func alignUp(x, align int) int {
	if align <= 1 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}

// AlignOf reports the alignment Go would give T inside a struct.
func AlignOf[T any]() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

// SizeOf reports the size Go would give T, padding included.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Align rounds the cursor up to T's alignment and retypes it as a
// cursor over T. This is the "align at entry" primitive every
// container invocation performs exactly once, per its own type.
func Align[T any](c Cursor) Cursor {
	return Cursor{Buf: c.Buf, Off: alignUp(c.Off, AlignOf[T]())}
}

// Behind advances the cursor past n elements of T without aligning.
func Behind[T any](c Cursor, n int) Cursor {
	return Cursor{Buf: c.Buf, Off: c.Off + n*SizeOf[T]()}
}

// Transmute reinterprets the cursor as pointing at a different type,
// without moving it. Kept distinct from Behind(0) for readability at
// call sites that are purely changing type, not skipping elements.
func Transmute[T any](c Cursor) Cursor {
	return Cursor{Buf: c.Buf, Off: c.Off}
}

// Slot yields a writable reference to a T living at the cursor's
// current position. The caller must have aligned the cursor to T
// first; Slot does not check alignment, matching the engine's general
// policy of trusting the strategy tree that produced the cursor.
func Slot[T any](c Cursor) *T {
	return (*T)(unsafe.Pointer(&c.Buf[c.Off]))
}
