// Package anchaio is the thin harness around the ancha strategy
// primitives, the way the teacher's Fractus/HighPerfFractus wrap an
// encode/decode pair: Build runs reserve, anchize and
// deanchize back to back and tracks whether deanchize has already
// run. Direct strategy use (reserve/anchize/deanchize called by hand)
// remains fully supported — the shared DAG driver in particular needs
// its own two-pass work queue and has no use for this wrapper.
package anchaio

import (
	"fmt"

	"github.com/anchaio/ancha/ancha"
)

// Document owns one anchized-then-deanchized buffer and the fact of
// whether deanchize has run against it.
type Document struct {
	buf        []byte
	deanchized bool
}

// Build reserves, allocates a buffer of exactly the reserved size at
// the reserved alignment, anchizes origin into it with strategy and
// ctx, then deanchizes the result. The returned Document owns the
// buffer; Root reinterprets it as the typed view.
func Build[Origin, Ctx any](strategy ancha.DynStrategy[Origin, Ctx], origin *Origin, ctx Ctx) (*Document, error) {
	var r ancha.Reserve
	if err := strategy.Reserve(origin, ctx, &r); err != nil {
		return nil, fmt.Errorf("anchaio: reserve: %w", err)
	}
	buf := ancha.AlignedBuffer(r.Size, r.MaxAlign)
	cur := ancha.Cursor{Buf: buf, Off: 0}
	end, err := strategy.Anchize(origin, ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("anchaio: anchize: %w", err)
	}
	if end.Offset() != r.Size {
		return nil, fmt.Errorf("anchaio: anchize wrote %d bytes, reserve computed %d: %w", end.Offset(), r.Size, ancha.ErrBufferTooSmall)
	}
	if _, err := strategy.Deanchize(cur); err != nil {
		return nil, fmt.Errorf("anchaio: deanchize: %w", err)
	}
	return &Document{buf: buf, deanchized: true}, nil
}

// Bytes exposes the backing buffer. Callers must not retain it past
// the Document's own lifetime.
func (d *Document) Bytes() []byte { return d.buf }

// Deanchized reports whether deanchize has run against this buffer.
func (d *Document) Deanchized() bool { return d.deanchized }

// Deanchize runs the deanchize pass against an already-anchized but
// not-yet-deanchized Document — the path anchaio.Build does not need,
// since it deanchizes inline, but that a caller transporting a raw
// anchized buffer (over the wire, from disk) does: anchize happens in
// one process, the buffer crosses a boundary, and deanchize happens
// in another. Calling it twice is a caller contract violation.
func Deanchize[Origin, Ctx any](d *Document, strategy ancha.DynStrategy[Origin, Ctx]) error {
	if d.deanchized {
		return ancha.ErrAlreadyDeanchized
	}
	cur := ancha.Cursor{Buf: d.buf, Off: 0}
	if _, err := strategy.Deanchize(cur); err != nil {
		return fmt.Errorf("anchaio: deanchize: %w", err)
	}
	d.deanchized = true
	return nil
}

// Root reinterprets the deanchized buffer's first bytes (after T's own
// alignment padding) as *T. The caller is responsible for T matching
// the root ancha type the strategy tree actually produced; the engine
// has no runtime tag to check this against.
func Root[T any](d *Document) (*T, error) {
	if !d.deanchized {
		return nil, fmt.Errorf("anchaio: root view requires a deanchized document: %w", ancha.ErrMisaligned)
	}
	off := ancha.AlignOf[T]()
	if len(d.buf) < off {
		return nil, ancha.ErrBufferTooSmall
	}
	c := ancha.Align[T](ancha.Cursor{Buf: d.buf, Off: 0})
	return ancha.Slot[T](c), nil
}
