package ancha

import "unsafe"

// FlagellumAncha is the DynStrategy for an intrusive linked sequence:
// each node is { next uint64, payload }, where next holds the offset
// (pre-deanchize) or absolute address (post-deanchize) of the
// following node, or 0 for the tail.
//
// Per the source design this strategy is built from an ordinary Go
// slice of element origins, exactly as the grounding implementation's
// "from vec" constructor does; the resulting ancha value is a genuine
// linked chain, the slice is only the origin-side convenience.
type FlagellumAncha[Origin, Ctx any] struct {
	Node DynStrategy[Origin, Ctx]
}

// NewFlagellum builds a Flagellum strategy over a payload DynStrategy.
func NewFlagellum[Origin, Ctx any](node DynStrategy[Origin, Ctx]) FlagellumAncha[Origin, Ctx] {
	return FlagellumAncha[Origin, Ctx]{Node: node}
}

func (f FlagellumAncha[Origin, Ctx]) Reserve(origin *[]Origin, ctx Ctx, r *Reserve) error {
	for i := range *origin {
		Add[uint64](r, 1)
		if err := f.Node.Reserve(&(*origin)[i], ctx, r); err != nil {
			return err
		}
	}
	r.Size = alignUp(r.Size, SizeOf[uint64]())
	return nil
}

// Anchize writes the chain starting at cur and returns the cursor past
// the last node's payload, unaligned. If origin is empty, the returned
// cursor equals cur and the caller must write a null reference to the
// list itself rather than calling Anchize.
func (f FlagellumAncha[Origin, Ctx]) Anchize(origin *[]Origin, ctx Ctx, cur Cursor) (Cursor, error) {
	items := *origin
	if len(items) == 0 {
		return cur, nil
	}
	nodeCur := Align[uint64](cur)
	var err error
	for i := range items {
		nodeCur = Align[uint64](nodeCur)
		nextSlot := Slot[uint64](nodeCur)
		payloadCur := Behind[uint64](nodeCur, 1)
		payloadCur, err = f.Node.Anchize(&items[i], ctx, payloadCur)
		if err != nil {
			return payloadCur, err
		}
		// The next node starts at an aligned address even though the
		// payload strategy returned an unaligned cursor: the stored
		// pointer must always reference an aligned record.
		payloadCur = Align[uint64](payloadCur)
		if i == len(items)-1 {
			*nextSlot = 0
		} else {
			*nextSlot = uint64(payloadCur.Off)
		}
		nodeCur = payloadCur
	}
	return nodeCur, nil
}

// Deanchize walks the chain starting at cur (the first node), promoting
// each next field to an absolute address, and returns the cursor past
// the last node's payload.
func (f FlagellumAncha[Origin, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	shifter := NewShifter(cur.Buf)
	nodeCur := Align[uint64](cur)
	var err error
	for {
		nodeCur = Align[uint64](nodeCur)
		nextSlot := Slot[uint64](nodeCur)
		rawNext := *nextSlot
		// The stored reference to the next node must be resolved
		// before recursing into the payload, because the payload
		// deanchize may invalidate any reference derived from a Go
		// pointer taken before it ran (the backing array never moves,
		// but nextSlot's value itself is what we're about to read).
		if rawNext != 0 {
			*nextSlot = shifter.ShiftOffset(rawNext)
		}
		payloadCur := Behind[uint64](nodeCur, 1)
		payloadCur, err = f.Node.Deanchize(payloadCur)
		if err != nil {
			return payloadCur, err
		}
		if rawNext == 0 {
			return payloadCur, nil
		}
		nodeCur = Cursor{Buf: cur.Buf, Off: int(rawNext)}
	}
}

// FlagellumNodeView reads one deanchized node.
type FlagellumNodeView struct {
	buf []byte
	off int
}

// ViewFlagellumHead wraps buf at off as the head of a Flagellum chain.
// off must already be aligned to the list's node alignment.
func ViewFlagellumHead(buf []byte, off int) FlagellumNodeView {
	return FlagellumNodeView{buf: buf, off: off}
}

// PayloadOffset reports where this node's payload begins.
func (n FlagellumNodeView) PayloadOffset() int {
	return n.off + SizeOf[uint64]()
}

// Next returns the following node, or ok=false at the tail.
func (n FlagellumNodeView) Next() (next FlagellumNodeView, ok bool) {
	addr := *(*uint64)(unsafe.Pointer(&n.buf[n.off]))
	if addr == 0 {
		return FlagellumNodeView{}, false
	}
	base := uintptr(unsafe.Pointer(&n.buf[0]))
	return FlagellumNodeView{buf: n.buf, off: int(uintptr(addr) - base)}, true
}
