package ancha

import "unsafe"

// SedimentAncha is the DynStrategy for a packed, length-prefixed array
// of variable-size elements: { count uint64, element_0, element_1, ... }
// with no per-element header beyond what the element strategy itself
// writes.
type SedimentAncha[Origin, Ctx any] struct {
	Elem DynStrategy[Origin, Ctx]
}

// NewSediment builds a Sediment strategy over a variable-size element
// DynStrategy.
func NewSediment[Origin, Ctx any](elem DynStrategy[Origin, Ctx]) SedimentAncha[Origin, Ctx] {
	return SedimentAncha[Origin, Ctx]{Elem: elem}
}

func (s SedimentAncha[Origin, Ctx]) Reserve(origin *[]Origin, ctx Ctx, r *Reserve) error {
	Add[uint64](r, 1)
	for i := range *origin {
		if err := s.Elem.Reserve(&(*origin)[i], ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (s SedimentAncha[Origin, Ctx]) Anchize(origin *[]Origin, ctx Ctx, cur Cursor) (Cursor, error) {
	items := *origin
	cur = Align[uint64](cur)
	*Slot[uint64](cur) = uint64(len(items))
	ecur := Behind[uint64](cur, 1)
	var err error
	for i := range items {
		ecur, err = s.Elem.Anchize(&items[i], ctx, ecur)
		if err != nil {
			return ecur, err
		}
	}
	return ecur, nil
}

func (s SedimentAncha[Origin, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	cur = Align[uint64](cur)
	n := int(*Slot[uint64](cur))
	ecur := Behind[uint64](cur, 1)
	var err error
	for i := 0; i < n; i++ {
		ecur, err = s.Elem.Deanchize(ecur)
		if err != nil {
			return ecur, err
		}
	}
	return ecur, nil
}

// SedimentView walks a deanchized Sediment. Because elements vary in
// size, the view has no index operator; it only supports forward
// iteration driven by a caller-supplied step function that knows how
// to read one element and report where it ends.
type SedimentView struct {
	buf []byte
	off int
}

// ViewSediment wraps buf at off as a Sediment.
func ViewSediment(buf []byte, off int) SedimentView {
	return SedimentView{buf: buf, off: off}
}

func (s SedimentView) Len() int {
	return int(*(*uint64)(unsafe.Pointer(&s.buf[s.off])))
}

// FirstElemOffset reports where the first element begins.
func (s SedimentView) FirstElemOffset() int {
	return s.off + SizeOf[uint64]()
}

// Each calls step once per element, starting at FirstElemOffset; step
// receives the offset the element's strategy was handed during anchize
// (the previous element's end, before this element's own entry
// alignment) and must return the offset immediately following the
// element's last byte, unaligned.
func (s SedimentView) Each(step func(elemOff int) int) {
	o := s.FirstElemOffset()
	for i, n := 0, s.Len(); i < n; i++ {
		o = step(o)
	}
}
