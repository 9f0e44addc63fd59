package ancha

import "unsafe"

// VectorAncha is the DynStrategy for a packed, length-prefixed array of
// fixed-size elements. Layout: { length uint64, element[0..length] }.
type VectorAncha[Origin, Ancha, Ctx any] struct {
	Elem StaticStrategy[Origin, Ancha, Ctx]
}

// NewVector builds a Vector strategy over an element StaticStrategy.
func NewVector[Origin, Ancha, Ctx any](elem StaticStrategy[Origin, Ancha, Ctx]) VectorAncha[Origin, Ancha, Ctx] {
	return VectorAncha[Origin, Ancha, Ctx]{Elem: elem}
}

func (v VectorAncha[Origin, Ancha, Ctx]) Reserve(origin *[]Origin, ctx Ctx, r *Reserve) error {
	Add[uint64](r, 1)
	Add[Ancha](r, len(*origin))
	return nil
}

func (v VectorAncha[Origin, Ancha, Ctx]) Anchize(origin *[]Origin, ctx Ctx, cur Cursor) (Cursor, error) {
	items := *origin
	cur = Align[uint64](cur)
	*Slot[uint64](cur) = uint64(len(items))
	ecur := Align[Ancha](Behind[uint64](cur, 1))
	for i := range items {
		v.Elem.AnchizeStatic(&items[i], ctx, Slot[Ancha](ecur))
		ecur = Behind[Ancha](ecur, 1)
	}
	return ecur, nil
}

func (v VectorAncha[Origin, Ancha, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	cur = Align[uint64](cur)
	n := int(*Slot[uint64](cur))
	ecur := Align[Ancha](Behind[uint64](cur, 1))
	for i := 0; i < n; i++ {
		v.Elem.DeanchizeStatic(Slot[Ancha](ecur))
		ecur = Behind[Ancha](ecur, 1)
	}
	return ecur, nil
}

// VectorView reads a deanchized Vector back out of a buffer without
// allocation. off must point at the length header.
type VectorView[Elem any] struct {
	buf []byte
	off int
}

// ViewVector wraps buf at off as a Vector of Elem.
func ViewVector[Elem any](buf []byte, off int) VectorView[Elem] {
	return VectorView[Elem]{buf: buf, off: off}
}

func (v VectorView[Elem]) Len() int {
	return int(*(*uint64)(unsafe.Pointer(&v.buf[v.off])))
}

func (v VectorView[Elem]) elemsOff() int {
	return alignUp(v.off+SizeOf[uint64](), AlignOf[Elem]())
}

// AsSlice returns the elements as a Go slice aliasing the buffer
// directly; no copy is made.
func (v VectorView[Elem]) AsSlice() []Elem {
	n := v.Len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*Elem)(unsafe.Pointer(&v.buf[v.elemsOff()])), n)
}

// Get bounds-checks and returns a reference to the i-th element.
func (v VectorView[Elem]) Get(i int) (*Elem, error) {
	n := v.Len()
	if i < 0 || i >= n {
		return nil, ErrIndexOutOfRange
	}
	s := v.AsSlice()
	return &s[i], nil
}

// Behind reports the buffer offset immediately following this vector's
// last element, unaligned, for a sibling record to chain from.
func (v VectorView[Elem]) Behind() int {
	return v.elemsOff() + v.Len()*SizeOf[Elem]()
}
