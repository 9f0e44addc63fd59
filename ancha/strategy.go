package ancha

// StaticStrategy is implemented by elements whose ancha representation
// has a statically-known size: no cursor is involved, just an in-place
// write or fixup of the slot the caller already positioned.
type StaticStrategy[Origin, Ancha, Ctx any] interface {
	AnchizeStatic(origin *Origin, ctx Ctx, slot *Ancha)
	DeanchizeStatic(slot *Ancha)
}

// DynStrategy is implemented by elements whose ancha representation
// has a variable-size tail. Reserve precomputes space; Anchize and
// Deanchize each take and return a Cursor, chaining across siblings.
//
// The concrete ancha Go type a DynStrategy produces is intentionally
// not part of this interface (unlike StaticStrategy, which writes
// directly into a typed slot): composite containers have no single
// Go struct that can express a variable-length tail, so their layout
// lives entirely in how Anchize/Deanchize move the cursor. Pair with
// one of this package's View types to read the result back out.
type DynStrategy[Origin, Ctx any] interface {
	Reserve(origin *Origin, ctx Ctx, r *Reserve) error
	Anchize(origin *Origin, ctx Ctx, cur Cursor) (Cursor, error)
	Deanchize(cur Cursor) (Cursor, error)
}

// StaticAsDyn promotes any StaticStrategy into a DynStrategy: reserve
// one element, align-write-advance, align-fixup-advance. This is the
// canonical adapter a caller reaches for when a container that only
// knows how to hold DynStrategy elements (Sediment, Flagellum,
// Tupellum) needs to hold fixed-size ones instead.
type StaticAsDyn[Origin, Ancha, Ctx any] struct {
	Elem StaticStrategy[Origin, Ancha, Ctx]
}

// NewStaticAsDyn wraps a StaticStrategy for use where a DynStrategy is
// expected.
func NewStaticAsDyn[Origin, Ancha, Ctx any](elem StaticStrategy[Origin, Ancha, Ctx]) StaticAsDyn[Origin, Ancha, Ctx] {
	return StaticAsDyn[Origin, Ancha, Ctx]{Elem: elem}
}

func (s StaticAsDyn[Origin, Ancha, Ctx]) Reserve(origin *Origin, ctx Ctx, r *Reserve) error {
	Add[Ancha](r, 1)
	return nil
}

func (s StaticAsDyn[Origin, Ancha, Ctx]) Anchize(origin *Origin, ctx Ctx, cur Cursor) (Cursor, error) {
	cur = Align[Ancha](cur)
	slot := Slot[Ancha](cur)
	s.Elem.AnchizeStatic(origin, ctx, slot)
	return Behind[Ancha](cur, 1), nil
}

func (s StaticAsDyn[Origin, Ancha, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	cur = Align[Ancha](cur)
	slot := Slot[Ancha](cur)
	s.Elem.DeanchizeStatic(slot)
	return Behind[Ancha](cur, 1), nil
}
