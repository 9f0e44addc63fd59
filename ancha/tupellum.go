package ancha

// PairOrigin is the origin type for a Tupellum: two values stored
// adjacently with no header of their own.
type PairOrigin[OA, OB any] struct {
	A OA
	B OB
}

// TupellumAncha is the DynStrategy for a header-less adjacent pair.
// It performs no alignment and writes no bytes of its own: the first
// element's strategy aligns at entry as it always does, and the
// second element's strategy aligns at its own entry, immediately after
// the first. This delegation is what makes Tupellum compose losslessly
// with anything wrapping it.
//
// There is deliberately no accessor for "B" on the view side: reach
// it via A's own Behind(), aligned up to B's entry alignment, the way
// every example in this engine reaches a sibling record, the same way
// the grounding design forces callers through .A().behind::<B>()
// rather than offering a direct .b().
type TupellumAncha[OA, OB, Ctx any] struct {
	A DynStrategy[OA, Ctx]
	B DynStrategy[OB, Ctx]
}

// NewTupellum builds a Tupellum strategy from the two element
// strategies, in order.
//
// Do not reach for Tupellum to pack two primitives — VectorAncha or a
// dedicated struct strategy is the right tool there. Tupellum earns
// its keep when A's exact anchized size cannot be known without
// running its strategy (e.g. pairing a Vector with a Sediment).
func NewTupellum[OA, OB, Ctx any](a DynStrategy[OA, Ctx], b DynStrategy[OB, Ctx]) TupellumAncha[OA, OB, Ctx] {
	return TupellumAncha[OA, OB, Ctx]{A: a, B: b}
}

func (t TupellumAncha[OA, OB, Ctx]) Reserve(origin *PairOrigin[OA, OB], ctx Ctx, r *Reserve) error {
	if err := t.A.Reserve(&origin.A, ctx, r); err != nil {
		return err
	}
	return t.B.Reserve(&origin.B, ctx, r)
}

func (t TupellumAncha[OA, OB, Ctx]) Anchize(origin *PairOrigin[OA, OB], ctx Ctx, cur Cursor) (Cursor, error) {
	cur, err := t.A.Anchize(&origin.A, ctx, cur)
	if err != nil {
		return cur, err
	}
	return t.B.Anchize(&origin.B, ctx, cur)
}

func (t TupellumAncha[OA, OB, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	cur, err := t.A.Deanchize(cur)
	if err != nil {
		return cur, err
	}
	return t.B.Deanchize(cur)
}
