package ancha

import "unsafe"

// BddOrigin is the interface the caller's shared-DAG origin node type
// implements. A node is either a leaf (arbitrary payload) or internal
// (a variable label plus two child references). Implementations are
// expected to use a pointer receiver (methods on *NodeStruct) so that
// the interface value's identity IS the origin node's pointer
// identity — the reserve and anchize passes key their "already seen"
// bookkeeping on exactly that identity to detect and collapse shared
// nodes.
type BddOrigin[Var, Leaf any] interface {
	IsLeaf() bool
	Leaf() Leaf
	Var() Var
	Low() BddOrigin[Var, Leaf]
	High() BddOrigin[Var, Leaf]
}

// BddInternalAncha is the ancha header for an internal node: a
// discriminator (0), the variable label, and the two child
// references (offsets pre-deanchize, absolute pointers after). Every
// node record in the buffer — leaf or internal — is aligned as if it
// were this type, since the alignment a pointer to an as-yet-unvisited
// node must satisfy is fixed for the whole component, not decided
// per-node (§4.9: "a label type whose alignment exceeds node alignment
// widens the node alignment"). A leaf record only actually occupies a
// uint64 discriminator (set to 1) immediately followed by its payload;
// the Var/Low/High fields of this struct are never written for a leaf,
// they only describe the alignment every node entry must honor.
type BddInternalAncha[VarAncha any] struct {
	IsLeaf uint64
	Var    VarAncha
	Low    uint64
	High   uint64
}

// BddAncha is the DynStrategy for the shared, content-deduplicated DAG
// (binary decision diagram). Variable carries the fixed-size label
// strategy; LeafVal carries the variable-size leaf payload strategy.
type BddAncha[Var, VarAncha, Leaf, Ctx any] struct {
	Variable StaticStrategy[Var, VarAncha, Ctx]
	LeafVal  DynStrategy[Leaf, Ctx]
}

// NewBdd builds a Bdd strategy from a fixed-size variable-label
// strategy and a variable-size leaf-payload strategy.
func NewBdd[Var, VarAncha, Leaf, Ctx any](variable StaticStrategy[Var, VarAncha, Ctx], leaf DynStrategy[Leaf, Ctx]) BddAncha[Var, VarAncha, Leaf, Ctx] {
	return BddAncha[Var, VarAncha, Leaf, Ctx]{Variable: variable, LeafVal: leaf}
}

// Reserve walks the origin DAG depth-first, low child before high,
// sizing each distinct origin node exactly once. A node revisited
// while its own subtree is still being walked is a cycle and aborts
// with ErrCyclicOrigin.
func (b BddAncha[Var, VarAncha, Leaf, Ctx]) Reserve(origin *BddOrigin[Var, Leaf], ctx Ctx, r *Reserve) error {
	state := make(map[BddOrigin[Var, Leaf]]int)
	return b.reserveNode(*origin, ctx, r, state)
}

const (
	bddVisiting = 1
	bddDone     = 2
)

func (b BddAncha[Var, VarAncha, Leaf, Ctx]) reserveNode(n BddOrigin[Var, Leaf], ctx Ctx, r *Reserve, state map[BddOrigin[Var, Leaf]]int) error {
	switch state[n] {
	case bddDone:
		return nil
	case bddVisiting:
		return ErrCyclicOrigin
	}
	state[n] = bddVisiting
	Add[BddInternalAncha[VarAncha]](r, 0)
	if n.IsLeaf() {
		Add[uint64](r, 1)
		leaf := n.Leaf()
		if err := b.LeafVal.Reserve(&leaf, ctx, r); err != nil {
			return err
		}
	} else {
		Add[BddInternalAncha[VarAncha]](r, 1)
		if err := b.reserveNode(n.Low(), ctx, r, state); err != nil {
			return err
		}
		if err := b.reserveNode(n.High(), ctx, r, state); err != nil {
			return err
		}
	}
	state[n] = bddDone
	return nil
}

type bddPatch[Var, Leaf any] struct {
	slot   *uint64
	target BddOrigin[Var, Leaf]
}

// Anchize lays out the DAG using a slice-backed stack as the work
// queue, pushed high-then-low so low pops (and so fully completes its
// own subtree) before high — the same order Reserve walked in. A
// child already assigned an address is written immediately; an
// unassigned one is recorded as a pending patch and resolved once the
// whole stack drains, by which point every reachable node has an
// address.
func (b BddAncha[Var, VarAncha, Leaf, Ctx]) Anchize(origin *BddOrigin[Var, Leaf], ctx Ctx, cur Cursor) (Cursor, error) {
	addr := make(map[BddOrigin[Var, Leaf]]int)
	var patches []bddPatch[Var, Leaf]
	stack := []BddOrigin[Var, Leaf]{*origin}
	cursor := cur
	var err error
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := addr[n]; seen {
			continue
		}
		cursor = Align[BddInternalAncha[VarAncha]](cursor)
		addr[n] = cursor.Off
		if n.IsLeaf() {
			*Slot[uint64](cursor) = 1
			leafCur := Behind[uint64](cursor, 1)
			leaf := n.Leaf()
			leafCur, err = b.LeafVal.Anchize(&leaf, ctx, leafCur)
			if err != nil {
				return leafCur, err
			}
			cursor = leafCur
			continue
		}
		hdr := Slot[BddInternalAncha[VarAncha]](cursor)
		hdr.IsLeaf = 0
		v := n.Var()
		b.Variable.AnchizeStatic(&v, ctx, &hdr.Var)
		low, high := n.Low(), n.High()
		if a, ok := addr[low]; ok {
			hdr.Low = uint64(a)
		} else {
			patches = append(patches, bddPatch[Var, Leaf]{slot: &hdr.Low, target: low})
		}
		if a, ok := addr[high]; ok {
			hdr.High = uint64(a)
		} else {
			patches = append(patches, bddPatch[Var, Leaf]{slot: &hdr.High, target: high})
		}
		cursor = Behind[BddInternalAncha[VarAncha]](cursor, 1)
		stack = append(stack, high, low)
	}
	for _, p := range patches {
		a, ok := addr[p.target]
		if !ok {
			return cursor, ErrCyclicOrigin
		}
		*p.slot = uint64(a)
	}
	return cursor, nil
}

// Deanchize walks the same physical region, following low/high offset
// fields to discover nodes rather than re-walking an origin tree — it
// has none. Nodes are deduplicated by buffer offset, the post-anchize
// equivalent of origin identity, so a shared node is fixed up exactly
// once regardless of how many parents reference it.
func (b BddAncha[Var, VarAncha, Leaf, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	shifter := NewShifter(cur.Buf)
	visited := make(map[int]bool)
	cursor := Align[BddInternalAncha[VarAncha]](cur)
	stack := []int{cursor.Off}
	var err error
	for len(stack) > 0 {
		off := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[off] {
			continue
		}
		visited[off] = true
		nodeCur := Cursor{Buf: cur.Buf, Off: off}
		if *Slot[uint64](nodeCur) == 1 {
			leafCur := Behind[uint64](nodeCur, 1)
			leafCur, err = b.LeafVal.Deanchize(leafCur)
			if err != nil {
				return leafCur, err
			}
			cursor = leafCur
			continue
		}
		hdr := Slot[BddInternalAncha[VarAncha]](nodeCur)
		b.Variable.DeanchizeStatic(&hdr.Var)
		lowOff, highOff := int(hdr.Low), int(hdr.High)
		hdr.Low = shifter.ShiftOffset(hdr.Low)
		hdr.High = shifter.ShiftOffset(hdr.High)
		cursor = Behind[BddInternalAncha[VarAncha]](nodeCur, 1)
		stack = append(stack, highOff, lowOff)
	}
	return cursor, nil
}

// BddNodeView reads one deanchized DAG node. off must already be
// aligned to the component's node alignment.
type BddNodeView[VarAncha any] struct {
	buf []byte
	off int
}

// ViewBdd wraps buf at off as the root of a deanchized shared DAG.
func ViewBdd[VarAncha any](buf []byte, off int) BddNodeView[VarAncha] {
	return BddNodeView[VarAncha]{buf: buf, off: off}
}

func (n BddNodeView[VarAncha]) header() *BddInternalAncha[VarAncha] {
	return (*BddInternalAncha[VarAncha])(unsafe.Pointer(&n.buf[n.off]))
}

// IsLeaf reports whether this node's discriminator marks it a leaf.
func (n BddNodeView[VarAncha]) IsLeaf() bool {
	return *(*uint64)(unsafe.Pointer(&n.buf[n.off])) == 1
}

// Var returns the internal node's variable label. Calling it on a
// leaf is a caller error; check IsLeaf first.
func (n BddNodeView[VarAncha]) Var() *VarAncha {
	return &n.header().Var
}

// LeafOffset returns the offset just past this leaf's discriminator,
// where its payload strategy's view begins. Calling it on an internal
// node is a caller error; check IsLeaf first.
func (n BddNodeView[VarAncha]) LeafOffset() int {
	return n.off + SizeOf[uint64]()
}

func (n BddNodeView[VarAncha]) child(ptr uint64) BddNodeView[VarAncha] {
	base := uintptr(unsafe.Pointer(&n.buf[0]))
	return BddNodeView[VarAncha]{buf: n.buf, off: int(uintptr(ptr) - base)}
}

// Low follows the promoted low-child pointer. Calling it on a leaf is
// a caller error; check IsLeaf first.
func (n BddNodeView[VarAncha]) Low() BddNodeView[VarAncha] {
	return n.child(n.header().Low)
}

// High follows the promoted high-child pointer. Calling it on a leaf
// is a caller error; check IsLeaf first.
func (n BddNodeView[VarAncha]) High() BddNodeView[VarAncha] {
	return n.child(n.header().High)
}

// BddAssign reports the boolean truth value of a variable, used to
// drive Evaluate.
type BddAssign[VarAncha any] func(v *VarAncha) bool

// Evaluate starts at root and follows low/high per assign until it
// reaches a leaf, returning that leaf's offset (see LeafOffset). No
// allocation, no buffer mutation.
func Evaluate[VarAncha any](root BddNodeView[VarAncha], assign BddAssign[VarAncha]) int {
	n := root
	for !n.IsLeaf() {
		if assign(n.Var()) {
			n = n.High()
		} else {
			n = n.Low()
		}
	}
	return n.LeafOffset()
}
