package ancha

import "unsafe"

// VecEntry is the ancha layout of one slot in a VecMap's key table:
// a fixed-size key paired with a pointer-or-offset to its value.
type VecEntry[Key any] struct {
	Key   Key
	Value uint64
}

// Matches is a caller-supplied predicate used by VecMapView.Find. The
// engine itself never compares keys — lookup strategy is entirely the
// caller's business, matching the origin system's stance that a map
// is just parallel arrays plus whatever scan the caller wants.
type Matches[Key any] func(candidate *Key) bool

// Equals builds a Matches predicate for exact equality against want,
// for any comparable Key.
func Equals[Key comparable](want Key) Matches[Key] {
	return func(candidate *Key) bool { return *candidate == want }
}

// Any is a Matches predicate that accepts every candidate; passed to
// Find it selects the first entry. To visit every entry, range over
// Entries instead.
func Any[Key any](*Key) bool { return true }

// VecMapAncha is the DynStrategy for the array-form keyed map.
// Layout: { length uint64, (key, value_ptr)[0..length], value payloads... }.
// Keys are fixed-size; values are variable-size and stored after the
// whole key/pointer table, in entry order.
type VecMapAncha[KeyOrigin, KeyAncha, ValOrigin, Ctx any] struct {
	Key VecMapKeyOrigin[KeyOrigin, KeyAncha]
	Val DynStrategy[ValOrigin, Ctx]
}

// VecMapKeyOrigin adapts a StaticStrategy[KeyOrigin, KeyAncha, struct{}]
// for use as a VecMap key, since keys never need the map's Ctx (they
// are copied, not recursively anchized against caller context).
type VecMapKeyOrigin[KeyOrigin, KeyAncha any] struct {
	Strategy StaticStrategy[KeyOrigin, KeyAncha, struct{}]
}

// NewVecMap builds a VecMap strategy from a fixed-size key strategy and
// a variable-size value strategy.
func NewVecMap[KeyOrigin, KeyAncha, ValOrigin, Ctx any](
	key StaticStrategy[KeyOrigin, KeyAncha, struct{}],
	val DynStrategy[ValOrigin, Ctx],
) VecMapAncha[KeyOrigin, KeyAncha, ValOrigin, Ctx] {
	return VecMapAncha[KeyOrigin, KeyAncha, ValOrigin, Ctx]{
		Key: VecMapKeyOrigin[KeyOrigin, KeyAncha]{Strategy: key},
		Val: val,
	}
}

// VecMapOrigin is the origin type for a VecMap: parallel slices of keys
// and values, index-aligned.
type VecMapOrigin[KeyOrigin, ValOrigin any] struct {
	Keys   []KeyOrigin
	Values []ValOrigin
}

func (m VecMapAncha[KeyOrigin, KeyAncha, ValOrigin, Ctx]) Reserve(origin *VecMapOrigin[KeyOrigin, ValOrigin], ctx Ctx, r *Reserve) error {
	Add[uint64](r, 1)
	Add[VecEntry[KeyAncha]](r, len(origin.Keys))
	for i := range origin.Values {
		Add[uint64](r, 0)
		if err := m.Val.Reserve(&origin.Values[i], ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m VecMapAncha[KeyOrigin, KeyAncha, ValOrigin, Ctx]) Anchize(origin *VecMapOrigin[KeyOrigin, ValOrigin], ctx Ctx, cur Cursor) (Cursor, error) {
	n := len(origin.Keys)
	cur = Align[uint64](cur)
	*Slot[uint64](cur) = uint64(n)
	tableCur := Align[VecEntry[KeyAncha]](Behind[uint64](cur, 1))
	entries := make([]Cursor, n)
	for i := 0; i < n; i++ {
		entries[i] = Behind[VecEntry[KeyAncha]](tableCur, i)
	}
	vcur := Behind[VecEntry[KeyAncha]](tableCur, n)
	var err error
	for i := 0; i < n; i++ {
		entry := Slot[VecEntry[KeyAncha]](entries[i])
		m.Key.Strategy.AnchizeStatic(&origin.Keys[i], struct{}{}, &entry.Key)
		// Every container this engine defines opens with a machine-word
		// header (length/count/next), so word-aligning here always lands
		// on the address the value strategy's own entry-align will also
		// settle on. Reserve pads identically via the Add[uint64](r, 0)
		// above, keeping the two passes byte-for-byte in step.
		vcur = Align[uint64](vcur)
		entry.Value = uint64(vcur.Off)
		vcur, err = m.Val.Anchize(&origin.Values[i], ctx, vcur)
		if err != nil {
			return vcur, err
		}
	}
	return vcur, nil
}

func (m VecMapAncha[KeyOrigin, KeyAncha, ValOrigin, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	shifter := NewShifter(cur.Buf)
	cur = Align[uint64](cur)
	n := int(*Slot[uint64](cur))
	tableCur := Align[VecEntry[KeyAncha]](Behind[uint64](cur, 1))
	var err error
	var vcur Cursor
	for i := 0; i < n; i++ {
		entryCur := Behind[VecEntry[KeyAncha]](tableCur, i)
		entry := Slot[VecEntry[KeyAncha]](entryCur)
		m.Key.Strategy.DeanchizeStatic(&entry.Key)
		rawOff := entry.Value
		entry.Value = shifter.ShiftOffset(rawOff)
		vcur = Cursor{Buf: cur.Buf, Off: int(rawOff)}
		vcur, err = m.Val.Deanchize(vcur)
		if err != nil {
			return vcur, err
		}
	}
	if n == 0 {
		return Behind[VecEntry[KeyAncha]](tableCur, 0), nil
	}
	return vcur, nil
}

// VecMapView reads a deanchized VecMap back out of a buffer.
type VecMapView[Key any] struct {
	buf []byte
	off int
}

// ViewVecMap wraps buf at off as a VecMap with the given key type.
func ViewVecMap[Key any](buf []byte, off int) VecMapView[Key] {
	return VecMapView[Key]{buf: buf, off: off}
}

func (m VecMapView[Key]) Len() int {
	return int(*(*uint64)(unsafe.Pointer(&m.buf[m.off])))
}

func (m VecMapView[Key]) tableOff() int {
	return alignUp(m.off+SizeOf[uint64](), AlignOf[VecEntry[Key]]())
}

// Entries returns the key/value-pointer table aliasing the buffer.
func (m VecMapView[Key]) Entries() []VecEntry[Key] {
	n := m.Len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*VecEntry[Key])(unsafe.Pointer(&m.buf[m.tableOff()])), n)
}

// Find scans the table in order and returns the absolute value
// pointer (as a buffer offset, post-deanchize an address) for the
// first entry whose key satisfies match, or ok=false.
func (m VecMapView[Key]) Find(match Matches[Key]) (valuePtr uint64, ok bool) {
	for _, e := range m.Entries() {
		if match(&e.Key) {
			return e.Value, true
		}
	}
	return 0, false
}

// Behind reports the offset immediately following this map's last
// value payload. The caller must supply that last payload's own
// ancha size via lastValueSize, since the map itself does not know
// how large a variable-size value is.
func (m VecMapView[Key]) Behind(lastValueOff, lastValueSize int) int {
	return lastValueOff + lastValueSize
}

// ArrMapAncha is the DynStrategy for the fixed-slot keyed map: a
// compile-time-sized (in this port, construction-time-sized) array of
// value pointers, indexed by position. No keys are stored; slot index
// IS the key.
type ArrMapAncha[ValOrigin, Ctx any] struct {
	Size int
	Val  DynStrategy[ValOrigin, Ctx]
}

// NewArrMap builds a fixed-slot map strategy of size slots over a
// variable-size value strategy. The origin slice must have length
// size on every pass.
func NewArrMap[ValOrigin, Ctx any](size int, val DynStrategy[ValOrigin, Ctx]) ArrMapAncha[ValOrigin, Ctx] {
	return ArrMapAncha[ValOrigin, Ctx]{Size: size, Val: val}
}

func (m ArrMapAncha[ValOrigin, Ctx]) Reserve(origin *[]ValOrigin, ctx Ctx, r *Reserve) error {
	Add[uint64](r, m.Size)
	for i := range *origin {
		Add[uint64](r, 0)
		if err := m.Val.Reserve(&(*origin)[i], ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m ArrMapAncha[ValOrigin, Ctx]) Anchize(origin *[]ValOrigin, ctx Ctx, cur Cursor) (Cursor, error) {
	items := *origin
	ptrsCur := Align[uint64](cur)
	vcur := Behind[uint64](ptrsCur, m.Size)
	var err error
	for i := 0; i < m.Size; i++ {
		// See VecMap.Anchize: word-aligning here matches the padding
		// Reserve already accounted for via the Add[uint64](r, 0) above.
		vcur = Align[uint64](vcur)
		*Slot[uint64](Behind[uint64](ptrsCur, i)) = uint64(vcur.Off)
		vcur, err = m.Val.Anchize(&items[i], ctx, vcur)
		if err != nil {
			return vcur, err
		}
	}
	return vcur, nil
}

func (m ArrMapAncha[ValOrigin, Ctx]) Deanchize(cur Cursor) (Cursor, error) {
	shifter := NewShifter(cur.Buf)
	ptrsCur := Align[uint64](cur)
	var err error
	var vcur Cursor
	for i := 0; i < m.Size; i++ {
		slot := Slot[uint64](Behind[uint64](ptrsCur, i))
		rawOff := *slot
		*slot = shifter.ShiftOffset(rawOff)
		vcur = Cursor{Buf: cur.Buf, Off: int(rawOff)}
		vcur, err = m.Val.Deanchize(vcur)
		if err != nil {
			return vcur, err
		}
	}
	if m.Size == 0 {
		return Behind[uint64](ptrsCur, 0), nil
	}
	return vcur, nil
}

// ArrMapView reads a deanchized ArrMap back out of a buffer.
type ArrMapView struct {
	buf  []byte
	off  int
	size int
}

// ViewArrMap wraps buf at off as an ArrMap of the given slot count.
func ViewArrMap(buf []byte, off, size int) ArrMapView {
	return ArrMapView{buf: buf, off: off, size: size}
}

func (m ArrMapView) Size() int { return m.size }

// Slot returns the value pointer stored at index i, bounds-checked.
func (m ArrMapView) Slot(i int) (uint64, error) {
	if i < 0 || i >= m.size {
		return 0, ErrIndexOutOfRange
	}
	off := m.off + i*SizeOf[uint64]()
	return *(*uint64)(unsafe.Pointer(&m.buf[off])), nil
}
