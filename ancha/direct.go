package ancha

// DirectCopy is the default StaticStrategy for trivially-copyable
// scalars: the ancha type equals the origin type, anchize is a bitwise
// copy, and deanchize has nothing to fix up.
type DirectCopy[T any, Ctx any] struct{}

// NewDirectCopy constructs a DirectCopy strategy for T under context
// type Ctx.
func NewDirectCopy[T any, Ctx any]() DirectCopy[T, Ctx] { return DirectCopy[T, Ctx]{} }

func (DirectCopy[T, Ctx]) AnchizeStatic(origin *T, ctx Ctx, slot *T) {
	*slot = *origin
}

func (DirectCopy[T, Ctx]) DeanchizeStatic(slot *T) {}
