package ancha

import "errors"

// Sentinel errors for caller-contract violations. The engine does not
// attempt to recover from any of these; it reports them so the caller
// gets a describable error instead of undefined behavior.
var (
	ErrCyclicOrigin      = errors.New("ancha: cyclic origin graph")
	ErrIndexOutOfRange   = errors.New("ancha: index out of range")
	ErrBufferTooSmall    = errors.New("ancha: buffer too small")
	ErrMisaligned        = errors.New("ancha: buffer misaligned")
	ErrAlreadyDeanchized = errors.New("ancha: buffer already deanchized")
)
