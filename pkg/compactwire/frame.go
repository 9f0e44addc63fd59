// Package compactwire frames the two messages cmd/anchabench writes
// to a snapshot file: one HandshakeFrame announcing codec parameters,
// followed by one DataFrame carrying an anchized ancha buffer. The
// engine itself has no wire format (see ancha's non-goals); this
// package is CLI-harness plumbing layered on top, trimmed to exactly
// the two frame kinds the CLI actually emits.
//
// Every frame shares one envelope: a 2-byte magic, a 1-byte kind tag,
// a 4-byte total length, the kind's own body, and a trailing CRC32
// over the body. The length field lets a reader holding several
// concatenated frames find where one ends and the next begins
// without parsing the body first.
package compactwire

import "errors"

type kind byte

const (
	kindHandshake kind = 0x01
	kindData      kind = 0x02
)

var magic = [2]byte{0xAC, 0x5A}

var (
	ErrBadMagic    = errors.New("compactwire: bad frame magic")
	ErrWrongKind   = errors.New("compactwire: unexpected frame kind")
	ErrCRCMismatch = errors.New("compactwire: crc32 mismatch")
	ErrShortFrame  = errors.New("compactwire: frame shorter than its own length field")
)

// HandshakeFrame announces the snapshot's protocol version and which
// per-element codec, if any, the following DataFrame's payload was
// built with.
type HandshakeFrame struct {
	VersionMask uint32
	AlgCodes    []byte
}

// DataFrame carries one opaque payload — an anchized ancha buffer, in
// cmd/anchabench's usage — with no interpretation of its contents.
type DataFrame struct {
	Payload []byte
}
