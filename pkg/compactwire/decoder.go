package compactwire

import (
	"encoding/binary"
	"hash/crc32"
)

// decodeFrame validates the shared envelope in data and returns the
// frame's kind, its body, and the number of bytes the frame occupies
// at the start of data — so a caller holding several concatenated
// frames can slice past this one to reach the next.
func decodeFrame(data []byte) (k kind, body []byte, consumed int, err error) {
	if len(data) < envelopeOverhead {
		return 0, nil, 0, ErrShortFrame
	}
	if data[0] != magic[0] || data[1] != magic[1] {
		return 0, nil, 0, ErrBadMagic
	}
	k = kind(data[2])
	length := binary.LittleEndian.Uint32(data[3:7])
	if length < envelopeOverhead || int(length) > len(data) {
		return 0, nil, 0, ErrShortFrame
	}
	frame := data[:length]
	crcWant := binary.LittleEndian.Uint32(frame[length-4:])
	body = frame[7 : length-4]
	if crc32.ChecksumIEEE(body) != crcWant {
		return 0, nil, 0, ErrCRCMismatch
	}
	return k, body, int(length), nil
}

// DecodeHandshake parses a HandshakeFrame at the start of data and
// reports how many bytes it consumed, so the caller knows where the
// following DataFrame begins.
func DecodeHandshake(data []byte) (h HandshakeFrame, consumed int, err error) {
	k, body, consumed, err := decodeFrame(data)
	if err != nil {
		return HandshakeFrame{}, 0, err
	}
	if k != kindHandshake {
		return HandshakeFrame{}, 0, ErrWrongKind
	}
	if len(body) < 6 {
		return HandshakeFrame{}, 0, ErrShortFrame
	}
	h.VersionMask = binary.LittleEndian.Uint32(body[0:4])
	algLen := int(binary.LittleEndian.Uint16(body[4:6]))
	h.AlgCodes = append([]byte(nil), body[6:6+algLen]...)
	return h, consumed, nil
}

// DecodeData parses a DataFrame at the start of data and reports how
// many bytes it consumed. The returned Payload aliases data.
func DecodeData(data []byte) (d DataFrame, consumed int, err error) {
	k, body, consumed, err := decodeFrame(data)
	if err != nil {
		return DataFrame{}, 0, err
	}
	if k != kindData {
		return DataFrame{}, 0, ErrWrongKind
	}
	return DataFrame{Payload: body}, consumed, nil
}
