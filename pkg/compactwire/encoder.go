package compactwire

import (
	"encoding/binary"
	"hash/crc32"
)

const envelopeOverhead = 2 + 1 + 4 + 4 // magic + kind + length + crc

// encodeFrame wraps body in the shared envelope: magic, kind, a
// length field covering the whole frame, body itself, then a CRC32
// of body.
func encodeFrame(k kind, body []byte) []byte {
	out := make([]byte, 0, envelopeOverhead+len(body))
	out = append(out, magic[:]...)
	out = append(out, byte(k))
	out = append(out, 0, 0, 0, 0) // length, filled in below
	out = append(out, body...)
	binary.LittleEndian.PutUint32(out[3:7], uint32(len(out)+4))
	crc := crc32.ChecksumIEEE(out[7:])
	return binary.LittleEndian.AppendUint32(out, crc)
}

// Encode serializes h as a HandshakeFrame.
func (h HandshakeFrame) Encode() []byte {
	body := make([]byte, 0, 4+2+len(h.AlgCodes))
	body = binary.LittleEndian.AppendUint32(body, h.VersionMask)
	body = binary.LittleEndian.AppendUint16(body, uint16(len(h.AlgCodes)))
	body = append(body, h.AlgCodes...)
	return encodeFrame(kindHandshake, body)
}

// Encode serializes d as a DataFrame.
func (d DataFrame) Encode() []byte {
	return encodeFrame(kindData, d.Payload)
}
