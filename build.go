package mqtt5

// packetBuilder is implemented by every outbound packet's content type
// (ConnectPacket, PublishMessage, ...). writePayload is the single function
// called in both builder passes: once with a nil-backed
// writer to measure, once with a real buffer to encode. Because both calls
// run the identical code path, the two passes cannot disagree.
type packetBuilder interface {
	packetType() PacketType
	flags() PacketFlags
	writePayload(w *writer)
}

// planPacket runs pass one (a null-cursor measure) and returns the fixed
// header that pass two will write ahead of the same payload.
func planPacket(b packetBuilder) Header {
	w := &writer{}
	b.writePayload(w)
	return newHeader(b.packetType(), b.flags(), uint32(w.n))
}

// encodePacket runs pass two into buf, which must be exactly
// header.Size()+int(header.RemainingLength) bytes long.
func encodePacket(header Header, b packetBuilder, buf []byte) {
	w := &writer{buf: buf}
	header.encode(w)
	b.writePayload(w)
}
