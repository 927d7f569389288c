package mqtt5

// DisconnectPacket is the content of an outbound DISCONNECT. Both the
// reason code and properties may be omitted on the wire iff the reason
// would be Success and there are no properties, identical
// to the PUBACK-family short form.
type DisconnectPacket struct {
	ReasonCode ReasonCode
	Properties Properties
}

func (d *DisconnectPacket) packetType() PacketType { return PacketDisconnect }
func (d *DisconnectPacket) flags() PacketFlags     { return 0 }

func (d *DisconnectPacket) writePayload(w *writer) {
	if d.ReasonCode == ReasonSuccess && d.Properties.size() == 0 {
		return
	}
	w.putByte(byte(d.ReasonCode))
	propLen := d.Properties.size()
	w.putVarint(uint32(propLen))
	d.Properties.encode(w)
}

// decodeDisconnect parses an inbound DISCONNECT body, applying the same
// short-form default as pubstatus.
func decodeDisconnect(r *reader) (ReasonCode, Properties, error) {
	if r.remaining() == 0 {
		return ReasonSuccess, Properties{}, nil
	}
	rc, err := r.getByte()
	if err != nil {
		return 0, Properties{}, err
	}
	if r.remaining() == 0 {
		return ReasonCode(rc), Properties{}, nil
	}
	props, err := decodeProperties(r)
	if err != nil {
		return 0, Properties{}, err
	}
	return ReasonCode(rc), props, nil
}
