package mqtt5

// pubStatusPacket is the shared shape of PUBACK, PUBREC, PUBREL and PUBCOMP:
// packet_id, a reason code, then properties. MQTT 5 allows the reason code
// and properties to be omitted entirely when the reason would be Success
// and there are no properties — the "short form".
type pubStatusPacket struct {
	ptype      PacketType
	PacketID   uint16
	ReasonCode ReasonCode
	Properties Properties
}

func (p *pubStatusPacket) packetType() PacketType { return p.ptype }
func (p *pubStatusPacket) flags() PacketFlags {
	if p.ptype == PacketPubrel {
		return reservedFlags
	}
	return 0
}

func (p *pubStatusPacket) writePayload(w *writer) {
	w.putUint16(p.PacketID)
	if p.ReasonCode == ReasonSuccess && p.Properties.size() == 0 {
		return // short form
	}
	w.putByte(byte(p.ReasonCode))
	propLen := p.Properties.size()
	w.putVarint(uint32(propLen))
	p.Properties.encode(w)
}

// decodePubStatus parses a PUBACK/PUBREC/PUBREL/PUBCOMP body, applying the
// short-form default: absence of the reason-code/properties tail means
// reason_code = Success, no properties.
func decodePubStatus(r *reader) (id uint16, reason ReasonCode, props Properties, err error) {
	id, err = r.getUint16()
	if err != nil {
		return 0, 0, Properties{}, err
	}
	if id == 0 {
		return 0, 0, Properties{}, ErrInvalidPacketID
	}
	if r.remaining() == 0 {
		return id, ReasonSuccess, Properties{}, nil
	}
	rc, err := r.getByte()
	if err != nil {
		return 0, 0, Properties{}, err
	}
	reason = ReasonCode(rc)
	if r.remaining() == 0 {
		return id, reason, Properties{}, nil
	}
	props, err = decodeProperties(r)
	if err != nil {
		return 0, 0, Properties{}, err
	}
	return id, reason, props, nil
}
