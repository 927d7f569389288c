package mqtt5

// decodeSuback parses a SUBACK: packet_id, properties, then one reason code
// per remaining byte, each corresponding by index to the SUBSCRIBE entry
// that requested it.
func decodeSuback(r *reader) (id uint16, props Properties, reasons []ReasonCode, err error) {
	id, err = r.getUint16()
	if err != nil {
		return 0, Properties{}, nil, err
	}
	props, err = decodeProperties(r)
	if err != nil {
		return 0, Properties{}, nil, err
	}
	for r.remaining() > 0 {
		b, err := r.getByte()
		if err != nil {
			return 0, Properties{}, nil, err
		}
		reasons = append(reasons, ReasonCode(b))
	}
	return id, props, reasons, nil
}

// decodeUnsuback parses an UNSUBACK with the identical shape as SUBACK.
func decodeUnsuback(r *reader) (id uint16, props Properties, reasons []ReasonCode, err error) {
	return decodeSuback(r)
}
