package mqtt5

// PublishMessage is the content of an outbound PUBLISH.
// PacketID is assigned by the engine when QoS > 0 and should be left zero
// by the caller.
type PublishMessage struct {
	Topic      string
	Payload    []byte
	QoS        QoSLevel
	Retain     bool
	Dup        bool
	PacketID   uint16
	Properties Properties
}

func (p *PublishMessage) packetType() PacketType { return PacketPublish }
func (p *PublishMessage) flags() PacketFlags {
	return publishFlags(p.Dup, p.Retain, p.QoS)
}

func (p *PublishMessage) writePayload(w *writer) {
	w.putString(p.Topic)
	if p.QoS > QoS0 {
		w.putUint16(p.PacketID)
	}
	propLen := p.Properties.size()
	w.putVarint(uint32(propLen))
	p.Properties.encode(w)
	w.putBytes(p.Payload)
}

// validate applies the engine-level preflight checks required before a
// publish is built: topic well-formedness and UTF-8
// validity of every string-carrying property. QoS-vs-server-max and
// retain-availability are checked by Session.Publish, which has access to
// connack_info.
func (p *PublishMessage) validate() error {
	if err := ValidateTopicName(p.Topic); err != nil {
		return err
	}
	if !ValidUTF8([]byte(p.Topic)) {
		return ErrInvalidTopic
	}
	if !p.QoS.IsValid() {
		return ErrInvalidQoS
	}
	if p.Properties.ContentType.Set && !ValidUTF8([]byte(p.Properties.ContentType.Value)) {
		return ErrInvalidEncoding
	}
	if p.Properties.ResponseTopic.Set && !ValidUTF8([]byte(p.Properties.ResponseTopic.Value)) {
		return ErrInvalidEncoding
	}
	for _, up := range p.Properties.User {
		if !ValidUTF8([]byte(up.Key)) || !ValidUTF8([]byte(up.Value)) {
			return ErrInvalidEncoding
		}
	}
	return nil
}

// decodedPublish is the raw parse result of an inbound PUBLISH, before the
// session layer turns it into a ReceivedPublish and decides on the
// QoS-dependent response.
type decodedPublish struct {
	Topic      string
	PacketID   uint16
	Properties Properties
	Payload    []byte // borrowed from the receive buffer
}

func decodePublish(r *reader, qos QoSLevel) (decodedPublish, error) {
	var d decodedPublish
	topic, err := r.getString()
	if err != nil {
		return d, err
	}
	d.Topic = topic
	if qos > QoS0 {
		id, err := r.getUint16()
		if err != nil {
			return d, err
		}
		if id == 0 {
			return d, ErrInvalidPacketID
		}
		d.PacketID = id
	}
	props, err := decodeProperties(r)
	if err != nil {
		return d, err
	}
	d.Properties = props
	if props.PayloadFormatIndicator.Set && props.PayloadFormatIndicator.Value == 1 {
		if !ValidUTF8(r.buf[r.pos:]) {
			return d, ErrInvalidEncoding
		}
	}
	d.Payload = r.buf[r.pos:]
	r.pos = len(r.buf)
	return d, nil
}
