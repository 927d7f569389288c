package mqtt5

// UnsubscribePacket is the content of an outbound UNSUBSCRIBE.
type UnsubscribePacket struct {
	PacketID     uint16
	Properties   Properties
	TopicFilters []string
}

func (u *UnsubscribePacket) packetType() PacketType { return PacketUnsubscribe }
func (u *UnsubscribePacket) flags() PacketFlags     { return reservedFlags }

func (u *UnsubscribePacket) writePayload(w *writer) {
	w.putUint16(u.PacketID)
	propLen := u.Properties.size()
	w.putVarint(uint32(propLen))
	u.Properties.encode(w)
	for _, f := range u.TopicFilters {
		w.putString(f)
	}
}
