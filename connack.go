package mqtt5

// ConnackInfo is the set of server-advertised limits captured off CONNACK.
// Every field defaults per the MQTT 5 spec when the server omits the
// corresponding property.
type ConnackInfo struct {
	SessionPresent       bool
	ReasonCode           ReasonCode
	MaxQoS               QoSLevel
	RetainAvailable      bool
	WildcardSubAvailable bool
	SharedSubAvailable   bool
	SubIDAvailable       bool
	ServerKeepAlive      uint16
	ReceiveMaximum       uint16
	MaxPacketSize        uint32
	TopicAliasMax        uint16
	AssignedClientID     string
	ResponseInformation  string
	ServerReference      string
	ReasonString         string
}

// defaultConnackInfo seeds the fields the MQTT 5 spec defines a default
// for, before any CONNACK property overrides them. proposedKeepAlive is the
// client's own CONNECT keep_alive, which is the default server_keep_alive
// when the server doesn't override it.
func defaultConnackInfo(proposedKeepAlive uint16) ConnackInfo {
	return ConnackInfo{
		MaxQoS:               QoS2,
		RetainAvailable:      true,
		WildcardSubAvailable: true,
		SharedSubAvailable:   true,
		SubIDAvailable:       true,
		ServerKeepAlive:      proposedKeepAlive,
		ReceiveMaximum:       ReceiveMaximum,
	}
}

// decodeConnack parses a CONNACK variable header: acknowledge_flags byte,
// reason byte, then properties.
func decodeConnack(r *reader, proposedKeepAlive uint16) (ConnackInfo, error) {
	ackFlags, err := r.getByte()
	if err != nil {
		return ConnackInfo{}, err
	}
	reason, err := r.getByte()
	if err != nil {
		return ConnackInfo{}, err
	}
	props, err := decodeProperties(r)
	if err != nil {
		return ConnackInfo{}, err
	}

	info := defaultConnackInfo(proposedKeepAlive)
	info.SessionPresent = ackFlags&1 != 0
	info.ReasonCode = ReasonCode(reason)

	if props.MaximumQoS.Set {
		info.MaxQoS = QoSLevel(props.MaximumQoS.Value)
	}
	if props.RetainAvailable.Set {
		info.RetainAvailable = props.RetainAvailable.Value != 0
	}
	if props.WildcardSubAvailable.Set {
		info.WildcardSubAvailable = props.WildcardSubAvailable.Value != 0
	}
	if props.SharedSubAvailable.Set {
		info.SharedSubAvailable = props.SharedSubAvailable.Value != 0
	}
	if props.SubIDAvailable.Set {
		info.SubIDAvailable = props.SubIDAvailable.Value != 0
	}
	if props.ServerKeepAlive.Set {
		info.ServerKeepAlive = props.ServerKeepAlive.Value
	}
	if props.ReceiveMaximum.Set {
		info.ReceiveMaximum = props.ReceiveMaximum.Value
	}
	if props.MaximumPacketSize.Set {
		info.MaxPacketSize = props.MaximumPacketSize.Value
	}
	if props.TopicAliasMaximum.Set {
		info.TopicAliasMax = props.TopicAliasMaximum.Value
	}
	if props.AssignedClientIdentifier.Set {
		info.AssignedClientID = props.AssignedClientIdentifier.Value
	}
	if props.ResponseInformation.Set {
		info.ResponseInformation = props.ResponseInformation.Value
	}
	if props.ServerReference.Set {
		info.ServerReference = props.ServerReference.Value
	}
	if props.ReasonString.Set {
		info.ReasonString = props.ReasonString.Value
	}
	return info, nil
}
