package mqtt5

// connect flags byte bits.
const (
	connectFlagCleanStart = 1 << 1
	connectFlagWill       = 1 << 2
	connectFlagWillQoS    = 0b11 << 3
	connectFlagWillRetain = 1 << 5
	connectFlagPassword   = 1 << 6
	connectFlagUsername   = 1 << 7
)

// WillMessage is the optional last-will PUBLISH the broker sends on behalf
// of a client that disconnects uncleanly.
type WillMessage struct {
	Topic      string
	Payload    []byte
	QoS        QoSLevel
	Retain     bool
	Properties Properties // DelayInterval, PayloadFormatIndicator, etc.
}

// ConnectPacket is the content of an outbound CONNECT.
type ConnectPacket struct {
	ClientID   string
	CleanStart bool
	KeepAlive  uint16
	Properties Properties
	Username   Optional[string]
	Password   Optional[[]byte]
	Will       *WillMessage
}

func (c *ConnectPacket) packetType() PacketType { return PacketConnect }
func (c *ConnectPacket) flags() PacketFlags     { return 0 }

func (c *ConnectPacket) connectFlagsByte() byte {
	var f byte
	if c.CleanStart {
		f |= connectFlagCleanStart
	}
	if c.Will != nil {
		f |= connectFlagWill
		f |= byte(c.Will.QoS) << 3
		if c.Will.Retain {
			f |= connectFlagWillRetain
		}
	}
	if c.Password.Set {
		f |= connectFlagPassword
	}
	if c.Username.Set {
		f |= connectFlagUsername
	}
	return f
}

func (c *ConnectPacket) writePayload(w *writer) {
	w.putString(protocolName)
	w.putByte(protocolLevel)
	w.putByte(c.connectFlagsByte())
	w.putUint16(c.KeepAlive)

	propLen := c.Properties.size()
	w.putVarint(uint32(propLen))
	c.Properties.encode(w)

	w.putString(c.ClientID)

	if c.Will != nil {
		willPropLen := c.Will.Properties.size()
		w.putVarint(uint32(willPropLen))
		c.Will.Properties.encode(w)
		w.putString(c.Will.Topic)
		w.putBinary(c.Will.Payload)
	}
	if c.Username.Set {
		w.putString(c.Username.Value)
	}
	if c.Password.Set {
		w.putBinary(c.Password.Value)
	}
}

// validate applies the CONNECT-specific preflight rules that don't belong
// to the wire codec itself (engine-level checks, not format checks).
func (c *ConnectPacket) validate() error {
	if c.Will != nil && !c.Will.QoS.IsValid() {
		return ErrInvalidQoS
	}
	return nil
}
