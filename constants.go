package mqtt5

const (
	protocolName  = "MQTT"
	protocolLevel = 5

	// ReceiveMaximum is the fixed capacity of the pending-packet-identifier
	// table. One slot is reserved per in-flight QoS1/QoS2 PUBLISH, SUBSCRIBE
	// or UNSUBSCRIBE exchange.
	ReceiveMaximum = 32

	// CorrelationDataMaximum bounds the Correlation Data property accepted
	// on an inbound PUBLISH. Overflowing data is dropped, not truncated: the
	// property is treated as absent rather than corrupted.
	CorrelationDataMaximum = 256

	// MQTTPort is the IANA-assigned default MQTT broker TCP port.
	MQTTPort = 1883

	// PollTimeout is the default wait a polling Transport should block for
	// in Transport.Recv before returning StatusPassed.
	PollTimeout = 1000 // milliseconds

	// defaultReceiveBufferLen sizes a receive scratch buffer before a
	// CONNACK has reported a MaximumPacketSize. Deriving the buffer size
	// from a not-yet-known max_packet_size would collapse it to zero, so a
	// fixed floor is used until the server value arrives.
	defaultReceiveBufferLen = 1024

	maxVarintValue = 0xFFFFFFF // 2^28 - 1, the largest value representable in 4 varint bytes.

	defaultKeepAlive = 60 // seconds
)
