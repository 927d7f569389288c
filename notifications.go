package mqtt5

// ReceivedPublish is the last-message latch for an inbound PUBLISH.
// Topic is an owned copy; Payload borrows directly from the
// receive buffer that ProcessPacket was called with and is only valid for
// the duration of the Notifications callback — holding onto it past the
// call returning is a use-after-free of the caller's own buffer.
type ReceivedPublish struct {
	Topic           string
	Payload         []byte
	PacketID        uint16
	QoS             QoSLevel
	Retain          bool
	Dup             bool
	ResponseTopic   string
	ContentType     string
	CorrelationData []byte
	Properties      Properties
	// MatchedFilters lists the currently active subscription filter(s) this
	// delivery satisfies, letting a caller with overlapping subscriptions
	// (e.g. "sensors/#" and "sensors/temp") tell which one triggered.
	MatchedFilters []string
}

// Notifications is the abstract sink the session fires user-facing events
// through: one method per event, each with a no-op embeddable default so a
// caller only overrides what it cares about. This replaces the source's
// global nullable-callback pattern with a single interface.
type Notifications interface {
	Connected(info ConnackInfo)
	Disconnected(err error)
	PublishReceived(p ReceivedPublish)
	PublishAcknowledged(packetID uint16, reasonCode ReasonCode)
	PublishCompleted(packetID uint16, reasonCode ReasonCode)
	SubscriptionGranted(packetID uint16, index int, qos QoSLevel)
	SubscriptionDeclined(packetID uint16, index int, reasonCode ReasonCode)
	Unsubscribed(packetID uint16, index int, reasonCode ReasonCode)
	PingReceived()
	ReceivedDisconnect(reasonCode ReasonCode, reasonString string)
}

// NoopNotifications implements Notifications with every method a no-op.
// Embed it in a caller's type to only override the events it needs.
type NoopNotifications struct{}

func (NoopNotifications) Connected(ConnackInfo)                        {}
func (NoopNotifications) Disconnected(error)                           {}
func (NoopNotifications) PublishReceived(ReceivedPublish)              {}
func (NoopNotifications) PublishAcknowledged(uint16, ReasonCode)       {}
func (NoopNotifications) PublishCompleted(uint16, ReasonCode)          {}
func (NoopNotifications) SubscriptionGranted(uint16, int, QoSLevel)    {}
func (NoopNotifications) SubscriptionDeclined(uint16, int, ReasonCode) {}
func (NoopNotifications) Unsubscribed(uint16, int, ReasonCode)         {}
func (NoopNotifications) PingReceived()                                {}
func (NoopNotifications) ReceivedDisconnect(ReasonCode, string)        {}

var _ Notifications = NoopNotifications{}
