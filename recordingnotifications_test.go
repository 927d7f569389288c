package mqtt5

// recordingNotifications captures every fired event for assertions in
// session_test.go's scenario tests.
type recordingNotifications struct {
	NoopNotifications
	connected      []ConnackInfo
	published      []ReceivedPublish
	acked          []ackEvent
	completed      []ackEvent
	granted        []grantEvent
	declined       []grantEvent
	disconnectedAt []error
	receivedDisc   []discEvent
	pings          int
}

type ackEvent struct {
	id     uint16
	reason ReasonCode
}

type grantEvent struct {
	id    uint16
	index int
	qos   QoSLevel
	code  ReasonCode
}

type discEvent struct {
	code ReasonCode
	str  string
}

func (r *recordingNotifications) Connected(info ConnackInfo) {
	r.connected = append(r.connected, info)
}
func (r *recordingNotifications) PublishReceived(p ReceivedPublish) {
	r.published = append(r.published, p)
}
func (r *recordingNotifications) PublishAcknowledged(id uint16, reason ReasonCode) {
	r.acked = append(r.acked, ackEvent{id, reason})
}
func (r *recordingNotifications) PublishCompleted(id uint16, reason ReasonCode) {
	r.completed = append(r.completed, ackEvent{id, reason})
}
func (r *recordingNotifications) SubscriptionGranted(id uint16, index int, qos QoSLevel) {
	r.granted = append(r.granted, grantEvent{id: id, index: index, qos: qos})
}
func (r *recordingNotifications) SubscriptionDeclined(id uint16, index int, code ReasonCode) {
	r.declined = append(r.declined, grantEvent{id: id, index: index, code: code})
}
func (r *recordingNotifications) Disconnected(err error) {
	r.disconnectedAt = append(r.disconnectedAt, err)
}
func (r *recordingNotifications) ReceivedDisconnect(code ReasonCode, str string) {
	r.receivedDisc = append(r.receivedDisc, discEvent{code, str})
}
func (r *recordingNotifications) PingReceived() { r.pings++ }

var _ Notifications = (*recordingNotifications)(nil)
