package mqtt5

import "log/slog"

// State is the Session's connection lifecycle state.
type State byte

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown state"
}

// ConnectOptions configures Session.Connect.
type ConnectOptions struct {
	ClientID   string
	CleanStart bool
	KeepAlive  uint16
	Properties Properties
	Username   Optional[string]
	Password   Optional[[]byte]
	Will       *WillMessage
}

// Session is the state machine: it owns connection lifecycle, the
// expected-packet-type mask, the pending table, and orchestrates the QoS
// 1/2 acknowledgement flows. Exactly one goroutine may call Session's
// methods concurrently; there is no internal locking.
type Session struct {
	transport Transport
	notif     Notifications
	logger    *slog.Logger

	state    State
	expected ptMask
	pending  *pendingTable
	connack  ConnackInfo

	packetIDCounter uint16
	keepAlive       uint16

	deferredBuf    []byte
	deferredHeader Header

	pendingSubs   map[uint16][]SubscriptionEntry
	pendingUnsubs map[uint16][]string
	activeSubs    []activeSubscription
}

// SessionOption configures a Session at construction via the functional
// options pattern.
type SessionOption func(*Session)

// WithLogger attaches a structured logger; packet tracing happens at Debug
// level, protocol-fatal events at Warn. Logging never gates control flow:
// a nil logger (the default) simply means no log lines are emitted.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession constructs a Session bound to transport and notif. notif may
// be NoopNotifications{} if the caller only wants to drive Publish/Subscribe
// and doesn't care about inbound events.
func NewSession(transport Transport, notif Notifications, opts ...SessionOption) (*Session, error) {
	if transport == nil || notif == nil {
		return nil, ErrNullReference
	}
	s := &Session{
		transport: transport,
		notif:     notif,
		pending:   newPendingTable(),
		expected:  maskOf(PacketPingreq),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Session) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// State reports the current connection lifecycle state.
func (s *Session) State() State { return s.state }

// ConnackInfo reports the server limits captured on the last successful
// CONNACK. Zero value before any CONNECT completes.
func (s *Session) ConnackInfo() ConnackInfo { return s.connack }

// Connect opens the transport and sends CONNECT. If the transport reports a
// deferred (asynchronous) connect, Connect returns ErrPending and the
// caller must call ContinueConnect once Transport.Connected() reports true.
func (s *Session) Connect(address string, opts ConnectOptions) error {
	if s.state != StateDisconnected {
		return ErrNotConnected
	}
	c := &ConnectPacket{
		ClientID:   opts.ClientID,
		CleanStart: opts.CleanStart,
		KeepAlive:  opts.KeepAlive,
		Properties: opts.Properties,
		Username:   opts.Username,
		Password:   opts.Password,
		Will:       opts.Will,
	}
	if err := c.validate(); err != nil {
		return err
	}
	s.keepAlive = opts.KeepAlive

	status := s.transport.OpenConn(address)
	switch status {
	case StatusOK:
	case StatusPending:
	default:
		return status.err()
	}

	header := planPacket(c)
	total := header.Size() + int(header.RemainingLength)
	buf, allocStatus := s.transport.AllocSendBuf(total)
	if allocStatus != StatusOK {
		return allocStatus.err()
	}
	encodePacket(header, c, buf)

	s.state = StateConnecting
	s.expected.add(PacketConnack)

	if !s.transport.Connected() {
		s.deferredBuf = buf
		s.deferredHeader = header
		s.logDebug("connect deferred", "address", address)
		return ErrPending
	}
	return s.sendConnectBuf(buf)
}

func (s *Session) sendConnectBuf(buf []byte) error {
	sendStatus := s.transport.Send(buf)
	s.transport.FreeSendBuf(buf)
	if sendStatus != StatusOK {
		s.state = StateDisconnected
		s.expected = maskOf(PacketPingreq)
		return sendStatus.err()
	}
	s.logDebug("sent CONNECT")
	return nil
}

// ContinueConnect completes a deferred Connect once the caller observes
// Transport.Connected() reporting true.
func (s *Session) ContinueConnect() error {
	if s.deferredBuf == nil {
		return nil
	}
	if !s.transport.Connected() {
		return ErrPending
	}
	buf := s.deferredBuf
	s.deferredBuf = nil
	return s.sendConnectBuf(buf)
}

// Disconnect sends a DISCONNECT (if connected) and closes the transport.
func (s *Session) Disconnect(reasonCode ReasonCode) error {
	if s.state == StateConnected {
		d := &DisconnectPacket{ReasonCode: reasonCode}
		_ = s.sendPacket(d) // best-effort: teardown proceeds regardless
	}
	closeStatus := s.transport.CloseConn()
	s.state = StateDisconnected
	s.expected = maskOf(PacketPingreq)
	s.pending.reset()
	s.resetSubs()
	s.notif.Disconnected(nil)
	if closeStatus != StatusOK {
		return closeStatus.err()
	}
	return nil
}

// Ping sends a PINGREQ.
func (s *Session) Ping() error {
	if s.state != StateConnected {
		return ErrNotConnected
	}
	if err := s.sendPacket(pingreqPacket{}); err != nil {
		return err
	}
	s.expected.add(PacketPingresp)
	return nil
}

// Publish sends a PUBLISH and, for QoS 1/2, reserves a pending-table slot
// for the acknowledgement that will settle it.
func (s *Session) Publish(msg *PublishMessage) error {
	if s.state != StateConnected {
		return ErrNotConnected
	}
	if err := msg.validate(); err != nil {
		return err
	}
	if msg.QoS > s.connack.MaxQoS {
		return ErrQoSNotSupported
	}
	if msg.Retain && !s.connack.RetainAvailable {
		return ErrRetainNotSupported
	}

	var expect PacketType
	switch msg.QoS {
	case QoS1:
		expect = PacketPuback
	case QoS2:
		expect = PacketPubrec
	}
	if msg.QoS > QoS0 {
		id, err := s.pending.reserveForOutbound(&s.packetIDCounter, expect)
		if err != nil {
			return err
		}
		msg.PacketID = id
	}

	if err := s.sendPacket(msg); err != nil {
		if msg.QoS > QoS0 {
			s.pending.release(msg.PacketID)
		}
		return err
	}
	if msg.QoS > QoS0 {
		s.expected.add(expect)
	}
	return nil
}

// Subscribe sends a SUBSCRIBE for every entry in one packet.
func (s *Session) Subscribe(entries []SubscriptionEntry) (uint16, error) {
	if s.state != StateConnected {
		return 0, ErrNotConnected
	}
	if len(entries) == 0 {
		return 0, ErrInvalidArgument
	}
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return 0, err
		}
		if e.QoS > s.connack.MaxQoS {
			return 0, ErrQoSNotSupported
		}
		if _, shared := sharedGroup(e.TopicFilter); shared && !s.connack.SharedSubAvailable {
			return 0, ErrUnsupported
		}
		if isWildcard(e.TopicFilter) && !s.connack.WildcardSubAvailable {
			return 0, ErrUnsupported
		}
	}
	id, err := s.pending.reserveForOutbound(&s.packetIDCounter, PacketSuback)
	if err != nil {
		return 0, err
	}
	pkt := &SubscribePacket{PacketID: id, Entries: entries}
	if err := s.sendPacket(pkt); err != nil {
		s.pending.release(id)
		return 0, err
	}
	s.expected.add(PacketSuback)
	if s.pendingSubs == nil {
		s.pendingSubs = make(map[uint16][]SubscriptionEntry)
	}
	s.pendingSubs[id] = entries
	return id, nil
}

// Unsubscribe sends an UNSUBSCRIBE for the given filters in one packet.
func (s *Session) Unsubscribe(filters []string) (uint16, error) {
	if s.state != StateConnected {
		return 0, ErrNotConnected
	}
	if len(filters) == 0 {
		return 0, ErrInvalidArgument
	}
	for _, f := range filters {
		if err := ValidateTopicFilter(f); err != nil {
			return 0, err
		}
	}
	id, err := s.pending.reserveForOutbound(&s.packetIDCounter, PacketUnsuback)
	if err != nil {
		return 0, err
	}
	pkt := &UnsubscribePacket{PacketID: id, TopicFilters: filters}
	if err := s.sendPacket(pkt); err != nil {
		s.pending.release(id)
		return 0, err
	}
	s.expected.add(PacketUnsuback)
	if s.pendingUnsubs == nil {
		s.pendingUnsubs = make(map[uint16][]string)
	}
	s.pendingUnsubs[id] = filters
	return id, nil
}

// sendPacket runs the shared two-pass build/send/free sequence every
// outbound packet goes through.
func (s *Session) sendPacket(b packetBuilder) error {
	header := planPacket(b)
	total := header.Size() + int(header.RemainingLength)
	buf, allocStatus := s.transport.AllocSendBuf(total)
	if allocStatus != StatusOK {
		return allocStatus.err()
	}
	encodePacket(header, b, buf)
	sendStatus := s.transport.Send(buf)
	s.transport.FreeSendBuf(buf)
	if sendStatus != StatusOK {
		return sendStatus.err()
	}
	s.logDebug("sent packet", "type", b.packetType().String())
	return nil
}

func (s *Session) sendPubStatus(ptype PacketType, id uint16, reason ReasonCode) error {
	return s.sendPacket(&pubStatusPacket{ptype: ptype, PacketID: id, ReasonCode: reason})
}

// ProcessPacket parses one complete wire packet out of buf and dispatches
// it, firing Notifications as appropriate. buf must hold exactly one
// packet's bytes (fixed header through the end of its payload); the
// transport (or a Transport.Recv loop) is responsible for framing. The
// payload slice inside any fired ReceivedPublish borrows directly from buf
// and is invalid once ProcessPacket returns.
func (s *Session) ProcessPacket(buf []byte) error {
	header, headerSize, err := decodeHeader(buf)
	if err != nil {
		return err
	}
	if len(buf) != headerSize+int(header.RemainingLength) {
		return ErrInvalidPacketSize
	}
	pt := header.Type()
	if !s.expected.has(pt) {
		s.logWarn("unexpected packet type", "type", pt.String())
		return ErrUnexpectedPacketType
	}

	body := buf[headerSize:]
	r := newReader(body)

	switch pt {
	case PacketConnack:
		return s.handleConnack(r)
	case PacketPublish:
		return s.handlePublish(r, header.Flags())
	case PacketPuback:
		return s.handlePubAck(r)
	case PacketPubrec:
		return s.handlePubRec(r)
	case PacketPubrel:
		return s.handlePubRel(r)
	case PacketPubcomp:
		return s.handlePubComp(r)
	case PacketSuback:
		return s.handleSuback(r)
	case PacketUnsuback:
		return s.handleUnsuback(r)
	case PacketDisconnect:
		return s.handleDisconnect(r)
	case PacketPingresp:
		s.notif.PingReceived()
		return nil
	default:
		return ErrUnexpectedPacketType
	}
}

func (s *Session) handleConnack(r *reader) error {
	info, err := decodeConnack(r, s.keepAlive)
	if err != nil {
		return err
	}
	if info.ReasonCode.IsError() {
		s.state = StateDisconnected
		s.expected = maskOf(PacketPingreq)
		s.pending.reset()
		s.resetSubs()
		return declinedError(byte(info.ReasonCode), info.ReasonString)
	}
	s.state = StateConnected
	s.connack = info
	s.expected.add(PacketPublish)
	s.expected.add(PacketDisconnect)
	s.notif.Connected(info)
	return nil
}

func (s *Session) handlePublish(r *reader, flags PacketFlags) error {
	qos := flags.QoS()
	d, err := decodePublish(r, qos)
	if err != nil {
		return err
	}
	rp := ReceivedPublish{
		Topic:      d.Topic,
		Payload:    d.Payload,
		PacketID:   d.PacketID,
		QoS:        qos,
		Retain:     flags.Retain(),
		Dup:        flags.Dup(),
		Properties: d.Properties,
	}
	if d.Properties.ResponseTopic.Set {
		rp.ResponseTopic = d.Properties.ResponseTopic.Value
	}
	if d.Properties.ContentType.Set {
		rp.ContentType = d.Properties.ContentType.Value
	}
	if d.Properties.CorrelationData.Set {
		if len(d.Properties.CorrelationData.Value) <= CorrelationDataMaximum {
			rp.CorrelationData = d.Properties.CorrelationData.Value
		} else {
			rp.Properties.CorrelationData = Optional[[]byte]{}
		}
	}
	rp.MatchedFilters = matchingFilters(s.activeSubs, d.Topic)

	switch qos {
	case QoS0:
		s.notif.PublishReceived(rp)
	case QoS1:
		if err := s.sendPubStatus(PacketPuback, d.PacketID, ReasonSuccess); err != nil {
			return err
		}
		s.notif.PublishReceived(rp)
	case QoS2:
		if err := s.sendPubStatus(PacketPubrec, d.PacketID, ReasonSuccess); err != nil {
			return err
		}
		if err := s.pending.reserveForInbound(d.PacketID, PacketPubrel); err != nil {
			return err
		}
		s.expected.add(PacketPubrel)
		s.notif.PublishReceived(rp)
	default:
		return ErrInvalidQoS
	}
	return nil
}

func (s *Session) handlePubAck(r *reader) error {
	id, reason, _, err := decodePubStatus(r)
	if err != nil {
		return err
	}
	if s.pending.expectedFor(id) != PacketPuback {
		return ErrUnexpectedPacketType
	}
	s.pending.release(id)
	if !s.pending.anyAwaits(PacketPuback) {
		s.expected.remove(PacketPuback)
	}
	s.notif.PublishAcknowledged(id, reason)
	return nil
}

func (s *Session) handlePubRec(r *reader) error {
	id, _, _, err := decodePubStatus(r)
	if err != nil {
		return err
	}
	if s.pending.expectedFor(id) != PacketPubrec {
		return ErrUnexpectedPacketType
	}
	s.pending.advance(id, PacketPubcomp)
	s.expected.add(PacketPubcomp)
	if !s.pending.anyAwaits(PacketPubrec) {
		s.expected.remove(PacketPubrec)
	}
	return s.sendPacket(&pubStatusPacket{ptype: PacketPubrel, PacketID: id, ReasonCode: ReasonSuccess})
}

func (s *Session) handlePubRel(r *reader) error {
	id, _, _, err := decodePubStatus(r)
	if err != nil {
		return err
	}
	if s.pending.expectedFor(id) != PacketPubrel {
		return ErrUnexpectedPacketType
	}
	s.pending.release(id)
	if !s.pending.anyAwaits(PacketPubrel) {
		s.expected.remove(PacketPubrel)
	}
	return s.sendPacket(&pubStatusPacket{ptype: PacketPubcomp, PacketID: id, ReasonCode: ReasonSuccess})
}

func (s *Session) handlePubComp(r *reader) error {
	id, reason, _, err := decodePubStatus(r)
	if err != nil {
		return err
	}
	if s.pending.expectedFor(id) != PacketPubcomp {
		return ErrUnexpectedPacketType
	}
	s.pending.release(id)
	if !s.pending.anyAwaits(PacketPubcomp) {
		s.expected.remove(PacketPubcomp)
	}
	s.notif.PublishCompleted(id, reason)
	return nil
}

func (s *Session) handleSuback(r *reader) error {
	id, _, reasons, err := decodeSuback(r)
	if err != nil {
		return err
	}
	if s.pending.expectedFor(id) != PacketSuback {
		return ErrUnexpectedPacketType
	}
	s.pending.release(id)
	if !s.pending.anyAwaits(PacketSuback) {
		s.expected.remove(PacketSuback)
	}
	entries := s.pendingSubs[id]
	delete(s.pendingSubs, id)
	for i, rc := range reasons {
		if rc <= ReasonGrantedQoS2 {
			s.notif.SubscriptionGranted(id, i, QoSLevel(rc))
			if i < len(entries) {
				filter := entries[i].TopicFilter
				s.activeSubs = append(s.activeSubs, activeSubscription{
					filter: filter,
					parts:  splitFilterParts(filter),
					qos:    QoSLevel(rc),
				})
			}
		} else {
			s.notif.SubscriptionDeclined(id, i, rc)
		}
	}
	return nil
}

func (s *Session) handleUnsuback(r *reader) error {
	id, _, reasons, err := decodeUnsuback(r)
	if err != nil {
		return err
	}
	if s.pending.expectedFor(id) != PacketUnsuback {
		return ErrUnexpectedPacketType
	}
	s.pending.release(id)
	if !s.pending.anyAwaits(PacketUnsuback) {
		s.expected.remove(PacketUnsuback)
	}
	filters := s.pendingUnsubs[id]
	delete(s.pendingUnsubs, id)
	for i, rc := range reasons {
		s.notif.Unsubscribed(id, i, rc)
		if i < len(filters) {
			s.removeActiveSub(filters[i])
		}
	}
	return nil
}

// resetSubs clears subscription tracking on disconnect: a fresh connection
// starts with no broker-granted filters until it resubscribes.
func (s *Session) resetSubs() {
	s.pendingSubs = nil
	s.pendingUnsubs = nil
	s.activeSubs = nil
}

// removeActiveSub drops filter from the tracked active-subscription set,
// e.g. once an UNSUBACK confirms it regardless of the broker's reported
// reason code (no entry is a no-op).
func (s *Session) removeActiveSub(filter string) {
	for i, sub := range s.activeSubs {
		if sub.filter == filter {
			s.activeSubs = append(s.activeSubs[:i], s.activeSubs[i+1:]...)
			return
		}
	}
}

func (s *Session) handleDisconnect(r *reader) error {
	reason, props, err := decodeDisconnect(r)
	if err != nil {
		return err
	}
	reasonString := ""
	if props.ReasonString.Set {
		reasonString = props.ReasonString.Value
	}
	s.state = StateDisconnected
	s.expected = maskOf(PacketPingreq)
	s.pending.reset()
	s.resetSubs()
	s.transport.CloseConn()
	s.notif.ReceivedDisconnect(reason, reasonString)
	return nil
}
