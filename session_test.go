package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenarios below exercise QoS 0/1/2 publish, subscribe+receive, malformed
// size and UTF-8 rejection flows end to end through a mock transport,
// asserting on decoded content, notifications fired and state reached
// rather than hand-copied byte strings: see DESIGN.md for why.

func connectedSession(t *testing.T) (*Session, *mockTransport, *recordingNotifications) {
	t.Helper()
	tr := newMockTransport()
	notif := &recordingNotifications{}
	s, err := NewSession(tr, notif)
	require.NoError(t, err)

	err = s.Connect("broker.example:1883", ConnectOptions{ClientID: "c1", CleanStart: true, KeepAlive: 60})
	require.NoError(t, err)
	require.Equal(t, StateConnecting, s.State())

	connack := buildConnackBytes(t, ReasonSuccess, false)
	require.NoError(t, s.ProcessPacket(connack))
	require.Equal(t, StateConnected, s.State())
	require.Len(t, notif.connected, 1)
	return s, tr, notif
}

// buildConnackBytes hand-assembles a minimal CONNACK packet for injection
// into ProcessPacket, mirroring what a real broker would send.
func buildConnackBytes(t *testing.T, reason ReasonCode, sessionPresent bool) []byte {
	t.Helper()
	w := &writer{}
	var ackFlags byte
	if sessionPresent {
		ackFlags = 1
	}
	w.putByte(ackFlags)
	w.putByte(byte(reason))
	w.putVarint(0) // empty properties

	header := newHeader(PacketConnack, 0, uint32(w.n))
	buf := make([]byte, header.Size()+w.n)
	ew := &writer{buf: buf}
	header.encode(ew)
	ew.putByte(ackFlags)
	ew.putByte(byte(reason))
	ew.putVarint(0)
	return buf
}

func buildPubStatusBytes(t *testing.T, ptype PacketType, id uint16, reason ReasonCode) []byte {
	t.Helper()
	pkt := &pubStatusPacket{ptype: ptype, PacketID: id, ReasonCode: reason}
	header := planPacket(pkt)
	buf := make([]byte, header.Size()+int(header.RemainingLength))
	encodePacket(header, pkt, buf)
	return buf
}

func TestScenarioS1_QoS0PublishEndToEnd(t *testing.T) {
	s, tr, _ := connectedSession(t)

	err := s.Publish(&PublishMessage{Topic: "a/b", Payload: []byte("hi"), QoS: QoS0})
	require.NoError(t, err)

	sent := tr.lastSent()
	require.NotNil(t, sent)
	header, n, err := decodeHeader(sent)
	require.NoError(t, err)
	require.Equal(t, PacketPublish, header.Type())
	require.Equal(t, QoS0, header.Flags().QoS())

	body := sent[n:]
	r := newReader(body)
	d, err := decodePublish(r, QoS0)
	require.NoError(t, err)
	require.Equal(t, "a/b", d.Topic)
	require.Equal(t, uint16(0), d.PacketID)
	require.Equal(t, []byte("hi"), d.Payload)

	// QoS 0 never touches the pending table.
	require.Equal(t, 0, s.pending.n)
}

func TestScenarioS2_QoS1Publish(t *testing.T) {
	s, tr, notif := connectedSession(t)
	_ = tr

	err := s.Publish(&PublishMessage{Topic: "a/b", Payload: []byte("hi"), QoS: QoS1})
	require.NoError(t, err)
	require.Equal(t, uint16(1), s.pending.slots[0].id)
	require.True(t, s.expected.has(PacketPuback))

	puback := buildPubStatusBytes(t, PacketPuback, 1, ReasonSuccess)
	require.NoError(t, s.ProcessPacket(puback))

	require.Len(t, notif.acked, 1)
	require.Equal(t, uint16(1), notif.acked[0].id)
	require.Equal(t, 0, s.pending.n)
	require.False(t, s.expected.has(PacketPuback))
}

func TestScenarioS3_QoS2PublishFullFlow(t *testing.T) {
	s, tr, notif := connectedSession(t)
	_ = tr

	err := s.Publish(&PublishMessage{Topic: "a/b", Payload: []byte("hi"), QoS: QoS2})
	require.NoError(t, err)
	require.True(t, s.expected.has(PacketPubrec))

	pubrec := buildPubStatusBytes(t, PacketPubrec, 1, ReasonSuccess)
	require.NoError(t, s.ProcessPacket(pubrec))
	require.Equal(t, PacketPubcomp, s.pending.expectedFor(1))
	require.True(t, s.expected.has(PacketPubcomp))

	pubcomp := buildPubStatusBytes(t, PacketPubcomp, 1, ReasonSuccess)
	require.NoError(t, s.ProcessPacket(pubcomp))
	require.Len(t, notif.completed, 1)
	require.Equal(t, 0, s.pending.n)

	// A duplicate PUBCOMP afterward is unexpected: the slot is gone and
	// PUBCOMP is no longer in expected_ptypes.
	err = s.ProcessPacket(pubcomp)
	require.ErrorIs(t, err, ErrUnexpectedPacketType)
}

func TestScenarioS4_SubscribeAndReceive(t *testing.T) {
	s, tr, notif := connectedSession(t)

	id, err := s.Subscribe([]SubscriptionEntry{{TopicFilter: "sensors/+", QoS: QoS1}})
	require.NoError(t, err)
	require.Equal(t, uint16(1), id)

	sent := tr.lastSent()
	header, n, err := decodeHeader(sent)
	require.NoError(t, err)
	require.Equal(t, reservedFlags, header.Flags())
	_ = n

	// SUBACK granting QoS 1 for the single entry.
	subackPkt := &struct {
		id      uint16
		reasons []ReasonCode
	}{id: 1, reasons: []ReasonCode{ReasonGrantedQoS1}}
	suback := buildSubackBytes(t, subackPkt.id, subackPkt.reasons)
	require.NoError(t, s.ProcessPacket(suback))
	require.Len(t, notif.granted, 1)
	require.Equal(t, QoS1, notif.granted[0].qos)
	require.False(t, s.expected.has(PacketSuback))

	pub := &PublishMessage{Topic: "sensors/x", Payload: []byte("23.5"), QoS: QoS1, PacketID: 42}
	header2 := planPacket(pub)
	buf := make([]byte, header2.Size()+int(header2.RemainingLength))
	encodePacket(header2, pub, buf)

	require.NoError(t, s.ProcessPacket(buf))
	require.Len(t, notif.published, 1)
	require.Equal(t, "sensors/x", notif.published[0].Topic)
	require.Equal(t, []byte("23.5"), notif.published[0].Payload)
	require.Equal(t, []string{"sensors/+"}, notif.published[0].MatchedFilters)

	// The engine must have answered with a PUBACK for that QoS 1 publish.
	require.Len(t, tr.Sent, 3) // CONNECT, SUBSCRIBE, then PUBACK for the received publish
}

func buildSubackBytes(t *testing.T, packetID uint16, reasons []ReasonCode) []byte {
	t.Helper()
	w := &writer{}
	w.putUint16(packetID)
	w.putVarint(0)
	for _, rc := range reasons {
		w.putByte(byte(rc))
	}
	header := newHeader(PacketSuback, 0, uint32(w.n))
	buf := make([]byte, header.Size()+w.n)
	ew := &writer{buf: buf}
	header.encode(ew)
	ew.putUint16(packetID)
	ew.putVarint(0)
	for _, rc := range reasons {
		ew.putByte(byte(rc))
	}
	return buf
}

func TestScenarioS5_MalformedPacketSize(t *testing.T) {
	s, _, _ := connectedSession(t)

	// Fixed header declares remaining length 20 but only 18 bytes of body
	// follow.
	buf := []byte{0x30, 20}
	buf = append(buf, make([]byte, 18)...)
	err := s.ProcessPacket(buf)
	require.ErrorIs(t, err, ErrInvalidPacketSize)
}

func TestScenarioS6_UTF8RejectionLeavesSessionConnected(t *testing.T) {
	s, _, notif := connectedSession(t)

	// Topic bytes ED A0 80 encode a surrogate code point, which is invalid
	// UTF-8: length-prefixed topic "\xED\xA0\x80", qos0, empty properties,
	// no payload.
	w := &writer{}
	w.putUint16(3)
	w.putBytes([]byte{0xED, 0xA0, 0x80})
	w.putVarint(0)
	header := newHeader(PacketPublish, publishFlags(false, false, QoS0), uint32(w.n))
	buf := make([]byte, header.Size()+w.n)
	ew := &writer{buf: buf}
	header.encode(ew)
	ew.putUint16(3)
	ew.putBytes([]byte{0xED, 0xA0, 0x80})
	ew.putVarint(0)

	err := s.ProcessPacket(buf)
	require.ErrorIs(t, err, ErrInvalidEncoding)
	require.Equal(t, StateConnected, s.State())
	require.Empty(t, notif.published)
}

func TestConnackServerDeclinedTransitionsToDisconnected(t *testing.T) {
	tr := newMockTransport()
	notif := &recordingNotifications{}
	s, err := NewSession(tr, notif)
	require.NoError(t, err)
	require.NoError(t, s.Connect("broker.example:1883", ConnectOptions{ClientID: "c1", CleanStart: true}))

	connack := buildConnackBytes(t, ReasonBadUsernameOrPassword, false)
	err = s.ProcessPacket(connack)
	require.ErrorIs(t, err, ErrServerDeclined)
	require.Equal(t, StateDisconnected, s.State())
	require.True(t, s.expected.has(PacketPingreq))
	require.False(t, s.expected.has(PacketPublish))
}

func TestPublishBeforeConnectedFails(t *testing.T) {
	tr := newMockTransport()
	s, err := NewSession(tr, &recordingNotifications{})
	require.NoError(t, err)
	err = s.Publish(&PublishMessage{Topic: "a", QoS: QoS0})
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestDeferredConnect(t *testing.T) {
	tr := newMockTransport()
	tr.deferred = true
	s, err := NewSession(tr, &recordingNotifications{})
	require.NoError(t, err)

	err = s.Connect("broker.example:1883", ConnectOptions{ClientID: "c1"})
	require.ErrorIs(t, err, ErrPending)
	require.Equal(t, StateConnecting, s.State())
	require.Empty(t, tr.Sent)

	require.ErrorIs(t, s.ContinueConnect(), ErrPending)

	tr.connected = true
	require.NoError(t, s.ContinueConnect())
	require.Len(t, tr.Sent, 1)
}

func TestUnsubscribeClearsActiveSub(t *testing.T) {
	s, _, notif := connectedSession(t)

	subID, err := s.Subscribe([]SubscriptionEntry{{TopicFilter: "sensors/+", QoS: QoS1}})
	require.NoError(t, err)
	require.NoError(t, s.ProcessPacket(buildSubackBytes(t, subID, []ReasonCode{ReasonGrantedQoS1})))
	require.Len(t, notif.granted, 1)
	require.Len(t, s.activeSubs, 1)
	require.Equal(t, "sensors/+", s.activeSubs[0].filter)

	unsubID, err := s.Unsubscribe([]string{"sensors/+"})
	require.NoError(t, err)
	require.NoError(t, s.ProcessPacket(buildUnsubackBytes(t, unsubID, []ReasonCode{ReasonSuccess})))
	require.Empty(t, s.activeSubs)
}

func buildUnsubackBytes(t *testing.T, packetID uint16, reasons []ReasonCode) []byte {
	t.Helper()
	w := &writer{}
	w.putUint16(packetID)
	w.putVarint(0)
	for _, rc := range reasons {
		w.putByte(byte(rc))
	}
	header := newHeader(PacketUnsuback, 0, uint32(w.n))
	buf := make([]byte, header.Size()+w.n)
	ew := &writer{buf: buf}
	header.encode(ew)
	ew.putUint16(packetID)
	ew.putVarint(0)
	for _, rc := range reasons {
		ew.putByte(byte(rc))
	}
	return buf
}
