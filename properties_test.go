package mqtt5

import (
	"testing"

	"github.com/jinzhu/copier"
	"github.com/stretchr/testify/require"
)

func TestPropertiesEncodeDecodeRoundTrip(t *testing.T) {
	p := Properties{
		PayloadFormatIndicator: some[byte](1),
		MessageExpiryInterval:  some[uint32](3600),
		ContentType:            some("text/plain"),
		ResponseTopic:          some("reply/to/me"),
		CorrelationData:        some([]byte{1, 2, 3}),
		SubscriptionIdentifier: some[uint32](7),
		User: []UserProperty{
			{Key: "k1", Value: "v1"},
			{Key: "k2", Value: "v2"},
		},
	}

	w := &writer{}
	p.encode(w)
	buf := make([]byte, w.n)
	w2 := &writer{buf: buf}
	p.encode(w2)
	require.Equal(t, w.n, w2.n)

	lenBuf := make([]byte, VarintSize(uint32(len(buf))))
	EncodeVarint(uint32(len(buf)), lenBuf)
	full := append(append([]byte(nil), lenBuf...), buf...)
	r := newReader(full)

	got, err := decodeProperties(r)
	require.NoError(t, err)
	require.Equal(t, p.PayloadFormatIndicator, got.PayloadFormatIndicator)
	require.Equal(t, p.MessageExpiryInterval, got.MessageExpiryInterval)
	require.Equal(t, p.ContentType, got.ContentType)
	require.Equal(t, p.ResponseTopic, got.ResponseTopic)
	require.Equal(t, p.CorrelationData, got.CorrelationData)
	require.Equal(t, p.SubscriptionIdentifier, got.SubscriptionIdentifier)
	require.Equal(t, p.User, got.User)
}

func TestPropertiesUnknownIdentifier(t *testing.T) {
	// identifier 0x7F is not in the registry.
	buf := []byte{0x02, 0x7F, 0x00}
	r := newReader(buf)
	_, err := decodeProperties(r)
	require.ErrorIs(t, err, ErrUnknownIdentifier)
}

func TestPropertiesCloneDetachesBuffers(t *testing.T) {
	backing := []byte{9, 9, 9}
	p := Properties{CorrelationData: some(backing), User: []UserProperty{{Key: "k", Value: "v"}}}

	// A plain struct copy (as copier.Copy would also produce for the
	// non-slice fields) still aliases the backing arrays...
	shallow := p
	shallow.CorrelationData.Value[0] = 1
	require.Equal(t, byte(1), backing[0], "sanity check: Go struct assignment aliases slice backing arrays")
	backing[0] = 9

	// ...but clone() must detach them so a session can safely hand
	// Properties to a callback that outlives the receive buffer.
	detached := p.clone()
	detached.CorrelationData.Value[0] = 1
	require.Equal(t, byte(9), backing[0])

	var snapshot Properties
	require.NoError(t, copier.Copy(&snapshot, &p))
	require.Equal(t, p.ContentType, snapshot.ContentType)
}
