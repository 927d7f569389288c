package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := newHeader(PacketPublish, publishFlags(false, false, QoS1), 12)
	w := &writer{}
	h.encode(w)
	require.Equal(t, h.Size(), w.n)

	buf := make([]byte, w.n)
	w2 := &writer{buf: buf}
	h.encode(w2)

	got, n, err := decodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h.Size(), n)
	require.Equal(t, PacketPublish, got.Type())
	require.Equal(t, QoS1, got.Flags().QoS())
	require.Equal(t, uint32(12), got.RemainingLength)
}

func TestPublishFlagsBits(t *testing.T) {
	f := publishFlags(true, true, QoS2)
	require.True(t, f.Dup())
	require.True(t, f.Retain())
	require.Equal(t, QoS2, f.QoS())
}

func TestPtMask(t *testing.T) {
	var m ptMask
	m.add(PacketConnack)
	require.True(t, m.has(PacketConnack))
	require.False(t, m.has(PacketPublish))
	m.remove(PacketConnack)
	require.False(t, m.has(PacketConnack))
}
