package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintSize(t *testing.T) {
	cases := []struct {
		v    uint32
		size int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{maxVarintValue, 4},
		{maxVarintValue + 1, 0},
	}
	for _, c := range cases {
		require.Equal(t, c.size, VarintSize(c.v), "v=%d", c.v)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, maxVarintValue}
	for _, v := range values {
		buf := make([]byte, VarintSize(v))
		n := EncodeVarint(v, buf)
		require.Equal(t, len(buf), n)

		got, consumed, err := DecodeVarint(buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, consumed)
	}
}

func TestDecodeVarintTruncated(t *testing.T) {
	_, _, err := DecodeVarint([]byte{0x80})
	require.ErrorIs(t, err, ErrInvalidPacketSize)
}

func TestDecodeVarintNeverTerminates(t *testing.T) {
	_, _, err := DecodeVarint([]byte{0x80, 0x80, 0x80, 0x80})
	require.ErrorIs(t, err, ErrMalformedPacket)
}
