package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidUTF8Accepts(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("hello"),
		[]byte("a/b"),
		[]byte("sensors/x"),
		{0xC2, 0xA9},       // U+00A9, 2-byte
		{0xE2, 0x82, 0xAC}, // U+20AC euro sign, 3-byte
		{0xF0, 0x9F, 0x8C, 0x8D}, // U+1F30D globe, 4-byte
	}
	for _, c := range cases {
		require.True(t, ValidUTF8(c), "%x", c)
	}
}

func TestValidUTF8RejectsOverlong(t *testing.T) {
	cases := [][]byte{
		{0xC0, 0x80}, // overlong NUL
		{0xC1, 0xBF},
		{0xE0, 0x80, 0x80}, // overlong 3-byte
		{0xF0, 0x80, 0x80, 0x80},
	}
	for _, c := range cases {
		require.False(t, ValidUTF8(c), "%x", c)
	}
}

func TestValidUTF8RejectsSurrogates(t *testing.T) {
	// U+D800 encoded as a (forbidden) 3-byte sequence: ED A0 80.
	require.False(t, ValidUTF8([]byte{0xED, 0xA0, 0x80}))
	require.False(t, ValidUTF8([]byte{0xED, 0xBF, 0xBF}))
}

func TestValidUTF8RejectsAboveMax(t *testing.T) {
	require.False(t, ValidUTF8([]byte{0xF4, 0x90, 0x80, 0x80})) // > U+10FFFF
	require.False(t, ValidUTF8([]byte{0xF5, 0x80, 0x80, 0x80}))
}

func TestValidUTF8RejectsTruncated(t *testing.T) {
	require.False(t, ValidUTF8([]byte{0xE2, 0x82}))
	require.False(t, ValidUTF8([]byte{0xF0, 0x9F, 0x8C}))
	require.False(t, ValidUTF8([]byte{0xC2}))
}

func TestValidUTF8RejectsLoneContinuation(t *testing.T) {
	require.False(t, ValidUTF8([]byte{0x80}))
	require.False(t, ValidUTF8([]byte{0xFF}))
}
