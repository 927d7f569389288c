package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPendingTableReserveRelease(t *testing.T) {
	tbl := newPendingTable()
	var counter uint16

	id1, err := tbl.reserveForOutbound(&counter, PacketPuback)
	require.NoError(t, err)
	require.Equal(t, uint16(1), id1)
	require.Equal(t, PacketPuback, tbl.expectedFor(id1))

	id2, err := tbl.reserveForOutbound(&counter, PacketSuback)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	require.NoError(t, tbl.release(id1))
	require.Equal(t, UNKNOWN, tbl.expectedFor(id1))

	require.NoError(t, tbl.release(id2))
	require.Equal(t, 0, tbl.n)
}

func TestPendingTableNoDuplicateIDs(t *testing.T) {
	tbl := newPendingTable()
	require.NoError(t, tbl.reserveForInbound(5, PacketPubrel))
	err := tbl.reserveForInbound(5, PacketPubrel)
	require.Error(t, err)
}

func TestPendingTablePacketIDZeroForbidden(t *testing.T) {
	tbl := newPendingTable()
	err := tbl.reserveForInbound(0, PacketPubrel)
	require.ErrorIs(t, err, ErrInvalidPacketID)
}

func TestPendingTableExhaustion(t *testing.T) {
	tbl := newPendingTable()
	var counter uint16
	for i := 0; i < ReceiveMaximum; i++ {
		_, err := tbl.reserveForOutbound(&counter, PacketPuback)
		require.NoError(t, err)
	}
	_, err := tbl.reserveForOutbound(&counter, PacketPuback)
	require.ErrorIs(t, err, ErrOutOfResource)
}

func TestPendingTableCounterWrapsSkippingZero(t *testing.T) {
	tbl := newPendingTable()
	counter := uint16(65535)
	id, err := tbl.reserveForOutbound(&counter, PacketPuback)
	require.NoError(t, err)
	require.Equal(t, uint16(1), id)
}

func TestPendingTableAdvance(t *testing.T) {
	tbl := newPendingTable()
	var counter uint16
	id, err := tbl.reserveForOutbound(&counter, PacketPubrec)
	require.NoError(t, err)

	tbl.advance(id, PacketPubcomp)
	require.Equal(t, PacketPubcomp, tbl.expectedFor(id))
	require.True(t, tbl.anyAwaits(PacketPubcomp))
	require.False(t, tbl.anyAwaits(PacketPubrec))
}

func TestPendingTableSizeRestoredAfterRoundTrip(t *testing.T) {
	tbl := newPendingTable()
	var counter uint16
	before := tbl.n
	id, err := tbl.reserveForOutbound(&counter, PacketPubrec) // simulate QoS2 PUBLISH
	require.NoError(t, err)
	tbl.advance(id, PacketPubcomp) // PUBREC in
	require.NoError(t, tbl.release(id)) // PUBCOMP in
	require.Equal(t, before, tbl.n)
}
