package mqtt5

// Status is the non-terminal/terminal outcome a Transport method returns.
// Busy and Pending are non-terminal: they surface as ErrBusy and ErrPending
// rather than as a failure kind.
type Status byte

const (
	StatusOK Status = iota
	StatusBusy
	StatusPending
	StatusPassed // recv: nothing ready
	StatusHostUnavailable
	StatusHwFailure
	StatusOutOfMemory
	StatusInvalidData
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusy:
		return "busy"
	case StatusPending:
		return "pending"
	case StatusPassed:
		return "passed"
	case StatusHostUnavailable:
		return "host unavailable"
	case StatusHwFailure:
		return "hardware failure"
	case StatusOutOfMemory:
		return "out of memory"
	case StatusInvalidData:
		return "invalid data"
	}
	return "unknown status"
}

// err converts a Status into the matching Error, or nil for OK. Busy and
// Pending map to ErrBusy and ErrPending so a caller can tell "retry later"
// and "in progress" apart from a failure.
func (s Status) err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusBusy:
		return ErrBusy
	case StatusPending:
		return ErrPending
	case StatusHostUnavailable:
		return ErrHostUnavailable
	case StatusHwFailure:
		return ErrHwFailure
	case StatusOutOfMemory:
		return ErrOutOfMemory
	case StatusInvalidData:
		return ErrMalformedPacket
	default:
		return ErrSwFailure
	}
}

// Transport is the adapter contract: the engine owns no socket and never
// assumes TCP. Any reliable in-order byte stream implementation suffices,
// including one where Recv is never called because inbound bytes are
// pushed in via Session.ProcessPacket from a callback instead.
type Transport interface {
	// OpenConn begins connecting to address. It may return StatusPending to
	// signal a deferred connect; the caller must poll Connected until it
	// reports true.
	OpenConn(address string) Status
	// CloseConn tears down the connection. Idempotent.
	CloseConn() Status
	// Connected reports the current live connection state. Transports that
	// connect synchronously always return true immediately after a
	// StatusOK OpenConn.
	Connected() bool

	// AllocSendBuf returns a buffer of exactly length n bytes for a single
	// outbound packet. The engine calls FreeSendBuf on every exit path.
	AllocSendBuf(n int) ([]byte, Status)
	FreeSendBuf(buf []byte)

	// Send transmits buf in full or fails; partial sends are reported as
	// StatusInvalidData.
	Send(buf []byte) Status

	// AllocRecvBuf and FreeRecvBuf back the optional polling API (Recv);
	// transports that only ever push bytes via Session.ProcessPacket may
	// implement these as no-ops returning a nil slice.
	AllocRecvBuf(hint int) ([]byte, Status)
	FreeRecvBuf(buf []byte)

	// Recv polls for inbound data, writing into buf and returning the
	// number of bytes placed. StatusPassed means nothing was ready. A
	// zero-length successful read must be reported as StatusHostUnavailable,
	// since a real peer close would otherwise look identical to "nothing to
	// read yet".
	Recv(buf []byte) (n int, status Status)
}
