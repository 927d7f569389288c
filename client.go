package mqtt5

import "time"

// Client glues a Session to a concrete Transport and drives the polling
// loop a caller who doesn't have its own event loop can use directly.
type Client struct {
	*Session
	recvBuf   []byte
	keepAlive time.Duration
	lastPing  time.Time
}

// ClientOption configures a Client at construction.
type ClientOption func(*Client)

// WithKeepAlive sets the interval Poll sends an idle PINGREQ at, overriding
// the defaultKeepAlive-second default. Pass the same duration given as
// ConnectOptions.KeepAlive (in seconds) converted to a time.Duration; Poll
// does not read it back from ConnackInfo itself, since a server-shortened
// keep-alive still requires the client to ping at its own configured
// cadence, never slower.
func WithKeepAlive(d time.Duration) ClientOption {
	return func(c *Client) { c.keepAlive = d }
}

// WithRecvBufferHint sizes the scratch buffer Client.Poll requests
// from Transport.AllocRecvBuf. Ignored if the transport doesn't use the
// polling API.
func WithRecvBufferHint(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.recvBuf = make([]byte, n)
		}
	}
}

// NewClient builds a Client around transport and notif.
func NewClient(transport Transport, notif Notifications, opts ...ClientOption) (*Client, error) {
	sess, err := NewSession(transport, notif)
	if err != nil {
		return nil, err
	}
	c := &Client{
		Session:   sess,
		recvBuf:   make([]byte, defaultReceiveBufferLen),
		keepAlive: defaultKeepAlive * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Poll drives one iteration of the event loop: completes a deferred
// connect if one is outstanding, polls the transport for inbound bytes via
// Transport.Recv, and dispatches anything that arrived through
// Session.ProcessPacket. Callers with their own inbound data path (a
// transport that pushes bytes in via a callback instead of a blocking read)
// should call Session.ProcessPacket directly instead of Poll.
func (c *Client) Poll() error {
	if c.Session.deferredBuf != nil {
		if err := c.ContinueConnect(); err != nil && err != ErrPending {
			return err
		}
	}
	if c.Session.state != StateConnected {
		return nil
	}

	buf, status := c.transport.AllocRecvBuf(len(c.recvBuf))
	if status != StatusOK {
		return status.err()
	}
	n, status := c.transport.Recv(buf)
	defer c.transport.FreeRecvBuf(buf)
	switch status {
	case StatusPassed:
		return c.maybePing()
	case StatusOK:
		if n == 0 {
			return ErrHostUnavailable
		}
		if err := c.ProcessPacket(buf[:n]); err != nil {
			return err
		}
		return nil
	default:
		return status.err()
	}
}

func (c *Client) maybePing() error {
	if c.keepAlive <= 0 {
		return nil
	}
	if time.Since(c.lastPing) < c.keepAlive {
		return nil
	}
	c.lastPing = time.Now()
	return c.Ping()
}
