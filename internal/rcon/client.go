package rcon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State is the session lifecycle position.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateReady
	StateClosed
)

var stateNames = map[State]string{
	StateDisconnected:   "disconnected",
	StateConnecting:     "connecting",
	StateAuthenticating: "authenticating",
	StateReady:          "ready",
	StateClosed:         "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

type outcome struct {
	body string
	err  error
}

type waiter struct {
	ch    chan outcome
	timer *time.Timer
}

// Client owns one remote-command session: the socket, the monotonically
// increasing request-id counter, and the pending-request table. Overlapping
// SendCommand calls are resolved out of order purely by request-id
// correlation. A Client is not reusable after Disconnect or a socket error.
type Client struct {
	addr     string
	password string
	cfg      Config

	mu      sync.Mutex
	state   State
	conn    net.Conn
	nextID  int32
	authID  int32
	pending map[int32]*waiter

	// writeMu keeps this session the sole writer on its socket without
	// holding mu across a blocking Write.
	writeMu sync.Mutex
}

// NewClient constructs a disconnected session for one instance address.
func NewClient(addr, password string, cfg Config) *Client {
	return &Client{
		addr:     addr,
		password: password,
		cfg:      cfg.WithDefaults(),
		state:    StateDisconnected,
		pending:  make(map[int32]*waiter),
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the transport and performs the single auth exchange. It
// resolves only once a response correlated to that specific auth request
// arrives. Transport problems (including a silent or prematurely closed
// peer) surface as ErrConnectFailed; rejected credentials as ErrAuthFailed.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: connect from state %s", ErrConnectFailed, st)
	}
	c.state = StateConnecting
	c.mu.Unlock()

	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		c.mu.Lock()
		if c.state == StateConnecting {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		c.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("%w: session closed during connect", ErrConnectFailed)
	}
	c.conn = conn
	c.state = StateAuthenticating
	id := c.allocIDLocked()
	w := c.addWaiterLocked(id)
	c.authID = id
	c.mu.Unlock()

	go c.readLoop(conn)

	if err := c.write(Packet{ID: id, Type: TypeAuth, Body: c.password}); err != nil {
		c.teardown(err)
		res := <-w.ch
		return fmt.Errorf("%w: %v", ErrConnectFailed, res.err)
	}

	var res outcome
	select {
	case <-ctx.Done():
		c.teardown(ctx.Err())
		<-w.ch
		return fmt.Errorf("%w: %v", ErrConnectFailed, ctx.Err())
	case res = <-w.ch:
	}
	if res.err != nil {
		c.teardown(res.err)
		if errors.Is(res.err, ErrAuthFailed) {
			return res.err
		}
		return fmt.Errorf("%w: %v", ErrConnectFailed, res.err)
	}

	c.mu.Lock()
	if c.state == StateAuthenticating {
		c.state = StateReady
	}
	ready := c.state == StateReady
	c.mu.Unlock()
	if !ready {
		return fmt.Errorf("%w: session closed during auth", ErrConnectFailed)
	}
	log.Info().Str("addr", c.addr).Msg("rcon session ready")
	return nil
}

// SendCommand relays one command and returns the correlated response body.
// Callers may issue overlapping commands; each resolves independently as
// its response arrives, regardless of arrival order.
func (c *Client) SendCommand(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	if c.state != StateReady {
		st := c.state
		c.mu.Unlock()
		return "", fmt.Errorf("%w: session state %s", ErrNotAuthenticated, st)
	}
	id := c.allocIDLocked()
	w := c.addWaiterLocked(id)
	c.mu.Unlock()

	if err := c.write(Packet{ID: id, Type: TypeCommand, Body: command}); err != nil {
		c.teardown(err)
		res := <-w.ch
		return "", res.err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		_, outstanding := c.pending[id]
		if outstanding {
			delete(c.pending, id)
			w.timer.Stop()
		}
		c.mu.Unlock()
		if outstanding {
			return "", ctx.Err()
		}
		// already resolved concurrently; the outcome is sitting in the
		// buffered channel
		res := <-w.ch
		return res.body, res.err
	case res := <-w.ch:
		return res.body, res.err
	}
}

// Disconnect closes the transport and rejects every pending call with
// ErrConnectionClosed. It is idempotent.
func (c *Client) Disconnect() error {
	c.teardown(nil)
	return nil
}

// allocIDLocked hands out the next request id. Ids start at 1 and increase
// monotonically; after wraparound an id is reused only once no outstanding
// request holds it.
func (c *Client) allocIDLocked() int32 {
	for {
		if c.nextID <= 0 {
			c.nextID = 1
		}
		id := c.nextID
		c.nextID++
		if _, busy := c.pending[id]; busy {
			continue
		}
		return id
	}
}

func (c *Client) addWaiterLocked(id int32) *waiter {
	w := &waiter{ch: make(chan outcome, 1)}
	w.timer = time.AfterFunc(c.cfg.CommandTimeout, func() { c.expire(id) })
	c.pending[id] = w
	return w
}

// expire removes a request whose correlation deadline fired. A response
// arriving later finds no pending entry and is dropped as unmatched.
func (c *Client) expire(id int32) {
	c.mu.Lock()
	w, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
		if id == c.authID {
			c.authID = 0
		}
	}
	c.mu.Unlock()
	if ok {
		w.ch <- outcome{err: ErrTimeout}
	}
}

// dispatch routes one decoded packet. A negative id while the auth request
// is in flight rejects that auth request and nothing else; any other
// unmatched id is dropped.
func (c *Client) dispatch(p Packet) {
	c.mu.Lock()
	if p.ID < 0 {
		if c.state == StateAuthenticating && c.authID != 0 {
			if w, ok := c.pending[c.authID]; ok {
				delete(c.pending, c.authID)
				w.timer.Stop()
				c.authID = 0
				c.mu.Unlock()
				w.ch <- outcome{err: ErrAuthFailed}
				return
			}
		}
		c.mu.Unlock()
		log.Debug().Int32("id", p.ID).Msg("rcon dropped out-of-band packet")
		return
	}
	w, ok := c.pending[p.ID]
	if ok {
		delete(c.pending, p.ID)
		w.timer.Stop()
		if p.ID == c.authID {
			c.authID = 0
		}
	}
	c.mu.Unlock()
	if !ok {
		log.Debug().Int32("id", p.ID).Msg("rcon dropped unmatched response")
		return
	}
	w.ch <- outcome{body: p.Body}
}

// readLoop reassembles inbound packets until the socket errors or the
// session is torn down. It is the only reader on the connection.
func (c *Client) readLoop(conn net.Conn) {
	asm := newReassembler(c.cfg.MaxFrameBytes)
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			pkts, ferr := asm.feed(buf[:n])
			for _, p := range pkts {
				c.dispatch(p)
			}
			if ferr != nil {
				log.Warn().Str("addr", c.addr).Err(ferr).Msg("rcon inbound stream corrupt")
				c.teardown(ferr)
				return
			}
		}
		if err != nil {
			c.teardown(err)
			return
		}
	}
}

// teardown moves the session to Closed exactly once, closes the transport,
// and fails every pending call with ErrConnectionClosed.
func (c *Client) teardown(cause error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	conn := c.conn
	c.conn = nil
	waiters := c.pending
	c.pending = make(map[int32]*waiter)
	c.authID = 0
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	for _, w := range waiters {
		w.timer.Stop()
		w.ch <- outcome{err: ErrConnectionClosed}
	}
	if cause != nil {
		log.Debug().Str("addr", c.addr).Err(cause).Int("rejected", len(waiters)).Msg("rcon session closed")
	}
}

func (c *Client) write(p Packet) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrConnectionClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := conn.Write(encodePacket(p))
	return err
}
