package tmi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport is the frame-oriented duplex byte channel collaborator spec.md
// §6 describes as deliberately out of scope — the client drives it through
// this interface rather than owning a concrete socket, so tests can supply
// a fake implementation. The default implementation (wsTransport, below)
// is a thin adapter over gorilla/websocket, the library the teacher itself
// depends on.
type Transport interface {
	Start(ctx context.Context, uri string) error
	Send(ctx context.Context, data []byte, suppressLog bool) error
	Disconnect(ctx context.Context) error
	Restart(ctx context.Context, delay time.Duration) error
	IsConnected() bool

	OnConnect(func())
	OnReconnect(func())
	OnDisconnect(func())
	OnData(func([]byte))
	OnLog(func(level, msg string))
	OnLogException(func(err error))
}

// wsTransport is the default Transport, a gorilla/websocket duplex
// connection. Grounded on the teacher's direct *websocket.Conn embedding
// in helix/irc.go, factored out behind the Transport interface.
type wsTransport struct {
	mu   sync.RWMutex
	conn *websocket.Conn
	uri  string

	connected bool
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	writeMu   sync.Mutex

	onConnect      func()
	onReconnect    func()
	onDisconnect   func()
	onData         func([]byte)
	onLog          func(level, msg string)
	onLogException func(err error)
}

func newWSTransport() *wsTransport {
	return &wsTransport{}
}

func (t *wsTransport) OnConnect(f func())                    { t.onConnect = f }
func (t *wsTransport) OnReconnect(f func())                  { t.onReconnect = f }
func (t *wsTransport) OnDisconnect(f func())                 { t.onDisconnect = f }
func (t *wsTransport) OnData(f func([]byte))                 { t.onData = f }
func (t *wsTransport) OnLog(f func(level, msg string))       { t.onLog = f }
func (t *wsTransport) OnLogException(f func(err error))      { t.onLogException = f }

func (t *wsTransport) log(level, msg string) {
	if t.onLog != nil {
		t.onLog(level, msg)
	}
}

// Start dials uri and begins the read loop. It returns once the dial and
// handshake complete; login/auth happen one layer up in Client.
func (t *wsTransport) Start(ctx context.Context, uri string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, uri, nil)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.uri = uri
	t.connected = true
	t.stopCh = make(chan struct{})
	t.stopOnce = sync.Once{}
	t.mu.Unlock()

	t.wg.Add(1)
	go t.readLoop()

	if t.onConnect != nil {
		t.onConnect()
	}
	return nil
}

func (t *wsTransport) readLoop() {
	defer t.wg.Done()
	defer func() {
		t.mu.Lock()
		wasConnected := t.connected
		t.connected = false
		if t.conn != nil {
			_ = t.conn.Close()
		}
		t.mu.Unlock()

		if wasConnected && t.onDisconnect != nil {
			t.onDisconnect()
		}
	}()

	for {
		t.mu.RLock()
		conn := t.conn
		stopCh := t.stopCh
		t.mu.RUnlock()

		select {
		case <-stopCh:
			return
		default:
		}
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if t.onLogException != nil && !errors.Is(err, websocket.ErrCloseSent) {
				t.onLogException(err)
			}
			return
		}

		if t.onData != nil {
			t.onData(data)
		}
	}
}

func (t *wsTransport) Send(ctx context.Context, data []byte, suppressLog bool) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.RLock()
	conn := t.conn
	t.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{})
	}

	if !suppressLog {
		t.log("debug", string(data))
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) Disconnect(ctx context.Context) error {
	t.mu.Lock()
	if !t.connected && t.conn == nil {
		t.mu.Unlock()
		return nil
	}
	t.connected = false
	t.stopOnce.Do(func() {
		if t.stopCh != nil {
			close(t.stopCh)
		}
	})
	conn := t.conn
	t.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	t.wg.Wait()
	return nil
}

// Restart closes the current socket, waits delay, then re-dials the same
// uri Start was last called with — re-running the Start path so onConnect
// fires and Login replays, matching spec §4.D's "close then start after
// the configured reconnect delay". onReconnect fires after the redial
// succeeds, distinct from onConnect, so callers can tell a fresh Start
// apart from a Restart-driven one.
func (t *wsTransport) Restart(ctx context.Context, delay time.Duration) error {
	_ = t.Disconnect(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}

	t.mu.RLock()
	uri := t.uri
	t.mu.RUnlock()

	if err := t.Start(ctx, uri); err != nil {
		return err
	}

	if t.onReconnect != nil {
		t.onReconnect()
	}
	return nil
}

func (t *wsTransport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}
