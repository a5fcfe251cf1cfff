// Package realtime maintains the single persistent connection to the
// platform's activity feed and fans every received message out to the
// current subscribers. Messages pass through raw; parsing, filtering, and
// routing are each subscriber's concern. Connection state is logged but not
// exposed.
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Listener receives raw feed messages. Listeners are tracked in an
// unordered set keyed by value: register comparable values (pointers or
// small structs), and do not assume any delivery order relative to other
// listeners.
type Listener interface {
	Notify(msg []byte)
}

// Feed is a reconnecting activity-feed client.
type Feed struct {
	url string
	log *zap.Logger

	mu        sync.Mutex
	listeners map[Listener]struct{}
	conn      *websocket.Conn

	done    chan struct{}
	closing sync.Once
}

// New constructs a Feed for the given ws/wss URL. Call Start to connect.
func New(url string, log *zap.Logger) *Feed {
	return &Feed{
		url:       url,
		log:       log,
		listeners: make(map[Listener]struct{}),
		done:      make(chan struct{}),
	}
}

// Subscribe adds a listener. Subscribing an already-registered listener is
// a no-op; it will still receive each message exactly once.
func (f *Feed) Subscribe(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[l] = struct{}{}
}

// Unsubscribe removes a listener. Removing one that is not registered is a
// no-op.
func (f *Feed) Unsubscribe(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listeners, l)
}

// Start launches the connection loop in its own goroutine. The loop redials
// with doubling backoff after every failure or drop until Close is called.
func (f *Feed) Start() {
	go f.run()
}

func (f *Feed) run() {
	backoff := initialBackoff
	for {
		select {
		case <-f.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
		if err != nil {
			f.log.Warn("activity feed dial failed", zap.String("url", f.url), zap.Error(err))
			select {
			case <-f.done:
				return
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		f.log.Info("activity feed connected", zap.String("url", f.url))
		backoff = initialBackoff

		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()

		f.readLoop(conn)

		f.mu.Lock()
		f.conn = nil
		f.mu.Unlock()
	}
}

func (f *Feed) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			f.log.Info("activity feed connection closed", zap.Error(err))
			return
		}
		f.deliver(msg)
	}
}

// deliver invokes every currently subscribed listener synchronously with
// the raw message.
func (f *Feed) deliver(msg []byte) {
	f.mu.Lock()
	subs := make([]Listener, 0, len(f.listeners))
	for l := range f.listeners {
		subs = append(subs, l)
	}
	f.mu.Unlock()

	for _, l := range subs {
		l.Notify(msg)
	}
}

// Close stops reconnecting and closes the current connection, if any.
func (f *Feed) Close() {
	f.closing.Do(func() {
		close(f.done)
		f.mu.Lock()
		if f.conn != nil {
			_ = f.conn.Close()
		}
		f.mu.Unlock()
	})
}
