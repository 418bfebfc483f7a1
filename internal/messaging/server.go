package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var ErrNotStarted = errors.New("nats server not started")

type NatsServer struct {
	ns *server.Server

	mu    sync.RWMutex
	conn  *nats.Conn
	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		ready:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.mu.Lock()
	n.conn = nil
	n.mu.Unlock()
	conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the internal client connection is up.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	return n.subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// Serve subscribes handler to subject and sends its result back to requesters that
// asked for a reply.
func (n *NatsServer) Serve(subject string, handler func(subject string, data []byte) []byte) (func(), error) {
	return n.subscribe(subject, func(msg *nats.Msg) {
		resp := handler(msg.Subject, msg.Data)
		if msg.Reply == "" || resp == nil {
			return
		}
		if err := msg.Respond(resp); err != nil {
			slog.Warn("responding to request", "subject", msg.Subject, "error", err)
		}
	})
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	conn := n.client()
	if conn == nil {
		return ErrNotStarted
	}
	return conn.Publish(subject, data)
}

func (n *NatsServer) subscribe(subject string, cb nats.MsgHandler) (func(), error) {
	conn := n.client()
	if conn == nil {
		return nil, ErrNotStarted
	}
	sub, err := conn.Subscribe(subject, cb)
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

func (n *NatsServer) client() *nats.Conn {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.conn
}
