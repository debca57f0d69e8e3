package wire

import (
	"net"
	"sync/atomic"

	jerrors "github.com/juju/errors"

	"github.com/agildata/zeroproxy/logger"
)

// Dialer opens a fresh connection to the real upstream server for a
// newly accepted client. It is a function, not a fixed address, so the
// caller can vary the target (e.g. by connection config) or inject a
// test double.
type Dialer func() (net.Conn, error)

// Listener accepts client connections on a TCP address and spawns one
// goroutine per connection running a Handler against a freshly dialed
// upstream connection. This replaces the reactor/event-loop model of a
// multi-protocol server with the simpler goroutine-per-connection model
// idiomatic for a single-protocol Go proxy.
type Listener struct {
	Addr     string
	Dial     Dialer
	Rewriter QueryRewriter

	ClientUser       string
	ClientPassword   string
	UpstreamUser     string
	UpstreamPassword string
	UpstreamDB       string

	ln        net.Listener
	nextConnID uint32
}

// ListenAndServe binds Addr and serves until Close is called or Accept
// fails permanently.
func (l *Listener) ListenAndServe() error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return jerrors.Annotatef(err, "listening on %s", l.Addr)
	}
	l.ln = ln
	logger.Infof("listening for client connections on %s", l.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return jerrors.Annotate(err, "accept")
		}
		go l.serve(conn)
	}
}

// Close stops accepting new connections. In-flight connections run to
// completion.
func (l *Listener) Close() error {
	if l.ln == nil {
		return nil
	}
	return l.ln.Close()
}

func (l *Listener) serve(client net.Conn) {
	upstream, err := l.Dial()
	if err != nil {
		logger.Errorf("dialing upstream for %s: %v", client.RemoteAddr(), err)
		client.Close()
		return
	}

	h := &Handler{
		Client:           client,
		Upstream:         upstream,
		Rewriter:         l.Rewriter,
		ClientUser:       l.ClientUser,
		ClientPassword:   l.ClientPassword,
		UpstreamUser:     l.UpstreamUser,
		UpstreamPassword: l.UpstreamPassword,
		UpstreamDB:       l.UpstreamDB,
		connectionID:     atomic.AddUint32(&l.nextConnID, 1),
	}
	if err := h.Serve(); err != nil {
		logger.Errorf("connection %s terminated: %v", client.RemoteAddr(), err)
	}
}
