package proxy

import (
	"net"

	"github.com/agildata/zeroproxy/cache"
	"github.com/agildata/zeroproxy/conf"
	"github.com/agildata/zeroproxy/logger"
	"github.com/agildata/zeroproxy/schema"
	"github.com/agildata/zeroproxy/wire"
)

// Proxy wires the statement cache, schema provider and SQL rewriting
// pipeline behind a client-facing wire.Listener.
type Proxy struct {
	Cfg      *conf.Cfg
	Schema   *schema.Provider
	Cache    *cache.StatementCache
	Rewriter *Rewriter

	listener *wire.Listener
}

// New builds a Proxy from a loaded configuration, opening the schema
// provider's upstream connection pool. It does not yet bind a listener
// — call Run for that.
func New(cfg *conf.Cfg) (*Proxy, error) {
	sp, err := schema.New(cfg)
	if err != nil {
		return nil, err
	}
	sc := cache.New()
	rw := NewRewriter(cfg, sp, sc)

	return &Proxy{Cfg: cfg, Schema: sp, Cache: sc, Rewriter: rw}, nil
}

// Run binds the client-facing listener and serves connections until
// Close is called or a fatal accept error occurs.
func (p *Proxy) Run() error {
	addr := p.Cfg.Client.Addr()
	upstreamAddr := p.Cfg.Connection.Addr()

	l := &wire.Listener{
		Addr:             addr,
		Rewriter:         p.Rewriter,
		ClientUser:       p.Cfg.Client.User,
		ClientPassword:   p.Cfg.Client.Password,
		UpstreamUser:     p.Cfg.Connection.User,
		UpstreamPassword: p.Cfg.Connection.Password,
		UpstreamDB:       p.Cfg.Connection.DB,
		Dial: func() (net.Conn, error) {
			return net.Dial("tcp", upstreamAddr)
		},
	}
	p.listener = l

	logger.Infof("proxy listening on %s, forwarding to %s", addr, upstreamAddr)
	return l.ListenAndServe()
}

// Close stops accepting new client connections and releases the schema
// provider's upstream connection pool. In-flight connections run to
// completion.
func (p *Proxy) Close() error {
	var err error
	if p.listener != nil {
		err = p.listener.Close()
	}
	if cerr := p.Schema.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
