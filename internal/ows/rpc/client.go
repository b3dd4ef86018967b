package rpc

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	coreGrpc "github.com/msto63/owsh/pkg/core/grpc"
)

// DefaultDialTimeout bounds Open when Options.DialTimeout is zero
const DefaultDialTimeout = 5 * time.Second

// Options configures a Client
type Options struct {
	Logger      *mdwlog.Logger
	DialTimeout time.Duration
	// Caller identifies this program to the node, see coreGrpc.CallerHeader
	Caller string
	// DialOptions are appended to the options coreGrpc.Dial uses, e.g.
	// a context dialer in tests
	DialOptions []grpc.DialOption
}

// Client holds at most one connection to an OWS node
type Client struct {
	mu      sync.Mutex
	opts    Options
	logger  *mdwlog.Logger
	conn    *grpc.ClientConn
	handler Scheduler
	target  string
}

// NewClient creates a disconnected client
func NewClient(opts Options) *Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Client{opts: opts, logger: logger.WithName("rpc")}
}

// Open connects to host:port, replacing any open connection. The call
// returns once the transport is ready or the dial timeout has passed.
func (c *Client) Open(ctx context.Context, host string, port int) error {
	target := net.JoinHostPort(host, strconv.Itoa(port))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	cfg := coreGrpc.DefaultClientConfig("passthrough:///" + target)
	cfg.Timeout = c.opts.DialTimeout
	cfg.Caller = c.opts.Caller
	conn, err := coreGrpc.Dial(cfg, c.opts.DialOptions...)
	if err != nil {
		return c.connectError(target, err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	defer cancel()
	if err := waitReady(dialCtx, conn); err != nil {
		conn.Close()
		return c.connectError(target, err)
	}

	c.conn = conn
	c.handler = NewScheduler(conn)
	c.target = target
	c.logger.Info("connected", mdwlog.Fields{"target": target})
	return nil
}

func (c *Client) connectError(target string, err error) error {
	c.logger.WarnWithErr("connect failed", err, mdwlog.Fields{"target": target})
	return mdwerror.Wrap(err, "Cannot connect to "+target).
		WithCode(mdwerror.CodeConnectionFailed).
		WithDetail("target", target)
}

func waitReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.TransientFailure, connectivity.Shutdown:
			return mdwerror.Newf("transport is %s", state).WithCode(mdwerror.CodeConnectionFailed)
		}
		if !conn.WaitForStateChange(ctx, state) {
			return mdwerror.Wrap(ctx.Err(), "timed out waiting for connection").WithCode(mdwerror.CodeTimeout)
		}
	}
}

// Close drops the connection. Closing a disconnected client is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.logger.Info("disconnected", mdwlog.Fields{"target": c.target})
	c.conn = nil
	c.handler = nil
	c.target = ""
	return err
}

// Handler returns the scheduler of the open connection, or nil
func (c *Client) Handler() Scheduler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

// Connected reports whether a connection is open
func (c *Client) Connected() bool {
	return c.Handler() != nil
}

// Target returns host:port of the open connection
func (c *Client) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}
