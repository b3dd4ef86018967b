// Package commands registers the OWS command set into a shell engine:
// connection handling, job and node records, queries, monitoring counters
// and the output format switch.
package commands

import (
	"context"
	"sync"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/foundation/shell"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
	"github.com/msto63/owsh/internal/ows/model"
	"github.com/msto63/owsh/internal/ows/printing"
	"github.com/msto63/owsh/internal/ows/rpc"
)

const (
	// DefaultPort is used by connect when no port is given
	DefaultPort = 8080
	// DefaultCallingNode names this client in every routing
	DefaultCallingNode = "ows-cli"
)

// Connector opens and closes the transport to one node
type Connector interface {
	Open(ctx context.Context, host string, port int) error
	Close() error
	Handler() rpc.Scheduler
}

// Options configures the command set
type Options struct {
	Client      Connector
	Renderer    *printing.Renderer
	Logger      *mdwlog.Logger
	DefaultPort int
	CallingNode string
}

// Commands holds the connection state shared by the OWS handlers
type Commands struct {
	client      Connector
	renderer    *printing.Renderer
	logger      *mdwlog.Logger
	defaultPort int
	callingNode string

	mu            sync.Mutex
	routing       model.Routing
	savedHostname string
	connected     bool
}

// New creates the command set
func New(opts Options) *Commands {
	if opts.Renderer == nil {
		opts.Renderer = printing.New(printing.FormatPlain, 0)
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.DefaultPort <= 0 {
		opts.DefaultPort = DefaultPort
	}
	if opts.CallingNode == "" {
		opts.CallingNode = DefaultCallingNode
	}
	return &Commands{
		client:      opts.Client,
		renderer:    opts.Renderer,
		logger:      opts.Logger.WithField("component", "ows-commands"),
		defaultPort: opts.DefaultPort,
		callingNode: opts.CallingNode,
	}
}

// Routing returns the routing used by the next request
func (c *Commands) Routing() model.Routing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.routing
}

func (c *Commands) setRouting(r model.Routing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routing = r
}

type command struct {
	path      string
	handler   mdwregistry.Handler
	privilege mdwsession.Privilege
	mode      mdwsession.Mode
	help      string
	opts      []mdwregistry.NodeOption
}

func (c *Commands) table() []command {
	var (
		unpriv = mdwsession.Unprivileged
		priv   = mdwsession.Privileged
		disc   = mdwsession.ModeDisconnected
		conn   = mdwsession.ModeExec
		noArgs = []mdwregistry.NodeOption{mdwregistry.NoArgs()}
	)

	return []command{
		{"connect", c.cmdConnect, unpriv, disc, "Connect against a node", nil},
		{"close", c.cmdClose, unpriv, conn, "Disconnect", noArgs},
		{"hello", c.cmdHello, unpriv, conn, "Sends a hello request", noArgs},

		{"add job", c.cmdAddJob, priv, conn, "Add a job", nil},
		{"add node", c.cmdAddNode, priv, conn, "Add a node", nil},

		{"remove job", c.cmdRemoveJob, priv, conn, "Remove a job", nil},
		{"remove node", c.cmdRemoveNode, priv, conn, "Remove a node", nil},

		{"get nodes", c.cmdGetNodes, unpriv, conn, "Show the available nodes", noArgs},
		{"get jobs", c.cmdGetJobs, unpriv, conn, "Show the available jobs", noArgs},
		{"get ready jobs", c.cmdGetReadyJobs, unpriv, conn, "Show the ready jobs", noArgs},
		{"get current planning", c.cmdGetCurrentPlanning, unpriv, conn, "Show the current planning name", noArgs},
		{"get available plannings", c.cmdGetAvailablePlannings, unpriv, conn, "Show the available planning names", noArgs},

		{"update job", c.cmdUpdateJob, priv, conn, "Update a job", nil},
		{"update job state", c.cmdUpdateJobState, priv, conn, "Update the state of a job", nil},

		{"use", c.cmdUse, unpriv, conn, "Use a planning", nil},

		{"monitor failed", c.cmdMonitorFailed, unpriv, conn, "Show the number of failed jobs", noArgs},
		{"monitor waiting", c.cmdMonitorWaiting, unpriv, conn, "Show the number of waiting jobs", noArgs},

		{"set output", c.cmdSetOutput, priv, mdwsession.ModeAny, "Select the output format: plain or json", []mdwregistry.NodeOption{mdwregistry.MaxArgs(1)}},
	}
}

// Register adds every OWS command to e
func (c *Commands) Register(e *shell.Engine) error {
	table := c.table()
	for _, cmd := range table {
		if _, err := e.Register(nil, cmd.path, cmd.handler, cmd.privilege, cmd.mode, cmd.help, cmd.opts...); err != nil {
			return mdwerror.Wrap(err, "cannot register "+cmd.path).WithCode(mdwerror.CodeInternal)
		}
	}
	c.logger.Debug("ows commands registered", mdwlog.Fields{"count": len(table)})
	return nil
}

// handler returns the scheduler of the open connection
func (c *Commands) handler() (rpc.Scheduler, error) {
	if c.client == nil {
		return nil, fault(rpc.ErrNotConnected)
	}
	h := c.client.Handler()
	if h == nil {
		return nil, fault(rpc.ErrNotConnected)
	}
	return h, nil
}

// fault turns a collaborator error into the ExecutionError printed by the
// shell
func fault(err error) error {
	if err == nil {
		return nil
	}
	code := mdwerror.GetCode(err)
	switch {
	case code == mdwerror.CodeOWSNotConnected:
		return mdwerror.Execution("Not connected!")
	case code.Kind() != "":
		return mdwerror.Execution("%s: %s", code.Kind(), err.Error()).WithDetail("code", code.String())
	case code == mdwerror.CodeOWSParse, code == mdwerror.CodeInvalidInput:
		return mdwerror.Argument("%s", err.Error())
	default:
		return mdwerror.Execution("Undefined exception occurred: %s", err.Error()).WithDetail("code", code.String())
	}
}
