package commands

import (
	"context"
	"strconv"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	mdwsession "github.com/msto63/owsh/foundation/shell/session"
	mdwstringx "github.com/msto63/owsh/foundation/utils/stringx"
	"github.com/msto63/owsh/internal/ows/model"
)

// cmdConnect: connect <domain> <hostname> [port]
func (c *Commands) cmdConnect(ctx context.Context, call *mdwregistry.Call) error {
	if len(call.Args) != 2 && len(call.Args) != 3 {
		return mdwerror.Argument("2 or 3 args are required: <domain> <hostname> [port]")
	}
	domain, host := call.Args[0], call.Args[1]

	port := c.defaultPort
	if len(call.Args) == 3 {
		if !mdwstringx.IsDigits(call.Args[2]) {
			return mdwerror.Execution("The given port is not a number!")
		}
		n, err := strconv.Atoi(call.Args[2])
		if err != nil {
			return mdwerror.Execution("The given port is not a number!")
		}
		port = n
	}

	if c.client == nil {
		return fault(mdwerror.New("no transport configured").WithCode(mdwerror.CodeInternal))
	}
	if err := c.client.Open(ctx, host, port); err != nil {
		return mdwerror.Execution("%s", err.Error()).WithDetail("host", host).WithDetail("port", port)
	}

	routing := model.Routing{
		Calling: model.Endpoint{Domain: domain, Name: c.callingNode},
		Target:  model.Endpoint{Domain: domain, Name: host},
	}
	hello, err := c.client.Handler().Hello(ctx, routing.Target)
	if err != nil {
		c.client.Close()
		return fault(err)
	}
	routing.Target = model.Endpoint{Domain: hello.Domain, Name: hello.Name}
	c.setRouting(routing)

	c.mu.Lock()
	if !c.connected {
		c.savedHostname = call.Session.Hostname()
	}
	c.connected = true
	c.mu.Unlock()

	call.Session.SetMode(mdwsession.ModeExec, "")
	call.Session.SetHostname(hello.Name + ":" + hello.Domain)

	c.logger.Info("connected", mdwlog.Fields{
		"host":   host,
		"port":   port,
		"domain": hello.Domain,
		"node":   hello.Name,
		"master": hello.Master,
	})
	return nil
}

// cmdClose drops the connection and returns to disconnected mode
func (c *Commands) cmdClose(_ context.Context, call *mdwregistry.Call) error {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.logger.WarnWithErr("close failed", err)
			return mdwerror.Execution("Cannot close the connection: %s", err.Error())
		}
	}

	c.mu.Lock()
	c.routing.Target = model.Endpoint{}
	hostname := c.savedHostname
	c.connected = false
	c.mu.Unlock()

	call.Session.SetMode(mdwsession.ModeDisconnected, "")
	call.Session.SetHostname(hostname)
	return nil
}

func (c *Commands) cmdHello(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	hello, err := h.Hello(ctx, c.Routing().Target)
	if err != nil {
		return fault(err)
	}
	return c.renderer.Hello(call.Out, hello)
}

// cmdUse: use <planning_name>
func (c *Commands) cmdUse(ctx context.Context, call *mdwregistry.Call) error {
	if len(call.Args) != 1 {
		return mdwerror.Argument("1 argument is required: <planning_name>")
	}
	h, err := c.handler()
	if err != nil {
		return err
	}

	routing := c.Routing()
	names, err := h.GetAvailablePlanningNames(ctx, routing)
	if err != nil {
		return fault(err)
	}
	if len(names) == 0 {
		return mdwerror.Execution("No planning available")
	}

	planning := call.Args[0]
	for _, name := range names {
		if name != planning {
			continue
		}
		routing.Target.Domain = planning
		routing.Calling.Domain = planning
		c.setRouting(routing)
		call.Session.SetHostname(routing.Target.Name + ":" + planning)
		return nil
	}
	return mdwerror.Execution("Cannot find the given planning")
}
