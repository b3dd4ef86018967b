package commands

import (
	"context"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	"github.com/msto63/owsh/internal/ows/printing"
)

func (c *Commands) cmdGetNodes(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	nodes, err := h.GetNodes(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Nodes(call.Out, nodes)
}

func (c *Commands) cmdGetJobs(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	jobs, err := h.GetJobs(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Jobs(call.Out, jobs)
}

func (c *Commands) cmdGetReadyJobs(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	jobs, err := h.GetReadyJobs(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Jobs(call.Out, jobs)
}

func (c *Commands) cmdGetCurrentPlanning(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	name, err := h.GetCurrentPlanningName(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Value(call.Out, "current_planning", name)
}

func (c *Commands) cmdGetAvailablePlannings(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	names, err := h.GetAvailablePlanningNames(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Names(call.Out, names)
}

func (c *Commands) cmdMonitorFailed(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	n, err := h.MonitorFailedJobs(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Value(call.Out, "failed_jobs", n)
}

func (c *Commands) cmdMonitorWaiting(ctx context.Context, call *mdwregistry.Call) error {
	h, err := c.handler()
	if err != nil {
		return err
	}
	n, err := h.MonitorWaitingJobs(ctx, c.Routing())
	if err != nil {
		return fault(err)
	}
	return c.renderer.Value(call.Out, "waiting_jobs", n)
}

// cmdSetOutput: set output [plain|json]; without argument it prints the
// active format
func (c *Commands) cmdSetOutput(_ context.Context, call *mdwregistry.Call) error {
	if len(call.Args) == 0 {
		call.Out.Printf("%s\n", c.renderer.Format())
		return nil
	}
	format, err := printing.ParseFormat(call.Args[0])
	if err != nil {
		return mdwerror.Argument("%s", err.Error())
	}
	c.renderer.SetFormat(format)
	c.logger.Debug("output format changed", mdwlog.Fields{"format": string(format)})
	return nil
}
