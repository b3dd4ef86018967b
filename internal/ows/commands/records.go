package commands

import (
	"context"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwregistry "github.com/msto63/owsh/foundation/shell/registry"
	"github.com/msto63/owsh/internal/ows/model"
)

// parsePairs applies every key=value argument through update. Comment
// words and empty words are skipped.
func parsePairs(args []string, update func(key, value string) error) error {
	if len(args) == 0 {
		return mdwerror.Argument("At least one key=value pair is required")
	}
	for _, arg := range args {
		if arg == "" || model.IsComment(arg) {
			continue
		}
		key, value, err := model.SplitLine('=', arg)
		if err != nil {
			return fault(err)
		}
		if err := update(key, value); err != nil {
			return fault(err)
		}
	}
	return nil
}

func (c *Commands) parseJob(args []string) (model.Job, error) {
	job := model.Job{Domain: c.Routing().Target.Domain}
	err := parsePairs(args, func(key, value string) error {
		return model.UpdateJob(&job, key, value)
	})
	return job, err
}

func (c *Commands) parseNode(args []string) (model.Node, error) {
	var node model.Node
	err := parsePairs(args, func(key, value string) error {
		return model.UpdateNode(&node, key, value)
	})
	return node, err
}

// cmdAddJob: add job key=value...
func (c *Commands) cmdAddJob(ctx context.Context, call *mdwregistry.Call) error {
	job, err := c.parseJob(call.Args)
	if err != nil {
		return err
	}
	h, err := c.handler()
	if err != nil {
		return err
	}
	ok, err := h.AddJob(ctx, c.Routing(), job)
	if err != nil {
		return fault(err)
	}
	return c.renderer.Result(call.Out, ok)
}

// cmdAddNode: add node key=value...
func (c *Commands) cmdAddNode(ctx context.Context, call *mdwregistry.Call) error {
	node, err := c.parseNode(call.Args)
	if err != nil {
		return err
	}
	h, err := c.handler()
	if err != nil {
		return err
	}
	ok, err := h.AddNode(ctx, c.Routing(), node)
	if err != nil {
		return fault(err)
	}
	return c.renderer.Result(call.Out, ok)
}

// cmdRemoveJob: remove job name=<job>; the job is looked up on the target
// node of the current planning
func (c *Commands) cmdRemoveJob(ctx context.Context, call *mdwregistry.Call) error {
	job, err := c.parseJob(call.Args)
	if err != nil {
		return err
	}
	h, err := c.handler()
	if err != nil {
		return err
	}
	routing := c.Routing()
	job.NodeName = routing.Target.Name
	job.Domain = routing.Target.Domain

	ok, err := h.RemoveJob(ctx, routing, job)
	if err != nil {
		return fault(err)
	}
	return c.renderer.Result(call.Out, ok)
}

// cmdRemoveNode: remove node name=<node>
func (c *Commands) cmdRemoveNode(ctx context.Context, call *mdwregistry.Call) error {
	node, err := c.parseNode(call.Args)
	if err != nil {
		return err
	}
	if node.Name == "" {
		return mdwerror.Argument("The node name is required: name=<node>")
	}
	h, err := c.handler()
	if err != nil {
		return err
	}
	routing := c.Routing()
	node.Domain = routing.Calling.Domain

	ok, err := h.RemoveNode(ctx, routing, node)
	if err != nil {
		return fault(err)
	}
	return c.renderer.Result(call.Out, ok)
}

// cmdUpdateJob: update job key=value...
func (c *Commands) cmdUpdateJob(ctx context.Context, call *mdwregistry.Call) error {
	job, err := c.parseJob(call.Args)
	if err != nil {
		return err
	}
	h, err := c.handler()
	if err != nil {
		return err
	}
	if err := h.UpdateJob(ctx, c.Routing(), job); err != nil {
		return fault(err)
	}
	return c.renderer.Result(call.Out, true)
}

// cmdUpdateJobState: update job state <job_name> <job_state>
func (c *Commands) cmdUpdateJobState(ctx context.Context, call *mdwregistry.Call) error {
	if len(call.Args) != 2 {
		return mdwerror.Argument("Needs two arguments: job_name and job_state")
	}
	state, err := model.ParseJobState(call.Args[1])
	if err != nil {
		return fault(err)
	}
	h, err := c.handler()
	if err != nil {
		return err
	}
	job := model.Job{Name: call.Args[0], State: state}
	if err := h.UpdateJobState(ctx, c.Routing(), job); err != nil {
		return fault(err)
	}
	return nil
}
