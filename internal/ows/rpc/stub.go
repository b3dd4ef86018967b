package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	"github.com/msto63/owsh/internal/ows/model"
)

type schedulerClient struct {
	cc grpc.ClientConnInterface
}

// NewScheduler returns a Scheduler that forwards every call over cc
func NewScheduler(cc grpc.ClientConnInterface) Scheduler {
	return &schedulerClient{cc: cc}
}

func (c *schedulerClient) invoke(ctx context.Context, method string, req map[string]interface{}) (fields, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot encode request").WithCode(mdwerror.CodeInternal)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, fromStatus(err)
	}
	return fields(out.AsMap()), nil
}

func (c *schedulerClient) routed(ctx context.Context, method string, routing model.Routing, extra ...interface{}) (fields, error) {
	req := map[string]interface{}{"routing": encodeRouting(routing)}
	for i := 0; i+1 < len(extra); i += 2 {
		req[extra[i].(string)] = extra[i+1]
	}
	return c.invoke(ctx, method, req)
}

func (c *schedulerClient) Hello(ctx context.Context, target model.Endpoint) (model.Hello, error) {
	resp, err := c.invoke(ctx, "Hello", map[string]interface{}{"target": encodeEndpoint(target)})
	if err != nil {
		return model.Hello{}, err
	}
	return decodeHello(resp.sub("hello")), nil
}

func (c *schedulerClient) GetNodes(ctx context.Context, routing model.Routing) ([]model.Node, error) {
	resp, err := c.routed(ctx, "GetNodes", routing)
	if err != nil {
		return nil, err
	}
	items := resp.list("nodes")
	nodes := make([]model.Node, len(items))
	for i, item := range items {
		nodes[i] = decodeNode(item)
	}
	return nodes, nil
}

func (c *schedulerClient) GetJobs(ctx context.Context, routing model.Routing) ([]model.Job, error) {
	resp, err := c.routed(ctx, "GetJobs", routing)
	if err != nil {
		return nil, err
	}
	return decodeJobs(resp.list("jobs")), nil
}

func (c *schedulerClient) GetReadyJobs(ctx context.Context, routing model.Routing) ([]model.Job, error) {
	resp, err := c.routed(ctx, "GetReadyJobs", routing)
	if err != nil {
		return nil, err
	}
	return decodeJobs(resp.list("jobs")), nil
}

func (c *schedulerClient) AddNode(ctx context.Context, routing model.Routing, node model.Node) (bool, error) {
	resp, err := c.routed(ctx, "AddNode", routing, "node", encodeNode(node))
	if err != nil {
		return false, err
	}
	return resp.boolean("result"), nil
}

func (c *schedulerClient) RemoveNode(ctx context.Context, routing model.Routing, node model.Node) (bool, error) {
	resp, err := c.routed(ctx, "RemoveNode", routing, "node", encodeNode(node))
	if err != nil {
		return false, err
	}
	return resp.boolean("result"), nil
}

func (c *schedulerClient) AddJob(ctx context.Context, routing model.Routing, job model.Job) (bool, error) {
	resp, err := c.routed(ctx, "AddJob", routing, "job", encodeJob(job))
	if err != nil {
		return false, err
	}
	return resp.boolean("result"), nil
}

func (c *schedulerClient) RemoveJob(ctx context.Context, routing model.Routing, job model.Job) (bool, error) {
	resp, err := c.routed(ctx, "RemoveJob", routing, "job", encodeJob(job))
	if err != nil {
		return false, err
	}
	return resp.boolean("result"), nil
}

func (c *schedulerClient) UpdateJob(ctx context.Context, routing model.Routing, job model.Job) error {
	_, err := c.routed(ctx, "UpdateJob", routing, "job", encodeJob(job))
	return err
}

func (c *schedulerClient) UpdateJobState(ctx context.Context, routing model.Routing, job model.Job) error {
	_, err := c.routed(ctx, "UpdateJobState", routing, "job", encodeJob(job))
	return err
}

func (c *schedulerClient) GetCurrentPlanningName(ctx context.Context, routing model.Routing) (string, error) {
	resp, err := c.routed(ctx, "GetCurrentPlanningName", routing)
	if err != nil {
		return "", err
	}
	return resp.str("name"), nil
}

func (c *schedulerClient) GetAvailablePlanningNames(ctx context.Context, routing model.Routing) ([]string, error) {
	resp, err := c.routed(ctx, "GetAvailablePlanningNames", routing)
	if err != nil {
		return nil, err
	}
	return resp.strings("names"), nil
}

func (c *schedulerClient) MonitorFailedJobs(ctx context.Context, routing model.Routing) (int64, error) {
	resp, err := c.routed(ctx, "MonitorFailedJobs", routing)
	if err != nil {
		return 0, err
	}
	return resp.num("count"), nil
}

func (c *schedulerClient) MonitorWaitingJobs(ctx context.Context, routing model.Routing) (int64, error) {
	resp, err := c.routed(ctx, "MonitorWaitingJobs", routing)
	if err != nil {
		return 0, err
	}
	return resp.num("count"), nil
}
