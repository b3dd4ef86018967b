package rpc

import (
	"context"

	"github.com/msto63/owsh/internal/ows/model"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "ows.Scheduler"

// Scheduler is the operation set of an OWS node. The node implements it
// server side; the stub returned by NewScheduler implements it over gRPC.
type Scheduler interface {
	Hello(ctx context.Context, target model.Endpoint) (model.Hello, error)

	GetNodes(ctx context.Context, routing model.Routing) ([]model.Node, error)
	GetJobs(ctx context.Context, routing model.Routing) ([]model.Job, error)
	GetReadyJobs(ctx context.Context, routing model.Routing) ([]model.Job, error)

	AddNode(ctx context.Context, routing model.Routing, node model.Node) (bool, error)
	RemoveNode(ctx context.Context, routing model.Routing, node model.Node) (bool, error)
	AddJob(ctx context.Context, routing model.Routing, job model.Job) (bool, error)
	RemoveJob(ctx context.Context, routing model.Routing, job model.Job) (bool, error)
	UpdateJob(ctx context.Context, routing model.Routing, job model.Job) error
	UpdateJobState(ctx context.Context, routing model.Routing, job model.Job) error

	GetCurrentPlanningName(ctx context.Context, routing model.Routing) (string, error)
	GetAvailablePlanningNames(ctx context.Context, routing model.Routing) ([]string, error)

	MonitorFailedJobs(ctx context.Context, routing model.Routing) (int64, error)
	MonitorWaitingJobs(ctx context.Context, routing model.Routing) (int64, error)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
