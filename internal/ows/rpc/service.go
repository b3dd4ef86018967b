package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type handlerFunc func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error)

func result(ok bool, err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"result": ok}, nil
}

func count(n int64, err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"count": n}, nil
}

func jobList(jobs []interface{}, err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"jobs": jobs}, nil
}

var methods = []struct {
	name string
	fn   handlerFunc
}{
	{"Hello", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		h, err := impl.Hello(ctx, decodeEndpoint(req.sub("target")))
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"hello": encodeHello(h)}, nil
	}},
	{"GetNodes", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		nodes, err := impl.GetNodes(ctx, decodeRouting(req.sub("routing")))
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(nodes))
		for i, n := range nodes {
			out[i] = encodeNode(n)
		}
		return map[string]interface{}{"nodes": out}, nil
	}},
	{"GetJobs", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		jobs, err := impl.GetJobs(ctx, decodeRouting(req.sub("routing")))
		return jobList(encodeJobs(jobs), err)
	}},
	{"GetReadyJobs", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		jobs, err := impl.GetReadyJobs(ctx, decodeRouting(req.sub("routing")))
		return jobList(encodeJobs(jobs), err)
	}},
	{"AddNode", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return result(impl.AddNode(ctx, decodeRouting(req.sub("routing")), decodeNode(req.sub("node"))))
	}},
	{"RemoveNode", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return result(impl.RemoveNode(ctx, decodeRouting(req.sub("routing")), decodeNode(req.sub("node"))))
	}},
	{"AddJob", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return result(impl.AddJob(ctx, decodeRouting(req.sub("routing")), decodeJob(req.sub("job"))))
	}},
	{"RemoveJob", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return result(impl.RemoveJob(ctx, decodeRouting(req.sub("routing")), decodeJob(req.sub("job"))))
	}},
	{"UpdateJob", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return result(true, impl.UpdateJob(ctx, decodeRouting(req.sub("routing")), decodeJob(req.sub("job"))))
	}},
	{"UpdateJobState", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return result(true, impl.UpdateJobState(ctx, decodeRouting(req.sub("routing")), decodeJob(req.sub("job"))))
	}},
	{"GetCurrentPlanningName", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		name, err := impl.GetCurrentPlanningName(ctx, decodeRouting(req.sub("routing")))
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"name": name}, nil
	}},
	{"GetAvailablePlanningNames", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		names, err := impl.GetAvailablePlanningNames(ctx, decodeRouting(req.sub("routing")))
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"names": stringList(names)}, nil
	}},
	{"MonitorFailedJobs", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return count(impl.MonitorFailedJobs(ctx, decodeRouting(req.sub("routing"))))
	}},
	{"MonitorWaitingJobs", func(ctx context.Context, impl Scheduler, req fields) (map[string]interface{}, error) {
		return count(impl.MonitorWaitingJobs(ctx, decodeRouting(req.sub("routing"))))
	}},
}

// ServiceDesc describes ows.Scheduler for grpc.Server.RegisterService
var ServiceDesc = newServiceDesc()

func newServiceDesc() grpc.ServiceDesc {
	desc := grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*Scheduler)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "ows/scheduler",
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.name,
			Handler:    unaryHandler(m.name, m.fn),
		})
	}
	return desc
}

func unaryHandler(method string, fn handlerFunc) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := func(ctx context.Context, req interface{}) (interface{}, error) {
			out, err := fn(ctx, srv.(Scheduler), fields(req.(*structpb.Struct).AsMap()))
			if err != nil {
				return nil, toStatus(err)
			}
			resp, err := structpb.NewStruct(out)
			if err != nil {
				return nil, toStatus(err)
			}
			return resp, nil
		}

		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		return interceptor(ctx, in, info, call)
	}
}

// RegisterSchedulerServer registers impl as the ows.Scheduler service
func RegisterSchedulerServer(s grpc.ServiceRegistrar, impl Scheduler) {
	s.RegisterService(&ServiceDesc, impl)
}
