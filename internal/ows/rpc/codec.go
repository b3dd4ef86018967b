package rpc

import (
	"time"

	"github.com/msto63/owsh/internal/ows/model"
)

// fields is the decoded form of a structpb.Struct
type fields map[string]interface{}

func (f fields) str(key string) string {
	s, _ := f[key].(string)
	return s
}

func (f fields) num(key string) int64 {
	n, _ := f[key].(float64)
	return int64(n)
}

func (f fields) boolean(key string) bool {
	b, _ := f[key].(bool)
	return b
}

func (f fields) sub(key string) fields {
	m, _ := f[key].(map[string]interface{})
	return fields(m)
}

func (f fields) list(key string) []fields {
	items, _ := f[key].([]interface{})
	out := make([]fields, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, fields(m))
		}
	}
	return out
}

func (f fields) strings(key string) []string {
	items, _ := f[key].([]interface{})
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func encodeEndpoint(e model.Endpoint) map[string]interface{} {
	return map[string]interface{}{"domain": e.Domain, "name": e.Name}
}

func decodeEndpoint(f fields) model.Endpoint {
	return model.Endpoint{Domain: f.str("domain"), Name: f.str("name")}
}

func encodeRouting(r model.Routing) map[string]interface{} {
	return map[string]interface{}{
		"calling": encodeEndpoint(r.Calling),
		"target":  encodeEndpoint(r.Target),
	}
}

func decodeRouting(f fields) model.Routing {
	return model.Routing{
		Calling: decodeEndpoint(f.sub("calling")),
		Target:  decodeEndpoint(f.sub("target")),
	}
}

func encodeHello(h model.Hello) map[string]interface{} {
	return map[string]interface{}{"domain": h.Domain, "name": h.Name, "master": h.Master}
}

func decodeHello(f fields) model.Hello {
	return model.Hello{Domain: f.str("domain"), Name: f.str("name"), Master: f.boolean("master")}
}

func encodeJob(j model.Job) map[string]interface{} {
	return map[string]interface{}{
		"name":       j.Name,
		"domain":     j.Domain,
		"node_name":  j.NodeName,
		"cmd_line":   j.CmdLine,
		"weight":     j.Weight,
		"state":      j.State.String(),
		"start_time": int64(j.StartTime / time.Second),
		"previous":   stringList(j.Previous),
		"next":       stringList(j.Next),
	}
}

func decodeJob(f fields) model.Job {
	state, _ := model.ParseJobState(f.str("state"))
	return model.Job{
		Name:      f.str("name"),
		Domain:    f.str("domain"),
		NodeName:  f.str("node_name"),
		CmdLine:   f.str("cmd_line"),
		Weight:    int(f.num("weight")),
		State:     state,
		StartTime: time.Duration(f.num("start_time")) * time.Second,
		Previous:  f.strings("previous"),
		Next:      f.strings("next"),
	}
}

func encodeJobs(jobs []model.Job) []interface{} {
	out := make([]interface{}, len(jobs))
	for i, j := range jobs {
		out[i] = encodeJob(j)
	}
	return out
}

func decodeJobs(items []fields) []model.Job {
	out := make([]model.Job, 0, len(items))
	for _, item := range items {
		out = append(out, decodeJob(item))
	}
	return out
}

func encodeNode(n model.Node) map[string]interface{} {
	resources := make([]interface{}, len(n.Resources))
	for i, r := range n.Resources {
		resources[i] = map[string]interface{}{"name": r.Name, "capacity": r.Capacity}
	}
	return map[string]interface{}{
		"domain":    n.Domain,
		"name":      n.Name,
		"weight":    n.Weight,
		"jobs":      encodeJobs(n.Jobs),
		"resources": resources,
	}
}

func decodeNode(f fields) model.Node {
	var resources []model.Resource
	for _, r := range f.list("resources") {
		resources = append(resources, model.Resource{Name: r.str("name"), Capacity: int(r.num("capacity"))})
	}
	var jobs []model.Job
	if items := f.list("jobs"); len(items) > 0 {
		jobs = decodeJobs(items)
	}
	return model.Node{
		Domain:    f.str("domain"),
		Name:      f.str("name"),
		Weight:    int(f.num("weight")),
		Jobs:      jobs,
		Resources: resources,
	}
}
