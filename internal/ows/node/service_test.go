package node

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/internal/ows/model"
	"github.com/msto63/owsh/internal/ows/rpc"
)

var _ rpc.Scheduler = (*Service)(nil)

var routing = model.Routing{
	Calling: model.Endpoint{Domain: "prod", Name: "ows-cli"},
	Target:  model.Endpoint{Domain: "prod", Name: "node1"},
}

func newService(t *testing.T, now time.Time) *Service {
	t.Helper()
	s, err := NewService(Config{
		Domain: "prod",
		Name:   "node1",
		Master: true,
		Logger: mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelFatal, Output: io.Discard}),
		Clock:  func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return s
}

func TestNewServiceRequiresIdentity(t *testing.T) {
	_, err := NewService(Config{Name: "node1"})
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("NewService() error = %v, want INVALID_CONFIG", err)
	}
}

func TestHello(t *testing.T) {
	s := newService(t, time.Now())
	ctx := context.Background()

	got, err := s.Hello(ctx, model.Endpoint{Domain: "prod", Name: "node1"})
	if err != nil {
		t.Fatalf("Hello() error = %v", err)
	}
	want := model.Hello{Domain: "prod", Name: "node1", Master: true}
	if got != want {
		t.Errorf("Hello() = %+v, want %+v", got, want)
	}

	_, err = s.Hello(ctx, model.Endpoint{Domain: "test"})
	if !mdwerror.HasCode(err, mdwerror.CodeOWSRouting) {
		t.Errorf("Hello(unknown domain) error = %v, want OWS_ROUTING", err)
	}
}

func TestRoutingValidation(t *testing.T) {
	s := newService(t, time.Now())
	ctx := context.Background()

	tests := []struct {
		name    string
		routing model.Routing
		wantErr bool
	}{
		{"valid", routing, false},
		{"empty target uses current planning", model.Routing{Calling: routing.Calling}, false},
		{"no calling node", model.Routing{Target: routing.Target}, true},
		{"wrong node", model.Routing{Calling: routing.Calling, Target: model.Endpoint{Domain: "prod", Name: "node2"}}, true},
		{"unknown domain", model.Routing{Calling: routing.Calling, Target: model.Endpoint{Domain: "test", Name: "node1"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.GetJobs(ctx, tt.routing)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetJobs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !mdwerror.HasCode(err, mdwerror.CodeOWSRouting) {
				t.Errorf("GetJobs() code = %v, want OWS_ROUTING", mdwerror.GetCode(err))
			}
		})
	}
}

func TestNodes(t *testing.T) {
	s := newService(t, time.Now())
	ctx := context.Background()

	ok, err := s.AddNode(ctx, routing, model.Node{Name: "node2", Weight: 3})
	if err != nil || !ok {
		t.Fatalf("AddNode() = %v, %v, want true", ok, err)
	}
	if ok, _ := s.AddNode(ctx, routing, model.Node{Name: "node2"}); ok {
		t.Error("AddNode(duplicate) = true, want false")
	}
	if _, err := s.AddNode(ctx, routing, model.Node{}); !mdwerror.HasCode(err, mdwerror.CodeOWSNode) {
		t.Errorf("AddNode(empty) error = %v, want OWS_NODE", err)
	}

	if _, err := s.AddJob(ctx, routing, model.Job{Name: "backup", NodeName: "node2"}); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	nodes, err := s.GetNodes(ctx, routing)
	if err != nil {
		t.Fatalf("GetNodes() error = %v", err)
	}
	want := []model.Node{
		{Domain: "prod", Name: "node1"},
		{Domain: "prod", Name: "node2", Weight: 3, Jobs: []model.Job{
			{Name: "backup", Domain: "prod", NodeName: "node2", State: model.JobStateWaiting},
		}},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("GetNodes() mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.RemoveNode(ctx, routing, model.Node{Name: "node1"}); !mdwerror.HasCode(err, mdwerror.CodeOWSNode) {
		t.Errorf("RemoveNode(self) error = %v, want OWS_NODE", err)
	}
	if ok, err := s.RemoveNode(ctx, routing, model.Node{Name: "node2"}); err != nil || !ok {
		t.Errorf("RemoveNode() = %v, %v, want true", ok, err)
	}
	if ok, _ := s.RemoveNode(ctx, routing, model.Node{Name: "node2"}); ok {
		t.Error("RemoveNode(missing) = true, want false")
	}
}

func TestJobs(t *testing.T) {
	s := newService(t, time.Now())
	ctx := context.Background()

	if _, err := s.AddJob(ctx, routing, model.Job{}); !mdwerror.HasCode(err, mdwerror.CodeOWSJob) {
		t.Errorf("AddJob(empty) error = %v, want OWS_JOB", err)
	}
	if _, err := s.AddJob(ctx, routing, model.Job{Name: "a", NodeName: "nowhere"}); !mdwerror.HasCode(err, mdwerror.CodeOWSNode) {
		t.Errorf("AddJob(unknown node) error = %v, want OWS_NODE", err)
	}

	if ok, err := s.AddJob(ctx, routing, model.Job{Name: "a", CmdLine: "/bin/true"}); err != nil || !ok {
		t.Fatalf("AddJob() = %v, %v, want true", ok, err)
	}
	if ok, _ := s.AddJob(ctx, routing, model.Job{Name: "a"}); ok {
		t.Error("AddJob(duplicate) = true, want false")
	}

	if err := s.UpdateJob(ctx, routing, model.Job{Name: "a", Weight: 5, Next: []string{"b"}}); err != nil {
		t.Fatalf("UpdateJob() error = %v", err)
	}
	if err := s.UpdateJob(ctx, routing, model.Job{Name: "zz"}); !mdwerror.HasCode(err, mdwerror.CodeOWSJob) {
		t.Errorf("UpdateJob(missing) error = %v, want OWS_JOB", err)
	}
	if err := s.UpdateJobState(ctx, routing, model.Job{Name: "a", State: model.JobStateRunning}); err != nil {
		t.Fatalf("UpdateJobState() error = %v", err)
	}
	if err := s.UpdateJobState(ctx, routing, model.Job{Name: "a"}); !mdwerror.HasCode(err, mdwerror.CodeOWSJob) {
		t.Errorf("UpdateJobState(unknown state) error = %v, want OWS_JOB", err)
	}

	jobs, err := s.GetJobs(ctx, routing)
	if err != nil {
		t.Fatalf("GetJobs() error = %v", err)
	}
	want := []model.Job{{
		Name: "a", Domain: "prod", NodeName: "node1", CmdLine: "/bin/true",
		Weight: 5, State: model.JobStateRunning, Next: []string{"b"},
	}}
	if diff := cmp.Diff(want, jobs); diff != "" {
		t.Errorf("GetJobs() mismatch (-want +got):\n%s", diff)
	}

	if ok, err := s.RemoveJob(ctx, routing, model.Job{Name: "a"}); err != nil || !ok {
		t.Errorf("RemoveJob() = %v, %v, want true", ok, err)
	}
	if ok, _ := s.RemoveJob(ctx, routing, model.Job{Name: "a"}); ok {
		t.Error("RemoveJob(missing) = true, want false")
	}
}

func TestReadyJobs(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)
	s := newService(t, now)
	ctx := context.Background()

	add := []model.Job{
		{Name: "done", State: model.JobStateSucceeded},
		{Name: "broken", State: model.JobStateFailed},
		{Name: "after-done", Previous: []string{"done"}},
		{Name: "after-broken", Previous: []string{"broken"}},
		{Name: "early", StartTime: 9 * time.Hour},
		{Name: "late", StartTime: 11 * time.Hour},
		{Name: "running", State: model.JobStateRunning},
	}
	for _, j := range add {
		if _, err := s.AddJob(ctx, routing, j); err != nil {
			t.Fatalf("AddJob(%s) error = %v", j.Name, err)
		}
	}

	ready, err := s.GetReadyJobs(ctx, routing)
	if err != nil {
		t.Fatalf("GetReadyJobs() error = %v", err)
	}
	var names []string
	for _, j := range ready {
		names = append(names, j.Name)
	}
	if diff := cmp.Diff([]string{"after-done", "early"}, names); diff != "" {
		t.Errorf("GetReadyJobs() mismatch (-want +got):\n%s", diff)
	}

	failed, _ := s.MonitorFailedJobs(ctx, routing)
	waiting, _ := s.MonitorWaitingJobs(ctx, routing)
	if failed != 1 || waiting != 4 {
		t.Errorf("Monitor = failed %d waiting %d, want 1 and 4", failed, waiting)
	}
}

func TestPlannings(t *testing.T) {
	s := newService(t, time.Now())
	ctx := context.Background()

	if !s.AddPlanning("night") {
		t.Fatal("AddPlanning(night) = false")
	}
	if s.AddPlanning("night") || s.AddPlanning("") {
		t.Error("AddPlanning accepted a duplicate or empty name")
	}

	names, err := s.GetAvailablePlanningNames(ctx, routing)
	if err != nil {
		t.Fatalf("GetAvailablePlanningNames() error = %v", err)
	}
	if diff := cmp.Diff([]string{"night", "prod"}, names); diff != "" {
		t.Errorf("GetAvailablePlanningNames() mismatch (-want +got):\n%s", diff)
	}

	if err := s.SetCurrentPlanning("night"); err != nil {
		t.Fatalf("SetCurrentPlanning() error = %v", err)
	}
	if err := s.SetCurrentPlanning("missing"); err == nil {
		t.Error("SetCurrentPlanning(missing) error = nil")
	}
	current, _ := s.GetCurrentPlanningName(ctx, routing)
	if current != "night" {
		t.Errorf("GetCurrentPlanningName() = %q, want night", current)
	}

	night := routing
	night.Target.Domain = "night"
	if _, err := s.AddJob(ctx, night, model.Job{Name: "n"}); err != nil {
		t.Fatalf("AddJob(night) error = %v", err)
	}
	prodJobs, _ := s.GetJobs(ctx, routing)
	if len(prodJobs) != 0 {
		t.Errorf("prod planning has %d jobs, want 0", len(prodJobs))
	}
}
