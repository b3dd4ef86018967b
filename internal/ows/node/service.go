// Package node implements an in-memory OWS scheduler node. It serves the
// ows.Scheduler operations for owsnode and for in-process tests.
package node

import (
	"context"
	"sort"
	"sync"
	"time"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/internal/ows/model"
	"github.com/msto63/owsh/pkg/core/logging"
)

// Config holds configuration for a node Service
type Config struct {
	Domain string
	Name   string
	Master bool
	Weight int
	Logger *mdwlog.Logger
	// Clock returns the current time; ready-job evaluation compares job
	// start times against its time of day. Defaults to time.Now.
	Clock func() time.Time
}

type planning struct {
	name string
	jobs []model.Job
}

// Service is an in-memory scheduler node
type Service struct {
	logger *logging.Logger
	self   model.Endpoint
	master bool
	clock  func() time.Time

	mu        sync.RWMutex
	nodes     []model.Node
	plannings map[string]*planning
	current   string
}

// NewService creates a node seeded with itself and one planning named
// after its domain
func NewService(cfg Config) (*Service, error) {
	if cfg.Domain == "" || cfg.Name == "" {
		return nil, mdwerror.New("node domain and name are required").WithCode(mdwerror.CodeInvalidConfig)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	var logger *logging.Logger
	if cfg.Logger != nil {
		logger = logging.Wrap(cfg.Logger, "node")
	} else {
		logger = logging.New("node")
	}

	s := &Service{
		logger:    logger,
		self:      model.Endpoint{Domain: cfg.Domain, Name: cfg.Name},
		master:    cfg.Master,
		clock:     cfg.Clock,
		nodes:     []model.Node{{Domain: cfg.Domain, Name: cfg.Name, Weight: cfg.Weight}},
		plannings: map[string]*planning{cfg.Domain: {name: cfg.Domain}},
		current:   cfg.Domain,
	}

	logger.Info("node created", "domain", cfg.Domain, "name", cfg.Name, "master", cfg.Master)
	return s, nil
}

// AddPlanning registers an additional planning. It reports false when the
// name is already known.
func (s *Service) AddPlanning(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plannings[name]; ok || name == "" {
		return false
	}
	s.plannings[name] = &planning{name: name}
	return true
}

// SetCurrentPlanning selects the planning reported by GetCurrentPlanningName
func (s *Service) SetCurrentPlanning(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plannings[name]; !ok {
		return mdwerror.Newf("Unknown planning %q", name).WithCode(mdwerror.CodeOWSProcessing)
	}
	s.current = name
	return nil
}

func routingError(format string, args ...interface{}) error {
	return mdwerror.Newf(format, args...).WithCode(mdwerror.CodeOWSRouting)
}

// planningFor checks the routing and returns the planning it addresses.
// Callers hold s.mu.
func (s *Service) planningFor(routing model.Routing) (*planning, error) {
	if routing.Calling.Name == "" {
		return nil, routingError("The calling node is not set")
	}
	if routing.Target.Name != "" && routing.Target.Name != s.self.Name {
		return nil, routingError("Wrong target node %q, this is %q", routing.Target.Name, s.self.Name)
	}
	domain := routing.Target.Domain
	if domain == "" {
		domain = s.current
	}
	p, ok := s.plannings[domain]
	if !ok {
		return nil, routingError("Unknown domain %q", domain)
	}
	return p, nil
}

func (s *Service) Hello(ctx context.Context, target model.Endpoint) (model.Hello, error) {
	if target.Name != "" && target.Name != s.self.Name {
		s.logger.Debug("hello for another node", "target", target.Name)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if target.Domain != "" {
		if _, ok := s.plannings[target.Domain]; !ok {
			return model.Hello{}, routingError("Unknown domain %q", target.Domain)
		}
	}
	return model.Hello{Domain: s.self.Domain, Name: s.self.Name, Master: s.master}, nil
}

func (s *Service) GetNodes(ctx context.Context, routing model.Routing) ([]model.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return nil, err
	}

	nodes := make([]model.Node, len(s.nodes))
	for i, n := range s.nodes {
		n.Jobs = nil
		for _, j := range p.jobs {
			if j.NodeName == n.Name {
				n.Jobs = append(n.Jobs, cloneJob(j))
			}
		}
		n.Resources = append([]model.Resource(nil), n.Resources...)
		nodes[i] = n
	}
	return nodes, nil
}

func (s *Service) GetJobs(ctx context.Context, routing model.Routing) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return nil, err
	}
	jobs := make([]model.Job, len(p.jobs))
	for i, j := range p.jobs {
		jobs[i] = cloneJob(j)
	}
	return jobs, nil
}

// GetReadyJobs returns the waiting jobs whose previous jobs all succeeded
// and whose start time has passed
func (s *Service) GetReadyJobs(ctx context.Context, routing model.Routing) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return nil, err
	}

	states := make(map[string]model.JobState, len(p.jobs))
	for _, j := range p.jobs {
		states[j.Name] = j.State
	}

	now := s.clock()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)

	ready := []model.Job{}
	for _, j := range p.jobs {
		if j.State != model.JobStateWaiting || j.StartTime > elapsed {
			continue
		}
		ok := true
		for _, prev := range j.Previous {
			if states[prev] != model.JobStateSucceeded {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, cloneJob(j))
		}
	}
	return ready, nil
}

func (s *Service) AddNode(ctx context.Context, routing model.Routing, node model.Node) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.planningFor(routing); err != nil {
		return false, err
	}
	if node.Name == "" {
		return false, mdwerror.New("The node name is empty").WithCode(mdwerror.CodeOWSNode)
	}
	if s.nodeIndex(node.Name) >= 0 {
		return false, nil
	}
	if node.Domain == "" {
		node.Domain = s.self.Domain
	}
	node.Jobs = nil
	s.nodes = append(s.nodes, node)
	s.logger.Info("node added", "node", node.Name)
	return true, nil
}

func (s *Service) RemoveNode(ctx context.Context, routing model.Routing, node model.Node) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.planningFor(routing); err != nil {
		return false, err
	}
	if node.Name == s.self.Name {
		return false, mdwerror.Newf("Cannot remove the local node %q", node.Name).WithCode(mdwerror.CodeOWSNode)
	}
	i := s.nodeIndex(node.Name)
	if i < 0 {
		return false, nil
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	s.logger.Info("node removed", "node", node.Name)
	return true, nil
}

func (s *Service) AddJob(ctx context.Context, routing model.Routing, job model.Job) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return false, err
	}
	if job.Name == "" {
		return false, mdwerror.New("The job name is empty").WithCode(mdwerror.CodeOWSJob)
	}
	if job.NodeName == "" {
		job.NodeName = s.self.Name
	}
	if s.nodeIndex(job.NodeName) < 0 {
		return false, mdwerror.Newf("Cannot find the node %q", job.NodeName).WithCode(mdwerror.CodeOWSNode)
	}
	if jobIndex(p.jobs, job.Name) >= 0 {
		return false, nil
	}
	if job.Domain == "" {
		job.Domain = p.name
	}
	if job.State == model.JobStateUnknown {
		job.State = model.JobStateWaiting
	}
	p.jobs = append(p.jobs, cloneJob(job))
	s.logger.Info("job added", "planning", p.name, "job", job.Name)
	return true, nil
}

func (s *Service) RemoveJob(ctx context.Context, routing model.Routing, job model.Job) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return false, err
	}
	i := jobIndex(p.jobs, job.Name)
	if i < 0 {
		return false, nil
	}
	p.jobs = append(p.jobs[:i], p.jobs[i+1:]...)
	s.logger.Info("job removed", "planning", p.name, "job", job.Name)
	return true, nil
}

// UpdateJob replaces the stored job of the same name. Empty fields keep
// their stored values.
func (s *Service) UpdateJob(ctx context.Context, routing model.Routing, job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return err
	}
	i := jobIndex(p.jobs, job.Name)
	if i < 0 {
		return mdwerror.Newf("Cannot find the job %q", job.Name).WithCode(mdwerror.CodeOWSJob)
	}

	stored := &p.jobs[i]
	if job.NodeName != "" {
		if s.nodeIndex(job.NodeName) < 0 {
			return mdwerror.Newf("Cannot find the node %q", job.NodeName).WithCode(mdwerror.CodeOWSNode)
		}
		stored.NodeName = job.NodeName
	}
	if job.CmdLine != "" {
		stored.CmdLine = job.CmdLine
	}
	if job.Weight != 0 {
		stored.Weight = job.Weight
	}
	if job.State != model.JobStateUnknown {
		stored.State = job.State
	}
	if job.StartTime != 0 {
		stored.StartTime = job.StartTime
	}
	if job.Previous != nil {
		stored.Previous = append([]string(nil), job.Previous...)
	}
	if job.Next != nil {
		stored.Next = append([]string(nil), job.Next...)
	}
	return nil
}

func (s *Service) UpdateJobState(ctx context.Context, routing model.Routing, job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return err
	}
	if job.State == model.JobStateUnknown {
		return mdwerror.Newf("Invalid state for job %q", job.Name).WithCode(mdwerror.CodeOWSJob)
	}
	i := jobIndex(p.jobs, job.Name)
	if i < 0 {
		return mdwerror.Newf("Cannot find the job %q", job.Name).WithCode(mdwerror.CodeOWSJob)
	}
	p.jobs[i].State = job.State
	s.logger.Debug("job state updated", "job", job.Name, "state", job.State.String())
	return nil
}

func (s *Service) GetCurrentPlanningName(ctx context.Context, routing model.Routing) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.planningFor(routing); err != nil {
		return "", err
	}
	return s.current, nil
}

func (s *Service) GetAvailablePlanningNames(ctx context.Context, routing model.Routing) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.planningFor(routing); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.plannings))
	for name := range s.plannings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Service) MonitorFailedJobs(ctx context.Context, routing model.Routing) (int64, error) {
	return s.countJobs(routing, model.JobStateFailed)
}

func (s *Service) MonitorWaitingJobs(ctx context.Context, routing model.Routing) (int64, error) {
	return s.countJobs(routing, model.JobStateWaiting)
}

func (s *Service) countJobs(routing model.Routing, state model.JobState) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.planningFor(routing)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, j := range p.jobs {
		if j.State == state {
			n++
		}
	}
	return n, nil
}

func (s *Service) nodeIndex(name string) int {
	for i, n := range s.nodes {
		if n.Name == name {
			return i
		}
	}
	return -1
}

func jobIndex(jobs []model.Job, name string) int {
	for i, j := range jobs {
		if j.Name == name {
			return i
		}
	}
	return -1
}

func cloneJob(j model.Job) model.Job {
	j.Previous = append([]string(nil), j.Previous...)
	j.Next = append([]string(nil), j.Next...)
	return j
}
