package monitoring

import (
	"context"
	"testing"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	"github.com/msto63/owsh/internal/ows/model"
	"github.com/msto63/owsh/internal/ows/rpc"
)

// counter is a Scheduler that only answers the monitoring calls
type counter struct {
	rpc.Scheduler
	failed, waiting int64
	err             error
}

func (c *counter) MonitorFailedJobs(context.Context, model.Routing) (int64, error) {
	return c.failed, c.err
}

func (c *counter) MonitorWaitingJobs(context.Context, model.Routing) (int64, error) {
	return c.waiting, c.err
}

func TestEvaluate(t *testing.T) {
	th := Thresholds{Warning: 5, Critical: 10}

	tests := []struct {
		value    int64
		want     Status
		wantLine string
		wantExit int
	}{
		{0, StatusOK, "OK|failed_jobs is fine|failed_jobs=0", 0},
		{4, StatusOK, "OK|failed_jobs is fine|failed_jobs=4", 0},
		{5, StatusWarning, "WARNING|failed_jobs is high|failed_jobs=5", 1},
		{9, StatusWarning, "WARNING|failed_jobs is high|failed_jobs=9", 1},
		{10, StatusCritical, "CRITICAL|failed_jobs is too high|failed_jobs=10", 2},
	}

	for _, tt := range tests {
		r := Evaluate(MetricFailedJobs, tt.value, th)
		if r.Status != tt.want {
			t.Errorf("Evaluate(%d) status = %v, want %v", tt.value, r.Status, tt.want)
		}
		if r.String() != tt.wantLine {
			t.Errorf("Evaluate(%d) line = %q, want %q", tt.value, r.String(), tt.wantLine)
		}
		if r.Status.ExitCode() != tt.wantExit {
			t.Errorf("Evaluate(%d) exit = %d, want %d", tt.value, r.Status.ExitCode(), tt.wantExit)
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{"ordered", Thresholds{Warning: 1, Critical: 2}, false},
		{"equal", Thresholds{Warning: 2, Critical: 2}, false},
		{"missing", Thresholds{Warning: -1, Critical: 2}, true},
		{"reversed", Thresholds{Warning: 3, Critical: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.th.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	th := Thresholds{Warning: 1, Critical: 3}

	tests := []struct {
		name       string
		h          rpc.Scheduler
		metric     Metric
		wantStatus Status
		wantLine   string
	}{
		{"waiting ok", &counter{waiting: 0}, MetricWaitingJobs, StatusOK, "OK|waiting_jobs is fine|waiting_jobs=0"},
		{"failed critical", &counter{failed: 7}, MetricFailedJobs, StatusCritical, "CRITICAL|failed_jobs is too high|failed_jobs=7"},
		{"not connected", nil, MetricFailedJobs, StatusUnknown, "Not connected!"},
		{"unknown metric", &counter{}, Metric("load"), StatusUnknown, "Cannot find the metric"},
		{"routing fault", &counter{err: mdwerror.New("Unknown domain").WithCode(mdwerror.CodeOWSRouting)}, MetricFailedJobs, StatusUnknown, "ex::routing: Unknown domain"},
		{"processing fault", &counter{err: mdwerror.New("db").WithCode(mdwerror.CodeOWSProcessing)}, MetricWaitingJobs, StatusUnknown, "ex_processing: db"},
		{"other fault", &counter{err: mdwerror.New("reset").WithCode(mdwerror.CodeConnectionFailed)}, MetricWaitingJobs, StatusUnknown, "Undefined exception occurred: reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(ctx, tt.h, model.Routing{}, tt.metric, th)
			if r.Status != tt.wantStatus {
				t.Errorf("Check() status = %v, want %v", r.Status, tt.wantStatus)
			}
			if r.String() != tt.wantLine {
				t.Errorf("Check() line = %q, want %q", r.String(), tt.wantLine)
			}
		})
	}
}
