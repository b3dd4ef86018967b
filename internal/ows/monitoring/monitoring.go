// Package monitoring evaluates an OWS counter against warning and critical
// thresholds and reports it in the plugin format of common monitoring
// systems: one status line and an exit code.
package monitoring

import (
	"context"
	"fmt"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	"github.com/msto63/owsh/internal/ows/model"
	"github.com/msto63/owsh/internal/ows/rpc"
)

// Status is the outcome of a check
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusCritical
	StatusUnknown
)

// String returns the plugin status name
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for s
func (s Status) ExitCode() int { return int(s) }

// Metric names a counter the check can read
type Metric string

const (
	MetricFailedJobs  Metric = "failed_jobs"
	MetricWaitingJobs Metric = "waiting_jobs"
)

// Thresholds bound the OK and WARNING ranges. A value below Warning is OK,
// below Critical is WARNING, anything else CRITICAL.
type Thresholds struct {
	Warning  int64
	Critical int64
}

// Validate checks that both thresholds are set and ordered
func (t Thresholds) Validate() error {
	if t.Warning < 0 || t.Critical < 0 {
		return mdwerror.New("Missing args!").WithCode(mdwerror.CodeInvalidInput)
	}
	if t.Critical < t.Warning {
		return mdwerror.Newf("critical threshold %d is below warning threshold %d", t.Critical, t.Warning).
			WithCode(mdwerror.CodeInvalidInput)
	}
	return nil
}

// Result is one evaluated check
type Result struct {
	Status Status
	Metric Metric
	Value  int64
	// Message replaces the status line for UNKNOWN results
	Message string
}

// String renders the status line, e.g. "OK|failed_jobs is fine|failed_jobs=0"
func (r Result) String() string {
	var text string
	switch r.Status {
	case StatusOK:
		text = "is fine"
	case StatusWarning:
		text = "is high"
	case StatusCritical:
		text = "is too high"
	default:
		return r.Message
	}
	return fmt.Sprintf("%s|%s %s|%s=%d", r.Status, r.Metric, text, r.Metric, r.Value)
}

// Evaluate classifies value against t
func Evaluate(metric Metric, value int64, t Thresholds) Result {
	r := Result{Metric: metric, Value: value}
	switch {
	case value < t.Warning:
		r.Status = StatusOK
	case value < t.Critical:
		r.Status = StatusWarning
	default:
		r.Status = StatusCritical
	}
	return r
}

func unknown(metric Metric, message string) Result {
	return Result{Status: StatusUnknown, Metric: metric, Message: message}
}

// Check reads metric from the node behind h and evaluates it. Transport
// and node faults give an UNKNOWN result, never an error.
func Check(ctx context.Context, h rpc.Scheduler, routing model.Routing, metric Metric, t Thresholds) Result {
	if h == nil {
		return unknown(metric, "Not connected!")
	}

	var (
		value int64
		err   error
	)
	switch metric {
	case MetricFailedJobs:
		value, err = h.MonitorFailedJobs(ctx, routing)
	case MetricWaitingJobs:
		value, err = h.MonitorWaitingJobs(ctx, routing)
	default:
		return unknown(metric, "Cannot find the metric")
	}

	if err != nil {
		code := mdwerror.GetCode(err)
		if kind := code.Kind(); kind != "" {
			return unknown(metric, kind+": "+err.Error())
		}
		return unknown(metric, "Undefined exception occurred: "+err.Error())
	}
	return Evaluate(metric, value, t)
}
