package printing

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/owsh/internal/ows/model"
)

type bufPrinter struct {
	strings.Builder
}

func (b *bufPrinter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&b.Builder, format, args...)
}

var jobs = []model.Job{
	{Name: "backup", Domain: "prod", NodeName: "node1", CmdLine: "/usr/bin/backup", Weight: 2, State: model.JobStateFailed, StartTime: 90 * time.Minute},
	{Name: "report", Domain: "prod", NodeName: "node1", State: model.JobStateWaiting, Previous: []string{"backup"}},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"plain", FormatPlain, false},
		{" JSON ", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainScalars(t *testing.T) {
	r := New(FormatPlain, 0)
	var p bufPrinter

	r.Hello(&p, model.Hello{Domain: "prod", Name: "node1", Master: true})
	r.Names(&p, []string{"night", "prod"})
	r.Value(&p, "failed_jobs", int64(3))
	r.Result(&p, true)
	r.Result(&p, false)

	want := "domain: prod\nmaster: true\nname: node1\nnight\nprod\n3\nsuccess\nfailure\n"
	if diff := cmp.Diff(want, p.String()); diff != "" {
		t.Errorf("plain output mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainTables(t *testing.T) {
	r := New(FormatPlain, 0)
	var p bufPrinter

	if err := r.Jobs(&p, jobs); err != nil {
		t.Fatalf("Jobs() error = %v", err)
	}
	out := p.String()
	for _, want := range []string{"NAME", "COMMAND", "backup", "failed", "01:30", "/usr/bin/backup", "report", "waiting"} {
		if !strings.Contains(out, want) {
			t.Errorf("Jobs() output missing %q:\n%s", want, out)
		}
	}

	p.Reset()
	nodes := []model.Node{{Domain: "prod", Name: "node1", Weight: 1, Jobs: jobs, Resources: []model.Resource{{Name: "cpu", Capacity: 4}}}}
	if err := r.Nodes(&p, nodes); err != nil {
		t.Fatalf("Nodes() error = %v", err)
	}
	out = p.String()
	for _, want := range []string{"RESOURCES", "node1", "backup,report", "cpu:4"} {
		if !strings.Contains(out, want) {
			t.Errorf("Nodes() output missing %q:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	r := New(FormatPlain, 0)
	r.SetFormat(FormatJSON)
	if r.Format() != FormatJSON {
		t.Fatalf("Format() = %q after SetFormat(json)", r.Format())
	}

	var p bufPrinter
	if err := r.Jobs(&p, jobs); err != nil {
		t.Fatalf("Jobs() error = %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal([]byte(p.String()), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, p.String())
	}
	if len(got) != 2 || got[0]["state"] != "failed" || got[0]["start_time"] != "01:30" {
		t.Errorf("Jobs() JSON = %v", got)
	}
	if _, ok := got[1]["start_time"]; ok {
		t.Errorf("job without start time has start_time: %v", got[1])
	}

	p.Reset()
	r.Value(&p, "current_planning", "prod")
	if diff := cmp.Diff("{\n  \"current_planning\": \"prod\"\n}\n", p.String()); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}

	p.Reset()
	r.Names(&p, nil)
	if p.String() != "[]\n" {
		t.Errorf("Names(nil) = %q, want []", p.String())
	}
}
