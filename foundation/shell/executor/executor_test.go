package executor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	"github.com/msto63/owsh/foundation/shell/parser"
	"github.com/msto63/owsh/foundation/shell/registry"
	"github.com/msto63/owsh/foundation/shell/session"
)

func handler(context.Context, *registry.Call) error { return nil }

type fixture struct {
	sess *session.Session
	reg  *registry.Registry
	d    *Dispatcher
}

func (f *fixture) register(t *testing.T, parent *registry.Node, name string, h registry.Handler, p session.Privilege, m session.Mode, opts ...registry.NodeOption) *registry.Node {
	t.Helper()
	n, err := f.reg.RegisterPath(parent, name, h, p, m, name+" help", opts...)
	if err != nil {
		t.Fatalf("RegisterPath(%q) unexpected error: %v", name, err)
	}
	return n
}

func (f *fixture) resolve(line string) (*Resolution, error) {
	return f.d.Resolve(f.sess, parser.ParseLine(line).Command)
}

// newFixture builds a tree shaped like the scheduler shell:
//
//	help (any)      enable (exec)      configure terminal (privileged)
//	get {nodes jobs ready jobs}        add job (privileged)
//	show [version]  empty (no handler) interface (config)  ip (config+1)
func newFixture(t *testing.T) *fixture {
	t.Helper()

	sess := session.New(10)
	sess.SetMode(session.ModeExec, "")
	reg := registry.New(registry.Options{View: sess})
	sess.OnChange(func(*session.Session) { reg.Rebuild() })
	f := &fixture{sess: sess, reg: reg, d: New(reg, Options{})}

	u, p := session.Unprivileged, session.Privileged
	exec := session.ModeExec

	f.register(t, nil, "help", handler, u, session.ModeAny)
	f.register(t, nil, "enable", handler, u, exec)
	configure := f.register(t, nil, "configure", nil, p, exec)
	f.register(t, configure, "terminal", handler, p, exec)

	get := f.register(t, nil, "get", nil, u, exec)
	f.register(t, get, "nodes", handler, u, exec, registry.NoArgs())
	f.register(t, get, "jobs", handler, u, exec, registry.NoArgs())
	f.register(t, get, "ready jobs", handler, u, exec, registry.NoArgs())

	f.register(t, nil, "add job", handler, p, exec)

	show := f.register(t, nil, "show", handler, u, exec, registry.MaxArgs(2))
	f.register(t, show, "version", handler, u, exec)

	f.register(t, nil, "empty", nil, u, exec)
	f.register(t, nil, "interface", handler, u, session.ModeConfig)
	f.register(t, nil, "ip", handler, u, session.ModeConfig+1)

	return f
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		line     string
		command  string
		args     []string
		strategy string
	}{
		{"full words", "get nodes", "get nodes", nil, "exact"},
		{"shortest prefix", "get n", "get nodes", nil, "exact"},
		{"longer prefix", "get no", "get nodes", nil, "exact"},
		{"case insensitive", "GET NODES", "get nodes", nil, "exact"},
		{"multi word path", "g r j", "get ready jobs", nil, "exact"},
		{"any mode", "help", "help", nil, "any"},
		{"node with children and handler", "show", "show", nil, "exact"},
		{"child of handler node", "show version", "show version", nil, "exact"},
		{"unmatched words become arguments", "show foo bar", "show", []string{"foo", "bar"}, "exact"},
		{"quoted argument", `show "a b c"`, "show", []string{"a b c"}, "exact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.resolve(tt.line)
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.line, err)
			}
			if res.Node == nil {
				t.Fatalf("Resolve(%q) returned no node", tt.line)
			}
			if got := res.Node.FullName(); got != tt.command {
				t.Errorf("Resolve(%q) node = %q, want %q", tt.line, got, tt.command)
			}
			if diff := cmp.Diff(tt.args, res.Args); diff != "" {
				t.Errorf("Resolve(%q) args mismatch (-want +got):\n%s", tt.line, diff)
			}
			if res.Strategy != tt.strategy {
				t.Errorf("Resolve(%q) strategy = %q, want %q", tt.line, res.Strategy, tt.strategy)
			}
		})
	}
}

func TestResolvePrefixesSelectSameNode(t *testing.T) {
	f := newFixture(t)

	var first *registry.Node
	for _, line := range []string{"get nodes", "get n", "get no", "get nod"} {
		res, err := f.resolve(line)
		if err != nil {
			t.Fatalf("Resolve(%q) unexpected error: %v", line, err)
		}
		if first == nil {
			first = res.Node
			continue
		}
		if res.Node != first {
			t.Errorf("Resolve(%q) selected a different node", line)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		line      string
		message   string
		execution bool
	}{
		{"unknown command", "frobnicate", `Invalid command "frobnicate"`, false},
		{"namespace without more words", "get", "Incomplete command", false},
		{"unknown child of namespace", "get status", `Invalid argument "status"`, false},
		{"leaf refuses arguments", "get jobs status", `Invalid argument "status"`, false},
		{"too many arguments", "show a b c", `Invalid argument "c"`, false},
		{"overlong word", "get nodesx", `Invalid argument "nodesx"`, false},
		{"privileged command is invisible", "add job", `Invalid command "add"`, false},
		{"privileged namespace is invisible", "configure terminal", `Invalid command "configure"`, false},
		{"other mode is invisible", "interface", `Invalid command "interface"`, false},
		{"leaf without handler", "empty", `No callback for "empty"`, true},
		{"no tokens", "", "Incomplete command", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.resolve(tt.line)
			if err == nil {
				t.Fatalf("Resolve(%q) = %+v, want error", tt.line, res)
			}
			if err.Error() != tt.message {
				t.Errorf("Resolve(%q) error = %q, want %q", tt.line, err.Error(), tt.message)
			}
			if tt.execution && !mdwerror.IsExecution(err) {
				t.Errorf("Resolve(%q) error should be an execution error", tt.line)
			}
			if !tt.execution && !mdwerror.IsArgument(err) {
				t.Errorf("Resolve(%q) error should be an argument error", tt.line)
			}
		})
	}
}

func TestResolveAfterPrivilegeChange(t *testing.T) {
	f := newFixture(t)
	f.sess.SetPrivilege(session.Privileged)

	res, err := f.resolve("conf t")
	if err != nil {
		t.Fatalf("Resolve(conf t) unexpected error: %v", err)
	}
	if got := res.Node.FullName(); got != "configure terminal" {
		t.Errorf("Resolve(conf t) node = %q, want %q", got, "configure terminal")
	}

	res, err = f.resolve("add job name=x")
	if err != nil {
		t.Fatalf("Resolve(add job) unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"name=x"}, res.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveExactModeBeatsAnyMode(t *testing.T) {
	f := newFixture(t)
	f.register(t, nil, "status", handler, session.Unprivileged, session.ModeAny)
	exact := f.register(t, nil, "status", handler, session.Unprivileged, session.ModeExec)

	res, err := f.resolve("status")
	if err != nil {
		t.Fatalf("Resolve(status) unexpected error: %v", err)
	}
	if res.Node != exact || res.Strategy != "exact" {
		t.Errorf("Resolve(status) strategy = %q, want the exec-mode node", res.Strategy)
	}
}

func TestResolveDuplicateFirstWins(t *testing.T) {
	f := newFixture(t)
	first := f.register(t, nil, "hello", handler, session.Unprivileged, session.ModeExec)
	f.register(t, nil, "hello", handler, session.Unprivileged, session.ModeExec)

	res, err := f.resolve("hello")
	if err != nil {
		t.Fatalf("Resolve(hello) unexpected error: %v", err)
	}
	if res.Node != first {
		t.Error("Resolve(hello) should select the first registered duplicate")
	}
}

func TestResolveParentConfigFallback(t *testing.T) {
	f := newFixture(t)
	f.sess.SetMode(session.ModeConfig+1, "if")

	res, err := f.resolve("ip")
	if err != nil {
		t.Fatalf("Resolve(ip) unexpected error: %v", err)
	}
	if res.Node == nil || res.Node.Name() != "ip" || res.DropToConfig {
		t.Fatalf("Resolve(ip) = %+v, want the nested node without a drop", res)
	}

	res, err = f.resolve("interface")
	if err != nil {
		t.Fatalf("Resolve(interface) unexpected error: %v", err)
	}
	if !res.DropToConfig || res.Node != nil {
		t.Fatalf("Resolve(interface) = %+v, want a drop to config", res)
	}

	f.sess.SetMode(session.ModeConfig, "")
	res, err = f.resolve("int")
	if err != nil {
		t.Fatalf("Resolve(int) after drop unexpected error: %v", err)
	}
	if res.Node == nil || res.Node.Name() != "interface" || res.Strategy != "exact" {
		t.Errorf("Resolve(int) after drop = %+v", res)
	}
}

func TestResolveHelp(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		line string
		want []HelpEntry
	}{
		{
			name: "top level",
			line: "?",
			want: []HelpEntry{
				{Name: "help", Help: "help help"},
				{Name: "enable", Help: "enable help"},
				{Name: "get", Help: "get help"},
				{Name: "show", Help: "show help"},
			},
		},
		{
			name: "prefix",
			line: "e?",
			want: []HelpEntry{{Name: "enable", Help: "enable help"}},
		},
		{
			name: "children of namespace",
			line: "get ?",
			want: []HelpEntry{
				{Name: "nodes", Help: "nodes help"},
				{Name: "jobs", Help: "jobs help"},
				{Name: "ready", Help: ""},
			},
		},
		{
			name: "handler node lists itself first",
			line: "show ?",
			want: []HelpEntry{
				{Name: "show", Help: "show help", Self: true},
				{Name: "version", Help: "version help"},
			},
		},
		{
			name: "leaf",
			line: "get nodes ?",
			want: []HelpEntry{{Name: "get nodes", Help: "nodes help", Self: true}},
		},
		{
			name: "nothing matches",
			line: "get x?",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.resolve(tt.line)
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.line, err)
			}
			if !res.IsHelp {
				t.Fatalf("Resolve(%q) is not a help response", tt.line)
			}
			if diff := cmp.Diff(tt.want, res.Help); diff != "" {
				t.Errorf("Resolve(%q) help mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestQuotedQuestionMarkIsNotHelp(t *testing.T) {
	f := newFixture(t)

	res, err := f.resolve(`show "?"`)
	if err != nil {
		t.Fatalf("Resolve unexpected error: %v", err)
	}
	if res.IsHelp {
		t.Error("quoted '?' must not request help")
	}
	if diff := cmp.Diff([]string{"?"}, res.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestHelp(t *testing.T) {
	f := newFixture(t)
	get := f.reg.Find("get")

	got := f.d.Help(f.sess, get, "j")
	want := []HelpEntry{{Name: "jobs", Help: "jobs help"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Help() mismatch (-want +got):\n%s", diff)
	}
}
