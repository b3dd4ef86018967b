package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/foundation/shell/registry"
	"github.com/msto63/owsh/foundation/shell/session"
)

type harness struct {
	e      *Engine
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func quietLogger() *mdwlog.Logger {
	return mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelFatal, Output: io.Discard})
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	h := &harness{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	opts.Output = h.out
	opts.ErrOutput = h.errOut
	opts.Logger = quietLogger()
	if opts.Hostname == "" {
		opts.Hostname = "router"
	}
	h.e = New(opts)
	h.e.Session().SetMode(session.ModeExec, "")

	u, exec := session.Unprivileged, session.ModeExec
	commands := []struct {
		name    string
		handler registry.Handler
		help    string
	}{
		{"echo", func(_ context.Context, call *registry.Call) error {
			for _, a := range call.Args {
				call.Out.Printf("%s\n", a)
			}
			return nil
		}, "Echo the arguments"},
		{"frag", func(_ context.Context, call *registry.Call) error {
			call.Out.Printf("ab")
			call.Out.Printf("c")
			return nil
		}, "Print a line without newline"},
		{"fail", func(context.Context, *registry.Call) error {
			return errors.New("boom")
		}, "Fail"},
		{"crash", func(context.Context, *registry.Call) error {
			panic("bad handler")
		}, "Panic"},
		{"partial", func(_ context.Context, call *registry.Call) error {
			call.Out.Printf("a\nb\n")
			return errors.New("stopped")
		}, "Print then fail"},
		{"argfail", func(context.Context, *registry.Call) error {
			return mdwerror.Argument("2 or 3 args are required")
		}, "Reject arguments"},
	}
	for _, c := range commands {
		if _, err := h.e.Register(nil, c.name, c.handler, u, exec, c.help); err != nil {
			t.Fatalf("Register(%q) unexpected error: %v", c.name, err)
		}
	}

	get, err := h.e.Register(nil, "get", nil, u, exec, "")
	if err != nil {
		t.Fatalf("Register(get) unexpected error: %v", err)
	}
	for _, name := range []string{"nodes", "jobs"} {
		name := name
		if _, err := h.e.Register(get, name, func(_ context.Context, call *registry.Call) error {
			call.Out.Printf("%s listed\n", name)
			return nil
		}, u, exec, "Show "+name, registry.NoArgs()); err != nil {
			t.Fatalf("Register(get %s) unexpected error: %v", name, err)
		}
	}

	return h
}

func lines(buf *bytes.Buffer) []string {
	s := strings.TrimSuffix(buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (h *harness) reset() {
	h.out.Reset()
	h.errOut.Reset()
}

func (h *harness) run(t *testing.T, line string) error {
	t.Helper()
	return h.e.RunCommand(context.Background(), line)
}

func helpLine(name, help string) string {
	return fmt.Sprintf("  %-20s %s", name, help)
}

func TestRunCommandOutput(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOut []string
		wantErr []string
	}{
		{"plain", "echo a bb ccc", []string{"a", "bb", "ccc"}, nil},
		{"abbreviated", "ec a", []string{"a"}, nil},
		{"multi word", "get nodes", []string{"nodes listed"}, nil},
		{"multi word abbreviated", "g n", []string{"nodes listed"}, nil},
		{"quoted", `echo "a b c"`, []string{"a b c"}, nil},
		{"count", "echo a bb ccc | count", []string{"3"}, nil},
		{"include", "echo a bb ccc | include b", []string{"bb"}, nil},
		{"exclude", "echo a bb ccc | exclude b", []string{"a", "ccc"}, nil},
		{"chained filters", "echo a bb ccc | exclude a | count", []string{"2"}, nil},
		{"fragment flushed", "frag", []string{"abc"}, nil},
		{"fragment filtered", "frag | count", []string{"1"}, nil},
		{"filter help", "echo x | count ?", []string{"  <cr>"}, nil},
		{"leaf help", "ec ?", []string{fmt.Sprintf("%-20s %s", "echo", "Echo the arguments")}, nil},
		{"prefix help", "e?", []string{
			helpLine("exit", "Exit from current mode"),
			helpLine("enable", "Turn on privileged commands"),
			helpLine("echo", "Echo the arguments"),
		}, nil},
		{"namespace help", "get ?", []string{helpLine("nodes", "Show nodes"), helpLine("jobs", "Show jobs")}, nil},
		{"blank", "   ", nil, nil},
		{"unknown", "frob", nil, []string{`Invalid command "frob"`}},
		{"incomplete", "get", nil, []string{"Incomplete command"}},
		{"extra argument", "get nodes now", nil, []string{`Invalid argument "now"`}},
		{"privileged invisible", "disable", nil, []string{`Invalid command "disable"`}},
		{"bad filter", "echo a | begin", nil, []string{"Begin filter requires an argument"}},
		{"handler error", "fail", nil, []string{"command failed: boom"}},
		{"handler argument error", "argfail", nil, []string{"2 or 3 args are required"}},
		{"handler panic", "crash", nil, []string{`Internal error processing "crash"`}},
		{"failed handler still counts", "partial | count", []string{"2"}, []string{"command failed: stopped"}},
		{"panicking handler still counts", "crash | count", []string{"0"}, []string{`Internal error processing "crash"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			_ = h.run(t, tt.line)
			if diff := cmp.Diff(tt.wantOut, lines(h.out)); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantErr, lines(h.errOut)); diff != "" {
				t.Errorf("error output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunCommandClassification(t *testing.T) {
	tests := []struct {
		line  string
		check func(error) bool
	}{
		{"echo ok", func(err error) bool { return err == nil }},
		{"frob", mdwerror.IsArgument},
		{"echo a | nope", mdwerror.IsArgument},
		{"argfail", mdwerror.IsArgument},
		{"fail", mdwerror.IsExecution},
		{"crash", mdwerror.IsExecution},
		{"quit", mdwerror.IsQuit},
	}

	for _, tt := range tests {
		h := newHarness(t, Options{})
		if err := h.run(t, tt.line); !tt.check(err) {
			t.Errorf("RunCommand(%q) returned %v with the wrong classification", tt.line, err)
		}
	}
}

func TestPromptTransitions(t *testing.T) {
	h := newHarness(t, Options{})
	sess := h.e.Session()

	steps := []struct {
		line   string
		prompt string
		mode   session.Mode
		quit   bool
	}{
		{"", "router> ", session.ModeExec, false},
		{"enable", "router# ", session.ModeExec, false},
		{"conf t", "router(config)# ", session.ModeConfig, false},
		{"exit", "router# ", session.ModeExec, false},
		{"disable", "router> ", session.ModeExec, false},
		{"exit", "router> ", session.ModeDisconnected, true},
	}

	for _, s := range steps {
		err := h.run(t, s.line)
		if s.quit != mdwerror.IsQuit(err) {
			t.Fatalf("RunCommand(%q) = %v, quit = %v", s.line, err, s.quit)
		}
		if !s.quit && err != nil {
			t.Fatalf("RunCommand(%q) unexpected error: %v", s.line, err)
		}
		if got := h.e.Prompt(); got != s.prompt {
			t.Errorf("after %q Prompt() = %q, want %q", s.line, got, s.prompt)
		}
		if got := sess.Mode(); got != s.mode {
			t.Errorf("after %q Mode() = %v, want %v", s.line, got, s.mode)
		}
	}
	if sess.Privilege() != session.Unprivileged {
		t.Errorf("Privilege() after exit = %v, want unprivileged", sess.Privilege())
	}
}

func TestQuitFromConfig(t *testing.T) {
	h := newHarness(t, Options{})
	h.e.Session().SetPrivilege(session.Privileged)
	h.e.Session().SetMode(session.ModeConfig, "")

	if err := h.run(t, "quit"); !mdwerror.IsQuit(err) {
		t.Fatalf("quit returned %v", err)
	}
	if h.e.Session().Mode() != session.ModeDisconnected || h.e.Session().Privilege() != session.Unprivileged {
		t.Errorf("after quit mode=%v privilege=%v", h.e.Session().Mode(), h.e.Session().Privilege())
	}
}

func TestExitNestedConfig(t *testing.T) {
	h := newHarness(t, Options{})
	sess := h.e.Session()
	sess.SetPrivilege(session.Privileged)
	sess.SetMode(session.ModeConfig+1, "if")

	if got := h.e.Prompt(); got != "router(config-if)# " {
		t.Errorf("Prompt() = %q", got)
	}
	if err := h.run(t, "exit"); err != nil {
		t.Fatalf("exit unexpected error: %v", err)
	}
	if sess.Mode() != session.ModeConfig {
		t.Errorf("Mode() = %v, want config", sess.Mode())
	}
	if err := h.run(t, "exit"); err != nil {
		t.Fatalf("exit unexpected error: %v", err)
	}
	if sess.Mode() != session.ModeExec {
		t.Errorf("Mode() = %v, want exec", sess.Mode())
	}
}

func TestParentConfigFallback(t *testing.T) {
	h := newHarness(t, Options{})
	sess := h.e.Session()

	_, err := h.e.Register(nil, "interface", func(_ context.Context, call *registry.Call) error {
		call.Session.PushConfig(call.Args[0])
		return nil
	}, session.Unprivileged, session.ModeConfig, "Configure an interface", registry.MaxArgs(1))
	if err != nil {
		t.Fatalf("Register(interface) unexpected error: %v", err)
	}
	_, err = h.e.Register(nil, "hostname", func(_ context.Context, call *registry.Call) error {
		call.Out.Printf("hostname set\n")
		return nil
	}, session.Unprivileged, session.ModeConfig, "Set the hostname")
	if err != nil {
		t.Fatalf("Register(hostname) unexpected error: %v", err)
	}

	sess.SetMode(session.ModeConfig, "")
	if err := h.run(t, "int eth0"); err != nil {
		t.Fatalf("interface unexpected error: %v", err)
	}
	if got := h.e.Prompt(); got != "router(config-eth0)> " {
		t.Fatalf("Prompt() = %q", got)
	}

	if err := h.run(t, "hostname"); err != nil {
		t.Fatalf("hostname unexpected error: %v", err)
	}
	if sess.Mode() != session.ModeConfig {
		t.Errorf("Mode() = %v, want config after fallback", sess.Mode())
	}
	if diff := cmp.Diff([]string{"hostname set"}, lines(h.out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEnablePassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{EnablePassword: "secret"})
	sess := h.e.Session()

	if err := h.e.HandleLine(ctx, "enable"); err != nil {
		t.Fatalf("enable unexpected error: %v", err)
	}
	if sess.State() != session.StateEnablePassword || h.e.Prompt() != "Password: " {
		t.Fatalf("state = %v prompt = %q, want password prompt", sess.State(), h.e.Prompt())
	}

	h.e.HandleLine(ctx, "wrong")
	if sess.State() != session.StateEnablePassword {
		t.Errorf("state after one failure = %v, want password", sess.State())
	}
	h.e.HandleLine(ctx, "secret")

	if sess.Privilege() != session.Privileged || sess.State() != session.StateNormal {
		t.Errorf("privilege = %v state = %v after correct password", sess.Privilege(), sess.State())
	}
	if diff := cmp.Diff([]string{"Access denied"}, lines(h.errOut)); diff != "" {
		t.Errorf("error output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"enable"}, sess.History().Entries()); diff != "" {
		t.Errorf("passwords must not enter the history (-want +got):\n%s", diff)
	}
}

func TestEnablePasswordAttempts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{EnablePassword: "secret"})
	sess := h.e.Session()

	h.e.HandleLine(ctx, "enable")
	for i := 0; i < MaxEnableAttempts; i++ {
		h.e.HandleLine(ctx, "guess")
	}

	if sess.State() != session.StateNormal || sess.Privilege() != session.Unprivileged {
		t.Errorf("state = %v privilege = %v after %d failures", sess.State(), sess.Privilege(), MaxEnableAttempts)
	}
	if got := len(lines(h.errOut)); got != MaxEnableAttempts {
		t.Errorf("printed %d denials, want %d", got, MaxEnableAttempts)
	}
}

func TestEnableCallback(t *testing.T) {
	ctx := context.Background()
	var seen []string
	h := newHarness(t, Options{EnableCallback: func(pw string) bool {
		seen = append(seen, pw)
		return pw == "letmein"
	}})

	h.e.HandleLine(ctx, "enable")
	h.e.HandleLine(ctx, "letmein")

	if h.e.Session().Privilege() != session.Privileged {
		t.Error("callback accepted the password but privilege was not raised")
	}
	if diff := cmp.Diff([]string{"letmein"}, seen); diff != "" {
		t.Errorf("callback calls mismatch (-want +got):\n%s", diff)
	}
}

func TestEnableWithoutPassword(t *testing.T) {
	h := newHarness(t, Options{})
	h.run(t, "enable")
	if h.e.Session().Privilege() != session.Privileged {
		t.Error("enable without password should promote immediately")
	}
}

func TestHelpCommand(t *testing.T) {
	h := newHarness(t, Options{})
	if err := h.run(t, "help"); err != nil {
		t.Fatalf("help unexpected error: %v", err)
	}

	got := lines(h.out)
	want := []string{"", "Commands available:", helpLine("help", "Show available commands")}
	if len(got) < len(want) {
		t.Fatalf("help printed %v", got)
	}
	if diff := cmp.Diff(want, got[:len(want)]); diff != "" {
		t.Errorf("help head mismatch (-want +got):\n%s", diff)
	}

	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, helpLine("get nodes", "Show nodes")) {
		t.Error("help should list nested commands by full name")
	}
	if strings.Contains(joined, "disable") || strings.Contains(joined, "configure") {
		t.Error("help lists privileged commands to an unprivileged session")
	}
}

func TestHistoryCommand(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})

	h.e.HandleLine(ctx, "echo x")
	h.e.HandleLine(ctx, "echo x")
	h.reset()
	h.e.HandleLine(ctx, "history")

	want := []string{"", "Command history:", "  0. echo x", "  1. history"}
	if diff := cmp.Diff(want, lines(h.out)); diff != "" {
		t.Errorf("history output mismatch (-want +got):\n%s", diff)
	}
}

func TestFile(t *testing.T) {
	h := newHarness(t, Options{})
	sess := h.e.Session()
	sess.SetMode(session.ModeDisconnected, "")

	script := strings.Join([]string{
		"# comment line",
		"echo one   # trailing comment",
		"",
		"   echo two  ",
		"enable",
		"conf t",
		"QUIT",
		"echo never",
	}, "\n")

	if err := h.e.File(context.Background(), strings.NewReader(script), session.Unprivileged, session.ModeExec); err != nil {
		t.Fatalf("File() unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"one", "two"}, lines(h.out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if sess.Mode() != session.ModeDisconnected || sess.Privilege() != session.Unprivileged {
		t.Errorf("File() did not restore state: mode=%v privilege=%v", sess.Mode(), sess.Privilege())
	}
}

func TestFileRestoresConfigDescriptions(t *testing.T) {
	h := newHarness(t, Options{})
	sess := h.e.Session()
	sess.SetPrivilege(session.Privileged)
	sess.PushConfig("")
	sess.PushConfig("job")
	before := h.e.Prompt()

	if err := h.e.File(context.Background(), strings.NewReader("echo a\n"), session.Unprivileged, session.ModeExec); err != nil {
		t.Fatalf("File() unexpected error: %v", err)
	}
	if got := h.e.Prompt(); got != before {
		t.Errorf("Prompt() after File() = %q, want %q", got, before)
	}
	if diff := cmp.Diff([]string{"", "job"}, sess.ModeDescriptions()); diff != "" {
		t.Errorf("ModeDescriptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStopsOnQuitSignal(t *testing.T) {
	h := newHarness(t, Options{})

	script := "echo a\r\nfrob\r\nexit\r\necho b\r\n"
	if err := h.e.File(context.Background(), strings.NewReader(script), session.Unprivileged, session.ModeExec); err != nil {
		t.Fatalf("File() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, lines(h.out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{`Invalid command "frob"`}, lines(h.errOut)); diff != "" {
		t.Errorf("error output mismatch (-want +got):\n%s", diff)
	}
}

func TestFileContextCanceled(t *testing.T) {
	h := newHarness(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.e.File(ctx, strings.NewReader("echo a\n"), session.Unprivileged, session.ModeExec)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("File() = %v, want context.Canceled", err)
	}
	if h.out.Len() != 0 {
		t.Errorf("canceled File() printed %q", h.out.String())
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestIdleTimeout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.e.SetIdleTimeout(5*time.Second, nil)

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	h.e.Session().Idle().SetClock(clock.now)

	clock.t = clock.t.Add(4 * time.Second)
	if err := h.e.Tick(ctx); err != nil {
		t.Fatalf("Tick() at T+4 = %v, want nil", err)
	}
	if h.errOut.Len() != 0 {
		t.Errorf("Tick() at T+4 printed %q", h.errOut.String())
	}

	clock.t = clock.t.Add(2 * time.Second)
	if err := h.e.Tick(ctx); !mdwerror.IsQuit(err) {
		t.Fatalf("Tick() at T+6 = %v, want quit", err)
	}
	if diff := cmp.Diff([]string{"Idle timeout"}, lines(h.errOut)); diff != "" {
		t.Errorf("error output mismatch (-want +got):\n%s", diff)
	}
}

func TestIdleTimeoutResetByInput(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.e.SetIdleTimeout(5*time.Second, nil)

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	h.e.Session().Idle().SetClock(clock.now)

	clock.t = clock.t.Add(4 * time.Second)
	h.e.HandleLine(ctx, "echo x")
	clock.t = clock.t.Add(4 * time.Second)

	if err := h.e.Tick(ctx); err != nil {
		t.Errorf("Tick() after activity = %v, want nil", err)
	}
}

func TestRegularCallback(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})

	calls := 0
	h.e.SetRegular(func(context.Context) error {
		calls++
		switch calls {
		case 2:
			return errors.New("transient")
		case 3:
			return mdwerror.ErrQuit
		}
		return nil
	})

	for i := 0; i < 2; i++ {
		if err := h.e.Tick(ctx); err != nil {
			t.Fatalf("Tick() #%d = %v, want nil", i+1, err)
		}
	}
	if err := h.e.Tick(ctx); !mdwerror.IsQuit(err) {
		t.Errorf("Tick() #3 = %v, want quit", err)
	}
}

func TestPrintCallback(t *testing.T) {
	h := newHarness(t, Options{})
	var got []string
	h.e.SetPrintCallback(func(line string) { got = append(got, line) })

	h.run(t, "echo a b | count")
	h.run(t, "frob")

	want := []string{"2", `Invalid command "frob"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("callback lines mismatch (-want +got):\n%s", diff)
	}
	if h.out.Len() != 0 || h.errOut.Len() != 0 {
		t.Error("streams written while a print callback is installed")
	}
}

func TestUnregister(t *testing.T) {
	h := newHarness(t, Options{})

	if !h.e.Unregister("echo") {
		t.Fatal("Unregister(echo) = false")
	}
	h.run(t, "echo a")
	if diff := cmp.Diff([]string{`Invalid command "echo"`}, lines(h.errOut)); diff != "" {
		t.Errorf("error output mismatch (-want +got):\n%s", diff)
	}

	h.reset()
	h.run(t, "en")
	if h.e.Session().Privilege() != session.Privileged {
		t.Errorf("en should select enable, errors: %q", h.errOut.String())
	}
}

func TestComplete(t *testing.T) {
	h := newHarness(t, Options{})

	tests := []struct {
		line string
		want []string
	}{
		{"h", []string{"help", "history"}},
		{"he", []string{"help"}},
		{"HIS", []string{"history"}},
		{"conf", nil},
		{"get ", []string{"nodes", "jobs"}},
		{"get j", []string{"jobs"}},
		{"g n", []string{"nodes"}},
		{"nope ", nil},
		{"echo x | in", []string{"include"}},
		{"echo x | e", []string{"exclude", "egrep"}},
		{"echo x | ", []string{"begin", "between", "count", "exclude", "include", "grep", "egrep"}},
		{"echo x | include ", nil},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, h.e.Complete(tt.line)); diff != "" {
			t.Errorf("Complete(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}

	top := h.e.Complete("")
	for _, name := range []string{"help", "enable", "echo", "get"} {
		if !contains(top, name) {
			t.Errorf("Complete(\"\") = %v, missing %q", top, name)
		}
	}
	if contains(top, "disable") {
		t.Errorf("Complete(\"\") offers invisible command: %v", top)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestCompleterDo(t *testing.T) {
	h := newHarness(t, Options{})
	c := h.e.Completer()

	tests := []struct {
		line       string
		wantSuffix []string
		wantLen    int
	}{
		{"hel", []string{"p "}, 3},
		{"get ", []string{"nodes ", "jobs "}, 0},
		{"get jo", []string{"bs "}, 2},
		{"echo x |co", []string{"unt "}, 2},
	}

	for _, tt := range tests {
		got, n := c.Do([]rune(tt.line), len([]rune(tt.line)))
		var suffixes []string
		for _, r := range got {
			suffixes = append(suffixes, string(r))
		}
		if diff := cmp.Diff(tt.wantSuffix, suffixes); diff != "" {
			t.Errorf("Do(%q) suffixes mismatch (-want +got):\n%s", tt.line, diff)
		}
		if n != tt.wantLen {
			t.Errorf("Do(%q) length = %d, want %d", tt.line, n, tt.wantLen)
		}
	}
}
