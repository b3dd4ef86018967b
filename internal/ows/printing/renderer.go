package printing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	"github.com/msto63/owsh/internal/ows/model"
)

// Format selects how results are printed
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// ParseFormat parses "plain" or "json", case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPlain, FormatJSON:
		return f, nil
	}
	return "", mdwerror.Newf("unknown output format %q, want plain or json", s).WithCode(mdwerror.CodeInvalidInput)
}

// Printer receives rendered text
type Printer interface {
	Printf(format string, args ...interface{})
}

// Renderer prints domain values in the selected format
type Renderer struct {
	mu     sync.RWMutex
	format Format
	width  int
}

// New creates a renderer. A positive width caps plain table width.
func New(format Format, width int) *Renderer {
	if format == "" {
		format = FormatPlain
	}
	return &Renderer{format: format, width: width}
}

// Format returns the active format
func (r *Renderer) Format() Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.format
}

// SetFormat switches the active format
func (r *Renderer) SetFormat(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.format = f
}

// SetWidth sets the plain table width cap; zero disables it
func (r *Renderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
}

func (r *Renderer) settings() (Format, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.format, r.width
}

type jobView struct {
	Name      string   `json:"name"`
	Domain    string   `json:"domain"`
	Node      string   `json:"node_name"`
	CmdLine   string   `json:"cmd_line"`
	Weight    int      `json:"weight"`
	State     string   `json:"state"`
	StartTime string   `json:"start_time,omitempty"`
	Previous  []string `json:"previous,omitempty"`
	Next      []string `json:"next,omitempty"`
}

type nodeView struct {
	Domain    string           `json:"domain"`
	Name      string           `json:"name"`
	Weight    int              `json:"weight"`
	Jobs      []jobView        `json:"jobs"`
	Resources []model.Resource `json:"resources"`
}

func viewJob(j model.Job) jobView {
	v := jobView{
		Name:     j.Name,
		Domain:   j.Domain,
		Node:     j.NodeName,
		CmdLine:  j.CmdLine,
		Weight:   j.Weight,
		State:    j.State.String(),
		Previous: j.Previous,
		Next:     j.Next,
	}
	if j.StartTime > 0 {
		v.StartTime = model.FormatClock(j.StartTime)
	}
	return v
}

func viewJobs(jobs []model.Job) []jobView {
	out := make([]jobView, len(jobs))
	for i, j := range jobs {
		out[i] = viewJob(j)
	}
	return out
}

// Nodes prints a node list
func (r *Renderer) Nodes(p Printer, nodes []model.Node) error {
	format, width := r.settings()
	if format == FormatJSON {
		views := make([]nodeView, len(nodes))
		for i, n := range nodes {
			resources := n.Resources
			if resources == nil {
				resources = []model.Resource{}
			}
			views[i] = nodeView{Domain: n.Domain, Name: n.Name, Weight: n.Weight, Jobs: viewJobs(n.Jobs), Resources: resources}
		}
		return printJSON(p, views)
	}

	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		names := make([]string, len(n.Jobs))
		for k, j := range n.Jobs {
			names[k] = j.Name
		}
		rows[i] = []string{n.Name, n.Domain, strconv.Itoa(n.Weight), strings.Join(names, ","), formatResources(n.Resources)}
	}
	printTable(p, width, []string{"NAME", "DOMAIN", "WEIGHT", "JOBS", "RESOURCES"}, rows, -1)
	return nil
}

// Jobs prints a job list
func (r *Renderer) Jobs(p Printer, jobs []model.Job) error {
	format, width := r.settings()
	if format == FormatJSON {
		return printJSON(p, viewJobs(jobs))
	}

	rows := make([][]string, len(jobs))
	for i, j := range jobs {
		v := viewJob(j)
		rows[i] = []string{v.Name, v.Node, v.State, v.StartTime, strconv.Itoa(v.Weight), v.CmdLine}
	}
	printTable(p, width, []string{"NAME", "NODE", "STATE", "START", "WEIGHT", "COMMAND"}, rows, 2)
	return nil
}

// Hello prints a node's self description
func (r *Renderer) Hello(p Printer, h model.Hello) error {
	if format, _ := r.settings(); format == FormatJSON {
		return printJSON(p, h)
	}
	p.Printf("domain: %s\n", h.Domain)
	p.Printf("master: %t\n", h.Master)
	p.Printf("name: %s\n", h.Name)
	return nil
}

// Names prints one name per line
func (r *Renderer) Names(p Printer, names []string) error {
	if format, _ := r.settings(); format == FormatJSON {
		if names == nil {
			names = []string{}
		}
		return printJSON(p, names)
	}
	for _, name := range names {
		p.Printf("%s\n", name)
	}
	return nil
}

// Value prints a single scalar; JSON wraps it as {key: value}
func (r *Renderer) Value(p Printer, key string, value interface{}) error {
	if format, _ := r.settings(); format == FormatJSON {
		return printJSON(p, map[string]interface{}{key: value})
	}
	p.Printf("%v\n", value)
	return nil
}

// Result prints the outcome of an add or remove operation
func (r *Renderer) Result(p Printer, ok bool) error {
	if format, _ := r.settings(); format == FormatJSON {
		return printJSON(p, map[string]bool{"result": ok})
	}
	if ok {
		p.Printf("success\n")
	} else {
		p.Printf("failure\n")
	}
	return nil
}

func printJSON(p Printer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mdwerror.Wrap(err, "cannot encode result").WithCode(mdwerror.CodeInternal)
	}
	p.Printf("%s\n", data)
	return nil
}

// printTable renders rows under headers. stateCol is the column colored by
// job state, or -1.
func printTable(p Printer, width int, headers []string, rows [][]string, stateCol int) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(BorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			if col == stateCol && row >= 0 && row < len(rows) {
				if s, ok := stateStyles[rows[row][col]]; ok {
					return s
				}
			}
			return CellStyle
		})

	out := t.String()
	if width > 0 && lipgloss.Width(out) > width {
		out = t.Width(width).String()
	}
	p.Printf("%s\n", out)
}

func formatResources(resources []model.Resource) string {
	parts := make([]string, len(resources))
	for i, res := range resources {
		parts[i] = fmt.Sprintf("%s:%d", res.Name, res.Capacity)
	}
	return strings.Join(parts, ",")
}
