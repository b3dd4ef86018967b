// File: executor.go
// Title: Shell Command Dispatcher
// Description: Resolves command tokens to exactly one node and its
//              arguments, or to a help listing, using ordered mode match
//              strategies.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package executor

import (
	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/foundation/shell/parser"
	"github.com/msto63/owsh/foundation/shell/registry"
	"github.com/msto63/owsh/foundation/shell/session"
	mdwstringx "github.com/msto63/owsh/foundation/utils/stringx"
)

// Options configures a dispatcher
type Options struct {
	Logger *mdwlog.Logger
}

// Dispatcher resolves command lines against a registry
type Dispatcher struct {
	registry *registry.Registry
	logger   *mdwlog.Logger
}

// HelpEntry is one line of a '?' response
type HelpEntry struct {
	Name string
	Help string
	// Self marks the entry describing the node the help was requested
	// under, printed before its children
	Self bool
}

// Resolution is the outcome of a successful resolve
type Resolution struct {
	// Node is the handler-bearing node to invoke
	Node *registry.Node
	// Args are the words left after Node
	Args []string
	// Strategy names the match strategy that selected Node
	Strategy string

	// IsHelp marks a help response; Help may be empty when nothing matches
	IsHelp bool
	Help   []HelpEntry

	// DropToConfig asks the caller to leave the nested configuration depth
	// for ModeConfig and resolve again
	DropToConfig bool
}

// strategy decides whether a visible-by-privilege node qualifies under
// the current mode
type strategy struct {
	name   string
	accept func(v session.View, n *registry.Node) bool
}

// Tried in order; earlier strategies take priority over later ones.
var strategies = []strategy{
	{
		name: "exact",
		accept: func(v session.View, n *registry.Node) bool {
			return n.Mode() == v.Mode()
		},
	},
	{
		name: "any",
		accept: func(_ session.View, n *registry.Node) bool {
			return n.Mode() == session.ModeAny
		},
	},
	{
		name: "parent-config",
		accept: func(v session.View, n *registry.Node) bool {
			return v.Mode() > session.ModeConfig && n.Mode() == session.ModeConfig
		},
	},
}

// New creates a dispatcher over reg
func New(reg *registry.Registry, opts Options) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Dispatcher{
		registry: reg,
		logger:   opts.Logger.WithField("component", "shell-dispatcher"),
	}
}

// Resolve finds the node selected by tokens under view. Errors carry the
// shell argument or execution codes and a message ready for the user.
func (d *Dispatcher) Resolve(view session.View, tokens []parser.Token) (*Resolution, error) {
	if len(tokens) == 0 {
		return nil, mdwerror.Argument("Incomplete command")
	}

	var (
		res *Resolution
		err error
	)
	d.registry.Read(func(roots []*registry.Node) {
		res, err = d.resolveLevel(view, roots, nil, tokens)
	})

	if err != nil {
		d.logger.Debug("command rejected", mdwlog.Fields{
			"line":  parser.Values(tokens),
			"error": err.Error(),
		})
		return nil, err
	}

	if res.Node != nil {
		d.logger.Debug("command resolved", mdwlog.Fields{
			"command":  res.Node.FullName(),
			"args":     len(res.Args),
			"strategy": res.Strategy,
		})
	}
	return res, nil
}

// Help lists the visible nodes under parent (nil for the top level) whose
// name starts with prefix
func (d *Dispatcher) Help(view session.View, parent *registry.Node, prefix string) []HelpEntry {
	var entries []HelpEntry
	d.registry.Read(func(roots []*registry.Node) {
		siblings := roots
		if parent != nil {
			siblings = parent.Children()
		}
		entries = helpEntries(view, parent, siblings, prefix)
	})
	return entries
}

func (d *Dispatcher) resolveLevel(view session.View, siblings []*registry.Node, parent *registry.Node, tokens []parser.Token) (*Resolution, error) {
	word := tokens[0]

	if parser.IsHelpRequest(word) {
		prefix := word.Value[:len(word.Value)-1]
		return &Resolution{IsHelp: true, Help: helpEntries(view, parent, siblings, prefix)}, nil
	}

	node, strat := match(view, siblings, word.Value)
	if node == nil {
		if parent == nil {
			return nil, mdwerror.Argument("Invalid command %q", word.Value)
		}
		return nil, errNoChild
	}

	if strat == "parent-config" {
		return &Resolution{DropToConfig: true, Strategy: strat}, nil
	}

	rest := tokens[1:]

	if !node.HasChildren() {
		if node.Handler() == nil {
			return nil, mdwerror.Execution("No callback for %q", node.FullName())
		}
		if len(rest) > 0 && parser.IsHelpRequest(rest[0]) {
			return &Resolution{IsHelp: true, Help: []HelpEntry{selfEntry(node)}}, nil
		}
		return leaf(node, strat, rest)
	}

	if len(rest) == 0 {
		if node.Handler() == nil {
			return nil, mdwerror.Argument("Incomplete command")
		}
		return leaf(node, strat, nil)
	}

	res, err := d.resolveLevel(view, node.Children(), node, rest)
	if err != errNoChild {
		return res, err
	}

	// No child matched: the node itself takes the words as arguments when
	// it can.
	if node.Handler() != nil {
		return leaf(node, strat, rest)
	}
	return nil, mdwerror.Argument("Invalid argument %q", rest[0].Value)
}

// errNoChild is internal: the words below a matched node selected nothing
var errNoChild = mdwerror.New("no matching child").WithCode(mdwerror.CodeShellArgument)

func leaf(node *registry.Node, strat string, rest []parser.Token) (*Resolution, error) {
	args := parser.Values(rest)
	if !node.AcceptsArgs(len(args)) {
		return nil, mdwerror.Argument("Invalid argument %q", args[node.ArgLimit()])
	}
	return &Resolution{Node: node, Args: args, Strategy: strat}, nil
}

// match applies the strategies in order and returns the first node that
// the first successful strategy accepts
func match(view session.View, siblings []*registry.Node, word string) (*registry.Node, string) {
	for _, s := range strategies {
		for _, n := range siblings {
			if n.Privilege() > view.Privilege() || !n.Matches(word) {
				continue
			}
			if s.accept(view, n) {
				return n, s.name
			}
		}
	}
	return nil, ""
}

func helpEntries(view session.View, parent *registry.Node, siblings []*registry.Node, prefix string) []HelpEntry {
	var entries []HelpEntry
	if parent != nil && parent.Handler() != nil {
		entries = append(entries, selfEntry(parent))
	}
	for _, n := range siblings {
		if n.IsNamespace() && !n.HasChildren() {
			continue
		}
		if !n.VisibleTo(view) || !mdwstringx.HasPrefixFold(n.Name(), prefix) {
			continue
		}
		entries = append(entries, HelpEntry{Name: n.Name(), Help: n.Help()})
	}
	return entries
}

func selfEntry(n *registry.Node) HelpEntry {
	return HelpEntry{Name: n.FullName(), Help: n.Help(), Self: true}
}
