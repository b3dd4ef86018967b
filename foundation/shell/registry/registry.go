// File: registry.go
// Title: Command Registry
// Description: Registration, unregistration and traversal of the command
//              forest, plus the visibility-dependent prefix table.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package registry

import (
	"strings"
	"sync"
	"unicode"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/foundation/shell/session"
	mdwstringx "github.com/msto63/owsh/foundation/utils/stringx"
)

// Options configures a registry
type Options struct {
	// View decides visibility for the prefix table; required
	View session.View
	// Logger defaults to the package default logger
	Logger *mdwlog.Logger
}

// Registry owns the command forest
type Registry struct {
	roots  []*Node
	view   session.View
	logger *mdwlog.Logger
	mutex  sync.RWMutex
}

// New creates an empty registry
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	return &Registry{
		view:   opts.View,
		logger: opts.Logger.WithField("component", "shell-registry"),
	}
}

// Register appends a node named name as the last child of parent, or as
// a top-level node when parent is nil. A nil handler makes a namespace
// node. An identical name already present under parent is kept; lookups
// prefer whichever was registered first.
func (r *Registry) Register(parent *Node, name string, handler Handler, privilege session.Privilege, mode session.Mode, help string, opts ...NodeOption) (*Node, error) {
	if mdwstringx.IsBlank(name) {
		return nil, mdwerror.New("command name cannot be empty").WithCode(mdwerror.CodeInvalidInput)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return nil, mdwerror.Newf("command name %q contains whitespace, use RegisterPath", name).
			WithCode(mdwerror.CodeInvalidInput)
	}

	node := &Node{
		name:      name,
		handler:   handler,
		privilege: privilege,
		mode:      mode,
		help:      help,
		maxArgs:   Unlimited,
		parent:    parent,
	}
	for _, opt := range opts {
		opt(node)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if parent == nil {
		r.roots = append(r.roots, node)
	} else {
		parent.children = append(parent.children, node)
	}
	r.rebuildLocked()

	r.logger.Debug("command registered", mdwlog.Fields{
		"command":   node.FullName(),
		"privilege": privilege.String(),
		"mode":      mode.String(),
		"namespace": handler == nil,
	})

	return node, nil
}

// RegisterPath registers a multi-word command such as "ready jobs" under
// parent. Leading words reuse the first existing child with exactly that
// name, or become new namespace nodes with the same privilege and mode.
// The handler, help and options apply to the last word.
func (r *Registry) RegisterPath(parent *Node, path string, handler Handler, privilege session.Privilege, mode session.Mode, help string, opts ...NodeOption) (*Node, error) {
	words := strings.Fields(path)
	if len(words) == 0 {
		return nil, mdwerror.New("command name cannot be empty").WithCode(mdwerror.CodeInvalidInput)
	}

	current := parent
	for _, word := range words[:len(words)-1] {
		if existing := r.child(current, word); existing != nil {
			current = existing
			continue
		}
		ns, err := r.Register(current, word, nil, privilege, mode, "")
		if err != nil {
			return nil, err
		}
		current = ns
	}

	return r.Register(current, words[len(words)-1], handler, privilege, mode, help, opts...)
}

// Unregister removes the first top-level node named exactly name together
// with its subtree, and reports whether one was found
func (r *Registry) Unregister(name string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, node := range r.roots {
		if node.name != name {
			continue
		}
		r.roots = append(r.roots[:i:i], r.roots[i+1:]...)
		release(node)
		r.rebuildLocked()
		r.logger.Debug("command unregistered", mdwlog.Fields{"command": name})
		return true
	}
	return false
}

// Clear removes every node
func (r *Registry) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, node := range r.roots {
		release(node)
	}
	r.roots = nil
}

// Roots returns the top-level nodes in registration order
func (r *Registry) Roots() []*Node {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return append([]*Node(nil), r.roots...)
}

// Read runs fn with the top-level nodes while holding the read lock. fn
// must not register or unregister commands.
func (r *Registry) Read(fn func(roots []*Node)) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	fn(r.roots)
}

// Find returns the node at the exact name path, e.g. ("get", "nodes")
func (r *Registry) Find(path ...string) *Node {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var current *Node
	for _, word := range path {
		next := r.childLocked(current, word)
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// Rebuild recomputes the prefix table for the current view. Call it after
// every privilege or mode transition.
func (r *Registry) Rebuild() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.rebuildLocked()
}

func (r *Registry) rebuildLocked() {
	if r.view == nil {
		return
	}
	buildShortest(r.roots, r.view)
	r.logger.Trace("prefix table rebuilt", mdwlog.Fields{
		"privilege": r.view.Privilege().String(),
		"mode":      r.view.Mode().String(),
	})
}

// buildShortest assigns each visible node one more than the longest
// case-insensitive run it shares with any other visible sibling, capped at
// its own length. Invisible nodes need their full name.
func buildShortest(siblings []*Node, view session.View) {
	for _, c := range siblings {
		buildShortest(c.children, view)

		c.uniqueLen = len(c.name)
		if !c.VisibleTo(view) {
			continue
		}

		longest := 0
		for _, p := range siblings {
			if p == c || !p.VisibleTo(view) {
				continue
			}
			if n := mdwstringx.CommonPrefixFold(c.name, p.name); n > longest {
				longest = n
			}
		}

		c.uniqueLen = longest + 1
		if c.uniqueLen > len(c.name) {
			c.uniqueLen = len(c.name)
		}
	}
}

func (r *Registry) child(parent *Node, name string) *Node {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.childLocked(parent, name)
}

func (r *Registry) childLocked(parent *Node, name string) *Node {
	siblings := r.roots
	if parent != nil {
		siblings = parent.children
	}
	for _, n := range siblings {
		if n.name == name {
			return n
		}
	}
	return nil
}

// release tears a subtree down post-order
func release(n *Node) {
	for _, c := range n.children {
		release(c)
	}
	n.children = nil
	n.parent = nil
	n.handler = nil
}
