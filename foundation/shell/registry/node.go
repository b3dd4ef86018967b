// File: node.go
// Title: Command Node
// Description: One word of a possibly multi-word command with its access
//              requirements, handler and children.
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

	"github.com/msto63/owsh/foundation/shell/session"
)

// Unlimited is the argument limit of nodes that accept any number of
// trailing words
const Unlimited = -1

// Node is one entry in the command tree
type Node struct {
	name      string
	handler   Handler
	privilege session.Privilege
	mode      session.Mode
	help      string
	maxArgs   int

	parent    *Node // non-owning
	children  []*Node
	uniqueLen int
}

// NodeOption customises a node at registration time
type NodeOption func(*Node)

// NoArgs makes the node reject any trailing words
func NoArgs() NodeOption {
	return func(n *Node) { n.maxArgs = 0 }
}

// MaxArgs limits the number of trailing words the node accepts
func MaxArgs(max int) NodeOption {
	return func(n *Node) { n.maxArgs = max }
}

// Name returns the command word
func (n *Node) Name() string { return n.name }

// Handler returns the handler, nil for namespace nodes
func (n *Node) Handler() Handler { return n.handler }

// Privilege returns the required privilege level
func (n *Node) Privilege() session.Privilege { return n.privilege }

// Mode returns the required mode, possibly session.ModeAny
func (n *Node) Mode() session.Mode { return n.mode }

// Help returns the help text
func (n *Node) Help() string { return n.help }

// Parent returns the parent node, nil for top-level nodes
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in registration order
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// HasChildren reports whether the node has any child
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// IsNamespace reports whether the node has no handler
func (n *Node) IsNamespace() bool { return n.handler == nil }

// UniqueLen returns the shortest abbreviation length computed by the last
// rebuild
func (n *Node) UniqueLen() int { return n.uniqueLen }

// AcceptsArgs reports whether count trailing words are allowed
func (n *Node) AcceptsArgs(count int) bool {
	return n.maxArgs == Unlimited || count <= n.maxArgs
}

// ArgLimit returns the maximum number of trailing words, or Unlimited
func (n *Node) ArgLimit() int { return n.maxArgs }

// FullName joins the names from the top-level ancestor down to n
func (n *Node) FullName() string {
	var parts []string
	for c := n; c != nil; c = c.parent {
		parts = append(parts, c.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " ")
}

// VisibleTo reports whether the node is reachable under v
func (n *Node) VisibleTo(v session.View) bool {
	return session.Permits(v, n.privilege, n.mode)
}

// Matches reports whether word selects n: word is a case-insensitive
// prefix of the name at least UniqueLen long and no longer than the name
func (n *Node) Matches(word string) bool {
	if len(word) < n.uniqueLen || len(word) > len(n.name) {
		return false
	}
	return strings.EqualFold(n.name[:len(word)], word)
}
