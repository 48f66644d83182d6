// Package tree walks a base project tree and classifies every kept entry
// against a target tree.
package tree

import (
	"path"
	"sort"
	"strings"
)

// Kind distinguishes directories from files
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// String returns the kind name
func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// Node is one non-ignored entry of the base tree.
// Only directories have children.
type Node struct {
	Name    string
	RelPath string
	Kind    Kind
	Size    int64

	children map[string]*Node
}

// NewDir creates an empty directory node
func NewDir(name, relPath string) *Node {
	return &Node{
		Name:     name,
		RelPath:  relPath,
		Kind:     KindDir,
		children: make(map[string]*Node),
	}
}

// NewFile creates a file node
func NewFile(name, relPath string, size int64) *Node {
	return &Node{Name: name, RelPath: relPath, Kind: KindFile, Size: size}
}

// IsDir reports whether the node is a directory
func (n *Node) IsDir() bool {
	return n.Kind == KindDir
}

// Add inserts a child, replacing any child with the same name.
// It is a no-op on files.
func (n *Node) Add(child *Node) {
	if !n.IsDir() {
		return
	}
	n.children[child.Name] = child
}

// Children returns the direct children in presentation order:
// directories first, then case-insensitive name, then exact name.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b *Node) bool {
	if a.IsDir() != b.IsDir() {
		return a.IsDir()
	}
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}

// Count returns the number of nodes below n, excluding n itself
func (n *Node) Count() int {
	total := 0
	for _, c := range n.children {
		total += 1 + c.Count()
	}
	return total
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
