// Package catalog keeps exercises ordered by name in an unbalanced binary
// search tree. Names compare case-insensitively and must be unique.
package catalog

import (
	"strings"

	"github.com/claude/fittrack/internal/exercise"
)

// node owns its children; the tree is never shared.
type node struct {
	exercise    *exercise.Exercise
	left, right *node
}

func (n *node) key() string {
	return strings.ToLower(n.exercise.Name)
}

// Catalog is an ordered set of exercises keyed by lower-cased name.
// It is not safe for concurrent use.
type Catalog struct {
	root *node
	size int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return c.size
}

// Insert adds e at its leaf position. It returns false, leaving the tree
// unchanged, when an exercise with the same name already exists.
func (c *Catalog) Insert(e *exercise.Exercise) bool {
	link := c.search(strings.ToLower(e.Name))
	if *link != nil {
		return false
	}
	*link = &node{exercise: e}
	c.size++
	return true
}

// Find returns the exercise with the given name, ignoring case.
func (c *Catalog) Find(name string) (*exercise.Exercise, bool) {
	if name == "" {
		return nil, false
	}
	if n := *c.search(strings.ToLower(name)); n != nil {
		return n.exercise, true
	}
	return nil, false
}

// Delete removes the exercise with the given name and returns it.
func (c *Catalog) Delete(name string) (*exercise.Exercise, bool) {
	if name == "" {
		return nil, false
	}
	link := c.search(strings.ToLower(name))
	n := *link
	if n == nil {
		return nil, false
	}
	deleted := n.exercise

	switch {
	case n.left == nil:
		*link = n.right
	case n.right == nil:
		*link = n.left
	default:
		// Two children: pull the in-order successor's payload up, then
		// splice the successor out. It has no left child by construction.
		parent, succ := n, n.right
		for succ.left != nil {
			parent, succ = succ, succ.left
		}
		n.exercise = succ.exercise
		if parent.left == succ {
			parent.left = succ.right
		} else {
			parent.right = succ.right
		}
	}
	c.size--
	return deleted, true
}

// InOrder returns every exercise sorted by case-insensitive name.
func (c *Catalog) InOrder() []*exercise.Exercise {
	out := make([]*exercise.Exercise, 0, c.size)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.exercise)
		walk(n.right)
	}
	walk(c.root)
	return out
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (c *Catalog) Height() int {
	var height func(n *node) int
	height = func(n *node) int {
		if n == nil {
			return 0
		}
		return 1 + max(height(n.left), height(n.right))
	}
	return height(c.root)
}

// search returns the link that points at the node for key, or the nil link
// where such a node would be inserted.
func (c *Catalog) search(key string) **node {
	link := &c.root
	for *link != nil {
		n := *link
		switch {
		case key == n.key():
			return link
		case key < n.key():
			link = &n.left
		default:
			link = &n.right
		}
	}
	return link
}
