// Package hierarchy implements the parent/child trees formed by account,
// entity and project codes.
package hierarchy

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCycle is returned when walking up the parent chain visits a code twice.
var ErrCycle = errors.New("the parent chain contains a cycle")

// Node is a single code with an optional parent code.
type Node struct {
	Code   string
	Parent *string
}

// Tree is an adjacency list of codes of one code space.
//
// The children index is built on first use and reused afterwards, so a Tree
// should be built once per request or batch and then queried repeatedly.
type Tree struct {
	parents map[string]string
	order   []string

	once     sync.Once
	children map[string][]string
}

// New builds a Tree from nodes. Empty codes are ignored. When a code occurs
// more than once, the last parent wins.
func New(nodes []Node) *Tree {
	t := &Tree{
		parents: make(map[string]string, len(nodes)),
		order:   make([]string, 0, len(nodes)),
	}

	for _, n := range nodes {
		if n.Code == "" {
			continue
		}

		if _, ok := t.parents[n.Code]; !ok {
			t.order = append(t.order, n.Code)
		}

		parent := ""
		if n.Parent != nil {
			parent = *n.Parent
		}
		t.parents[n.Code] = parent
	}

	return t
}

func (t *Tree) buildChildren() {
	t.once.Do(func() {
		t.children = make(map[string][]string)
		for _, code := range t.order {
			parent := t.parents[code]
			if parent == "" {
				continue
			}
			t.children[parent] = append(t.children[parent], code)
		}
	})
}

// Len returns the number of codes in the tree.
func (t *Tree) Len() int {
	return len(t.order)
}

// Contains reports whether code is a node of the tree.
func (t *Tree) Contains(code string) bool {
	_, ok := t.parents[code]
	return ok
}

// ParentOf returns the parent code of code. ok is false if the code is
// unknown or is a root.
func (t *Tree) ParentOf(code string) (parent string, ok bool) {
	parent, ok = t.parents[code]
	if !ok || parent == "" {
		return "", false
	}
	return parent, true
}

// Children returns the direct children of code in insertion order.
func (t *Tree) Children(code string) []string {
	t.buildChildren()
	return t.children[code]
}

// IsLeaf reports whether no node names code as its parent.
func (t *Tree) IsLeaf(code string) bool {
	return len(t.Children(code)) == 0
}

// Descendants returns every code reachable from root by following child
// edges, excluding root itself. Each code is returned once, in depth-first
// pre-order. A cycle stops the walk at the first code already visited.
func (t *Tree) Descendants(root string) []string {
	t.buildChildren()

	visited := map[string]bool{root: true}
	result := []string{}

	var walk func(code string)
	walk = func(code string) {
		for _, child := range t.children[code] {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			walk(child)
		}
	}
	walk(root)

	return result
}

// LeafDescendants returns the descendants of root that have no children.
// The result is empty, not nil, when there are none.
func (t *Tree) LeafDescendants(root string) []string {
	leaves := []string{}
	for _, code := range t.Descendants(root) {
		if t.IsLeaf(code) {
			leaves = append(leaves, code)
		}
	}
	return leaves
}

// AncestorChainUntil walks from code upwards, code itself included, and
// returns the first code for which lookup reports a value.
//
// ok is false when the chain ends without a match. A code visited twice
// means the parent graph has a cycle, which is returned as ErrCycle.
func AncestorChainUntil[T any](t *Tree, code string, lookup func(code string) (T, bool)) (match string, value T, ok bool, err error) {
	visited := make(map[string]bool)

	current := code
	for {
		if visited[current] {
			return "", value, false, fmt.Errorf("%w: %s is its own ancestor", ErrCycle, current)
		}
		visited[current] = true

		if v, found := lookup(current); found {
			return current, v, true, nil
		}

		parent, hasParent := t.ParentOf(current)
		if !hasParent {
			return "", value, false, nil
		}
		current = parent
	}
}
