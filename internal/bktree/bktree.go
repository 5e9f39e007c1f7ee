package bktree

import (
	"errors"
	"sort"
	"sync/atomic"

	"mediadup/internal/media"
)

// Entry pairs a hash code with an opaque item handle. The engine packs record
// ordinals (and, for video, frame indexes) into Item.
type Entry struct {
	Code media.HashCode
	Item int
}

// Index answers radius queries over a fixed set of entries.
type Index interface {
	// Query returns every entry within Hamming distance radius of code,
	// sorted by item handle. Exactness is a correctness invariant.
	Query(code media.HashCode, radius int) []Entry
	// Len reports the number of stored entries.
	Len() int
	// Comparisons reports the cumulative number of code comparisons
	// performed by inserts and queries.
	Comparisons() uint64
}

// ErrFrozen is returned by Insert after Freeze has been called.
var ErrFrozen = errors.New("bktree: insert after freeze")

type node struct {
	code media.HashCode
	// items holds every item whose code equals this node's code.
	items []int
	// edges maps exact parent-to-child Hamming distance to the child's
	// arena index.
	edges map[int]int32
}

// Tree is an arena-backed BK-tree. One goroutine inserts until Freeze; after
// that, queries may run concurrently.
type Tree struct {
	nodes       []node
	size        int
	frozen      bool
	comparisons atomic.Uint64
}

// NewTree returns an empty tree sized for capacity entries.
func NewTree(capacity int) *Tree {
	if capacity < 0 {
		capacity = 0
	}
	return &Tree{nodes: make([]node, 0, capacity)}
}

// Insert adds one code/item pair. Duplicate codes share a node.
func (t *Tree) Insert(code media.HashCode, item int) error {
	if t.frozen {
		return ErrFrozen
	}
	t.size++
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, node{code: code, items: []int{item}})
		return nil
	}

	cur := int32(0)
	for {
		n := &t.nodes[cur]
		t.comparisons.Add(1)
		dist := code.Distance(n.code)
		if dist == 0 {
			n.items = append(n.items, item)
			return nil
		}
		if n.edges == nil {
			n.edges = make(map[int]int32)
		}
		next, ok := n.edges[dist]
		if !ok {
			t.nodes = append(t.nodes, node{code: code, items: []int{item}})
			n.edges[dist] = int32(len(t.nodes) - 1)
			return nil
		}
		cur = next
	}
}

// Freeze marks construction complete. Inserting afterwards is an error.
func (t *Tree) Freeze() {
	t.frozen = true
}

// Query walks the tree, pruning subtrees the triangle inequality rules out.
func (t *Tree) Query(code media.HashCode, radius int) []Entry {
	if len(t.nodes) == 0 || radius < 0 {
		return nil
	}
	var matches []Entry
	stack := make([]int32, 0, 64)
	stack = append(stack, 0)
	var comparisons uint64
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[cur]
		comparisons++
		dist := code.Distance(n.code)
		if dist <= radius {
			for _, item := range n.items {
				matches = append(matches, Entry{Code: n.code, Item: item})
			}
		}
		// A child at edge distance d can contain codes within radius only
		// when |dist - d| <= radius.
		for d, child := range n.edges {
			if d >= dist-radius && d <= dist+radius {
				stack = append(stack, child)
			}
		}
	}
	t.comparisons.Add(comparisons)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Item < matches[j].Item })
	return matches
}

// Len reports the number of inserted entries.
func (t *Tree) Len() int { return t.size }

// Comparisons reports accumulated code comparisons.
func (t *Tree) Comparisons() uint64 { return t.comparisons.Load() }

// Linear is the fallback index for oversized buckets: a plain slice scanned
// in full per query. Degraded but bounded.
type Linear struct {
	entries     []Entry
	comparisons atomic.Uint64
}

// NewLinear wraps the given entries without copying.
func NewLinear(entries []Entry) *Linear {
	return &Linear{entries: entries}
}

func (l *Linear) Query(code media.HashCode, radius int) []Entry {
	if radius < 0 {
		return nil
	}
	var matches []Entry
	for _, entry := range l.entries {
		if code.Distance(entry.Code) <= radius {
			matches = append(matches, entry)
		}
	}
	l.comparisons.Add(uint64(len(l.entries)))
	sort.Slice(matches, func(i, j int) bool { return matches[i].Item < matches[j].Item })
	return matches
}

func (l *Linear) Len() int { return len(l.entries) }

func (l *Linear) Comparisons() uint64 { return l.comparisons.Load() }

// Build constructs the right index for a bucket's entries: a frozen tree, or
// a linear scan when the bucket exceeds ceiling (degraded reports which).
func Build(entries []Entry, ceiling int) (Index, bool) {
	if ceiling > 0 && len(entries) > ceiling {
		return NewLinear(entries), true
	}
	tree := NewTree(len(entries))
	for _, entry := range entries {
		// Insert cannot fail before Freeze.
		_ = tree.Insert(entry.Code, entry.Item)
	}
	tree.Freeze()
	return tree, false
}
