package bktree

import (
	"math/rand"
	"sort"
	"testing"

	"mediadup/internal/media"
)

func TestTreeQueryExact(t *testing.T) {
	tree := NewTree(4)
	codes := []media.HashCode{0x00, 0x01, 0x03, 0xff}
	for i, code := range codes {
		if err := tree.Insert(code, i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	tree.Freeze()

	got := tree.Query(0x00, 2)
	want := []int{0, 1, 2} // distances 0, 1, 2
	if len(got) != len(want) {
		t.Fatalf("Query = %v, want items %v", got, want)
	}
	for i, entry := range got {
		if entry.Item != want[i] {
			t.Fatalf("result %d = item %d, want %d (sorted by item)", i, entry.Item, want[i])
		}
	}

	if got := tree.Query(0x00, 0); len(got) != 1 || got[0].Item != 0 {
		t.Errorf("radius 0 query = %v, want only the exact match", got)
	}
	if got := tree.Query(0x00, -1); got != nil {
		t.Errorf("negative radius = %v, want nil", got)
	}
}

func TestTreeDuplicateCodesShareNode(t *testing.T) {
	tree := NewTree(3)
	for i := 0; i < 3; i++ {
		if err := tree.Insert(0xabcd, i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	tree.Freeze()
	if tree.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tree.Len())
	}
	got := tree.Query(0xabcd, 0)
	if len(got) != 3 {
		t.Fatalf("duplicate-code query returned %d entries, want 3", len(got))
	}
}

func TestTreeInsertAfterFreeze(t *testing.T) {
	tree := NewTree(1)
	if err := tree.Insert(0x1, 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	tree.Freeze()
	if err := tree.Insert(0x2, 1); err != ErrFrozen {
		t.Fatalf("Insert after Freeze = %v, want ErrFrozen", err)
	}
}

func bruteForce(entries []Entry, code media.HashCode, radius int) []int {
	var items []int
	for _, entry := range entries {
		if code.Distance(entry.Code) <= radius {
			items = append(items, entry.Item)
		}
	}
	sort.Ints(items)
	return items
}

func TestTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entries := make([]Entry, 500)
	for i := range entries {
		// Cluster codes around a handful of centers so radius queries
		// actually return neighbors.
		center := media.HashCode(rng.Uint64())
		code := center
		for b := 0; b < rng.Intn(8); b++ {
			code ^= 1 << uint(rng.Intn(64))
		}
		entries[i] = Entry{Code: code, Item: i}
	}

	tree := NewTree(len(entries))
	for _, entry := range entries {
		if err := tree.Insert(entry.Code, entry.Item); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	tree.Freeze()

	for trial := 0; trial < 50; trial++ {
		probe := entries[rng.Intn(len(entries))].Code
		for b := 0; b < rng.Intn(4); b++ {
			probe ^= 1 << uint(rng.Intn(64))
		}
		radius := rng.Intn(12)

		want := bruteForce(entries, probe, radius)
		results := tree.Query(probe, radius)
		got := make([]int, len(results))
		for i, entry := range results {
			got[i] = entry.Item
		}

		if len(got) != len(want) {
			t.Fatalf("trial %d: query(%s, %d) returned %d items, brute force %d",
				trial, probe, radius, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d: item %d = %d, want %d", trial, i, got[i], want[i])
			}
		}
	}
}

func TestLinearMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	entries := make([]Entry, 100)
	for i := range entries {
		entries[i] = Entry{Code: media.HashCode(rng.Uint64()), Item: i}
	}
	linear := NewLinear(entries)

	probe := entries[0].Code ^ 0x3
	want := bruteForce(entries, probe, 5)
	results := linear.Query(probe, 5)
	got := make([]int, len(results))
	for i, entry := range results {
		got[i] = entry.Item
	}
	if len(got) != len(want) {
		t.Fatalf("Linear query returned %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBuildSelectsIndex(t *testing.T) {
	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = Entry{Code: media.HashCode(i), Item: i}
	}

	index, degraded := Build(entries, 100)
	if degraded {
		t.Error("small bucket reported degraded")
	}
	if _, ok := index.(*Tree); !ok {
		t.Errorf("small bucket index is %T, want *Tree", index)
	}

	index, degraded = Build(entries, 5)
	if !degraded {
		t.Error("oversized bucket not reported degraded")
	}
	if _, ok := index.(*Linear); !ok {
		t.Errorf("oversized bucket index is %T, want *Linear", index)
	}

	if index.Len() != len(entries) {
		t.Errorf("Len = %d, want %d", index.Len(), len(entries))
	}
}

func TestComparisonsAccumulate(t *testing.T) {
	tree := NewTree(8)
	for i := 0; i < 8; i++ {
		_ = tree.Insert(media.HashCode(i*17), i)
	}
	tree.Freeze()
	before := tree.Comparisons()
	tree.Query(0x0, 3)
	if tree.Comparisons() <= before {
		t.Error("query did not add comparisons")
	}
}
