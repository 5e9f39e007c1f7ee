package cluster

import "testing"

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(6)
	for i := 0; i < 6; i++ {
		if uf.Find(i) != i {
			t.Fatalf("fresh element %d not its own root", i)
		}
	}

	if !uf.Union(0, 1) {
		t.Fatal("first union reported no merge")
	}
	if !uf.Union(1, 2) {
		t.Fatal("chained union reported no merge")
	}
	if uf.Union(0, 2) {
		t.Fatal("redundant union reported a merge")
	}

	if uf.Find(0) != uf.Find(2) {
		t.Error("transitively merged elements have different roots")
	}
	if uf.Find(0) == uf.Find(3) {
		t.Error("unrelated element shares a root")
	}

	uf.Union(3, 4)
	uf.Union(4, 5)
	uf.Union(2, 5)
	root := uf.Find(0)
	for i := 1; i < 6; i++ {
		if uf.Find(i) != root {
			t.Fatalf("element %d not merged into single set", i)
		}
	}
}
