package candidate

import (
	"sort"

	"mediadup/internal/bktree"
	"mediadup/internal/bucket"
	"mediadup/internal/media"
)

// Pair is one unordered candidate pair of record ordinals, A < B.
type Pair struct {
	A int
	B int
}

// Entries builds the index entries for one bucket: one entry per photo hash,
// one per video keyframe hash. Item is always the record ordinal. Files
// flagged missing-hash contribute nothing.
func Entries(records []media.FileRecord, b *bucket.Bucket) []bktree.Entry {
	var entries []bktree.Entry
	for _, ordinal := range b.Ordinals {
		record := records[ordinal]
		if record.MediaType == media.TypeVideo {
			for _, frame := range record.FrameHashes {
				entries = append(entries, bktree.Entry{Code: frame, Item: ordinal})
			}
			continue
		}
		if record.PerceptualHash != nil {
			entries = append(entries, bktree.Entry{Code: *record.PerceptualHash, Item: ordinal})
		}
	}
	return entries
}

// Generator emits candidate pairs for one partition given its built indexes.
type Generator struct {
	records []media.FileRecord
	part    *bucket.Partition
	indexes map[bucket.Key]bktree.Index
	radius  int
}

// NewGenerator wires a generator over frozen per-bucket indexes. radius
// should be max(primary distance, confirmation band upper) so borderline
// pairs surface.
func NewGenerator(records []media.FileRecord, part *bucket.Partition, indexes map[bucket.Key]bktree.Index, radius int) *Generator {
	return &Generator{records: records, part: part, indexes: indexes, radius: radius}
}

// PairsFor returns the deduplicated candidate pairs anchored in the bucket at
// key, sorted for deterministic downstream scoring.
func (g *Generator) PairsFor(key bucket.Key) []Pair {
	b, ok := g.part.Buckets[key]
	if !ok {
		return nil
	}

	seen := make(map[int64]struct{})
	var pairs []Pair
	add := func(a, b int) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		packed := int64(a)<<32 | int64(b)
		if _, dup := seen[packed]; dup {
			return
		}
		seen[packed] = struct{}{}
		pairs = append(pairs, Pair{A: a, B: b})
	}

	// Only query upward so a cross-bucket pair is emitted by exactly one
	// bucket.
	targets := []bktree.Index{g.indexes[key]}
	crossFrom := len(targets)
	for _, neighbor := range g.part.Neighbors(key) {
		if neighbor.SizeClass < key.SizeClass {
			continue
		}
		if index, ok := g.indexes[neighbor]; ok {
			targets = append(targets, index)
		}
	}

	for _, ordinal := range b.Ordinals {
		record := g.records[ordinal]
		if g.part.MissingHash[ordinal] {
			continue
		}
		for _, code := range codesOf(record) {
			for idx, target := range targets {
				if target == nil {
					continue
				}
				crossBucket := idx >= crossFrom
				for _, match := range target.Query(code, g.radius) {
					if !crossBucket && match.Item == ordinal {
						continue
					}
					add(ordinal, match.Item)
				}
			}
		}
	}

	// Hash-less files still pair within their bucket on the remaining
	// signals.
	for _, ordinal := range b.Ordinals {
		if !g.part.MissingHash[ordinal] {
			continue
		}
		for _, other := range b.Ordinals {
			if other != ordinal {
				add(ordinal, other)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

func codesOf(record media.FileRecord) []media.HashCode {
	if record.MediaType == media.TypeVideo {
		return record.FrameHashes
	}
	if record.PerceptualHash != nil {
		return []media.HashCode{*record.PerceptualHash}
	}
	return nil
}
