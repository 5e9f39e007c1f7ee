package bucket

import (
	"fmt"
	"math"
	"sort"

	"mediadup/internal/media"
)

// Key identifies one coarse bucket. Buckets never span media types.
type Key struct {
	MediaType media.MediaType
	SizeClass int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/size-class-%d", k.MediaType, k.SizeClass)
}

// Bucket holds the record ordinals assigned to one key, in input order.
// Ordinals index the scan's record slice.
type Bucket struct {
	Key      Key
	Ordinals []int
}

// ChecksumGroup is a set of records sharing an exact checksum. Every pair
// inside it is a confirmed duplicate at confidence 1.0; only Representative
// continues into hash-based bucketing so near-duplicates can still join.
type ChecksumGroup struct {
	Checksum       string `json:"checksum"`
	Ordinals       []int  `json:"ordinals"`
	Representative int    `json:"representative"`
}

// Partition is the bucketer's output: checksum short-circuit groups plus the
// disjoint hash-search buckets.
type Partition struct {
	ChecksumGroups []ChecksumGroup
	Buckets        map[Key]*Bucket
	// Keys lists bucket keys in a deterministic order for iteration.
	Keys []Key
	// MissingHash holds ordinals whose perceptual hash is absent; they stay
	// in their bucket for name/metadata matching but skip the neighbor index.
	MissingHash map[int]bool
}

// Build partitions records by checksum, then by (media type, size class).
// sizeTolerancePct controls the width of the size bands.
func Build(records []media.FileRecord, sizeTolerancePct float64) *Partition {
	part := &Partition{
		Buckets:     make(map[Key]*Bucket),
		MissingHash: make(map[int]bool),
	}

	byChecksum := make(map[string][]int)
	for ordinal, record := range records {
		if record.Checksum == "" {
			continue
		}
		key := string(record.MediaType) + ":" + record.Checksum
		byChecksum[key] = append(byChecksum[key], ordinal)
	}

	// Ordinals folded into a checksum group as non-representatives skip
	// hash bucketing entirely.
	folded := make(map[int]bool)
	checksums := make([]string, 0, len(byChecksum))
	for key := range byChecksum {
		if len(byChecksum[key]) < 2 {
			continue
		}
		checksums = append(checksums, key)
	}
	sort.Strings(checksums)
	for _, key := range checksums {
		ordinals := byChecksum[key]
		sort.Slice(ordinals, func(i, j int) bool {
			return records[ordinals[i]].ID < records[ordinals[j]].ID
		})
		group := ChecksumGroup{
			Checksum:       records[ordinals[0]].Checksum,
			Ordinals:       ordinals,
			Representative: ordinals[0],
		}
		for _, ordinal := range ordinals[1:] {
			folded[ordinal] = true
		}
		part.ChecksumGroups = append(part.ChecksumGroups, group)
	}

	for ordinal, record := range records {
		if folded[ordinal] {
			continue
		}
		key := Key{MediaType: record.MediaType, SizeClass: SizeClass(record.FileSize, sizeTolerancePct)}
		b, ok := part.Buckets[key]
		if !ok {
			b = &Bucket{Key: key}
			part.Buckets[key] = b
		}
		b.Ordinals = append(b.Ordinals, ordinal)
		if !record.HasPerceptualHash() {
			part.MissingHash[ordinal] = true
		}
	}

	part.Keys = make([]Key, 0, len(part.Buckets))
	for key := range part.Buckets {
		part.Keys = append(part.Keys, key)
	}
	sort.Slice(part.Keys, func(i, j int) bool {
		a, b := part.Keys[i], part.Keys[j]
		if a.MediaType != b.MediaType {
			return a.MediaType < b.MediaType
		}
		return a.SizeClass < b.SizeClass
	})
	return part
}

// SizeClass quantizes a file size into a log-scaled band so files within the
// tolerance of each other land in the same or an adjacent class. Candidate
// generation searches adjacent classes to cover band boundaries.
func SizeClass(size int64, tolerancePct float64) int {
	if size <= 0 {
		return 0
	}
	return int(math.Floor(math.Log(float64(size)) / math.Log1p(tolerancePct)))
}

// Neighbors returns the keys of the same-media-type buckets adjacent to key
// that exist in the partition, covering files that straddle a band edge.
func (p *Partition) Neighbors(key Key) []Key {
	neighbors := make([]Key, 0, 2)
	for _, delta := range []int{-1, 1} {
		candidate := Key{MediaType: key.MediaType, SizeClass: key.SizeClass + delta}
		if _, ok := p.Buckets[candidate]; ok {
			neighbors = append(neighbors, candidate)
		}
	}
	return neighbors
}
