package textutil

import (
	"math"
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for
// tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^\pL\pN]+`)

// Fingerprint is a term-frequency vector over filename tokens.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint tokenizes an already-normalized name into a fingerprint.
// Returns nil if the name produces no usable tokens.
func NewFingerprint(name string) *Fingerprint {
	tokens := Tokenize(name)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{tokens: counts, norm: math.Sqrt(norm)}
}

// Tokenize splits a name into tokens, filtering single-character fragments.
func Tokenize(name string) []string {
	raw := tokenSplitPattern.Split(name, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if len(token) < 2 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// NameSimilarity is the one-shot form: normalize both filenames, fingerprint,
// and compare. Identical normalized names score 1.0 even when they produce no
// tokens.
func NameSimilarity(a, b string) float64 {
	normA := NormalizeFileName(a)
	normB := NormalizeFileName(b)
	if normA != "" && normA == normB {
		return 1.0
	}
	return CosineSimilarity(NewFingerprint(normA), NewFingerprint(normB))
}
