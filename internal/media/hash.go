package media

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// HashCode is a fixed-length 64-bit perceptual hash (e.g. dHash for photos,
// per-keyframe dHash for videos, pHash for secondary confirmation).
type HashCode uint64

// Distance returns the Hamming distance between two codes.
func (h HashCode) Distance(other HashCode) int {
	return bits.OnesCount64(uint64(h) ^ uint64(other))
}

// String renders the code as 16 lowercase hex digits.
func (h HashCode) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// MarshalText renders the code as hex for JSON and YAML payloads.
func (h HashCode) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a hex-encoded code.
func (h *HashCode) UnmarshalText(text []byte) error {
	parsed, err := ParseHashCode(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHashCode parses a hex-encoded 64-bit hash code. An optional "0x"
// prefix is accepted; the empty string is an error (callers model absence
// with a nil *HashCode, never an empty string).
func ParseHashCode(raw string) (HashCode, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "0x"))
	if trimmed == "" {
		return 0, fmt.Errorf("parse hash code: empty value")
	}
	if len(trimmed) > 16 {
		return 0, fmt.Errorf("parse hash code %q: longer than 64 bits", raw)
	}
	value, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hash code %q: %w", raw, err)
	}
	return HashCode(value), nil
}
