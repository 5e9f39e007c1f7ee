package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the engine's error taxonomy. Only ErrConfiguration is
// fatal at the API boundary; the others degrade the affected file, pair, or
// bucket and continue.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrMissingSignal     = errors.New("missing signal")
	ErrPartialExtraction = errors.New("partial extraction")
	ErrIndexOverflow     = errors.New("index overflow")
)

// Wrap builds an error that includes component context while tagging it with
// the provided marker for errors.Is classification.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err should abort the scan instead of degrading it.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
