package textutil

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	folder = cases.Fold()

	// variantSuffixPattern matches copy-style suffixes appended by file
	// managers and export tools: "(1)", " copy", "- Copy 2", "_copy".
	variantSuffixPattern = regexp.MustCompile(`(?i)(?:[ _.-]*(?:copy|duplicate)[ _-]*\d*|[ _-]*\(\d+\))+$`)
)

// NormalizeFileName prepares a filename for similarity comparison: the
// extension and copy-variant suffixes are stripped, Unicode is normalized to
// NFKC, and case is folded.
func NormalizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = variantSuffixPattern.ReplaceAllString(base, "")
	base = norm.NFKC.String(base)
	return folder.String(strings.TrimSpace(base))
}
