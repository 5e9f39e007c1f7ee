package textutil

import "testing"

func TestNormalizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "IMG_0042.jpg", "img_0042"},
		{"copy suffix", "IMG_0042 copy.jpg", "img_0042"},
		{"numbered copy", "IMG_0042 - Copy 2.jpg", "img_0042"},
		{"parenthesized", "IMG_0042 (3).jpg", "img_0042"},
		{"stacked variants", "vacation copy (2).png", "vacation"},
		{"duplicate word", "report_duplicate.pdf", "report"},
		{"case folding", "HOLIDAY.MOV", "holiday"},
		{"path stripped", "/photos/2024/beach.jpg", "beach"},
		{"windows path", `C:\photos\beach.jpg`, "beach"},
		{"no extension", "notes", "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeFileName(tt.in); got != tt.want {
				t.Fatalf("NormalizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeFileNameUnicode(t *testing.T) {
	// NFKC maps the ligature and fullwidth forms onto plain ASCII.
	if got := NormalizeFileName("ﬁle.jpg"); got != "file" {
		t.Errorf("ligature not normalized: %q", got)
	}
	if NormalizeFileName("Ｐｈｏｔｏ.jpg") != NormalizeFileName("photo.jpg") {
		t.Error("fullwidth form and ASCII form should normalize equal")
	}
}

func TestNormalizeFileNameCaseFolding(t *testing.T) {
	// Full case folding, not lowercasing: ß folds to ss, and folding is
	// tag-independent so dotted/dotless I follows the default mapping.
	if NormalizeFileName("Straße.jpg") != NormalizeFileName("STRASSE.jpg") {
		t.Error("sharp s did not fold to ss")
	}
	if NormalizeFileName("İstanbul.jpg") == "" {
		t.Error("folded name unexpectedly empty")
	}
}
