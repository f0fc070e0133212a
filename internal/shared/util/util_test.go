package util

import (
	"strings"
	"testing"
)

func TestOwnerKey(t *testing.T) {
	got := OwnerKey("student-42")
	if got != OwnerKey("  student-42 ") {
		t.Fatalf("expected padded IDs to share a key")
	}
	if got == OwnerKey("student-43") {
		t.Fatalf("expected distinct users to get distinct keys")
	}
	if !IsOwnerKey(got) {
		t.Fatalf("OwnerKey output %q should satisfy IsOwnerKey", got)
	}
	for _, bad := range []string{"", "abc", strings.Repeat("G", 64), strings.ToUpper(got)} {
		if IsOwnerKey(bad) {
			t.Fatalf("IsOwnerKey(%q) should be false", bad)
		}
	}
}

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"CV_Jane_Doe_2024-03-05.pdf", "CV_Jane_Doe_2024-03-05.pdf"},
		{"  SOP_José_2024-03-05.docx ", "SOP_José_2024-03-05.docx"},
		{"LOR_a/b\\c.xlsx", "LOR_a_b_c.xlsx"},
		{"CV_tab\there.pdf", "CV_tab_here.pdf"},
	}
	for _, tc := range cases {
		got, err := SafeFileName(tc.in)
		if err != nil {
			t.Fatalf("SafeFileName(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SafeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSafeFileNameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "../etc/passwd", ".env", "a..b.pdf", strings.Repeat("x", MaxFileNameBytes+1), "bad\xff.pdf"} {
		if _, err := SafeFileName(in); err != ErrInvalidFileName {
			t.Fatalf("SafeFileName(%q) error = %v, want ErrInvalidFileName", in, err)
		}
	}
}

func TestIsSafeFileName(t *testing.T) {
	if !IsSafeFileName("CV_Ada_2024-03-05.pdf") {
		t.Fatalf("expected clean name to be safe")
	}
	if IsSafeFileName(" CV.pdf") || IsSafeFileName("a/b.pdf") {
		t.Fatalf("names that need cleaning are not safe as-is")
	}
}
