package ocr

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClean(t *testing.T) {
	in := "  Soup \t\t - $5 \r\n\n\n\n  Salad\uFFFD  - $7  \f"
	want := "Soup - $5\n\nSalad - $7"

	if got := Clean(in); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := Clean(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	short := "Soup - $5"
	if got, cut := Truncate(short, 2000); cut || got != short {
		t.Fatalf("expected short text unchanged, got %q (cut=%v)", got, cut)
	}

	long := strings.Repeat("é", 2500)
	got, cut := Truncate(long, 2000)
	if !cut {
		t.Fatal("expected text to be truncated")
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("expected marker suffix, got %q", got[len(got)-40:])
	}
	body := strings.TrimSuffix(got, TruncationMarker)
	if n := utf8.RuneCountInString(body); n != 2000 {
		t.Fatalf("expected 2000 characters kept, got %d", n)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a multi-byte character")
	}

	if got, cut := Truncate(long, 0); cut || got != long {
		t.Fatal("expected limit 0 to disable truncation")
	}
}

func TestMeaningful(t *testing.T) {
	if Meaningful("   abc   \n", 10) {
		t.Fatal("expected short text to be rejected")
	}
	if !Meaningful("Soup - $5.00", 10) {
		t.Fatal("expected menu line to pass")
	}
	if !Meaningful("  a b c d e  ", 9) {
		t.Fatal("expected interior spaces to count toward the length")
	}
}
