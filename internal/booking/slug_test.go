package booking

import (
	"regexp"
	"strings"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestDeriveSlugIsURLSafe(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{name: "plain name", parts: []string{"Ana Torres"}},
		{name: "accents", parts: []string{"María Pérez"}},
		{name: "date and time", parts: []string{"2025-11-10", "08:20"}},
		{name: "punctuation", parts: []string{"Dr. Gómez, Jr."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSlug(tt.parts...)
			if !slugPattern.MatchString(got) {
				t.Errorf("DeriveSlug(%v) = %q, not URL safe", tt.parts, got)
			}
		})
	}
}

func TestDeriveSlugContainsBase(t *testing.T) {
	got := DeriveSlug("Ana Torres")
	if !strings.HasPrefix(got, "ana-torres-") {
		t.Errorf("DeriveSlug(Ana Torres) = %q, want ana-torres- prefix", got)
	}
}

func TestDeriveSlugUniquePerCall(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		s := DeriveSlug("Ana Torres")
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate slug %q after %d derivations", s, i)
		}
		seen[s] = struct{}{}
	}
}
