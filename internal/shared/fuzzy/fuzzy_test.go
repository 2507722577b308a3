package fuzzy

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "a", 0},
		{"snap one", "snap one", 0},

		{"", "abc", 3},
		{"abc", "", 3},

		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},

		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// Case-sensitive on purpose; callers normalize first
		{"ABC", "abc", 3},

		// Vendor name typos
		{"crestron", "creston", 1},
		{"lutron", "luton", 1},
		{"wattbox", "watt box", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			reverse := Levenshtein(tt.b, tt.a)
			if result != reverse {
				t.Errorf("Levenshtein symmetry failed: (%q,%q)=%d (%q,%q)=%d",
					tt.a, tt.b, result, tt.b, tt.a, reverse)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Snap One LLC", "snap one"},
		{"  Crestron   Electronics, Inc.  ", "crestron electronics"},
		{"LUTRON", "lutron"},
		{"Sonance / Dana Innovations", "sonance dana innovations"},
		{"A&V Supply Co", "a v supply"},
		{"Middle-Atlantic", "middle atlantic"},
		// Suffix stripping never empties the name
		{"Inc", "inc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.expected {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestNameScore(t *testing.T) {
	// Identical after normalization
	if got := NameScore("Snap One LLC", "snap one"); got != 1.0 {
		t.Errorf("expected 1.0 for suffix/case variants, got %v", got)
	}

	// One-character typos should score very high
	if got := NameScore("Crestron Electronics", "Creston Electronics"); got < 0.9 {
		t.Errorf("expected score >= 0.9 for one-char typo, got %v", got)
	}

	// Unrelated names stay low
	if got := NameScore("Lutron", "Sonos"); got > 0.5 {
		t.Errorf("expected score <= 0.5 for unrelated names, got %v", got)
	}

	// Empty on both sides
	if got := NameScore("", ""); got != 1.0 {
		t.Errorf("expected 1.0 for two empty names, got %v", got)
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"snap one", "snapav"},
		{"lutron", "lutron electronics"},
		{"a", "zzzzzzzz"},
		{"", "x"},
	}

	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		if s < 0.0 || s > 1.0 || math.IsNaN(s) {
			t.Errorf("Similarity(%q, %q) = %v out of [0,1]", p[0], p[1], s)
		}
	}
}
