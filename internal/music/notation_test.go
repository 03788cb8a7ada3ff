package music_test

import (
	"testing"

	"mixcrate/internal/music"
)

func TestFromNotation(t *testing.T) {
	tests := []struct {
		value   string
		key     string
		camelot string
		ok      bool
	}{
		{"8B", "C Major", "8B", true},
		{"08A", "A Minor", "8A", true},
		{"12b", "E Major", "12B", true},
		{"Am", "A Minor", "8A", true},
		{"A", "A Major", "11B", true},
		{"F# Minor", "F# Minor", "11A", true},
		{"Db maj", "C# Major", "3B", true},
		{"Ab", "Ab Major", "4B", true},
		{"Abm", "Ab Minor", "1A", true},
		{"ebmin", "Eb Minor", "2A", true},
		{"  C  ", "C Major", "8B", true},
		{"", "", "", false},
		{"13B", "", "", false},
		{"0A", "", "", false},
		{"H", "", "", false},
		{"Cdim", "", "", false},
		{"---", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			key, camelot, ok := music.FromNotation(tt.value)
			if ok != tt.ok {
				t.Fatalf("FromNotation(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if key != tt.key || camelot != tt.camelot {
				t.Fatalf("FromNotation(%q) = (%q, %q), want (%q, %q)", tt.value, key, camelot, tt.key, tt.camelot)
			}
		})
	}
}
