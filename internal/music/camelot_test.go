package music_test

import (
	"testing"

	"mixcrate/internal/music"
)

func TestParseCamelot(t *testing.T) {
	tests := []struct {
		code   string
		number int
		letter byte
		ok     bool
	}{
		{"8B", 8, 'B', true},
		{"1A", 1, 'A', true},
		{"12B", 12, 'B', true},
		{"13A", 0, 0, false},
		{"0B", 0, 0, false},
		{"---", 0, 0, false},
		{"", 0, 0, false},
		{"8C", 0, 0, false},
		{"B8", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			number, letter, ok := music.ParseCamelot(tt.code)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if number != tt.number || letter != tt.letter {
				t.Fatalf("got (%d, %c), want (%d, %c)", number, letter, tt.number, tt.letter)
			}
		})
	}
}

func TestCompatibleKeys(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{"8B", []string{"8B", "8A", "9B", "7B"}},
		{"1A", []string{"1A", "1B", "2A", "12A"}},
		{"12B", []string{"12B", "12A", "1B", "11B"}},
		{"5A", []string{"5A", "5B", "6A", "4A"}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := music.CompatibleKeys(tt.code)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("position %d: got %q, want %q (full: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestCompatibleKeysInvalidCodes(t *testing.T) {
	for _, code := range []string{"---", "", "13B", "0A", "junk"} {
		if got := music.CompatibleKeys(code); got != nil {
			t.Errorf("CompatibleKeys(%q) = %v, want nil", code, got)
		}
	}
}
