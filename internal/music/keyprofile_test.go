package music_test

import (
	"testing"

	"mixcrate/internal/music"
)

// chromaForScale builds a synthetic chroma vector by lighting up the pitch
// classes of a scale, weighted toward the tonic.
func chromaForScale(tonic int, intervals []int) []float64 {
	chroma := make([]float64, 12)
	for i, interval := range intervals {
		weight := 1.0
		if i == 0 {
			weight = 3.0
		}
		chroma[(tonic+interval)%12] = weight
	}
	return chroma
}

var (
	majorIntervals = []int{0, 2, 4, 5, 7, 9, 11}
	minorIntervals = []int{0, 2, 3, 5, 7, 8, 10}
)

func TestEstimateKeyMajorScales(t *testing.T) {
	tests := []struct {
		tonic   int
		label   string
		camelot string
	}{
		{0, "C Major", "8B"},
		{9, "A Major", "11B"},
		{7, "G Major", "9B"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			label, camelot := music.EstimateKey(chromaForScale(tt.tonic, majorIntervals))
			if label != tt.label || camelot != tt.camelot {
				t.Fatalf("got (%q, %q), want (%q, %q)", label, camelot, tt.label, tt.camelot)
			}
		})
	}
}

func TestEstimateKeyMinorScale(t *testing.T) {
	label, camelot := music.EstimateKey(chromaForScale(9, minorIntervals))
	if label != "A Minor" || camelot != "8A" {
		t.Fatalf("got (%q, %q), want (A Minor, 8A)", label, camelot)
	}
}

func TestEstimateKeyDegenerateInput(t *testing.T) {
	if label, camelot := music.EstimateKey(nil); label != music.KeyUnknown || camelot != music.CodeNone {
		t.Fatalf("nil chroma: got (%q, %q)", label, camelot)
	}

	flat := make([]float64, 12)
	if label, camelot := music.EstimateKey(flat); label != music.KeyUnknown || camelot != music.CodeNone {
		t.Fatalf("flat chroma: got (%q, %q)", label, camelot)
	}
}
