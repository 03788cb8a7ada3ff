package music

import "gonum.org/v1/gonum/stat"

// Krumhansl-Schmuckler key profiles. Each entry weights how strongly a pitch
// class belongs to the tonic-at-index-0 scale.
var majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}

var minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

// EstimateKey correlates a 12-bin chroma vector against every rotation of the
// major and minor profiles and returns the best-matching key label with its
// Camelot code. A chroma vector that is not 12 bins wide, or one with no
// usable correlation, yields the sentinels.
func EstimateKey(chroma []float64) (keyLabel, camelotCode string) {
	if len(chroma) != 12 {
		return KeyUnknown, CodeNone
	}

	bestMajor, bestMajorIdx := -2.0, -1
	bestMinor, bestMinorIdx := -2.0, -1

	for i := 0; i < 12; i++ {
		if r := correlate(chroma, majorProfile, i); r > bestMajor {
			bestMajor, bestMajorIdx = r, i
		}
		if r := correlate(chroma, minorProfile, i); r > bestMinor {
			bestMinor, bestMinorIdx = r, i
		}
	}

	if bestMajorIdx < 0 || bestMinorIdx < 0 {
		return KeyUnknown, CodeNone
	}

	if bestMajor > bestMinor {
		return noteNames[bestMajorIdx] + " Major", camelotMajor[bestMajorIdx]
	}
	return noteNames[bestMinorIdx] + " Minor", camelotMinor[bestMinorIdx]
}

// correlate computes the Pearson correlation between the chroma vector and the
// profile rotated so its tonic sits at pitch class shift.
func correlate(chroma []float64, profile [12]float64, shift int) float64 {
	rotated := make([]float64, 12)
	for j := 0; j < 12; j++ {
		rotated[j] = profile[((j-shift)%12+12)%12]
	}
	r := stat.Correlation(chroma, rotated, nil)
	if r != r { // NaN when the chroma vector is constant
		return -2
	}
	return r
}
