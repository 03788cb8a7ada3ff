package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// silenceFloorDBFS is the measured loudness reported for digital
	// silence. It must stay above the not-yet-analyzed sentinel so a
	// silent file is not mistaken for an unanalyzed one.
	silenceFloorDBFS = -96.0

	chromaFrameSize = 8192
	chromaHopSize   = 4096
	chromaMinHz     = 55.0
	chromaMaxHz     = 2000.0

	envelopeFrameSize = 1024
	envelopeHopSize   = 512
)

// loudnessDBFS measures RMS loudness relative to full scale.
func loudnessDBFS(samples []float64) float64 {
	if len(samples) == 0 {
		return silenceFloorDBFS
	}

	var sumSquares float64
	for _, s := range samples {
		sumSquares += s * s
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	if rms <= 0 {
		return silenceFloorDBFS
	}

	dbfs := 20 * math.Log10(rms)
	if dbfs < silenceFloorDBFS {
		return silenceFloorDBFS
	}
	return dbfs
}

// chromaVector folds the spectrum of Hann-windowed frames into 12 pitch
// classes. Bins are assigned by rounding to the nearest equal-tempered
// semitone against A4 = 440 Hz; energy outside the melodic range is ignored.
func chromaVector(samples []float64, sampleRate int) []float64 {
	chroma := make([]float64, 12)
	if len(samples) < chromaFrameSize {
		return chroma
	}

	window := hannWindow(chromaFrameSize)
	frame := make([]float64, chromaFrameSize)
	binHz := float64(sampleRate) / chromaFrameSize

	for start := 0; start+chromaFrameSize <= len(samples); start += chromaHopSize {
		for i := 0; i < chromaFrameSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}

		spectrum := fft.FFTReal(frame)
		for bin := 1; bin < chromaFrameSize/2; bin++ {
			freq := float64(bin) * binHz
			if freq < chromaMinHz {
				continue
			}
			if freq > chromaMaxHz {
				break
			}
			midi := 69 + 12*math.Log2(freq/440.0)
			pc := ((int(math.Round(midi)) % 12) + 12) % 12
			chroma[pc] += cmplx.Abs(spectrum[bin])
		}
	}

	return chroma
}

// estimateBPM autocorrelates the onset-strength envelope over the lag range
// the BPM bounds allow and returns the tempo of the strongest periodicity.
// Returns 0 when the signal has no usable rhythmic structure.
func estimateBPM(samples []float64, sampleRate, minBPM, maxBPM int) int {
	if len(samples) < envelopeFrameSize*4 || minBPM <= 0 || maxBPM <= minBPM {
		return 0
	}

	envelope := onsetEnvelope(samples)
	if len(envelope) == 0 {
		return 0
	}

	fps := float64(sampleRate) / envelopeHopSize
	minLag := int(fps * 60 / float64(maxBPM))
	maxLag := int(fps * 60 / float64(minBPM))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(envelope) {
		maxLag = len(envelope) - 1
	}
	if maxLag <= minLag {
		return 0
	}

	// Score one lag either side of the valid range so the peak can be
	// refined by interpolation even at the boundary.
	lo := minLag - 1
	if lo < 1 {
		lo = 1
	}
	hi := maxLag + 1
	if hi >= len(envelope) {
		hi = len(envelope) - 1
	}
	scores := make(map[int]float64, hi-lo+1)
	for lag := lo; lag <= hi; lag++ {
		var score float64
		for i := 0; i+lag < len(envelope); i++ {
			score += envelope[i] * envelope[i+lag]
		}
		scores[lag] = score / float64(len(envelope)-lag)
	}

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if s := scores[lag]; s > bestScore {
			bestScore, bestLag = s, lag
		}
	}
	if bestLag == 0 || bestScore <= 0 {
		return 0
	}

	// Parabolic interpolation around the peak recovers the fractional lag
	// the hop-sized grid cannot represent.
	refined := float64(bestLag)
	prev, prevOK := scores[bestLag-1]
	next, nextOK := scores[bestLag+1]
	if prevOK && nextOK {
		denom := prev - 2*bestScore + next
		if denom < 0 {
			delta := 0.5 * (prev - next) / denom
			if delta > -1 && delta < 1 {
				refined += delta
			}
		}
	}

	return int(math.Round(60 * fps / refined))
}

// onsetEnvelope computes per-frame energy and keeps only its positive
// first-order difference, which spikes at note and beat onsets.
func onsetEnvelope(samples []float64) []float64 {
	frames := (len(samples)-envelopeFrameSize)/envelopeHopSize + 1
	if frames < 2 {
		return nil
	}

	energy := make([]float64, frames)
	for f := 0; f < frames; f++ {
		start := f * envelopeHopSize
		var sum float64
		for i := start; i < start+envelopeFrameSize; i++ {
			sum += samples[i] * samples[i]
		}
		energy[f] = sum
	}

	envelope := make([]float64, frames-1)
	var total float64
	for f := 1; f < frames; f++ {
		diff := energy[f] - energy[f-1]
		if diff < 0 {
			diff = 0
		}
		envelope[f-1] = diff
		total += diff
	}
	if total == 0 {
		return nil
	}
	return envelope
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}
