package analysis

import (
	"errors"
	"io"
	"os"

	framewalk "github.com/tcolgate/mp3"
	pcm "github.com/hajimehoshi/go-mp3"
)

// probeStream walks every MP3 frame to sum the exact duration, derives the
// average bitrate from file size over duration, and reads the sample rate
// from the stream header. VBR files get a truthful duration this way where a
// first-frame estimate would drift.
func probeStream(path string) (duration float64, bitrateBPS, sampleRateHz int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, 0, err
	}

	decoder := framewalk.NewDecoder(f)
	var frame framewalk.Frame
	var skipped int

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, 0, 0, err
		}
		duration += frame.Duration().Seconds()
	}
	if duration <= 0 {
		return 0, 0, 0, errors.New("no decodable frames")
	}

	bitrateBPS = int(float64(info.Size()) * 8 / duration)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, 0, err
	}
	header, err := pcm.NewDecoder(f)
	if err != nil {
		return 0, 0, 0, err
	}
	sampleRateHz = header.SampleRate()

	return duration, bitrateBPS, sampleRateHz, nil
}

// decodeWindow decodes a windowSeconds excerpt centered on the middle of the
// file to mono float64 samples in [-1, 1]. Short files are decoded whole.
func decodeWindow(path string, duration float64, windowSeconds int) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder, err := pcm.NewDecoder(f)
	if err != nil {
		return nil, 0, err
	}
	rate := decoder.SampleRate()
	if rate <= 0 {
		return nil, 0, errors.New("invalid sample rate")
	}

	// Decoded output is interleaved 16-bit stereo, 4 bytes per sample frame.
	offsetSeconds := duration/2 - float64(windowSeconds)/2
	if offsetSeconds < 0 {
		offsetSeconds = 0
	}
	if offsetSeconds > 0 {
		offsetBytes := int64(offsetSeconds*float64(rate)) * 4
		if _, err := decoder.Seek(offsetBytes, io.SeekStart); err != nil {
			return nil, 0, err
		}
	}

	wantBytes := windowSeconds * rate * 4
	samples := make([]float64, 0, windowSeconds*rate)
	buf := make([]byte, 8192)
	read := 0

	for read < wantBytes {
		n, err := decoder.Read(buf)
		for i := 0; i+3 < n; i += 4 {
			left := int16(buf[i]) | int16(buf[i+1])<<8
			right := int16(buf[i+2]) | int16(buf[i+3])<<8
			samples = append(samples, (float64(left)+float64(right))/2/32768.0)
		}
		read += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, err
		}
	}

	return samples, rate, nil
}
