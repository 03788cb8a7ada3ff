package analysis

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"mixcrate/internal/library"
	"mixcrate/internal/logging"
	"mixcrate/internal/music"
	"mixcrate/internal/services"
)

const (
	defaultWindowSeconds = 30
	defaultMinBPM        = 60
	defaultMaxBPM        = 180
)

// Options bundles extractor tunables. Zero values fall back to the documented
// defaults.
type Options struct {
	WindowSeconds int
	MinBPM        int
	MaxBPM        int
	Logger        *slog.Logger
}

// Extractor reads feature records from audio files on disk. Tag metadata is
// read for every supported container; the signal-analysis pass (loudness,
// key, BPM) runs on MP3 files only and is skipped unless requested.
type Extractor struct {
	windowSeconds int
	minBPM        int
	maxBPM        int
	logger        *slog.Logger
}

// New creates an extractor.
func New(opts Options) *Extractor {
	if opts.WindowSeconds <= 0 {
		opts.WindowSeconds = defaultWindowSeconds
	}
	if opts.MinBPM <= 0 {
		opts.MinBPM = defaultMinBPM
	}
	if opts.MaxBPM <= opts.MinBPM {
		opts.MaxBPM = defaultMaxBPM
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	return &Extractor{
		windowSeconds: opts.WindowSeconds,
		minBPM:        opts.MinBPM,
		maxBPM:        opts.MaxBPM,
		logger:        logging.NewComponentLogger(opts.Logger, "analysis"),
	}
}

// Extract builds the feature record for one file. Fields that cannot be
// derived keep their sentinels; only an unreadable or undecodable file is an
// error. The path must already be normalized.
func (e *Extractor) Extract(ctx context.Context, path string, wantLoudness bool) (library.Track, error) {
	track := library.NewTrack(path)

	if err := ctx.Err(); err != nil {
		return track, err
	}

	tags := readTags(path)
	if tags.artist != "" {
		track.Artist = tags.artist
	}
	if tags.title != "" {
		track.Title = tags.title
	}
	if tags.album != "" {
		track.Album = tags.album
	}
	if tags.artist == "" || tags.title == "" {
		artist, title := inferFromFilename(track.Filename)
		if tags.artist == "" && artist != "" {
			track.Artist = artist
		}
		if tags.title == "" && title != "" {
			track.Title = title
		}
	}

	if tags.rawKey != "" {
		if label, code, ok := music.FromNotation(tags.rawKey); ok {
			track.Key = label
			track.Camelot = code
		}
	}

	isMP3 := strings.EqualFold(filepath.Ext(path), ".mp3")
	if !isMP3 {
		if wantLoudness {
			e.logger.Debug("signal analysis skipped for non-mp3 file",
				logging.String(logging.FieldPath, path))
		}
		return track, nil
	}

	duration, bitrate, sampleRate, err := probeStream(path)
	if err != nil {
		return track, services.Wrap(services.ErrValidation, "analysis", "probe", "unreadable mp3 stream", err)
	}
	track.Duration = duration
	track.Bitrate = bitrate
	track.SampleRate = sampleRate

	if !wantLoudness {
		return track, nil
	}

	if err := ctx.Err(); err != nil {
		return track, err
	}

	samples, rate, err := decodeWindow(path, duration, e.windowSeconds)
	if err != nil {
		return track, services.Wrap(services.ErrValidation, "analysis", "decode", "mp3 decode failed", err)
	}
	if len(samples) == 0 || rate <= 0 {
		return track, services.Wrap(services.ErrValidation, "analysis", "decode", "mp3 stream produced no samples", nil)
	}

	track.LoudnessDBFS = loudnessDBFS(samples)
	if !track.HasKey() {
		track.Key, track.Camelot = music.EstimateKey(chromaVector(samples, rate))
	}
	track.BPM = estimateBPM(samples, rate, e.minBPM, e.maxBPM)

	return track, nil
}
