// Package analysis extracts the feature record for an audio file: tag
// metadata, stream properties from an MP3 frame walk, and the signal-derived
// features (RMS loudness, musical key via chroma profile correlation, tempo
// via onset autocorrelation) from a window decoded out of the middle of the
// file.
package analysis
