package music

import (
	"fmt"
	"regexp"
)

// Sentinel values for tracks whose key analysis is missing or failed.
const (
	KeyUnknown = "Unknown"
	CodeNone   = "---"
)

// Mode letters on the wheel: A = minor (inner ring), B = major (outer ring).
const (
	ModeMinor = 'A'
	ModeMajor = 'B'
)

var camelotPattern = regexp.MustCompile(`^(\d{1,2})([AB])$`)

// camelotMajor and camelotMinor map a pitch class (0=C .. 11=B) to its
// position on the Camelot wheel.
var camelotMajor = [12]string{"8B", "3B", "10B", "5B", "12B", "7B", "2B", "9B", "4B", "11B", "6B", "1B"}

var camelotMinor = [12]string{"5A", "12A", "7A", "2A", "9A", "4A", "11A", "6A", "1A", "8A", "3A", "10A"}

var noteNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// ParseCamelot splits a Camelot code into its wheel number and mode letter.
// Codes outside 1..12 x {A,B}, including the CodeNone sentinel, are invalid.
func ParseCamelot(code string) (number int, letter byte, ok bool) {
	m := camelotPattern.FindStringSubmatch(code)
	if m == nil {
		return 0, 0, false
	}
	n := 0
	for _, d := range m[1] {
		n = n*10 + int(d-'0')
	}
	if n < 1 || n > 12 {
		return 0, 0, false
	}
	return n, m[2][0], true
}

// FormatCamelot renders a wheel position in canonical form (no leading zeros).
func FormatCamelot(number int, letter byte) string {
	return fmt.Sprintf("%d%c", number, letter)
}

// CompatibleKeys returns the Camelot codes mixable with the given code, in
// ranking order: the code itself, its relative (mode switch), then the
// adjacent positions up and down the wheel. Invalid codes and the CodeNone
// sentinel yield nil; no compatibility claims are made for unanalyzed tracks.
func CompatibleKeys(code string) []string {
	number, letter, ok := ParseCamelot(code)
	if !ok {
		return nil
	}

	relative := byte(ModeMajor)
	if letter == ModeMajor {
		relative = ModeMinor
	}

	up := number + 1
	if up > 12 {
		up = 1
	}
	down := number - 1
	if down < 1 {
		down = 12
	}

	return []string{
		FormatCamelot(number, letter),
		FormatCamelot(number, relative),
		FormatCamelot(up, letter),
		FormatCamelot(down, letter),
	}
}
