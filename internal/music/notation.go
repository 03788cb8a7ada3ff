package music

import "strings"

// noteIndex maps note spellings (uppercased, with enharmonic flats) to pitch
// classes.
var noteIndex = map[string]int{
	"C": 0, "B#": 0,
	"C#": 1, "DB": 1,
	"D":  2,
	"D#": 3, "EB": 3,
	"E": 4, "FB": 4,
	"F": 5, "E#": 5,
	"F#": 6, "GB": 6,
	"G":  7,
	"G#": 8, "AB": 8,
	"A":  9,
	"A#": 10, "BB": 10,
	"B": 11, "CB": 11,
}

// FromNotation parses a key written the way DJ tools embed it in file tags:
// either a Camelot code ("8B", "08A") or a note name with an optional mode
// ("Am", "F# Minor", "Db maj", bare "C" is major). ok is false for anything
// else; callers should fall back to signal analysis.
func FromNotation(value string) (keyLabel, camelotCode string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", false
	}

	if number, letter, parsed := ParseCamelot(strings.ToUpper(value)); parsed {
		code := FormatCamelot(number, letter)
		for pc := 0; pc < 12; pc++ {
			if camelotMajor[pc] == code {
				return noteNames[pc] + " Major", code, true
			}
			if camelotMinor[pc] == code {
				return noteNames[pc] + " Minor", code, true
			}
		}
		return "", "", false
	}

	upper := strings.ToUpper(value)
	note := upper[:1]
	rest := upper[1:]
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'B') {
		// A trailing B is ambiguous: "AB" is A-flat, but "AM"/"A" show the
		// pattern note+mode, so only treat B as a flat when a mode (or
		// nothing) follows it.
		candidate := note + rest[:1]
		if _, known := noteIndex[candidate]; known && (rest[0] == '#' || isMode(rest[1:])) {
			note = candidate
			rest = rest[1:]
		}
	}

	pc, known := noteIndex[note]
	if !known || !isMode(rest) {
		return "", "", false
	}

	if isMinorMode(rest) {
		return noteNames[pc] + " Minor", camelotMinor[pc], true
	}
	return noteNames[pc] + " Major", camelotMajor[pc], true
}

func isMode(s string) bool {
	s = strings.TrimSpace(s)
	switch s {
	case "", "M", "MIN", "MINOR", "MAJ", "MAJOR":
		return true
	}
	return false
}

func isMinorMode(s string) bool {
	switch strings.TrimSpace(s) {
	case "M", "MIN", "MINOR":
		return true
	}
	return false
}
