// Package music holds the key-theory tables shared by the analyzer and the
// matching engine: Camelot wheel parsing and compatibility, note names, and
// the Krumhansl-Schmuckler profile correlation used to label an estimated key.
package music
