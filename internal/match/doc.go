// Package match implements the harmonic compatibility engine: it classifies
// candidate tracks against a reference using Camelot wheel geometry and
// returns a fully ordered ranking.
//
// The three compatibility tiers are PERFECT (identical code), HARMONIC (same
// number, opposite mode), and ENERGY (adjacent number, same mode, wrapping
// 12 to 1). Ranking sorts ascending by (same-folder rank, tier priority, BPM
// difference); co-located tracks always outrank better harmonic or tempo
// matches from other folders.
package match
