package match

import (
	"sort"

	"mixcrate/internal/fileutil"
	"mixcrate/internal/library"
	"mixcrate/internal/music"
)

// Mix types, in priority order.
const (
	MixPerfect  = "PERFECT"
	MixHarmonic = "HARMONIC"
	MixEnergy   = "ENERGY"
)

const (
	priorityPerfect  = 1
	priorityHarmonic = 2
	priorityEnergy   = 3

	// sameFolderOther ranks candidates outside the reference's folder.
	// Co-located tracks always sort first, ahead of harmonic tier and
	// tempo closeness.
	sameFolderSame  = 0
	sameFolderOther = 10
)

// Suggestion is one ranked match descriptor.
type Suggestion struct {
	Track          library.Track `json:"track"`
	BPMDiff        int           `json:"bpm_diff"`
	Priority       int           `json:"priority"`
	MixType        string        `json:"mix_type"`
	MixDesc        string        `json:"mix_desc"`
	SameFolderRank int           `json:"same_folder_rank"`
}

// Classify derives the compatibility relation between two Camelot codes from
// their number/letter delta. It never trusts raw compatible-set membership,
// so the emitted mix type is always consistent with the actual wheel
// geometry. ok is false when the codes are not mixable or not parseable.
func Classify(refCode, candCode string) (mixType, mixDesc string, priority int, ok bool) {
	refNum, refLet, refOK := music.ParseCamelot(refCode)
	candNum, candLet, candOK := music.ParseCamelot(candCode)
	if !refOK || !candOK {
		return "", "", 0, false
	}

	switch {
	case refNum == candNum && refLet == candLet:
		return MixPerfect, "Same key (keeps the vibe)", priorityPerfect, true
	case refNum == candNum:
		if refLet == music.ModeMajor {
			return MixHarmonic, "Scale change: toward serious/deep", priorityHarmonic, true
		}
		return MixHarmonic, "Scale change: toward bright/energetic", priorityHarmonic, true
	case refLet == candLet && (candNum == refNum+1 || (refNum == 12 && candNum == 1)):
		return MixEnergy, "Raise energy (+1)", priorityEnergy, true
	case refLet == candLet && (candNum == refNum-1 || (refNum == 1 && candNum == 12)):
		return MixEnergy, "Lower energy (-1)", priorityEnergy, true
	default:
		return "", "", 0, false
	}
}

// FindMatches ranks the candidate pool against the reference track.
//
// allowedFolders scopes the pool before matching: nil means no filter, while
// an explicitly empty list yields zero matches. A reference without a valid
// Camelot code yields zero matches by construction, never an error. The
// reference itself is excluded from its own suggestions by path identity.
//
// Ordering is ascending by (same_folder_rank, priority, bpm_diff), stable for
// ties: contextual locality trumps harmonic tier, which trumps tempo
// closeness.
func FindMatches(ref library.Track, pool []library.Track, allowedFolders []string) []Suggestion {
	pool = filterByFolders(pool, allowedFolders)

	compatible := music.CompatibleKeys(ref.Camelot)
	if len(compatible) == 0 {
		return nil
	}
	compatibleSet := make(map[string]struct{}, len(compatible))
	for _, code := range compatible {
		compatibleSet[code] = struct{}{}
	}

	refFolder := ref.Folder
	if refFolder == "" && ref.Path != "" {
		refFolder = fileutil.FolderOf(ref.Path)
	}

	suggestions := make([]Suggestion, 0, len(pool))
	for _, cand := range pool {
		if cand.Path == ref.Path {
			continue
		}
		if _, inSet := compatibleSet[cand.Camelot]; !inSet {
			continue
		}

		mixType, mixDesc, priority, ok := Classify(ref.Camelot, cand.Camelot)
		if !ok {
			continue
		}

		bpmDiff := cand.BPM - ref.BPM
		if bpmDiff < 0 {
			bpmDiff = -bpmDiff
		}

		folderRank := sameFolderOther
		if cand.Folder == refFolder {
			folderRank = sameFolderSame
		}

		suggestions = append(suggestions, Suggestion{
			Track:          cand,
			BPMDiff:        bpmDiff,
			Priority:       priority,
			MixType:        mixType,
			MixDesc:        mixDesc,
			SameFolderRank: folderRank,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.SameFolderRank != b.SameFolderRank {
			return a.SameFolderRank < b.SameFolderRank
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.BPMDiff < b.BPMDiff
	})

	return suggestions
}

// filterByFolders restricts the pool to tracks whose folder matches one of
// the allowed folders. Comparison is canonical string equality; no filesystem
// access is involved. nil means "no filter"; an empty non-nil list filters to
// nothing.
func filterByFolders(pool []library.Track, allowedFolders []string) []library.Track {
	if allowedFolders == nil {
		return pool
	}
	if len(allowedFolders) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(allowedFolders))
	for _, folder := range allowedFolders {
		allowed[fileutil.CanonicalFolder(folder)] = struct{}{}
	}

	filtered := make([]library.Track, 0, len(pool))
	for _, track := range pool {
		folder := track.Folder
		if folder == "" && track.Path != "" {
			folder = fileutil.FolderOf(track.Path)
		}
		if _, ok := allowed[fileutil.CanonicalFolder(folder)]; ok {
			filtered = append(filtered, track)
		}
	}
	return filtered
}
