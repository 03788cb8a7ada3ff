package match

import (
	"strings"

	"mixcrate/internal/library"
	"mixcrate/internal/services"
)

// Lookup resolves a reference track out of the cache by exact path, then
// exact filename, then filename substring. The fallbacks make CLI and upload
// flows forgiving about how a track is named.
func Lookup(cache *library.Cache, path, filename string) (library.Track, error) {
	if path != "" {
		if entry, found := cache.Lookup(path); found {
			return entry.Info, nil
		}
	}

	if filename != "" {
		tracks := cache.Tracks()
		for _, track := range tracks {
			if track.Filename == filename {
				return track, nil
			}
		}
		for _, track := range tracks {
			if strings.Contains(track.Filename, filename) {
				return track, nil
			}
		}
	}

	return library.Track{}, services.Wrap(services.ErrNotFound, "match", "lookup", "track not found in cache", nil)
}

// ResolveReference picks the canonical feature data for a reference track:
// when the supplied track carries a path known to the cache, the cached
// record wins so matching never runs on stale caller-supplied fields. Inline
// data is used as-is only for tracks the cache has never seen.
func ResolveReference(cache *library.Cache, supplied library.Track) library.Track {
	if supplied.Path == "" {
		return supplied
	}
	if entry, found := cache.Lookup(supplied.Path); found {
		return entry.Info
	}
	return supplied
}
