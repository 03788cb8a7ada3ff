package analysis

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fileTags holds the metadata read from a file's tag block. Empty fields were
// absent from the tags.
type fileTags struct {
	artist string
	title  string
	album  string
	rawKey string
}

// rawKeyFrames lists the frame and field names DJ tools write the musical key
// under, in probe order. TKEY is the ID3v2.3/2.4 frame, TKE its v2.2
// ancestor; the rest cover Vorbis comments and MP4 freeform atoms.
var rawKeyFrames = []string{"TKEY", "TKE", "INITIALKEY", "initialkey", "KEY", "key"}

// readTags reads artist, title, album, and any embedded key notation. Tag
// errors are absorbed: files without a readable tag block still get a record,
// filled from the filename heuristic instead.
func readTags(path string) fileTags {
	f, err := os.Open(path)
	if err != nil {
		return fileTags{}
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return fileTags{}
	}

	tags := fileTags{
		artist: strings.TrimSpace(meta.Artist()),
		title:  strings.TrimSpace(meta.Title()),
		album:  strings.TrimSpace(meta.Album()),
	}

	raw := meta.Raw()
	for _, frame := range rawKeyFrames {
		if value, found := raw[frame]; found {
			if s, isString := value.(string); isString && strings.TrimSpace(s) != "" {
				tags.rawKey = strings.TrimSpace(s)
				break
			}
		}
	}

	return tags
}

var titleCaser = cases.Title(language.Und)

// inferFromFilename derives display metadata from an "Artist - Title.ext"
// style filename. Underscores read as spaces; without a separator the whole
// stem becomes the title and artist stays empty.
func inferFromFilename(filename string) (artist, title string) {
	stem := filename
	if dot := strings.LastIndexByte(stem, '.'); dot > 0 {
		stem = stem[:dot]
	}
	stem = strings.TrimSpace(strings.ReplaceAll(stem, "_", " "))
	if stem == "" {
		return "", ""
	}

	if before, after, found := strings.Cut(stem, " - "); found {
		artist = strings.TrimSpace(before)
		title = strings.TrimSpace(after)
	} else {
		title = stem
	}

	if artist != "" {
		artist = titleCaser.String(strings.ToLower(artist))
	}
	if title != "" {
		title = titleCaser.String(strings.ToLower(title))
	}
	return artist, title
}
