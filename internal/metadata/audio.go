package metadata

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// AudioTagExtractor reads ID3/MP4/FLAC-style tags from audio files.
type AudioTagExtractor struct{}

func (a *AudioTagExtractor) Name() string { return "audiotags" }

func (a *AudioTagExtractor) Extract(path string) (Fields, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}

	provenance := "tag:" + string(meta.Format())
	fields := Fields{}
	if title := meta.Title(); title != "" {
		fields.SetString(FieldTitle, title, provenance)
	}
	if artist := meta.Artist(); artist != "" {
		fields.SetString(FieldArtist, artist, provenance)
	}
	if album := meta.Album(); album != "" {
		fields.SetString(FieldAlbum, album, provenance)
	}
	if year := meta.Year(); year > 0 {
		fields.SetInt(FieldYear, int64(year), provenance)
	}
	return fields, nil
}
