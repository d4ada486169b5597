package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"

	"github.com/jscyril/bgaudio/api"
)

// ReadTrack extracts metadata from an audio file. Files without tags get
// their base name as title.
func ReadTrack(filePath string) (*api.Track, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return fallbackTrack(filePath), nil
	}

	return &api.Track{
		Title:    getOrDefault(metadata.Title(), filepath.Base(filePath)),
		Artist:   getOrDefault(metadata.Artist(), "Unknown Artist"),
		Album:    getOrDefault(metadata.Album(), "Unknown Album"),
		FilePath: filePath,
	}, nil
}

func fallbackTrack(filePath string) *api.Track {
	return &api.Track{
		Title:    filepath.Base(filePath),
		FilePath: filePath,
	}
}

// getOrDefault returns the value if non-empty, otherwise returns the default
func getOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
