package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	playerrors "github.com/jscyril/bgaudio/pkg/errors"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/assets/fullsong.mp3", true},
		{"/assets/fullsong.MP3", true},
		{"/assets/fullsong.wav", true},
		{"/assets/fullsong.flac", true},
		{"/assets/fullsong.ogg", false},
		{"/assets/fullsong.aac", false},
		{"/assets/fullsong.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := IsSupported(tt.path)
			if result != tt.expected {
				t.Errorf("IsSupported(%s) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()

	if len(formats) == 0 {
		t.Error("SupportedFormats should return at least one format")
	}

	expected := map[string]bool{".mp3": true, ".wav": true, ".flac": true}
	for _, f := range formats {
		if !expected[f] {
			t.Errorf("Unexpected format: %s", f)
		}
	}
}

func TestOpenAudio_UnsupportedFormat(t *testing.T) {
	_, _, err := openAudio("/assets/fullsong.ogg")
	if !errors.Is(err, playerrors.ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestOpenAudio_MissingFile(t *testing.T) {
	_, _, err := openAudio(filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped not-exist error, got %v", err)
	}
}

func TestOpenAudio_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not a wave file"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := openAudio(path); err == nil {
		t.Error("Expected decode error for garbage input")
	}
}
