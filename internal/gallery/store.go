package gallery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SlotCount is the fixed size of the gallery: the landing page renders
// exactly six tiles.
const SlotCount = 6

// ErrInvalidGallery is returned for updates that are not exactly six
// strings.
var ErrInvalidGallery = fmt.Errorf("gallery must be an array of exactly %d URLs", SlotCount)

// Store persists the gallery as a flat JSON file rather than a table.
// Reads of a missing or corrupt file degrade to six empty slots so the
// page always has something to render.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func emptySlots() []string {
	return make([]string, SlotCount)
}

// Images returns the current six image URLs.
func (s *Store) Images() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return emptySlots()
	}

	var images []string
	if err := json.Unmarshal(data, &images); err != nil || len(images) != SlotCount {
		return emptySlots()
	}
	return images
}

// Replace validates and replaces all six slots wholesale. The write goes
// through a temp file + rename so a crash mid-write cannot corrupt the
// gallery.
func (s *Store) Replace(images []string) error {
	if len(images) != SlotCount {
		return ErrInvalidGallery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create gallery dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(images, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write gallery: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace gallery: %w", err)
	}
	return nil
}
