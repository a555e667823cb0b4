package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"extract-mp3/domain/video"

	"github.com/google/uuid"
)

// Stager implements video.OutputStager with a hidden sibling file and rename
type Stager struct{}

// NewStager creates a new Stager
func NewStager() *Stager {
	return &Stager{}
}

// TempPath creates the output directory if needed and returns a unique hidden
// path beside finalPath, so the commit is a same-filesystem rename
func (s *Stager) TempPath(finalPath string) (string, error) {
	dir, base := filepath.Split(finalPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part", base, uuid.NewString())), nil
}

// Commit moves tempPath over finalPath, replacing any previous output
func (s *Stager) Commit(tempPath, finalPath string) error {
	if err := os.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("move %s to %s: %w", tempPath, finalPath, err)
	}
	return nil
}

// Discard removes tempPath. A missing file is not an error.
func (s *Stager) Discard(tempPath string) error {
	if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Ensure Stager implements video.OutputStager
var _ video.OutputStager = (*Stager)(nil)
