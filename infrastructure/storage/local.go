// Package storage implements the audio blob store on the local filesystem.
// References are relative paths under the configured root, prefixed with a
// UUID so colliding upload names never overwrite each other.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"voicenotes/domain/voicenote"
)

type LocalAudioStore struct {
	root string
}

func NewLocalAudioStore(root string) (*LocalAudioStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create audio storage directory: %w", err)
	}
	return &LocalAudioStore{root: root}, nil
}

var _ voicenote.AudioStore = (*LocalAudioStore)(nil)

func (s *LocalAudioStore) Save(_ context.Context, fileName string, data []byte) (string, error) {
	ref := uuid.New().String() + "-" + sanitizeFileName(fileName)
	path := filepath.Join(s.root, ref)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audio blob: %w", err)
	}
	return ref, nil
}

func (s *LocalAudioStore) Read(_ context.Context, ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio blob %s: %w", ref, err)
	}
	return data, nil
}

func (s *LocalAudioStore) Delete(_ context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete audio blob %s: %w", ref, err)
	}
	return nil
}

// resolve rejects refs that would escape the storage root.
func (s *LocalAudioStore) resolve(ref string) (string, error) {
	cleaned := filepath.Clean(ref)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid audio reference %q", ref)
	}
	return filepath.Join(s.root, cleaned), nil
}

// sanitizeFileName keeps only the base name and replaces characters that
// are unsafe in file paths.
func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "audio"
	}
	return base
}
