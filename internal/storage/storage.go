package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"nutrition-advisor/internal/profile"
)

// ErrProfileNotFound is returned by Load when no profile was saved for the user.
var ErrProfileNotFound = errors.New("profile not found")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ProfileStore provides a file-based storage for user profiles, one JSON file per user.
type ProfileStore struct {
	basePath string
}

// NewProfileStore creates a new ProfileStore and ensures the base directory exists.
func NewProfileStore(basePath string) (*ProfileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &ProfileStore{basePath: basePath}, nil
}

// sanitizeUserID makes the user ID safe for filenames.
func sanitizeUserID(userID string) string {
	return unsafeChars.ReplaceAllString(userID, "_")
}

func (s *ProfileStore) path(userID string) string {
	return filepath.Join(s.basePath, sanitizeUserID(userID)+".json")
}

// Save validates and stores a profile, replacing any previous one.
func (s *ProfileStore) Save(userID string, p profile.UserProfile) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	// Write then rename so Load never sees a partial file.
	tmp := s.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	if err := os.Rename(tmp, s.path(userID)); err != nil {
		return fmt.Errorf("failed to replace profile file: %w", err)
	}
	return nil
}

// Load retrieves the profile saved for userID.
func (s *ProfileStore) Load(userID string) (*profile.UserProfile, error) {
	data, err := os.ReadFile(s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p profile.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// Exists checks if a profile was saved for userID.
func (s *ProfileStore) Exists(userID string) bool {
	_, err := os.Stat(s.path(userID))
	return err == nil
}

// Delete removes the profile of userID. Deleting a missing profile is not an error.
func (s *ProfileStore) Delete(userID string) error {
	err := os.Remove(s.path(userID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove profile file: %w", err)
	}
	return nil
}
