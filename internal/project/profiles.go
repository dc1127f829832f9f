package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ensurefill/internal/model"
)

// ProfileStore keeps the user's custom G-code profiles in one JSON or YAML
// file, chosen by the path extension.
type ProfileStore struct {
	Path string
}

// DefaultProfileStore returns the store under the user's config directory.
func DefaultProfileStore() (ProfileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ProfileStore{}, err
	}
	return ProfileStore{Path: filepath.Join(dir, "ensurefill", "profiles.yaml")}, nil
}

// Load reads the stored profiles. A missing file holds no profiles.
// Entries that cannot drive the writer or that reuse a built-in name are
// left out, and the returned error lists them next to the usable ones.
func (s ProfileStore) Load() ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.GCodeProfile{}, nil
	}
	if err != nil {
		return nil, err
	}

	var stored []model.GCodeProfile
	if err := unmarshal(s.Path, data, &stored); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}

	profiles := make([]model.GCodeProfile, 0, len(stored))
	var errs []error
	for _, p := range stored {
		if err := checkCustom(p); err != nil {
			errs = append(errs, err)
			continue
		}
		p.IsBuiltIn = false
		profiles = append(profiles, p)
	}
	return profiles, errors.Join(errs...)
}

// Save writes the profiles, refusing the whole set if any one is invalid.
func (s ProfileStore) Save(profiles []model.GCodeProfile) error {
	for _, p := range profiles {
		if err := checkCustom(p); err != nil {
			return err
		}
	}
	return writeFile(s.Path, profiles)
}

// ExportProfile writes a single profile to a file for sharing. Built-in
// profiles may be exported; they have to be renamed before import.
func ExportProfile(path string, profile model.GCodeProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	profile.IsBuiltIn = false
	return writeFile(path, profile)
}

// ImportProfile reads a single shared profile and checks that it can be
// added as a custom profile.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}

	var profile model.GCodeProfile
	if err := unmarshal(path, data, &profile); err != nil {
		return model.GCodeProfile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := checkCustom(profile); err != nil {
		return model.GCodeProfile{}, fmt.Errorf("import %s: %w", path, err)
	}
	profile.IsBuiltIn = false
	return profile, nil
}

func checkCustom(p model.GCodeProfile) error {
	if model.IsBuiltInProfileName(p.Name) {
		return fmt.Errorf("profile %q shadows a built-in profile", p.Name)
	}
	return p.Validate()
}
