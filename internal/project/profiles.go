package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/SquareFit/internal/model"
)

// Profile is a named set of solver settings.
type Profile struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	IsBuiltIn   bool           `toml:"-"`
	Settings    model.Settings `toml:"settings"`
}

// profileFile is the on-disk layout: an array of [[profile]] tables.
type profileFile struct {
	Profiles []Profile `toml:"profile"`
}

// BuiltInProfiles returns the profiles shipped with the application.
func BuiltInProfiles() []Profile {
	fast := model.DefaultSettings()
	fast.MaxAttempts = 8
	fast.CandidatesPerOutline = 4
	fast.SanitizeBuffers = false

	thorough := model.DefaultSettings()
	thorough.MaxAttempts = 256

	large := model.DefaultSettings()
	large.Heuristic = model.HeuristicSizeDescending

	return []Profile{
		{Name: "default", Description: "Default solver settings", IsBuiltIn: true, Settings: model.DefaultSettings()},
		{Name: "fast", Description: "Few candidates and retries, no buffer cleanup", IsBuiltIn: true, Settings: fast},
		{Name: "thorough", Description: "Many retries before a point stalls", IsBuiltIn: true, Settings: thorough},
		{Name: "large-first", Description: "Place the heaviest points first", IsBuiltIn: true, Settings: large},
	}
}

// DefaultProfilesPath returns the default file path for custom profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.toml")
}

// SaveCustomProfiles saves custom profiles to a TOML file.
func SaveCustomProfiles(path string, profiles []Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(profileFile{Profiles: profiles}); err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}

// LoadCustomProfiles loads custom profiles from a TOML file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]Profile, error) {
	var file profileFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Profile{}, nil
		}
		return nil, fmt.Errorf("failed to read profiles %s: %w", path, err)
	}

	for i := range file.Profiles {
		if file.Profiles[i].Name == "" {
			return nil, fmt.Errorf("profile %d in %s has no name", i+1, path)
		}
		file.Profiles[i].IsBuiltIn = false
		file.Profiles[i].Settings = file.Profiles[i].Settings.Normalize()
	}
	if file.Profiles == nil {
		file.Profiles = []Profile{}
	}
	return file.Profiles, nil
}

// FindProfile looks a profile up by name among the built-in profiles and the
// given custom ones. Custom profiles shadow built-in profiles of the same name.
func FindProfile(name string, custom []Profile) (Profile, bool) {
	for _, p := range custom {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range BuiltInProfiles() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
