package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Profile holds the per-user settings for the terminal storefront: which
// gateway to talk to and the session token to present. Environment config
// wins over the profile file when both are set.
type Profile struct {
	GatewayURL string `toml:"gateway_url"`
	Token      string `toml:"token"`
}

const defaultProfilePath = "~/.config/storefront/profile.toml"

// LoadProfile parses the profile at path, falling back to the default
// location when path is empty. A missing file is not an error; it simply
// yields an empty profile.
func LoadProfile(path string) (Profile, error) {
	resolved, err := resolveProfilePath(path)
	if err != nil {
		return Profile{}, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("open profile: %w", err)
	}

	var profile Profile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	profile.GatewayURL = strings.TrimSpace(profile.GatewayURL)
	profile.Token = strings.TrimSpace(profile.Token)
	return profile, nil
}

// ApplyProfile fills gateway settings that the environment left unset.
func (c *Config) ApplyProfile(profile Profile) {
	if c.Gateway.BaseURL == "" && profile.GatewayURL != "" {
		c.Gateway.BaseURL = profile.GatewayURL
	}
}

func resolveProfilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultProfilePath
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
