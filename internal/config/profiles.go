package config

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var profilesFS embed.FS

// LoadEmbeddedProfile loads one of the built-in profiles on top of
// DefaultConfig. "aggressive" sets a lower sieve_lower, a higher
// max_raw_attempts and log level warn; "conservative" sets a higher
// sieve_lower and a lower max_raw_attempts. The reduction engine reads
// neither sieve_lower nor max_raw_attempts from the configuration.
func LoadEmbeddedProfile(name string) (*Config, error) {
	data, err := profilesFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown profile %q: %w", name, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", name, err)
	}
	cfg.Profile = name
	return cfg, nil
}

// ListEmbeddedProfiles returns the names of the built-in profiles.
func ListEmbeddedProfiles() ([]string, error) {
	entries, err := profilesFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}
