package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// LoadFile reads a profile from a YAML (.yaml/.yml) or JSON file and validates it.
func LoadFile(path string) (*UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p UserProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile file extension %q", filepath.Ext(path))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
