package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk rule set format.
type ruleFile struct {
	Rules []Raw `yaml:"rules" json:"rules"`
}

// LoadFile reads a rule set from a YAML or JSON file (by extension) and
// normalizes it.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var rf ruleFile
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse rules %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse rules %s: %w", path, err)
		}
	}

	return Normalize(rf.Rules), nil
}
