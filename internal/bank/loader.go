package bank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads bank data from a YAML file shaped as
// role -> level -> category -> questions.
func LoadFile(filename string) (*Bank, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read bank file %s: %w", filename, err)
	}

	var roles map[string]map[string]Entry
	if err := yaml.Unmarshal(data, &roles); err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", filename, err)
	}

	if err := validate(roles); err != nil {
		return nil, fmt.Errorf("invalid bank file %s: %w", filename, err)
	}

	return New(roles), nil
}

// validate checks that the default entries exist and no list is empty, so the
// defaulting path in Questions always lands on usable data.
func validate(roles map[string]map[string]Entry) error {
	if len(roles) == 0 {
		return fmt.Errorf("no roles defined")
	}

	levels, ok := roles[DefaultRole]
	if !ok {
		return fmt.Errorf("default role %q must be present", DefaultRole)
	}
	if _, ok := levels[DefaultLevel]; !ok {
		return fmt.Errorf("default role %q must define level %q", DefaultRole, DefaultLevel)
	}

	for role, levels := range roles {
		if len(levels) == 0 {
			return fmt.Errorf("role %q has no levels", role)
		}
		for level, entry := range levels {
			if len(entry) == 0 {
				return fmt.Errorf("role %q level %q has no categories", role, level)
			}
			for category, questions := range entry {
				if category != CategoryTechnical && category != CategoryBehavioral {
					return fmt.Errorf("role %q level %q has unknown category %q", role, level, category)
				}
				if len(questions) == 0 {
					return fmt.Errorf("role %q level %q category %q has no questions", role, level, category)
				}
			}
		}
	}

	return nil
}
