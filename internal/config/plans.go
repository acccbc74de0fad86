package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

type plansFile struct {
	Plans []domain.PlanDefinition `toml:"plan"`
}

// LoadPlanDefinitions reads [[plan]] tables from a TOML file. An empty path
// or a missing file yields no definitions and no error.
func LoadPlanDefinitions(path string) ([]domain.PlanDefinition, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat plans file: %w", err)
	}

	var f plansFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plans file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in plans file: %v", undecoded)
	}

	seen := make(map[string]bool, len(f.Plans))
	for i, def := range f.Plans {
		if def.ID == "" {
			return nil, fmt.Errorf("plan #%d has no id", i+1)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate plan id %q", def.ID)
		}
		seen[def.ID] = true
	}
	return f.Plans, nil
}
