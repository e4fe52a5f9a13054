package config

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/spf13/viper"
)

// LoadTiers overlays the tier file at path on base. The file maps levels
// to tier fields; fields left out keep their base values, and unknown
// levels add new tiers:
//
//	tiers:
//	  "5":
//	    turn_timeout: 8s
//	  "6":
//	    name: NIGHTMARE
//	    strategy: search
//	    sliding_window: true
func LoadTiers(path string, base domain.TierTable) (domain.TierTable, error) {
	table := maps.Clone(base)
	if path == "" {
		return table, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read tiers file: %w", err)
	}

	for key := range v.GetStringMap("tiers") {
		level, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("tiers file: level %q is not a number", key)
		}
		tier := table[level]
		if err := v.UnmarshalKey("tiers."+key, &tier); err != nil {
			return nil, fmt.Errorf("tiers file: level %d: %w", level, err)
		}
		tier.Level = level
		table[level] = tier
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("tiers file: %w", err)
	}
	return table, nil
}
