package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/grouping"
)

// groupingDocument is the YAML shape of a grouping configuration:
//
//	groups:
//	  - id: connectivity
//	    display_name: Connectivity
//	    description: Network and radio policies
//	    icon: ic_network
//	    sort_order: 1
//	assignments:
//	  wifi: connectivity
//	  bluetooth: connectivity
type groupingDocument struct {
	Groups      []groupDocument   `yaml:"groups"`
	Assignments map[string]string `yaml:"assignments"`
}

type groupDocument struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`

	// SortOrder is optional; omitted entries default to their declaration
	// index, matching ConfigBuilder.
	SortOrder *int `yaml:"sort_order"`
}

// ParseConfig parses and validates a YAML grouping document.
func ParseConfig(data []byte) (*grouping.Config, error) {
	var doc groupingDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse grouping document: %w", err)
	}

	cfg := &grouping.Config{
		Groups:      make([]policy.Group, 0, len(doc.Groups)),
		Assignments: doc.Assignments,
	}
	if cfg.Assignments == nil {
		cfg.Assignments = make(map[string]string)
	}
	for i, g := range doc.Groups {
		sortOrder := i
		if g.SortOrder != nil {
			sortOrder = *g.SortOrder
		}
		cfg.Groups = append(cfg.Groups, policy.Group{
			ID:          g.ID,
			DisplayName: g.DisplayName,
			Description: g.Description,
			Icon:        g.Icon,
			SortOrder:   sortOrder,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grouping document: %w", err)
	}
	return cfg, nil
}
