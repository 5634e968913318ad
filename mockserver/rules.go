package mockserver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Rules files are JWCC (JSON with comments and trailing commas), so fault
// scenarios can be annotated in place:
//
//	{
//	    "rules": [
//	        // pretend this package was yanked from the repository
//	        {"pattern": "pkg-gone", "fault": "not_found"},
//	    ],
//	}
type rulesFile struct {
	Rules []ruleJSON `json:"rules"`
}

type ruleJSON struct {
	Pattern string `json:"pattern"`
	Fault   string `json:"fault"`
}

// ParseFaultTable builds a FaultTable from the contents of a rules file.
func ParseFaultTable(data []byte) (*FaultTable, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file syntax: %w", err)
	}
	var rf rulesFile
	if err := json.Unmarshal(standardized, &rf); err != nil {
		return nil, fmt.Errorf("invalid rules file: %w", err)
	}
	rules := make([]FaultRule, 0, len(rf.Rules))
	for _, r := range rf.Rules {
		rules = append(rules, FaultRule{Pattern: r.Pattern, Kind: FaultKind(r.Fault)})
	}
	return NewFaultTable(rules)
}

// LoadFaultTable reads and parses the rules file at path.
func LoadFaultTable(path string) (*FaultTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read rules file: %w", err)
	}
	t, err := ParseFaultTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
