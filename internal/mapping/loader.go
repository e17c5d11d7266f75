package mapping

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"docmapper/internal/transform"
)

// CurrentVersion is the rule file version written by Marshal.
const CurrentVersion = "1"

// RuleFile is the YAML document holding the rules of one client.
type RuleFile struct {
	Version string     `yaml:"version"`
	Client  string     `yaml:"client,omitempty"`
	Rules   []RuleSpec `yaml:"rules"`
}

// RuleSpec is one rule as written in a rule file.
type RuleSpec struct {
	ID          string         `yaml:"id,omitempty"`
	Source      Path           `yaml:"source"`
	Destination Path           `yaml:"destination"`
	Transform   transform.Kind `yaml:"transform,omitempty"`
	Logic       string         `yaml:"logic,omitempty"`
	Default     *string        `yaml:"default,omitempty"`
	Required    bool           `yaml:"required,omitempty"`
}

// LoadFile loads and parses a YAML rule file from the given path.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a RuleFile.
func Parse(data []byte) (*RuleFile, error) {
	var rf RuleFile

	err := yaml.Unmarshal(data, &rf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule YAML: %w", err)
	}

	if rf.Version != "" && rf.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported rule file version %q", rf.Version)
	}

	applyDefaults(&rf)

	return &rf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(rf *RuleFile) {
	if rf.Version == "" {
		rf.Version = CurrentVersion
	}

	for i := range rf.Rules {
		r := &rf.Rules[i]
		if r.ID == "" {
			r.ID = "rule-" + strconv.Itoa(i+1)
		}

		if r.Transform == 0 {
			r.Transform = transform.Copy
		}
	}
}

// MappingRules returns the rules in declared order. ClientID and CreatedAt
// are left for the store to assign.
func (rf *RuleFile) MappingRules() []MappingRule {
	rules := make([]MappingRule, len(rf.Rules))

	for i, spec := range rf.Rules {
		rules[i] = MappingRule{
			ID:              spec.ID,
			SourcePath:      spec.Source,
			DestinationPath: spec.Destination,
			TransformType:   spec.Transform,
			TransformLogic:  spec.Logic,
			DefaultValue:    spec.Default,
			Required:        spec.Required,
		}
	}

	return rules
}

// NewRuleFile builds a rule file from stored rules, e.g. for export.
func NewRuleFile(client string, rules []MappingRule) *RuleFile {
	rf := &RuleFile{Version: CurrentVersion, Client: client, Rules: make([]RuleSpec, len(rules))}

	for i, r := range rules {
		rf.Rules[i] = RuleSpec{
			ID:          r.ID,
			Source:      r.SourcePath,
			Destination: r.DestinationPath,
			Transform:   r.TransformType,
			Logic:       r.TransformLogic,
			Default:     r.DefaultValue,
			Required:    r.Required,
		}
	}

	return rf
}

// Marshal serializes a RuleFile to YAML.
func Marshal(rf *RuleFile) ([]byte, error) {
	return yaml.Marshal(rf)
}

// WriteFile writes a RuleFile to the given path.
func WriteFile(rf *RuleFile, path string) error {
	data, err := Marshal(rf)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rule file %s: %w", path, err)
	}

	return nil
}
