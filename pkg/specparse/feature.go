// Package specparse loads ARCommands command schemas from YAML files and
// builds the command registry used by the codec, the filter and the
// arcmd tool.
package specparse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawSchema is the top-level document of a schema file.
type RawSchema struct {
	Features      []RawFeatureDef      `yaml:"features"`
	Multisettings []RawMultisettingDef `yaml:"multisettings"`
}

// RawFeatureDef represents a feature definition loaded from YAML.
// Commands listed directly under the feature belong to class 0.
type RawFeatureDef struct {
	Name        string          `yaml:"name"`
	ID          uint8           `yaml:"id"`
	Description string          `yaml:"description"`
	Enums       []RawEnumDef    `yaml:"enums"`
	Commands    []RawCommandDef `yaml:"commands"`
	Classes     []RawClassDef   `yaml:"classes"`
}

// RawClassDef represents a class of a feature.
type RawClassDef struct {
	Name        string          `yaml:"name"`
	ID          uint8           `yaml:"id"`
	Description string          `yaml:"description"`
	Commands    []RawCommandDef `yaml:"commands"`
}

// RawEnumDef represents a named enum shared by the arguments of a feature.
type RawEnumDef struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Values      []RawEnumValue `yaml:"values"`
}

// RawEnumValue represents a single enum value. A plain scalar is accepted as
// the value name; a missing value defaults to the position in the list.
type RawEnumValue struct {
	Name        string  `yaml:"name"`
	Value       *uint32 `yaml:"value"`
	Description string  `yaml:"description"`
}

// UnmarshalYAML accepts both "name" and {name: ..., value: ...} forms.
func (v *RawEnumValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Name = node.Value
		return nil
	}
	type plain RawEnumValue
	return node.Decode((*plain)(v))
}

// RawCommandDef represents a command definition.
type RawCommandDef struct {
	Name        string      `yaml:"name"`
	ID          uint16      `yaml:"id"`
	Description string      `yaml:"description"`
	Deprecated  bool        `yaml:"deprecated"`
	Args        []RawArgDef `yaml:"args"`
}

// RawArgDef represents a command argument.
type RawArgDef struct {
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type"`       // "u8", "float", "string", "enum", "bitfield", "multisetting", ...
	Underlying   string         `yaml:"underlying"` // bitfield storage: "u8", "u16", "u32", "u64"
	Enum         string         `yaml:"enum"`       // references a feature enum
	Values       []RawEnumValue `yaml:"values"`     // inline enum values
	Multisetting string         `yaml:"multisetting"`
	Description  string         `yaml:"description"`
}

// RawMultisettingDef represents a multisetting aggregate. Members are dotted
// command names in wire order.
type RawMultisettingDef struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// ParseSchema parses a schema from YAML bytes.
func ParseSchema(data []byte) (*RawSchema, error) {
	var schema RawSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	for i, f := range schema.Features {
		if f.Name == "" {
			return nil, fmt.Errorf("feature definition %d missing name", i)
		}
	}
	return &schema, nil
}

// LoadSchema loads and parses a schema from a file.
func LoadSchema(path string) (*RawSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}
