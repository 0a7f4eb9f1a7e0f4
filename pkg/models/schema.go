package models

import (
	"embed"
	"encoding/json"
	"fmt"
)

// Kind names the logical type a column is read as.
type Kind string

const (
	KindString  Kind = "string"
	KindInt     Kind = "int"
	KindDouble  Kind = "double"
	KindBool    Kind = "bool"
	KindDecimal Kind = "decimal"
)

// Schema is a positional column layout applied to a raw table at read time.
type Schema struct {
	Entity  string        `json:"entity"`
	Fields  []FieldConfig `json:"fields"`
	Exclude []string      `json:"exclude,omitempty"`
}

type FieldConfig struct {
	Name      string `json:"name"`
	Type      Kind   `json:"type"`
	Precision int32  `json:"precision,omitempty"`
	Scale     int32  `json:"scale,omitempty"`
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Field looks up a column by name.
func (s *Schema) Field(name string) (FieldConfig, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldConfig{}, false
}

func LoadSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q has no fields", s.Entity)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q: field with empty name", s.Entity)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema %q: duplicate field %q", s.Entity, f.Name)
		}
		seen[f.Name] = struct{}{}
		switch f.Type {
		case KindString, KindInt, KindDouble, KindBool:
		case KindDecimal:
			if f.Precision <= 0 || f.Scale < 0 || f.Scale > f.Precision {
				return fmt.Errorf("schema %q: field %q has invalid decimal(%d,%d)", s.Entity, f.Name, f.Precision, f.Scale)
			}
		default:
			return fmt.Errorf("schema %q: field %q has unknown type %q", s.Entity, f.Name, f.Type)
		}
	}
	for _, name := range s.Exclude {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("schema %q: excluded column %q is not declared", s.Entity, name)
		}
	}
	return nil
}

//go:embed schemas/*.json
var builtin embed.FS

// BattingCard returns the built-in batting card schema.
func BattingCard() *Schema { return mustBuiltin("schemas/batting_card.json") }

// BowlingCard returns the built-in bowling card schema.
func BowlingCard() *Schema { return mustBuiltin("schemas/bowling_card.json") }

func mustBuiltin(path string) *Schema {
	data, err := builtin.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("models: missing builtin schema %s: %v", path, err))
	}
	s, err := LoadSchema(data)
	if err != nil {
		panic(fmt.Sprintf("models: invalid builtin schema %s: %v", path, err))
	}
	return s
}
