// Package macroyaml reads and writes the YAML documents macropp uses for its
// config file and for definitions files.
package macroyaml

import (
	"errors"
	"fmt"
	"strings"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/preprocess"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotMapping    = errors.New("document must be a mapping")
	ErrBadDefines    = errors.New("defines must be a mapping or a sequence")
	ErrNonScalar     = errors.New("value must be a scalar")
	ErrNegativeLimit = errors.New("limit must not be negative")
)

// Document is a parsed config or definitions file.
//
//	limits:
//	  max_identifier_length: 63
//	  max_value_length: 255
//	  max_definitions: 50
//	color: auto
//	defines:
//	  DEBUG: 0
//	  TARGET: linux
//
// defines may also be a sequence of "NAME=VALUE" strings.
type Document struct {
	Limits  Limits
	Color   string
	Defines []preprocess.Argument
}

// Limits holds the limits a document sets. Nil fields were not set.
type Limits struct {
	MaxIdentifierLength *int
	MaxValueLength      *int
	MaxDefinitions      *int
}

// Apply overlays the limits that are set onto base.
func (l Limits) Apply(base macro.Limits) macro.Limits {
	if l.MaxIdentifierLength != nil {
		base.MaxIdentifierLength = *l.MaxIdentifierLength
	}
	if l.MaxValueLength != nil {
		base.MaxValueLength = *l.MaxValueLength
	}
	if l.MaxDefinitions != nil {
		base.MaxDefinitions = *l.MaxDefinitions
	}
	return base
}

// ---- YAML shapes ------------------------------------------------------------

type yamlDocument struct {
	Limits *yamlLimits `yaml:"limits,omitempty"`
	Color  string      `yaml:"color,omitempty"`
	// Defines stays a yaml.Node so the mapping form keeps document order.
	Defines yaml.Node `yaml:"defines,omitempty"`
}

type yamlLimits struct {
	MaxIdentifierLength *int `yaml:"max_identifier_length,omitempty"`
	MaxValueLength      *int `yaml:"max_value_length,omitempty"`
	MaxDefinitions      *int `yaml:"max_definitions,omitempty"`
}

type yamlDefinition struct {
	Identifier string `yaml:"identifier"`
	Value      string `yaml:"value"`
	Raw        string `yaml:"raw"`
	Provenance string `yaml:"provenance"`
}

// ---- Parse ------------------------------------------------------------------

// Parse parses a document. Empty input yields an empty Document.
func Parse(in []byte) (Document, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return Document{}, err
	}
	if len(docNode.Content) == 0 {
		return Document{}, nil
	}
	root := docNode.Content[0]
	if root.Kind != yaml.MappingNode {
		return Document{}, fmt.Errorf("path=<doc>: %w", ErrNotMapping)
	}

	var yd yamlDocument
	if err := root.Decode(&yd); err != nil {
		return Document{}, err
	}

	doc := Document{Color: yd.Color}
	if yd.Limits != nil {
		limits, err := convertLimits(*yd.Limits)
		if err != nil {
			return Document{}, err
		}
		doc.Limits = limits
	}
	defines, err := convertDefines(&yd.Defines)
	if err != nil {
		return Document{}, err
	}
	doc.Defines = defines
	return doc, nil
}

func convertLimits(yl yamlLimits) (Limits, error) {
	for name, v := range map[string]*int{
		"max_identifier_length": yl.MaxIdentifierLength,
		"max_value_length":      yl.MaxValueLength,
		"max_definitions":       yl.MaxDefinitions,
	} {
		if v != nil && *v < 0 {
			return Limits{}, fmt.Errorf("path=limits.%s: %w: %d", name, ErrNegativeLimit, *v)
		}
	}
	return Limits{
		MaxIdentifierLength: yl.MaxIdentifierLength,
		MaxValueLength:      yl.MaxValueLength,
		MaxDefinitions:      yl.MaxDefinitions,
	}, nil
}

// convertDefines turns the defines node into arguments.
//
//   - absent/null → nil
//   - mapping     → one pair per key, in document order; null values are empty
//   - sequence    → one "-D" token per entry, left for the registrar to validate
func convertDefines(n *yaml.Node) ([]preprocess.Argument, error) {
	switch n.Kind {
	case 0:
		return nil, nil

	case yaml.MappingNode:
		out := make([]preprocess.Argument, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("path=defines[%d]: key: %w", i/2, ErrNonScalar)
			}
			if v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("path=defines.%s: %w", k.Value, ErrNonScalar)
			}
			value := v.Value
			if v.Tag == "!!null" {
				value = ""
			}
			out = append(out, preprocess.Pair(k.Value, value))
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]preprocess.Argument, 0, len(n.Content))
		for i, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("path=defines[%d]: %w", i, ErrNonScalar)
			}
			out = append(out, preprocess.Token("-D"+item.Value))
		}
		return out, nil

	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("path=defines: %w", ErrBadDefines)

	default:
		return nil, fmt.Errorf("path=defines: %w", ErrBadDefines)
	}
}

// ---- Marshal ----------------------------------------------------------------

// Marshal renders doc. Defines are written as a mapping when every entry is
// a pair, otherwise as a sequence of "NAME=VALUE" strings.
func Marshal(doc Document) ([]byte, error) {
	yd := yamlDocument{Color: doc.Color}
	if doc.Limits != (Limits{}) {
		yd.Limits = &yamlLimits{
			MaxIdentifierLength: doc.Limits.MaxIdentifierLength,
			MaxValueLength:      doc.Limits.MaxValueLength,
			MaxDefinitions:      doc.Limits.MaxDefinitions,
		}
	}
	if len(doc.Defines) > 0 {
		yd.Defines = definesNode(doc.Defines)
	}
	return yaml.Marshal(&yd)
}

func definesNode(args []preprocess.Argument) yaml.Node {
	allPairs := true
	for _, a := range args {
		if a.Token != "" {
			allPairs = false
			break
		}
	}

	if allPairs {
		n := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, a := range args {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Identifier},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Value},
			)
		}
		return n
	}

	n := yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, a := range args {
		s := a.Identifier + "=" + a.Value
		if a.Token != "" {
			s = strings.TrimPrefix(a.Token, "-D")
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
	}
	return n
}

// MarshalDefinitions renders a resolved table as a YAML sequence.
func MarshalDefinitions(defs []macro.Definition) ([]byte, error) {
	out := make([]yamlDefinition, len(defs))
	for i, d := range defs {
		out[i] = yamlDefinition{
			Identifier: d.Identifier,
			Value:      d.Value,
			Raw:        d.Raw,
			Provenance: d.Provenance.String(),
		}
	}
	return yaml.Marshal(out)
}
