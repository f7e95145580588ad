package domain

import (
	"strings"

	"github.com/evanschultz/flowgrid/internal/geometry"
)

// Cardinality limits how many dragged items an interaction accepts.
type Cardinality string

// Cardinality values.
const (
	CardinalityOne      Cardinality = "one"
	CardinalityMultiple Cardinality = "multiple"
)

// ParseCardinality normalizes a configured cardinality name.
func ParseCardinality(raw string) (Cardinality, error) {
	switch Cardinality(strings.TrimSpace(strings.ToLower(raw))) {
	case CardinalityOne, "":
		return CardinalityOne, nil
	case CardinalityMultiple:
		return CardinalityMultiple, nil
	default:
		return "", ErrInvalidCardinality
	}
}

// Interaction declares that items of Template may be dropped onto an item of
// the owning template as an interaction rather than a reorder.
type Interaction struct {
	Template    *Template
	Cardinality Cardinality
}

// Template describes one homogeneous item kind. Two items are the same kind
// iff they reference the same *Template.
type Template struct {
	Name         string
	Size         geometry.Size
	Interactions []Interaction
}

// NewTemplate constructs a template with a fixed cell size.
func NewTemplate(name string, size geometry.Size) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, ErrInvalidSize
	}
	return &Template{Name: name, Size: size}, nil
}

// Accept registers an accepted interaction.
func (t *Template) Accept(other *Template, cardinality Cardinality) error {
	if other == nil {
		return ErrInvalidName
	}
	switch cardinality {
	case CardinalityOne, CardinalityMultiple:
	default:
		return ErrInvalidCardinality
	}
	t.Interactions = append(t.Interactions, Interaction{Template: other, Cardinality: cardinality})
	return nil
}

// InteractionFor returns the first interaction accepting count dragged items
// for which homogeneous reports true.
func (t *Template) InteractionFor(count int, homogeneous func(*Template) bool) (Interaction, bool) {
	if t == nil || count <= 0 {
		return Interaction{}, false
	}
	for _, in := range t.Interactions {
		if in.Cardinality != CardinalityMultiple && count != 1 {
			continue
		}
		if homogeneous(in.Template) {
			return in, true
		}
	}
	return Interaction{}, false
}
