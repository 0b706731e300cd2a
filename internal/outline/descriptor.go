package outline

import (
	"fmt"

	"github.com/mvp-joe/javameta/internal/parsers"
)

// Kind labels the declaration a descriptor line was produced for.
type Kind string

const (
	KindClass       Kind = "Class"
	KindMethod      Kind = "Method"
	KindVariable    Kind = "Variable"
	KindConstructor Kind = "Constructor"
	KindInnerClass  Kind = "Inner Class"
)

// Visibility is the three-way bucket derived from explicit modifier keywords.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityOther   Visibility = "other"
)

// unnamedField stands in for a field statement that declares no names.
const unnamedField = "Unnamed"

// Descriptor is one (visibility, kind, name) triple.
type Descriptor struct {
	Visibility Visibility
	Kind       Kind
	Name       string
}

// String renders the descriptor as two left-justified columns of width 10 and 20
// followed by the name, separated by single spaces.
func (d Descriptor) String() string {
	return fmt.Sprintf("%-10s %-20s %s", d.Visibility, d.Kind, d.Name)
}

// ClassifyVisibility returns public if the public keyword is present, else
// private if private is present, else other. protected and package-private
// both fall into other.
func ClassifyVisibility(mods parsers.Modifiers) Visibility {
	switch {
	case mods.Has("public"):
		return VisibilityPublic
	case mods.Has("private"):
		return VisibilityPrivate
	default:
		return VisibilityOther
	}
}

// Lines renders descriptors in order.
func Lines(descriptors []Descriptor) []string {
	lines := make([]string, len(descriptors))
	for i, d := range descriptors {
		lines[i] = d.String()
	}
	return lines
}
