package outline

import (
	"strings"

	"github.com/mvp-joe/javameta/internal/parsers"
)

// Extract produces the descriptor sequence of a compilation unit.
//
// For each top-level type, in source order, it emits the type line followed by
// its methods, fields, constructors and nested classes/interfaces, each group in
// declaration order. Nested types contribute only their own declaration line.
func Extract(unit *parsers.CompilationUnit) []Descriptor {
	descriptors := []Descriptor{}
	if unit == nil {
		return descriptors
	}

	for _, decl := range unit.Types {
		descriptors = append(descriptors, extractType(decl)...)
	}
	return descriptors
}

// extractType walks one type declaration a single level deep.
func extractType(decl *parsers.TypeDecl) []Descriptor {
	out := []Descriptor{{
		Visibility: ClassifyVisibility(decl.Modifiers),
		Kind:       KindClass,
		Name:       decl.Name,
	}}

	for _, method := range decl.Methods() {
		out = append(out, Descriptor{
			Visibility: ClassifyVisibility(method.Modifiers),
			Kind:       KindMethod,
			Name:       method.Signature(),
		})
	}

	for _, field := range decl.Fields() {
		out = append(out, Descriptor{
			Visibility: ClassifyVisibility(field.Modifiers),
			Kind:       KindVariable,
			Name:       fieldNames(field),
		})
	}

	for _, ctor := range decl.Constructors() {
		out = append(out, Descriptor{
			Visibility: ClassifyVisibility(ctor.Modifiers),
			Kind:       KindConstructor,
			Name:       ctor.Signature(),
		})
	}

	for _, member := range decl.Members {
		nested, ok := member.(*parsers.TypeDecl)
		if !ok || !nested.IsClassOrInterface() {
			continue
		}
		out = append(out, Descriptor{
			Visibility: ClassifyVisibility(nested.Modifiers),
			Kind:       KindInnerClass,
			Name:       nested.Name,
		})
	}

	return out
}

func fieldNames(field *parsers.FieldDecl) string {
	if len(field.Names) == 0 {
		return unnamedField
	}
	return strings.Join(field.Names, ", ")
}
