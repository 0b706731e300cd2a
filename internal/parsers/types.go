package parsers

import "strings"

// TypeKind identifies the flavour of a type declaration.
type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "annotation"
)

// CompilationUnit is the parsed representation of one Java source file.
type CompilationUnit struct {
	FilePath string
	Package  string
	Types    []*TypeDecl
}

// Modifiers holds the modifier keywords of a declaration in source order.
// Annotations are not modifiers here.
type Modifiers []string

// Has reports whether the keyword (e.g. "public") is present.
func (m Modifiers) Has(keyword string) bool {
	for _, mod := range m {
		if mod == keyword {
			return true
		}
	}
	return false
}

// Member is a declaration found directly in a type body.
// The set is closed: *MethodDecl, *FieldDecl, *ConstructorDecl and *TypeDecl.
type Member interface {
	member()
}

// TypeDecl is a class, interface, enum, record or annotation type declaration.
type TypeDecl struct {
	Kind      TypeKind
	Name      string
	Modifiers Modifiers
	Members   []Member
	StartLine int
	EndLine   int
}

// IsClassOrInterface reports whether the declaration is a plain class or interface.
func (t *TypeDecl) IsClassOrInterface() bool {
	return t.Kind == KindClass || t.Kind == KindInterface
}

// Methods returns the methods declared directly on the type, in declaration order.
func (t *TypeDecl) Methods() []*MethodDecl {
	var methods []*MethodDecl
	for _, m := range t.Members {
		if method, ok := m.(*MethodDecl); ok {
			methods = append(methods, method)
		}
	}
	return methods
}

// Fields returns the field statements declared directly on the type.
func (t *TypeDecl) Fields() []*FieldDecl {
	var fields []*FieldDecl
	for _, m := range t.Members {
		if field, ok := m.(*FieldDecl); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Constructors returns the constructors declared directly on the type.
func (t *TypeDecl) Constructors() []*ConstructorDecl {
	var ctors []*ConstructorDecl
	for _, m := range t.Members {
		if ctor, ok := m.(*ConstructorDecl); ok {
			ctors = append(ctors, ctor)
		}
	}
	return ctors
}

// MethodDecl is a method declaration.
type MethodDecl struct {
	Name       string
	Modifiers  Modifiers
	ReturnType string
	Parameters []Parameter
	StartLine  int
	EndLine    int
}

// Signature returns the method name with its parameter types, e.g. "put(String, int[])".
func (m *MethodDecl) Signature() string {
	return signature(m.Name, m.Parameters)
}

// ConstructorDecl is a constructor declaration.
type ConstructorDecl struct {
	Name       string
	Modifiers  Modifiers
	Parameters []Parameter
	StartLine  int
	EndLine    int
}

// Signature returns the constructor name with its parameter types.
func (c *ConstructorDecl) Signature() string {
	return signature(c.Name, c.Parameters)
}

// FieldDecl is one field statement; a statement may declare several names.
type FieldDecl struct {
	Modifiers Modifiers
	Type      string
	Names     []string
	StartLine int
	EndLine   int
}

// Parameter is a formal parameter of a method or constructor.
type Parameter struct {
	Type    string
	Name    string
	VarArgs bool

	// Erasure is Type without its type arguments and type annotations,
	// e.g. "Map" for "Map<String, Integer>". Empty for array types.
	Erasure string
}

// SignatureType is the parameter type as it appears in a signature.
// Class and interface types lose their type arguments and annotations; array
// and varargs types keep their component type as written, varargs rendered as arrays.
func (p Parameter) SignatureType() string {
	switch {
	case p.VarArgs:
		return p.Type + "[]"
	case p.Erasure != "":
		return p.Erasure
	default:
		return p.Type
	}
}

func (*TypeDecl) member()        {}
func (*MethodDecl) member()      {}
func (*ConstructorDecl) member() {}
func (*FieldDecl) member()       {}

func signature(name string, params []Parameter) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.SignatureType()
	}
	return name + "(" + strings.Join(types, ", ") + ")"
}
