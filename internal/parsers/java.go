package parsers

import (
	"context"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// typeKinds maps tree-sitter declaration nodes to type kinds.
var typeKinds = map[string]TypeKind{
	"class_declaration":           KindClass,
	"interface_declaration":       KindInterface,
	"enum_declaration":            KindEnum,
	"record_declaration":          KindRecord,
	"annotation_type_declaration": KindAnnotation,
}

// JavaParser parses Java files into a CompilationUnit.
type JavaParser struct {
	*treeSitterParser
}

// NewJavaParser creates a new Java parser.
func NewJavaParser() *JavaParser {
	lang := sitter.NewLanguage(java.Language())
	return &JavaParser{
		treeSitterParser: newTreeSitterParser(lang, "java"),
	}
}

// ParseFile reads and parses a Java source file.
// Read failures are returned unwrapped so callers can inspect the *fs.PathError.
func (p *JavaParser) ParseFile(ctx context.Context, filePath string) (*CompilationUnit, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, filePath, source)
}

// Parse parses Java source held in memory. filePath is used for reporting only.
func (p *JavaParser) Parse(ctx context.Context, filePath string, source []byte) (*CompilationUnit, error) {
	tree, err := p.parseTree(ctx, filePath, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	unit := &CompilationUnit{
		FilePath: filePath,
		Types:    []*TypeDecl{},
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		if child.Kind() == "package_declaration" {
			unit.Package = p.packageName(child, source)
			continue
		}
		if decl := p.typeDecl(child, source); decl != nil {
			unit.Types = append(unit.Types, decl)
		}
	}

	return unit, nil
}

// packageName extracts the dotted name of a package declaration.
func (p *JavaParser) packageName(node *sitter.Node, source []byte) string {
	nameNode := findChildByType(node, "scoped_identifier")
	if nameNode == nil {
		nameNode = findChildByType(node, "identifier")
	}
	return extractNodeText(nameNode, source)
}

// typeDecl converts a type declaration node. It returns nil for any other node.
func (p *JavaParser) typeDecl(node *sitter.Node, source []byte) *TypeDecl {
	kind, ok := typeKinds[node.Kind()]
	if !ok {
		return nil
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	startLine, endLine := lineSpan(node)
	decl := &TypeDecl{
		Kind:      kind,
		Name:      extractNodeText(nameNode, source),
		Modifiers: modifiersOf(node),
		Members:   []Member{},
		StartLine: startLine,
		EndLine:   endLine,
	}

	if body := node.ChildByFieldName("body"); body != nil {
		p.collectMembers(body, source, decl)
	}
	return decl
}

// collectMembers appends the declarations found directly in a type body.
// Enum bodies keep their members under enum_body_declarations.
func (p *JavaParser) collectMembers(body *sitter.Node, source []byte, decl *TypeDecl) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "method_declaration":
			if method := p.methodDecl(child, source); method != nil {
				decl.Members = append(decl.Members, method)
			}
		case "constructor_declaration":
			if ctor := p.constructorDecl(child, source); ctor != nil {
				decl.Members = append(decl.Members, ctor)
			}
		case "field_declaration", "constant_declaration":
			decl.Members = append(decl.Members, p.fieldDecl(child, source))
		case "enum_body_declarations":
			p.collectMembers(child, source, decl)
		default:
			if nested := p.typeDecl(child, source); nested != nil {
				decl.Members = append(decl.Members, nested)
			}
		}
	}
}

// methodDecl extracts a method declaration.
func (p *JavaParser) methodDecl(node *sitter.Node, source []byte) *MethodDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	startLine, endLine := lineSpan(node)
	return &MethodDecl{
		Name:       extractNodeText(nameNode, source),
		Modifiers:  modifiersOf(node),
		ReturnType: normalizeType(extractNodeText(node.ChildByFieldName("type"), source)),
		Parameters: p.parameters(node.ChildByFieldName("parameters"), source),
		StartLine:  startLine,
		EndLine:    endLine,
	}
}

// constructorDecl extracts a constructor declaration.
func (p *JavaParser) constructorDecl(node *sitter.Node, source []byte) *ConstructorDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	startLine, endLine := lineSpan(node)
	return &ConstructorDecl{
		Name:       extractNodeText(nameNode, source),
		Modifiers:  modifiersOf(node),
		Parameters: p.parameters(node.ChildByFieldName("parameters"), source),
		StartLine:  startLine,
		EndLine:    endLine,
	}
}

// fieldDecl extracts a field statement with all of its declarator names.
func (p *JavaParser) fieldDecl(node *sitter.Node, source []byte) *FieldDecl {
	startLine, endLine := lineSpan(node)
	field := &FieldDecl{
		Modifiers: modifiersOf(node),
		Type:      normalizeType(extractNodeText(node.ChildByFieldName("type"), source)),
		Names:     []string{},
		StartLine: startLine,
		EndLine:   endLine,
	}

	for _, declarator := range findChildrenByType(node, "variable_declarator") {
		if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
			field.Names = append(field.Names, extractNodeText(nameNode, source))
		}
	}
	return field
}

// parameters extracts formal parameters. Receiver parameters are skipped.
func (p *JavaParser) parameters(node *sitter.Node, source []byte) []Parameter {
	params := []Parameter{}
	if node == nil {
		return params
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "formal_parameter":
			typeNode := child.ChildByFieldName("type")
			param := Parameter{
				Type: normalizeType(extractNodeText(typeNode, source)),
				Name: extractNodeText(child.ChildByFieldName("name"), source),
			}
			if dims := child.ChildByFieldName("dimensions"); dims != nil {
				param.Type += compact(extractNodeText(dims, source))
			} else if typeNode != nil && typeNode.Kind() != "array_type" {
				param.Erasure = erasedType(typeNode, source)
			}
			params = append(params, param)
		case "spread_parameter":
			params = append(params, p.spreadParameter(child, source))
		}
	}
	return params
}

// spreadParameter extracts a varargs parameter. The grammar exposes no field
// names here, so the type is the first named child that is not a modifier list.
func (p *JavaParser) spreadParameter(node *sitter.Node, source []byte) Parameter {
	param := Parameter{VarArgs: true}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch {
		case child.Kind() == "variable_declarator":
			param.Name = extractNodeText(child.ChildByFieldName("name"), source)
		case !child.IsNamed(), child.Kind() == "modifiers", isComment(child):
			continue
		case param.Type == "":
			param.Type = normalizeType(extractNodeText(child, source))
		}
	}
	return param
}

// erasedType renders a class or interface type without the type arguments
// and annotations of its outermost part: "Map<String, Integer>" becomes "Map"
// and "Outer<T>.Inner<U>" becomes "Outer<T>.Inner".
func erasedType(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "annotated_type", "generic_type":
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			child := node.Child(uint(i))
			if child.IsNamed() && !isAnnotation(child) && child.Kind() != "type_arguments" && !isComment(child) {
				return erasedType(child, source)
			}
		}
	case "scoped_type_identifier":
		var b strings.Builder
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if isAnnotation(child) || isComment(child) {
				continue
			}
			b.WriteString(extractNodeText(child, source))
		}
		return normalizeType(b.String())
	}
	return normalizeType(extractNodeText(node, source))
}

func isAnnotation(node *sitter.Node) bool {
	kind := node.Kind()
	return kind == "annotation" || kind == "marker_annotation"
}

// modifiersOf returns the modifier keywords of a declaration node.
func modifiersOf(node *sitter.Node) Modifiers {
	mods := Modifiers{}
	modsNode := findChildByType(node, "modifiers")
	if modsNode == nil {
		return mods
	}

	for i := 0; i < int(modsNode.ChildCount()); i++ {
		child := modsNode.Child(uint(i))
		// Keywords are anonymous nodes; annotations are named.
		if !child.IsNamed() {
			mods = append(mods, child.Kind())
		}
	}
	return mods
}

// normalizeType collapses whitespace in a type so that equivalent spellings
// render the same: "Map< String,Integer >" becomes "Map<String, Integer>".
func normalizeType(text string) string {
	joined := strings.Join(strings.Fields(text), " ")

	var b strings.Builder
	for i := 0; i < len(joined); i++ {
		c := joined[i]
		if c == ' ' && (isTypePunct(joined[i-1]) || isTypePunct(joined[i+1])) {
			continue
		}
		b.WriteByte(c)
		if c == ',' {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isTypePunct(c byte) bool {
	return strings.IndexByte("<>[].,", c) >= 0
}

// compact removes all whitespace, e.g. "[ ] []" becomes "[][]".
func compact(text string) string {
	return strings.Join(strings.Fields(text), "")
}
