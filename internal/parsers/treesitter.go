package parsers

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// parseTree parses source into a syntax tree. The caller owns the returned tree.
// A tree containing ERROR or MISSING nodes is rejected with a *SyntaxError.
func (p *treeSitterParser) parseTree(ctx context.Context, filePath string, source []byte) (*sitter.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &SyntaxError{FilePath: filePath, Line: 1, Column: 1, Detail: "parser produced no tree"}
	}

	root := tree.RootNode()
	if root.HasError() {
		err := newSyntaxError(filePath, root, source)
		tree.Close()
		return nil, err
	}

	return tree, nil
}

// newSyntaxError locates the first ERROR or MISSING node in document order.
func newSyntaxError(filePath string, root *sitter.Node, source []byte) *SyntaxError {
	var bad *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})

	if bad == nil {
		return &SyntaxError{FilePath: filePath, Line: 1, Column: 1, Detail: "source contains syntax errors"}
	}

	detail := fmt.Sprintf("unexpected %q", snippet(extractNodeText(bad, source)))
	if bad.IsMissing() {
		detail = fmt.Sprintf("missing %q", bad.Kind())
	}

	pos := bad.StartPosition()
	return &SyntaxError{
		FilePath: filePath,
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
		Detail:   detail,
	}
}

// snippet shortens erroneous source text for error messages.
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > 24 {
		return text[:24] + "..."
	}
	return text
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

// lineSpan returns the 1-indexed start and end lines of a node.
func lineSpan(node *sitter.Node) (int, int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// isComment reports whether the node is a comment extra.
func isComment(node *sitter.Node) bool {
	kind := node.Kind()
	return kind == "line_comment" || kind == "block_comment" || kind == "comment"
}
