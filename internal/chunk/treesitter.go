package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var pythonLanguage = sitter.NewLanguage(python.Language())

// pythonBoundaryLines returns the 0-indexed line numbers where a top-level
// function or class definition starts, parsed with tree-sitter rather than
// the regex pattern. When parsing fails for any reason, callers fall back
// to the regex boundary detector — this is a precision enrichment, not a
// requirement.
func pythonBoundaryLines(content []byte) ([]int, bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(pythonLanguage); err != nil {
		return nil, false
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, false
	}

	var lines []int
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_definition", "class_definition", "decorated_definition":
			lines = append(lines, int(child.StartPosition().Row))
		}
	}
	return lines, true
}
