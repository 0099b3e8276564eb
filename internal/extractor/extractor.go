package extractor

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// LanguageExtractor turns a parsed tree into declarations for one language.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	Extract(root *sitter.Node, sourceCode []byte, filepath string) *FileUnit
}

// Extractor orchestrates parsing and extraction for a language.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "csharp", "cs", "c#":
		langExt = &CSharpExtractor{}
		lang = "csharp"
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// Language returns the canonical language name.
func (e *Extractor) Language() string {
	return e.langName
}

// ExtractFromFile reads and parses a single source file.
func (e *Extractor) ExtractFromFile(filepath string) (*FileUnit, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return e.ExtractFromSource(context.Background(), filepath, sourceCode)
}

// ExtractFromSource parses sourceCode as if it were read from filepath.
func (e *Extractor) ExtractFromSource(ctx context.Context, filepath string, sourceCode []byte) (*FileUnit, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filepath, err)
	}
	defer tree.Close()

	unit := e.langExtractor.Extract(tree.RootNode(), sourceCode, filepath)
	unit.Document.Source = sourceCode
	for _, t := range unit.Types {
		t.ID = BuildStableTypeID(e.langName, t)
	}
	return unit, nil
}
