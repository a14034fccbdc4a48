package fence

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is a fenced code block found in markdown content.
type CodeBlock struct {
	// Lang is the info string of the opening fence (e.g. "text").
	Lang string
	// Content is the raw text between the fences.
	Content string
}

// CodeBlocks uses a markdown AST to find all fenced code blocks in source.
func CodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fenced.Info != nil {
			block.Lang = string(fenced.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ExtractBlock returns the content of the single fenced code block that
// models sometimes wrap in prose ("Here is your commit message: ...").
// It reports false when raw already starts with a fence, since Strip
// handles that case, or when there is not exactly one block.
func ExtractBlock(raw string) (string, bool) {
	if strings.HasPrefix(strings.TrimSpace(raw), Marker) {
		return "", false
	}

	blocks, err := CodeBlocks([]byte(raw))
	if err != nil || len(blocks) != 1 {
		return "", false
	}

	content := strings.TrimSpace(blocks[0].Content)
	if content == "" {
		return "", false
	}
	return content, true
}
