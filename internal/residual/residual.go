// Package residual reports fenced code blocks that survive a conversion, such
// as tilde fences or fences whose info string is not a lowercase word.
package residual

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var reInfo = regexp.MustCompile(`^\s*(\S+)`)

// Block is a fenced code block left in a document. StartLine is the line of
// the opening fence and EndLine that of the closing one.
type Block struct {
	Lang      string
	StartLine int
	EndLine   int
}

// Find parses a Markdown document and returns every fenced code block in it.
func Find(source []byte) ([]Block, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []Block

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}

		start, end := span(fcb, source)
		blocks = append(blocks, Block{Lang: language(fcb, source), StartLine: start, EndLine: end})

		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func language(fcb *ast.FencedCodeBlock, source []byte) string {
	if fcb.Info == nil {
		return ""
	}

	if subs := reInfo.FindSubmatch(fcb.Info.Text(source)); subs != nil {
		return string(subs[1])
	}

	return ""
}

// span returns the lines of the opening and closing fences. goldmark keeps
// segments for the info string and the body only, so the fences are derived
// from them.
func span(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	body := fcb.Lines()

	var open int

	switch {
	case fcb.Info != nil:
		open = line(source, fcb.Info.Segment.Start)
	case body.Len() > 0:
		open = line(source, body.At(0).Start) - 1
	default:
		return 0, 0
	}

	if body.Len() == 0 {
		return open, open + 1
	}

	return open, line(source, body.At(body.Len()-1).Stop)
}

// line returns the 1-based line holding offset.
func line(source []byte, offset int) int {
	return bytes.Count(source[:min(offset, len(source))], []byte{'\n'}) + 1
}
