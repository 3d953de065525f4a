// Package fence locates, parses and replaces fenced code blocks in Markdown text.
package fence

import (
	"errors"
	"regexp"
	"strings"
)

// Marker opens and closes every fence.
const Marker = "```"

// The closing marker is the nearest one following the opening line.
var reFence = regexp.MustCompile("```[a-z]*\n[\\s\\S]*?\n```")

// Fence is a located code block: the span [Start, End) of a single document
// snapshot and the matched text, delimiters included.
type Fence struct {
	Start int
	End   int
	Text  string
}

// Block is the parsed content of a Fence.
type Block struct {
	Lang string
	Code string
}

// ErrStaleFence is returned by [Rewrite] when the fence span no longer matches
// the document it is applied to.
var ErrStaleFence = errors.New("fence does not belong to this document")

// Locate returns the first fence of doc, scanning from the start.
func Locate(doc string) (Fence, bool) {
	loc := reFence.FindStringIndex(doc)
	if loc == nil {
		return Fence{}, false
	}

	return Fence{Start: loc[0], End: loc[1], Text: doc[loc[0]:loc[1]]}, true
}

// All returns every fence of doc in discovery order, with offsets relative to
// doc itself. It is the sequence [Locate] yields when each fence is replaced by
// text that contains no marker.
func All(doc string) []Fence {
	locs := reFence.FindAllStringIndex(doc, -1)

	fences := make([]Fence, 0, len(locs))
	for _, loc := range locs {
		fences = append(fences, Fence{Start: loc[0], End: loc[1], Text: doc[loc[0]:loc[1]]})
	}

	return fences
}

// Parse splits a fence into its language tag and code body. The first line
// after stripping the markers is the language; the remaining lines, rejoined,
// are the code.
func Parse(fence Fence) Block {
	text := strings.ReplaceAll(fence.Text, Marker, "")
	lines := strings.Split(text, "\n")

	return Block{
		Lang: strings.TrimSpace(lines[0]),
		Code: strings.Join(lines[1:], "\n"),
	}
}

// Rewrite returns doc with the span of fence replaced by token. Text outside
// the span is left untouched.
func Rewrite(doc string, fence Fence, token string) (string, error) {
	if fence.Start < 0 || fence.End > len(doc) || fence.Start >= fence.End ||
		doc[fence.Start:fence.End] != fence.Text {
		return "", ErrStaleFence
	}

	var res strings.Builder

	res.Grow(len(doc) - (fence.End - fence.Start) + len(token))
	res.WriteString(doc[:fence.Start])
	res.WriteString(token)
	res.WriteString(doc[fence.End:])

	return res.String(), nil
}

// Line returns the 1-based line number of offset in doc.
func Line(doc string, offset int) int {
	if offset > len(doc) {
		offset = len(doc)
	}

	return strings.Count(doc[:offset], "\n") + 1
}
