package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// VerifyTOC parses a report and returns the in-page link targets ("#...")
// that match no heading anchor. "#" and "#contents" style back links are
// checked like any other target.
func VerifyTOC(md []byte) []string {
	root := goldmark.New().Parser().Parse(text.NewReader(md))

	anchors := map[string]bool{"": true}
	var targets []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			anchors[textutil.Anchor(nodeText(n, md))] = true
		case *ast.Link:
			if dest := string(n.Destination); strings.HasPrefix(dest, "#") {
				targets = append(targets, dest)
			}
		}
		return ast.WalkContinue, nil
	})

	var missing []string
	for _, t := range targets {
		if !anchors[strings.TrimPrefix(t, "#")] {
			missing = append(missing, t)
		}
	}
	return missing
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// HTML converts a report to HTML. Raw HTML blocks of the report are kept.
func HTML(md []byte) ([]byte, error) {
	conv := goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))
	var buf bytes.Buffer
	if err := conv.Convert(md, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert markdown")
	}
	return buf.Bytes(), nil
}
