// Package glossary reads the regulatory glossary and renders the markdown
// used by glossary definitions and training content.
//
// A glossary file is markdown with one level-2 heading per term:
//
//	## Deployer
//	Article: Art. 3(4)
//	Category: actors
//
//	A natural or legal person ... using an AI system under its authority.
//
// The Article and Category lines are optional.
package glossary

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Entry is one glossary term.
type Entry struct {
	Term       string `json:"term" yaml:"term"`
	Article    string `json:"article,omitempty" yaml:"article,omitempty"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	Definition string `json:"definition" yaml:"definition"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Parse extracts the entries of a glossary document. Text before the
// first term heading is ignored. Duplicate terms are an error.
func Parse(source []byte) ([]Entry, error) {
	doc := markdown.Parser().Parse(text.NewReader(source))

	type headingInfo struct {
		term         string
		lineStart    int
		contentStart int
	}
	var headings []headingInfo

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		lines := heading.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		start := lines.At(0).Start
		headings = append(headings, headingInfo{
			term:         strings.TrimSpace(headingText(heading, source)),
			lineStart:    bytes.LastIndexByte(source[:start], '\n') + 1,
			contentStart: lines.At(lines.Len() - 1).Stop,
		})
		return ast.WalkSkipChildren, nil
	})

	seen := make(map[string]bool)
	entries := make([]Entry, 0, len(headings))
	for i, h := range headings {
		if h.term == "" {
			return nil, fmt.Errorf("empty term heading at byte %d", h.lineStart)
		}
		key := strings.ToLower(h.term)
		if seen[key] {
			return nil, fmt.Errorf("duplicate term %q", h.term)
		}
		seen[key] = true

		end := len(source)
		if i+1 < len(headings) {
			end = headings[i+1].lineStart
		}
		body := ""
		if h.contentStart < end {
			body = string(source[h.contentStart:end])
		}

		entry := Entry{Term: h.term}
		entry.Article, entry.Category, entry.Definition = splitMetadata(body)
		if entry.Definition == "" {
			return nil, fmt.Errorf("term %q has no definition", h.term)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// splitMetadata consumes leading "Article:" and "Category:" lines.
func splitMetadata(body string) (article, category, definition string) {
	scanner := bufio.NewScanner(strings.NewReader(strings.TrimLeft(body, "\r\n")))
	var rest []string
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if header {
			trimmed := strings.TrimSpace(line)
			switch {
			case hasPrefixFold(trimmed, "article:"):
				article = strings.TrimSpace(trimmed[len("article:"):])
				continue
			case hasPrefixFold(trimmed, "category:"):
				category = strings.TrimSpace(trimmed[len("category:"):])
				continue
			}
			header = false
		}
		rest = append(rest, line)
	}
	return article, category, strings.TrimSpace(strings.Join(rest, "\n"))
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		if s, ok := n.(*ast.String); ok && entering {
			buf.Write(s.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// RenderHTML converts markdown to HTML. Raw HTML in the input is omitted.
func RenderHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
