package workspace

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const (
	noDescription        = "No description"
	maxFallbackDescRunes = 100
)

var markdown = goldmark.New(goldmark.WithExtensions(meta.Meta))

// frontmatter returns the YAML front matter of a markdown document, or nil
// when it has none or it cannot be parsed.
func frontmatter(content []byte) map[string]interface{} {
	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := markdown.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil
	}
	data, err := meta.TryGet(pctx)
	if err != nil {
		return nil
	}
	return data
}

// describe picks a display description: the front matter description, or
// the first line of prose, or a placeholder.
func describe(content []byte) string {
	if fm := frontmatter(content); fm != nil {
		if v, ok := fm["description"]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}

	lines := strings.Split(string(content), "\n")
	start := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				start = i + 1
				break
			}
		}
	}

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "---") {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > maxFallbackDescRunes {
			runes = runes[:maxFallbackDescRunes]
		}
		return string(runes)
	}
	return noDescription
}
