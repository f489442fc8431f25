// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockTags end a line when rendered as text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// HTMLToText renders an HTML fragment as plain text. List items get a
// bullet, block elements end a line, runs of blank lines collapse. Text
// without any markup is returned trimmed but otherwise unchanged.
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var b strings.Builder
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		writeNode(&b, s)
	})
	return collapseBlankLines(b.String())
}

func writeNode(b *strings.Builder, s *goquery.Selection) {
	name := goquery.NodeName(s)
	switch name {
	case "#text":
		b.WriteString(strings.Join(strings.Fields(s.Text()), " "))
		if t := s.Text(); len(t) > 0 && (t[len(t)-1] == ' ' || t[len(t)-1] == '\n') {
			b.WriteByte(' ')
		}
		return
	case "script", "style":
		return
	case "br":
		b.WriteByte('\n')
		return
	case "li":
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
	}

	s.Contents().Each(func(_ int, c *goquery.Selection) {
		writeNode(b, c)
	})

	if blockTags[name] {
		b.WriteByte('\n')
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
