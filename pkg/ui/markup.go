package ui

import (
	"html"
	"regexp"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/ui/styles"
)

var (
	anchorRe = regexp.MustCompile(`(?is)<a\s+href=['"]([^'"]*)['"]\s*>(.*?)</a>`)
	boldRe   = regexp.MustCompile(`(?is)<b>(.*?)</b>`)
	italicRe = regexp.MustCompile(`(?is)<i>(.*?)</i>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
)

// RenderMarkup converts the notification markup (<b>, <i>, <a href>) to
// terminal output. FormatText strips the tags and keeps link targets.
func RenderMarkup(message string, format Format) string {
	styled := format == FormatTerminal

	out := anchorRe.ReplaceAllStringFunc(message, func(m string) string {
		parts := anchorRe.FindStringSubmatch(m)
		target, label := parts[1], tagRe.ReplaceAllString(parts[2], "")
		if strings.TrimPrefix(target, "file://") == label || target == label {
			return link(label, styled)
		}
		return label + " (" + link(target, styled) + ")"
	})
	out = boldRe.ReplaceAllStringFunc(out, func(m string) string {
		inner := boldRe.FindStringSubmatch(m)[1]
		if styled {
			return styles.GetStyle("Bold").Render(inner)
		}
		return inner
	})
	out = italicRe.ReplaceAllStringFunc(out, func(m string) string {
		inner := italicRe.FindStringSubmatch(m)[1]
		if styled {
			return styles.GetStyle("Italic").Render(inner)
		}
		return inner
	})
	out = tagRe.ReplaceAllString(out, "")
	return html.UnescapeString(out)
}

// StripMarkup removes all markup, for logs
func StripMarkup(message string) string {
	return RenderMarkup(message, FormatText)
}

func link(target string, styled bool) string {
	if styled {
		return styles.GetStyle("Link").Render(target)
	}
	return target
}
