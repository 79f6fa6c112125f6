package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fatih/color"
	"github.com/jaytaylor/html2text"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/danielolaszy/hubugs/pkg/models"
)

var foregrounds = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

var backgrounds = map[string]color.Attribute{
	"black":   color.BgBlack,
	"red":     color.BgRed,
	"green":   color.BgGreen,
	"yellow":  color.BgYellow,
	"blue":    color.BgBlue,
	"magenta": color.BgMagenta,
	"cyan":    color.BgCyan,
	"white":   color.BgWhite,
}

var styles = map[string]color.Attribute{
	"bold":      color.Bold,
	"faint":     color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,
	"blink":     color.BlinkSlow,
	"reverse":   color.ReverseVideo,
}

var markdownEngine = goldmark.New(goldmark.WithExtensions(extension.Linkify))

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"relative_time": r.relativeTime,
		"colourise":     r.colourise,
		"colorize":      r.colourise,
		"highlight":     r.highlight,
		"markdown":      Markdown,
		"html2text":     HTMLToText,
		"term_markdown": TermMarkdown,
		"indent":        indent,
		"truncate":      truncate,
		"pad":           pad,
		"join":          join,
		"labels":        labels,
		"date":          date,
	}
}

func (r *Renderer) relativeTime(v any) string {
	t, ok := asTime(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return RelativeTime(r.now(), t)
}

// colourise styles text with a space separated spec such as "bold red" or
// "white on_blue". Text is returned untouched when colour is disabled.
func (r *Renderer) colourise(spec string, text any) (string, error) {
	var attrs []color.Attribute
	for _, word := range strings.Fields(spec) {
		switch {
		case strings.HasPrefix(word, "on_"):
			a, ok := backgrounds[strings.TrimPrefix(word, "on_")]
			if !ok {
				return "", fmt.Errorf("unknown background colour %q", word)
			}
			attrs = append(attrs, a)
		case foregrounds[word] != 0:
			attrs = append(attrs, foregrounds[word])
		case styles[word] != 0:
			attrs = append(attrs, styles[word])
		default:
			return "", fmt.Errorf("unknown colour %q", word)
		}
	}

	s := fmt.Sprint(text)
	if !r.color {
		return s, nil
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s), nil
}

// highlight syntax highlights text, as a diff unless a lexer is named. An
// optional second argument selects the chroma formatter.
func (r *Renderer) highlight(v any, opts ...string) string {
	text := stringOf(v)
	if !r.color {
		return text
	}
	lexer, formatter := "diff", "terminal"
	if len(opts) > 0 && opts[0] != "" {
		lexer = opts[0]
	}
	if len(opts) > 1 && opts[1] != "" {
		formatter = opts[1]
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, text, lexer, formatter, "monokai"); err != nil {
		return text
	}
	return buf.String()
}

// Markdown converts Markdown to HTML. Raw HTML in the input is omitted.
func Markdown(text any) (string, error) {
	s := stringOf(text)
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(s), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// HTMLToText converts HTML to plain text.
func HTMLToText(html any) (string, error) {
	s, err := html2text.FromString(stringOf(html), html2text.Options{})
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(s), nil
}

// TermMarkdown renders Markdown for display on a terminal.
func TermMarkdown(text any) (string, error) {
	html, err := Markdown(text)
	if err != nil {
		return "", err
	}
	return HTMLToText(html)
}

// stringOf renders a bound value as text. Timestamps print as the string
// they were bound from.
func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// asTime accepts both bound timestamps and plain times.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case models.Timestamp:
		return t.Time, true
	}
	return time.Time{}, false
}

func indent(n int, v any) string {
	text := stringOf(v)
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(n int, v any) string {
	text := stringOf(v)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func pad(n int, v any) string {
	return fmt.Sprintf("%*s", n, stringOf(v))
}

func join(sep string, items any) string {
	switch v := items.(type) {
	case []string:
		return strings.Join(v, sep)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprint(items)
	}
}

// labels returns the comma separated label names of an issue.
func labels(issue any) (string, error) {
	rec, ok := issue.(models.Record)
	if !ok {
		return "", fmt.Errorf("labels: expected issue record, got %T", issue)
	}
	names, err := models.LabelNames(rec)
	if err != nil {
		return "", err
	}
	return strings.Join(names, ", "), nil
}

func date(v any) string {
	if t, ok := asTime(v); ok {
		return t.Format("2006-01-02")
	}
	return stringOf(v)
}
