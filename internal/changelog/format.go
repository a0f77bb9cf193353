package changelog

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[ChangeType]CategoryStyle{
	Added:        {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:      {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated:   {Color: color.New(color.FgRed), Icon: "⚠"},
	Removed:      {Color: color.New(color.FgRed), Icon: "✗"},
	Fixed:        {Color: color.New(color.FgYellow), Icon: "⚡"},
	Security:     {Color: color.New(color.FgMagenta), Icon: "🔒"},
	Ignored:      {Color: color.New(color.Faint), Icon: "·"},
	Unclassified: {Color: color.New(color.FgWhite), Icon: "?"},
}

var (
	releaseStyle = color.New(color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors, icons and wrapping
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// styleTitle colors a category title and prefixes its icon.
func styleTitle(t ChangeType, title string, opts FormatOptions) string {
	if opts.Plain {
		return title
	}
	style := categoryStyles[t]
	lead, body := splitLeadingNewlines(title)
	return lead + style.Color.Sprint(style.Icon+" "+body)
}

// styleItem wraps a line item to the terminal width and colors it.
func styleItem(t ChangeType, item string, opts FormatOptions, width int) string {
	if opts.Plain {
		return item
	}
	style := categoryStyles[t]
	return style.Color.Sprint(wrapText(item, width, "    "))
}

func styleRelease(text string, opts FormatOptions) string {
	if opts.Plain {
		return text
	}
	lead, body := splitLeadingNewlines(text)
	return lead + releaseStyle.Sprint(body)
}

func styleWarning(text string, opts FormatOptions) string {
	if opts.Plain {
		return text
	}
	lead, body := splitLeadingNewlines(text)
	return lead + warningStyle.Sprint(body)
}

// splitLeadingNewlines separates catalog spacing from the styled text so
// color codes never wrap blank lines.
func splitLeadingNewlines(s string) (string, string) {
	body := strings.TrimLeft(s, "\n")
	return s[:len(s)-len(body)], body
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth terminal columns, using indent
// for continuation lines. Lines break at the last space that fits, or between
// runes when there is none; wide runes count as two columns.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || runewidth.StringWidth(text) <= maxWidth || strings.Contains(text, "\n") {
		return text
	}

	var lines []string
	remaining := text

	for runewidth.StringWidth(remaining) > maxWidth {
		cut, space := lineBreak(remaining, maxWidth)
		if space > 0 {
			cut = space
		}
		lines = append(lines, remaining[:cut])
		remaining = strings.TrimLeft(remaining[cut:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// lineBreak returns the byte offset where the runes fitting in maxWidth
// columns end, and the offset of the last space before it (0 if none). At
// least one rune is always taken.
func lineBreak(s string, maxWidth int) (cut, space int) {
	width := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if width+w > maxWidth {
			if i == 0 {
				_, size := utf8.DecodeRuneInString(s)
				return size, 0
			}
			return i, space
		}
		if r == ' ' && i > 0 {
			space = i
		}
		width += w
	}
	return len(s), space
}
