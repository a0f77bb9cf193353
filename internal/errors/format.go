package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette colors the parts of a printed error.
type palette struct {
	label func(a ...any) string
	text  func(a ...any) string
	usage func(a ...any) string
	hint  func(a ...any) string
}

var (
	colored = palette{
		label: color.New(color.FgRed, color.Bold).SprintFunc(),
		text:  color.New(color.FgRed).SprintFunc(),
		usage: color.New(color.FgCyan, color.Bold).SprintFunc(),
		hint:  color.New(color.FgYellow).SprintFunc(),
	}
	monochrome = palette{label: fmt.Sprint, text: fmt.Sprint, usage: fmt.Sprint, hint: fmt.Sprint}
)

// Format renders err as printed on stderr:
//
//	repository error: not a git repository: /tmp/x
//
//	hint: Run git-changelog inside a git working tree
//
// A usage line, when set, sits between the message and the hints.
func Format(err *CLIError, plain bool) string {
	if err == nil {
		return ""
	}
	p := colored
	if plain {
		p = monochrome
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", p.label(err.Category.String()+" error:"), p.text(err.Message))
	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s %s\n", p.usage("usage:"), err.Usage)
	}
	if len(err.Hints) > 0 {
		b.WriteString("\n")
		for _, h := range err.Hints {
			fmt.Fprintf(&b, "%s %s\n", p.hint("hint:"), h)
		}
	}
	return b.String()
}

// Fprint writes the rendering of err to w.
func Fprint(w io.Writer, err *CLIError, plain bool) {
	io.WriteString(w, Format(err, plain))
}
