package changelog

import (
	"fmt"
	"io"
	"strings"
)

// Presenter message keys. Category titles use TitleKey.
const (
	KeyLineItem     = "line.item"
	KeyReleaseTitle = "release.title"
	KeyNoChange     = "no.change"
	KeyNonStandard  = "none.standard.changelog"
)

// Presenter turns a message key and its context into display text.
type Presenter interface {
	Render(key string, data any) (string, error)
}

// TitleKey returns the message key for a category title, e.g. "added.title".
func TitleKey(t ChangeType) string {
	return t.String() + ".title"
}

// Keys returns every message key a Presenter must support.
func Keys() []string {
	keys := make([]string, 0, len(AllTypes())+4)
	for _, t := range AllTypes() {
		keys = append(keys, TitleKey(t))
	}
	return append(keys, KeyLineItem, KeyReleaseTitle, KeyNoChange, KeyNonStandard)
}

// ReleaseData is the context passed to the release title message.
type ReleaseData struct {
	Version   string
	Type      string
	Bump      string
	Recommend bool
	Date      string
}

// NewReleaseData converts a descriptor into template context.
func NewReleaseData(r ReleaseDescriptor) ReleaseData {
	return ReleaseData{
		Version:   r.Version.String(),
		Type:      r.Type,
		Bump:      r.Bump.String(),
		Recommend: r.Recommend,
		Date:      r.DateString(),
	}
}

// Render writes the plan through the presenter. Ignored and Unclassified
// sections are followed by a blank line to set them apart from the release.
func Render(plan RenderPlan, p Presenter, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for _, s := range plan.Sections {
		if err := renderSection(s, p, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// RenderString is a convenience function that renders to a string.
func RenderString(plan RenderPlan, p Presenter, opts FormatOptions) (string, error) {
	var b strings.Builder
	if err := Render(plan, p, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderSection(s Section, p Presenter, w io.Writer, opts FormatOptions, width int) error {
	switch s.Kind {
	case SectionNoChange:
		return renderMessage(KeyNoChange, nil, p, w)
	case SectionNonStandard:
		text, err := present(p, KeyNonStandard, nil)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, styleWarning(text, opts))
		return err
	case SectionRelease:
		if s.Release == nil {
			return fmt.Errorf("release section without descriptor")
		}
		text, err := present(p, KeyReleaseTitle, NewReleaseData(*s.Release))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, styleRelease(text, opts))
		return err
	case SectionCategory:
		return renderCategory(s.Type, s.Commits, p, w, opts, width)
	default:
		return fmt.Errorf("unknown section kind %d", s.Kind)
	}
}

// renderCategory writes a category title followed by one line per commit.
func renderCategory(t ChangeType, commits []Commit, p Presenter, w io.Writer, opts FormatOptions, width int) error {
	title, err := present(p, TitleKey(t), nil)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, styleTitle(t, title, opts)); err != nil {
		return err
	}

	for _, c := range commits {
		item, err := present(p, KeyLineItem, c.Data())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, styleItem(t, item, opts, width)); err != nil {
			return err
		}
	}

	if !t.IsStandard() {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

func renderMessage(key string, data any, p Presenter, w io.Writer) error {
	text, err := present(p, key, data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func present(p Presenter, key string, data any) (string, error) {
	text, err := p.Render(key, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", key, err)
	}
	return text, nil
}
