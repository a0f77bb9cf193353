// Package catalog provides the message catalogs used to present a changelog.
// Each catalog maps a message key (e.g. "added.title") to a text/template.
// Built-in locales are embedded at build time; a user catalog file can
// override any subset of keys on top of a built-in locale.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/avdw/git-changelog/internal/changelog"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var locales embed.FS

// UnknownLocaleError is returned when a requested locale is not embedded.
type UnknownLocaleError struct {
	Locale    string
	Available []string
}

func (e *UnknownLocaleError) Error() string {
	return fmt.Sprintf("unknown locale %q (available: %s)", e.Locale, strings.Join(e.Available, ", "))
}

// MissingKeyError is returned when a catalog lacks required message keys.
type MissingKeyError struct {
	Source string
	Keys   []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing message keys: %s", e.Source, strings.Join(e.Keys, ", "))
}

// file is the on-disk catalog format.
type file struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog renders message keys with compiled templates. It implements
// changelog.Presenter.
type Catalog struct {
	Locale    string
	templates map[string]*template.Template
}

// Locales returns the names of the embedded locales, sorted.
func Locales() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Load returns the embedded catalog for locale. Every message key must be
// present.
func Load(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	data, err := locales.ReadFile(path.Join("locales", locale+".yaml"))
	if err != nil {
		return nil, &UnknownLocaleError{Locale: locale, Available: Locales()}
	}

	c := &Catalog{Locale: locale, templates: make(map[string]*template.Template)}
	if err := c.merge(bytes.NewReader(data), "locale "+locale); err != nil {
		return nil, err
	}
	if err := c.checkComplete("locale " + locale); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads a user catalog from path on top of the embedded fallback
// locale. Keys missing from the file keep their fallback text.
func LoadFile(filePath, fallback string) (*Catalog, error) {
	c, err := Load(fallback)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	if err := c.merge(f, filePath); err != nil {
		return nil, err
	}
	return c, nil
}

// merge parses a catalog document and compiles its messages into c,
// replacing any existing templates with the same key.
func (c *Catalog) merge(r io.Reader, source string) error {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return fmt.Errorf("parsing catalog %s: %w", source, err)
	}

	for key, text := range doc.Messages {
		tmpl, err := template.New(key).Option("missingkey=default").Parse(text)
		if err != nil {
			return fmt.Errorf("compiling message %q in %s: %w", key, source, err)
		}
		c.templates[key] = tmpl
	}

	if doc.Locale != "" {
		c.Locale = doc.Locale
	}
	return nil
}

// checkComplete verifies every key changelog rendering needs is present.
func (c *Catalog) checkComplete(source string) error {
	var missing []string
	for _, key := range changelog.Keys() {
		if _, ok := c.templates[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeyError{Source: source, Keys: missing}
	}
	return nil
}

// Render executes the template for key with data as its context.
func (c *Catalog) Render(key string, data any) (string, error) {
	tmpl, ok := c.templates[key]
	if !ok {
		return "", fmt.Errorf("unknown message key %q", key)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing message %q: %w", key, err)
	}
	return b.String(), nil
}
