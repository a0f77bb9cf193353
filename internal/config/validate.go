package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError is a configuration problem. Syntax errors carry the line
// of the offending file; value errors carry the config key.
type ValidationError struct {
	Source string // file path, or "config" for the merged layers
	Line   int
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("%s: %s %s", e.Source, e.Key, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
}

// yamlLine matches the position prefix of yaml.v3 syntax errors.
var yamlLine = regexp.MustCompile(`^yaml: line (\d+): (.+)$`)

// CheckSyntax parses the YAML file at path without decoding it into the
// configuration. Missing and blank files are valid; they leave the defaults.
func CheckSyntax(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ValidationError{Source: path, Reason: err.Error()}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var doc yaml.Node
	err = yaml.Unmarshal(data, &doc)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Source: path, Reason: strings.Join(typeErr.Errors, "; ")}
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &ValidationError{Source: path, Line: line, Reason: m[2]}
	}
	return &ValidationError{Source: path, Reason: strings.TrimPrefix(err.Error(), "yaml: ")}
}

// validate checks Configuration struct tags. Field names in errors are the
// koanf keys, so a failure reads "labels.patch" rather than "Labels.Patch".
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		return name
	})
	// Branch names are passed to git as a single revision.
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// CheckValues validates the merged configuration. source names where the
// values came from in the returned error.
func CheckValues(cfg *Configuration, source string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Source: source, Reason: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{Source: source, Key: configKey(fe), Reason: reason(fe)}
}

// configKey drops the root struct name from a namespace such as
// "Configuration.labels.patch".
func configKey(fe validator.FieldError) string {
	_, key, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return key
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "nospace":
		return "must not contain whitespace"
	case "file":
		return fmt.Sprintf("names a file that does not exist (%q)", fe.Value())
	default:
		return fmt.Sprintf("fails the %q rule", fe.Tag())
	}
}
