package changelog

import "strings"

// prefixRule maps a lowercase subject prefix to a category.
type prefixRule struct {
	prefix string
	change ChangeType
}

// prefixRules are checked in order; the first match wins. "maintain" comes
// first so maintenance commits never land in a real category.
var prefixRules = []prefixRule{
	{"maintain", Ignored},
	{"add", Added},
	{"change", Changed},
	{"deprecate", Deprecated},
	{"remove", Removed},
	{"fix", Fixed},
	{"secure", Security},
}

// Classify maps a commit subject to its category using a case-insensitive
// prefix test. Subjects matching no rule are Unclassified.
func Classify(subject string) ChangeType {
	lower := strings.ToLower(subject)
	for _, rule := range prefixRules {
		if strings.HasPrefix(lower, rule.prefix) {
			return rule.change
		}
	}
	return Unclassified
}
