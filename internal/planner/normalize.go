package planner

import "recode/internal/language"

// normalizeLanguage rewrites placeholder and legacy language tags. It
// returns the language to use and whether a rewrite happened.
func normalizeLanguage(current, target string) (string, bool) {
	switch {
	case language.IsLegacy(current):
		return language.Canonical(current), true
	case language.IsPlaceholder(current):
		replacement := language.Canonical(target)
		return replacement, replacement != current
	default:
		return current, false
	}
}

// languageSet is the admission filter for one kind.
type languageSet map[string]struct{}

func newLanguageSet(target string, allowed []string) languageSet {
	set := languageSet{"": {}, language.Undetermined: {}}
	set[language.Canonical(target)] = struct{}{}
	for _, code := range language.NormalizeList(allowed) {
		set[code] = struct{}{}
		set[language.Canonical(code)] = struct{}{}
	}
	return set
}

func (s languageSet) admits(code string) bool {
	_, ok := s[code]
	return ok
}
